package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameTeamInvalid    = errors.New("game team conflict or invalid")
	ErrGameInningsInvalid = errors.New("game innings outside allowed range")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id int) error
	CompletePastGames(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "games_team_id_fkey" {
				return ErrGameTeamInvalid
			}
		case "23514": // check_violation
			if pqErr.Constraint == "games_innings_check" {
				return ErrGameInningsInvalid
			}
		}
	}
	return err
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (team_id, opponent, game_time, innings, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.TeamID,
		game.Opponent,
		game.GameTime,
		game.Innings,
		game.Status,
	).Scan(&game.ID, &game.CreatedAt)

	if err != nil {
		if mapped := r.handleGameError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, team_id, opponent, game_time, innings, status, created_at
		FROM games WHERE id = $1`

	g := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.TeamID, &g.Opponent, &g.GameTime, &g.Innings, &g.Status, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

func (r *postgresGameRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Game, error) {
	query := `
		SELECT id, team_id, opponent, game_time, innings, status, created_at
		FROM games WHERE team_id = $1 ORDER BY game_time ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by team: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.ID, &g.TeamID, &g.Opponent, &g.GameTime, &g.Innings, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET opponent = $1, game_time = $2, innings = $3, status = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		game.Opponent, game.GameTime, game.Innings, game.Status, game.ID,
	)
	if err != nil {
		if mapped := r.handleGameError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update game: %w", err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// CompletePastGames переводит запланированные игры с прошедшим временем в
// статус completed. Используется фоновым планировщиком.
func (r *postgresGameRepository) CompletePastGames(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE games SET status = $1 WHERE status = $2 AND game_time < $3`
	result, err := r.db.ExecContext(ctx, query, models.GameStatusCompleted, models.GameStatusScheduled, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past games: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows for past games: %w", err)
	}
	return affected, nil
}

func (r *postgresGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

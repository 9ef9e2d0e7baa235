package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benchboss/lineup-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerNumberConflict = errors.New("jersey number already taken on this team")
	ErrPlayerTeamInvalid    = errors.New("player team conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "players_team_id_jersey_number_key" {
				return ErrPlayerNumberConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerTeamInvalid
			}
		}
	}
	return err
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, name, jersey_number, can_play_catcher)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.TeamID,
		player.Name,
		player.JerseyNumber,
		player.CanPlayCatcher,
	).Scan(&player.ID, &player.CreatedAt)

	if err != nil {
		if mapped := r.handlePlayerError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, team_id, name, jersey_number, can_play_catcher, photo_key, created_at
		FROM players WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.CanPlayCatcher, &p.PhotoKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// ListByTeam возвращает игроков в порядке возрастания id: на этом порядке
// держится детерминизм генератора расстановок.
func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, team_id, name, jersey_number, can_play_catcher, photo_key, created_at
		FROM players WHERE team_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players by team: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &p.CanPlayCatcher, &p.PhotoKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET name = $1, jersey_number = $2, can_play_catcher = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query,
		player.Name, player.JerseyNumber, player.CanPlayCatcher, player.ID,
	)
	if err != nil {
		if mapped := r.handlePlayerError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update player: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update player photo key: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// Delete удаляет игрока из ростера. Исторические записи расстановок и
// порядков отбивания остаются (аналитика по прошедшим играм сохраняется).
func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

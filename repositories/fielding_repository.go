package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benchboss/lineup-system/models"
)

var ErrFieldingAssignmentNotFound = errors.New("fielding assignment not found")

type FieldingRepository interface {
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.FieldingAssignment, error)
	ListByGameInning(ctx context.Context, exec SQLExecutor, gameID, inning int) ([]*models.FieldingAssignment, error)
	// LockGameInning сериализует правки одного иннинга: advisory-лок по паре
	// (game, inning) держится до конца транзакции, конкурирующий assign ждёт.
	LockGameInning(ctx context.Context, exec SQLExecutor, gameID, inning int) error
	// Upsert пишет одну ячейку (inning, player) -> position. Вызывается только
	// внутри транзакции вместе с проверкой конфликтов.
	Upsert(ctx context.Context, exec SQLExecutor, a *models.FieldingAssignment) error
	// ReplaceInning атомарно заменяет расстановку одного иннинга.
	ReplaceInning(ctx context.Context, exec SQLExecutor, gameID, inning int, assignments []*models.FieldingAssignment) error
	// ReplaceGame атомарно заменяет расстановку всей игры (для generate).
	ReplaceGame(ctx context.Context, exec SQLExecutor, gameID int, assignments []*models.FieldingAssignment) error
	ListByTeam(ctx context.Context, teamID int) ([]*models.FieldingAssignment, error)
	Count(ctx context.Context) (int, error)
}

type postgresFieldingRepository struct {
	db *sql.DB
}

func NewPostgresFieldingRepository(db *sql.DB) FieldingRepository {
	return &postgresFieldingRepository{db: db}
}

func (r *postgresFieldingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fieldingColumns = `id, game_id, inning, player_id, position, created_at`

func (r *postgresFieldingRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.FieldingAssignment, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fielding assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.FieldingAssignment, 0)
	for rows.Next() {
		var a models.FieldingAssignment
		if err := rows.Scan(&a.ID, &a.GameID, &a.Inning, &a.PlayerID, &a.Position, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fielding assignment row: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fielding assignment rows: %w", err)
	}
	return assignments, nil
}

func (r *postgresFieldingRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.FieldingAssignment, error) {
	query := `SELECT ` + fieldingColumns + ` FROM fielding_assignments
		WHERE game_id = $1 ORDER BY inning ASC, player_id ASC`
	return r.list(ctx, exec, query, gameID)
}

func (r *postgresFieldingRepository) ListByGameInning(ctx context.Context, exec SQLExecutor, gameID, inning int) ([]*models.FieldingAssignment, error) {
	query := `SELECT ` + fieldingColumns + ` FROM fielding_assignments
		WHERE game_id = $1 AND inning = $2 ORDER BY player_id ASC`
	return r.list(ctx, exec, query, gameID, inning)
}

func (r *postgresFieldingRepository) LockGameInning(ctx context.Context, exec SQLExecutor, gameID, inning int) error {
	// Лок транзакционный: снимается сам на commit/rollback.
	if _, err := r.getExecutor(exec).ExecContext(ctx,
		`SELECT pg_advisory_xact_lock($1, $2)`, gameID, inning); err != nil {
		return fmt.Errorf("failed to lock game %d inning %d: %w", gameID, inning, err)
	}
	return nil
}

func (r *postgresFieldingRepository) Upsert(ctx context.Context, exec SQLExecutor, a *models.FieldingAssignment) error {
	query := `
		INSERT INTO fielding_assignments (game_id, inning, player_id, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, inning, player_id)
		DO UPDATE SET position = EXCLUDED.position
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		a.GameID, a.Inning, a.PlayerID, a.Position,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert fielding assignment: %w", err)
	}
	return nil
}

func (r *postgresFieldingRepository) ReplaceInning(ctx context.Context, exec SQLExecutor, gameID, inning int, assignments []*models.FieldingAssignment) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM fielding_assignments WHERE game_id = $1 AND inning = $2`, gameID, inning); err != nil {
		return fmt.Errorf("failed to clear inning %d for game %d: %w", inning, gameID, err)
	}
	return r.insertAll(ctx, executor, assignments)
}

func (r *postgresFieldingRepository) ReplaceGame(ctx context.Context, exec SQLExecutor, gameID int, assignments []*models.FieldingAssignment) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM fielding_assignments WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear fielding assignments for game %d: %w", gameID, err)
	}
	return r.insertAll(ctx, executor, assignments)
}

func (r *postgresFieldingRepository) insertAll(ctx context.Context, executor SQLExecutor, assignments []*models.FieldingAssignment) error {
	query := `
		INSERT INTO fielding_assignments (game_id, inning, player_id, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	for _, a := range assignments {
		if err := executor.QueryRowContext(ctx, query, a.GameID, a.Inning, a.PlayerID, a.Position).Scan(&a.ID, &a.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert fielding assignment (game %d, inning %d, player %d): %w",
				a.GameID, a.Inning, a.PlayerID, err)
		}
	}
	return nil
}

// ListByTeam возвращает все исторические расстановки команды, сырьё для
// аналитики и базовых линий генератора.
func (r *postgresFieldingRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.FieldingAssignment, error) {
	query := `
		SELECT f.id, f.game_id, f.inning, f.player_id, f.position, f.created_at
		FROM fielding_assignments f
		JOIN games g ON f.game_id = g.id
		WHERE g.team_id = $1
		ORDER BY f.game_id ASC, f.inning ASC, f.player_id ASC`
	return r.list(ctx, nil, query, teamID)
}

func (r *postgresFieldingRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fielding_assignments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fielding assignments: %w", err)
	}
	return count, nil
}

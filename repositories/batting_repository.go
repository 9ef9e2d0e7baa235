package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benchboss/lineup-system/models"
)

var ErrBattingOrderNotFound = errors.New("batting order not found")

type BattingOrderRepository interface {
	// ReplaceForGame атомарно заменяет порядок отбивания игры: старые записи
	// удаляются и вставляются новые внутри переданной транзакции.
	ReplaceForGame(ctx context.Context, exec SQLExecutor, gameID int, playerIDs []int) ([]*models.BattingOrderEntry, error)
	ListByGame(ctx context.Context, gameID int) ([]*models.BattingOrderEntry, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.BattingOrderEntry, error)
}

type postgresBattingOrderRepository struct {
	db *sql.DB
}

func NewPostgresBattingOrderRepository(db *sql.DB) BattingOrderRepository {
	return &postgresBattingOrderRepository{db: db}
}

func (r *postgresBattingOrderRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBattingOrderRepository) ReplaceForGame(ctx context.Context, exec SQLExecutor, gameID int, playerIDs []int) ([]*models.BattingOrderEntry, error) {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM batting_orders WHERE game_id = $1`, gameID); err != nil {
		return nil, fmt.Errorf("failed to clear batting order for game %d: %w", gameID, err)
	}

	entries := make([]*models.BattingOrderEntry, 0, len(playerIDs))
	query := `INSERT INTO batting_orders (game_id, player_id, slot) VALUES ($1, $2, $3) RETURNING id, created_at`
	for i, playerID := range playerIDs {
		entry := &models.BattingOrderEntry{
			GameID:   gameID,
			PlayerID: playerID,
			Slot:     i + 1,
		}
		if err := executor.QueryRowContext(ctx, query, gameID, playerID, entry.Slot).Scan(&entry.ID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert batting order slot %d for game %d: %w", entry.Slot, gameID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *postgresBattingOrderRepository) ListByGame(ctx context.Context, gameID int) ([]*models.BattingOrderEntry, error) {
	query := `
		SELECT id, game_id, player_id, slot, created_at
		FROM batting_orders WHERE game_id = $1 ORDER BY slot ASC`
	return r.list(ctx, query, gameID)
}

// ListByTeam возвращает записи по всем играм команды, сырьё для аналитики.
func (r *postgresBattingOrderRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.BattingOrderEntry, error) {
	query := `
		SELECT b.id, b.game_id, b.player_id, b.slot, b.created_at
		FROM batting_orders b
		JOIN games g ON b.game_id = g.id
		WHERE g.team_id = $1
		ORDER BY b.game_id ASC, b.slot ASC`
	return r.list(ctx, query, teamID)
}

func (r *postgresBattingOrderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.BattingOrderEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batting order entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.BattingOrderEntry, 0)
	for rows.Next() {
		var e models.BattingOrderEntry
		if err := rows.Scan(&e.ID, &e.GameID, &e.PlayerID, &e.Slot, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batting order row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batting order rows: %w", err)
	}
	return entries, nil
}

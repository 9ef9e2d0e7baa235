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
	ErrAvailabilityNotFound      = errors.New("availability record not found")
	ErrAvailabilityGameInvalid   = errors.New("availability game conflict or invalid")
	ErrAvailabilityPlayerInvalid = errors.New("availability player conflict or invalid")
)

type AvailabilityRepository interface {
	Upsert(ctx context.Context, a *models.PlayerAvailability) error
	ListByGame(ctx context.Context, gameID int) ([]*models.PlayerAvailability, error)
	GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.PlayerAvailability, error)
}

type postgresAvailabilityRepository struct {
	db *sql.DB
}

func NewPostgresAvailabilityRepository(db *sql.DB) AvailabilityRepository {
	return &postgresAvailabilityRepository{db: db}
}

func (r *postgresAvailabilityRepository) Upsert(ctx context.Context, a *models.PlayerAvailability) error {
	query := `
		INSERT INTO player_availability (game_id, player_id, available, can_play_catcher_override)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, player_id)
		DO UPDATE SET available = EXCLUDED.available, can_play_catcher_override = EXCLUDED.can_play_catcher_override
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.GameID,
		a.PlayerID,
		a.Available,
		a.CanPlayCatcherOverride,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "player_availability_game_id_fkey":
				return ErrAvailabilityGameInvalid
			case "player_availability_player_id_fkey":
				return ErrAvailabilityPlayerInvalid
			}
		}
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

func (r *postgresAvailabilityRepository) ListByGame(ctx context.Context, gameID int) ([]*models.PlayerAvailability, error) {
	query := `
		SELECT id, game_id, player_id, available, can_play_catcher_override, created_at
		FROM player_availability WHERE game_id = $1 ORDER BY player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability by game: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PlayerAvailability, 0)
	for rows.Next() {
		var a models.PlayerAvailability
		if err := rows.Scan(&a.ID, &a.GameID, &a.PlayerID, &a.Available, &a.CanPlayCatcherOverride, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		records = append(records, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability rows: %w", err)
	}
	return records, nil
}

func (r *postgresAvailabilityRepository) GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.PlayerAvailability, error) {
	query := `
		SELECT id, game_id, player_id, available, can_play_catcher_override, created_at
		FROM player_availability WHERE game_id = $1 AND player_id = $2`

	a := &models.PlayerAvailability{}
	err := r.db.QueryRowContext(ctx, query, gameID, playerID).Scan(
		&a.ID, &a.GameID, &a.PlayerID, &a.Available, &a.CanPlayCatcherOverride, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return a, nil
}

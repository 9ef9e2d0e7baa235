package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"github.com/benchboss/lineup-system/rotation"
)

// BattingOrderService хранит порядок отбивания игры. Сохранение — всегда
// полная атомарная замена, а не поштучные правки.
type BattingOrderService interface {
	SaveOrder(ctx context.Context, gameID int, playerIDs []int, currentUserID int) ([]*models.BattingOrderEntry, error)
	GetOrder(ctx context.Context, gameID, currentUserID int) ([]*models.BattingOrderEntry, error)
}

type battingOrderService struct {
	db          *sql.DB
	gameRepo    repositories.GameRepository
	teamRepo    repositories.TeamRepository
	playerRepo  repositories.PlayerRepository
	battingRepo repositories.BattingOrderRepository
	hub         *rotation.Hub
}

func NewBattingOrderService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	battingRepo repositories.BattingOrderRepository,
	hub *rotation.Hub,
) BattingOrderService {
	return &battingOrderService{
		db:          db,
		gameRepo:    gameRepo,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		battingRepo: battingRepo,
		hub:         hub,
	}
}

func (s *battingOrderService) SaveOrder(ctx context.Context, gameID int, playerIDs []int, currentUserID int) ([]*models.BattingOrderEntry, error) {
	game, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, game.TeamID)
	if err != nil {
		return nil, err
	}
	onTeam := make(map[int]bool, len(players))
	for _, p := range players {
		onTeam[p.ID] = true
	}

	validationErr := &BattingOrderValidationError{}
	seen := make(map[int]bool, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			validationErr.DuplicateIDs = append(validationErr.DuplicateIDs, id)
		}
		seen[id] = true
		if !onTeam[id] {
			validationErr.NotOnTeamIDs = append(validationErr.NotOnTeamIDs, id)
		}
	}
	if len(validationErr.DuplicateIDs) > 0 || len(validationErr.NotOnTeamIDs) > 0 {
		return nil, validationErr
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("Error during rollback of batting order save: %v. Original error: %v", rbErr, txErr)
			}
		}
	}()

	entries, txErr := s.battingRepo.ReplaceForGame(ctx, tx, gameID, playerIDs)
	if txErr != nil {
		return nil, txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit batting order save: %w", txErr)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(rotation.GameRoomID(gameID), rotation.Message{
			Type:    "BATTING_ORDER_UPDATED",
			Payload: entries,
		})
	}
	return entries, nil
}

func (s *battingOrderService) GetOrder(ctx context.Context, gameID, currentUserID int) ([]*models.BattingOrderEntry, error) {
	if _, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID); err != nil {
		return nil, err
	}
	return s.battingRepo.ListByGame(ctx, gameID)
}

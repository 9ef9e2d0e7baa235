package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"github.com/benchboss/lineup-system/rotation"
)

type AssignPositionInput struct {
	Inning   int             `json:"inning"`
	PlayerID int             `json:"player_id"`
	Position models.Position `json:"position"`
}

type GenerateRotationInput struct {
	// AvailablePlayers сужает состав до перечисленных id. Пустой список —
	// берём всех, кого вернул резолвер доступности.
	AvailablePlayers []int `json:"available_players,omitempty"`
	// Innings переопределяет game.Innings; 0 — взять из игры.
	Innings     int                         `json:"innings,omitempty"`
	Constraints GenerateRotationConstraints `json:"constraints"`
}

type GenerateRotationConstraints struct {
	// UseHistoricalBalance подтягивает исторический инфилд/аутфилд фон
	// игроков из аналитики; иначе все базы нулевые.
	UseHistoricalBalance bool `json:"use_historical_balance"`
}

// RotationService — ядро приложения: интерактивные правки расстановки
// (с проверкой конфликтов) и полная генерация через rotation.Generator.
type RotationService interface {
	GetRotation(ctx context.Context, gameID, currentUserID int) ([]*models.FieldingAssignment, error)
	// AssignPosition — правка одной ячейки (inning, player) -> position.
	// Проверка занятости и запись выполняются в одной транзакции.
	AssignPosition(ctx context.Context, gameID int, input AssignPositionInput, currentUserID int) (*models.FieldingAssignment, error)
	// ReplaceInning атомарно заменяет расстановку одного иннинга целиком.
	ReplaceInning(ctx context.Context, gameID, inning int, positions map[int]models.Position, currentUserID int) ([]*models.FieldingAssignment, error)
	// GenerateRotation строит расстановку всей игры и сохраняет её одной
	// атомарной заменой. Предупреждения прикладываются к результату.
	GenerateRotation(ctx context.Context, gameID int, input GenerateRotationInput, currentUserID int) (*rotation.Result, error)
}

type rotationService struct {
	db                  *sql.DB
	gameRepo            repositories.GameRepository
	teamRepo            repositories.TeamRepository
	fieldingRepo        repositories.FieldingRepository
	availabilityService AvailabilityService
	analyticsService    AnalyticsService
	generator           rotation.Generator
	hub                 *rotation.Hub
}

func NewRotationService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	fieldingRepo repositories.FieldingRepository,
	availabilityService AvailabilityService,
	analyticsService AnalyticsService,
	generator rotation.Generator,
	hub *rotation.Hub,
) RotationService {
	return &rotationService{
		db:                  db,
		gameRepo:            gameRepo,
		teamRepo:            teamRepo,
		fieldingRepo:        fieldingRepo,
		availabilityService: availabilityService,
		analyticsService:    analyticsService,
		generator:           generator,
		hub:                 hub,
	}
}

func (s *rotationService) GetRotation(ctx context.Context, gameID, currentUserID int) ([]*models.FieldingAssignment, error) {
	if _, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID); err != nil {
		return nil, err
	}
	return s.fieldingRepo.ListByGame(ctx, nil, gameID)
}

func (s *rotationService) AssignPosition(ctx context.Context, gameID int, input AssignPositionInput, currentUserID int) (*models.FieldingAssignment, error) {
	game, available, err := s.availabilityService.ResolveForGame(ctx, gameID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Inning < 1 || input.Inning > game.Innings {
		return nil, ErrInningOutOfRange
	}
	if !input.Position.IsValid() {
		return nil, ErrInvalidPosition
	}

	var player *models.AvailablePlayer
	names := make(map[int]string, len(available))
	for i := range available {
		names[available[i].ID] = available[i].Name
		if available[i].ID == input.PlayerID {
			player = &available[i]
		}
	}
	if player == nil {
		return nil, ErrPlayerNotAvailable
	}
	if input.Position == models.PositionCatcher && !player.EffectiveCanPlayCatcher {
		return nil, ErrCatcherNotEligible
	}

	// Проверка конфликта и upsert — одно транзакционное чтение-изменение.
	// Advisory-лок по (game, inning) сериализует конкурирующие assign: на
	// read-committed два параллельных чтения иначе не увидели бы вставку друг
	// друга и позиция досталась бы обоим.
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
				log.Printf("Error during rollback of position assign: %v. Original error: %v", rbErr, txErr)
			}
		}
	}()

	if txErr = s.fieldingRepo.LockGameInning(ctx, tx, gameID, input.Inning); txErr != nil {
		return nil, txErr
	}

	// Bench не конфликтует ни с кем: занятость проверяем только для игровых позиций.
	if input.Position != models.PositionBench {
		var current []*models.FieldingAssignment
		current, txErr = s.fieldingRepo.ListByGameInning(ctx, tx, gameID, input.Inning)
		if txErr != nil {
			return nil, txErr
		}
		if conflict := findConflict(current, input, names); conflict != nil {
			txErr = conflict
			return nil, txErr
		}
	}

	assignment := &models.FieldingAssignment{
		GameID:   gameID,
		Inning:   input.Inning,
		PlayerID: input.PlayerID,
		Position: input.Position,
	}
	if txErr = s.fieldingRepo.Upsert(ctx, tx, assignment); txErr != nil {
		return nil, txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit position assign: %w", txErr)
	}

	s.broadcastRotation(ctx, gameID)
	return assignment, nil
}

// findConflict ищет в текущей расстановке иннинга другого игрока на той же
// игровой позиции. Повторное назначение того же игрока конфликтом не считается,
// Bench вмещает всех.
func findConflict(current []*models.FieldingAssignment, input AssignPositionInput, names map[int]string) *PositionConflictError {
	if input.Position == models.PositionBench {
		return nil
	}
	for _, a := range current {
		if a.Position == input.Position && a.PlayerID != input.PlayerID {
			return &PositionConflictError{
				Inning:         input.Inning,
				Position:       input.Position,
				OccupiedByID:   a.PlayerID,
				OccupiedByName: names[a.PlayerID],
			}
		}
	}
	return nil
}

func (s *rotationService) ReplaceInning(ctx context.Context, gameID, inning int, positions map[int]models.Position, currentUserID int) ([]*models.FieldingAssignment, error) {
	game, available, err := s.availabilityService.ResolveForGame(ctx, gameID, currentUserID)
	if err != nil {
		return nil, err
	}
	if inning < 1 || inning > game.Innings {
		return nil, ErrInningOutOfRange
	}

	eligible := make(map[int]bool, len(available))
	for _, p := range available {
		eligible[p.ID] = p.EffectiveCanPlayCatcher
	}

	assignments := make([]*models.FieldingAssignment, 0, len(positions))
	taken := make(map[models.Position]int, len(positions))
	for playerID, pos := range positions {
		if !pos.IsValid() {
			return nil, ErrInvalidPosition
		}
		canCatch, ok := eligible[playerID]
		if !ok {
			return nil, ErrPlayerNotAvailable
		}
		if pos == models.PositionCatcher && !canCatch {
			return nil, ErrCatcherNotEligible
		}
		if pos != models.PositionBench {
			if _, dup := taken[pos]; dup {
				return nil, fmt.Errorf("%w: position %s assigned twice", ErrValidationFailed, pos)
			}
			taken[pos] = playerID
		}
		assignments = append(assignments, &models.FieldingAssignment{
			GameID:   gameID,
			Inning:   inning,
			PlayerID: playerID,
			Position: pos,
		})
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].PlayerID < assignments[j].PlayerID })

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
				log.Printf("Error during rollback of inning replace: %v. Original error: %v", rbErr, txErr)
			}
		}
	}()

	if txErr = s.fieldingRepo.ReplaceInning(ctx, tx, gameID, inning, assignments); txErr != nil {
		return nil, txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit inning replace: %w", txErr)
	}

	s.broadcastRotation(ctx, gameID)
	return assignments, nil
}

func (s *rotationService) GenerateRotation(ctx context.Context, gameID int, input GenerateRotationInput, currentUserID int) (*rotation.Result, error) {
	game, available, err := s.availabilityService.ResolveForGame(ctx, gameID, currentUserID)
	if err != nil {
		return nil, err
	}

	innings := input.Innings
	if innings == 0 {
		innings = game.Innings
	}
	if innings < models.MinInnings || innings > models.MaxInnings {
		return nil, ErrGameInvalidInnings
	}

	if len(input.AvailablePlayers) > 0 {
		byID := make(map[int]models.AvailablePlayer, len(available))
		for _, p := range available {
			byID[p.ID] = p
		}
		filtered := make([]models.AvailablePlayer, 0, len(input.AvailablePlayers))
		for _, id := range input.AvailablePlayers {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: player %d is not available for game %d", ErrValidationFailed, id, gameID)
			}
			filtered = append(filtered, p)
		}
		available = filtered
	}
	if len(available) == 0 {
		return nil, ErrEmptyRoster
	}

	baselines := map[int]rotation.Baseline{}
	if input.Constraints.UseHistoricalBalance {
		baselines, err = s.analyticsService.FieldingBaselines(ctx, game.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load historical baselines: %w", err)
		}
	}

	result, err := s.generator.Generate(ctx, rotation.GenerateParams{
		GameID:    gameID,
		Innings:   innings,
		Players:   available,
		Baselines: baselines,
	})
	if err != nil {
		switch {
		case errors.Is(err, rotation.ErrEmptyRoster):
			return nil, ErrEmptyRoster
		case errors.Is(err, rotation.ErrInvalidInnings):
			return nil, ErrGameInvalidInnings
		}
		return nil, fmt.Errorf("failed to generate rotation for game %d: %w", gameID, err)
	}

	// Полная атомарная замена сетки игры: конкурирующий generate/assign не
	// перемешивается, побеждает последняя запись целиком.
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
				log.Printf("Error during rollback of rotation save: %v. Original error: %v", rbErr, txErr)
			}
		}
	}()

	if txErr = s.fieldingRepo.ReplaceGame(ctx, tx, gameID, result.Assignments); txErr != nil {
		return nil, txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit rotation save: %w", txErr)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(rotation.GameRoomID(gameID), rotation.Message{
			Type:    "ROTATION_UPDATED",
			Payload: result,
		})
	}
	return result, nil
}

func (s *rotationService) broadcastRotation(ctx context.Context, gameID int) {
	if s.hub == nil {
		return
	}
	assignments, err := s.fieldingRepo.ListByGame(ctx, nil, gameID)
	if err != nil {
		log.Printf("Failed to load rotation for broadcast (game %d): %v", gameID, err)
		return
	}
	s.hub.BroadcastToRoom(rotation.GameRoomID(gameID), rotation.Message{
		Type:    "ROTATION_UPDATED",
		Payload: assignments,
	})
}

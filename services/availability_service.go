package services

import (
	"context"
	"errors"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
)

type SetAvailabilityInput struct {
	Available              bool `json:"available"`
	CanPlayCatcherOverride bool `json:"can_play_catcher_override"`
}

// AvailabilityService превращает сырые записи доступности в действующий
// состав на игру. Политика по умолчанию: нет записи — игрок доступен, без
// переопределения кетчера.
type AvailabilityService interface {
	// ResolveForGame возвращает игру и упорядоченный по id список доступных
	// игроков с эффективным правом играть кетчером.
	ResolveForGame(ctx context.Context, gameID, currentUserID int) (*models.Game, []models.AvailablePlayer, error)
	ListByGame(ctx context.Context, gameID, currentUserID int) ([]*models.PlayerAvailability, error)
	SetAvailability(ctx context.Context, gameID, playerID int, input SetAvailabilityInput, currentUserID int) (*models.PlayerAvailability, error)
}

type availabilityService struct {
	gameRepo         repositories.GameRepository
	teamRepo         repositories.TeamRepository
	playerRepo       repositories.PlayerRepository
	availabilityRepo repositories.AvailabilityRepository
}

func NewAvailabilityService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	availabilityRepo repositories.AvailabilityRepository,
) AvailabilityService {
	return &availabilityService{
		gameRepo:         gameRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		availabilityRepo: availabilityRepo,
	}
}

func (s *availabilityService) ResolveForGame(ctx context.Context, gameID, currentUserID int) (*models.Game, []models.AvailablePlayer, error) {
	game, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID)
	if err != nil {
		return nil, nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, game.TeamID)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.availabilityRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	byPlayer := make(map[int]*models.PlayerAvailability, len(records))
	for _, rec := range records {
		byPlayer[rec.PlayerID] = rec
	}

	available := make([]models.AvailablePlayer, 0, len(players))
	for _, p := range players {
		rec, ok := byPlayer[p.ID]
		if ok && !rec.Available {
			continue
		}
		override := ok && rec.CanPlayCatcherOverride
		available = append(available, models.AvailablePlayer{
			Player:                  *p,
			EffectiveCanPlayCatcher: p.CanPlayCatcher || override,
		})
	}
	return game, available, nil
}

func (s *availabilityService) ListByGame(ctx context.Context, gameID, currentUserID int) ([]*models.PlayerAvailability, error) {
	if _, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID); err != nil {
		return nil, err
	}
	return s.availabilityRepo.ListByGame(ctx, gameID)
}

func (s *availabilityService) SetAvailability(ctx context.Context, gameID, playerID int, input SetAvailabilityInput, currentUserID int) (*models.PlayerAvailability, error) {
	game, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.TeamID != game.TeamID {
		return nil, ErrPlayerNotFound
	}

	record := &models.PlayerAvailability{
		GameID:                 gameID,
		PlayerID:               playerID,
		Available:              input.Available,
		CanPlayCatcherOverride: input.CanPlayCatcherOverride,
	}
	if err := s.availabilityRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

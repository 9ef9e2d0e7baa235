package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
)

type CreateGameInput struct {
	Opponent string    `json:"opponent"`
	GameTime time.Time `json:"game_time"`
	// Innings: 0 — взять значение по умолчанию (6).
	Innings int `json:"innings,omitempty"`
}

type UpdateGameInput struct {
	Opponent *string            `json:"opponent,omitempty"`
	GameTime *time.Time         `json:"game_time,omitempty"`
	Innings  *int               `json:"innings,omitempty"`
	Status   *models.GameStatus `json:"status,omitempty"`
}

type GameService interface {
	CreateGame(ctx context.Context, teamID int, input CreateGameInput, currentUserID int) (*models.Game, error)
	GetGameByID(ctx context.Context, gameID, currentUserID int) (*models.Game, error)
	ListTeamGames(ctx context.Context, teamID, currentUserID int) ([]*models.Game, error)
	UpdateGame(ctx context.Context, gameID int, input UpdateGameInput, currentUserID int) (*models.Game, error)
	DeleteGame(ctx context.Context, gameID, currentUserID int) error
	// AutoCompletePastGames — тик фонового планировщика: закрывает
	// запланированные игры, чьё время уже прошло.
	AutoCompletePastGames(ctx context.Context) (int64, error)
}

type gameService struct {
	gameRepo repositories.GameRepository
	teamRepo repositories.TeamRepository
}

func NewGameService(gameRepo repositories.GameRepository, teamRepo repositories.TeamRepository) GameService {
	return &gameService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
	}
}

func (s *gameService) CreateGame(ctx context.Context, teamID int, input CreateGameInput, currentUserID int) (*models.Game, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}

	opponent := strings.TrimSpace(input.Opponent)
	if opponent == "" {
		return nil, ErrOpponentRequired
	}
	innings := input.Innings
	if innings == 0 {
		innings = models.DefaultInnings
	}
	if innings < models.MinInnings || innings > models.MaxInnings {
		return nil, ErrGameInvalidInnings
	}

	game := &models.Game{
		TeamID:   teamID,
		Opponent: opponent,
		GameTime: input.GameTime,
		Innings:  innings,
		Status:   models.GameStatusScheduled,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameTeamInvalid):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrGameInningsInvalid):
			return nil, ErrGameInvalidInnings
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetGameByID(ctx context.Context, gameID, currentUserID int) (*models.Game, error) {
	game, team, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID)
	if err != nil {
		return nil, err
	}
	game.Team = team
	return game, nil
}

func (s *gameService) ListTeamGames(ctx context.Context, teamID, currentUserID int) ([]*models.Game, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}
	return s.gameRepo.ListByTeam(ctx, teamID)
}

func (s *gameService) UpdateGame(ctx context.Context, gameID int, input UpdateGameInput, currentUserID int) (*models.Game, error) {
	game, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Opponent != nil {
		opponent := strings.TrimSpace(*input.Opponent)
		if opponent == "" {
			return nil, ErrOpponentRequired
		}
		game.Opponent = opponent
	}
	if input.GameTime != nil {
		game.GameTime = *input.GameTime
	}
	if input.Innings != nil {
		if *input.Innings < models.MinInnings || *input.Innings > models.MaxInnings {
			return nil, ErrGameInvalidInnings
		}
		game.Innings = *input.Innings
	}
	if input.Status != nil {
		switch *input.Status {
		case models.GameStatusScheduled, models.GameStatusCompleted, models.GameStatusCanceled:
			game.Status = *input.Status
		default:
			return nil, fmt.Errorf("%w: unknown game status %q", ErrValidationFailed, *input.Status)
		}
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		switch {
		case errors.Is(err, repositories.ErrGameNotFound):
			return nil, ErrGameNotFound
		case errors.Is(err, repositories.ErrGameInningsInvalid):
			return nil, ErrGameInvalidInnings
		}
		return nil, fmt.Errorf("failed to update game %d: %w", gameID, err)
	}
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, gameID, currentUserID int) error {
	if _, _, err := getOwnedGame(ctx, s.gameRepo, s.teamRepo, gameID, currentUserID); err != nil {
		return err
	}
	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %d: %w", gameID, err)
	}
	return nil
}

func (s *gameService) AutoCompletePastGames(ctx context.Context) (int64, error) {
	return s.gameRepo.CompletePastGames(ctx, time.Now())
}

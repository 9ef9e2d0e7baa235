package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"github.com/benchboss/lineup-system/storage"
)

type CreatePlayerInput struct {
	Name           string `json:"name"`
	JerseyNumber   int    `json:"jersey_number"`
	CanPlayCatcher bool   `json:"can_play_catcher"`
}

type UpdatePlayerInput struct {
	Name           *string `json:"name,omitempty"`
	JerseyNumber   *int    `json:"jersey_number,omitempty"`
	CanPlayCatcher *bool   `json:"can_play_catcher,omitempty"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, teamID int, input CreatePlayerInput, currentUserID int) (*models.Player, error)
	GetPlayerByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error)
	ListTeamPlayers(ctx context.Context, teamID, currentUserID int) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, playerID int, input UpdatePlayerInput, currentUserID int) (*models.Player, error)
	DeletePlayer(ctx context.Context, playerID, currentUserID int) error
	UploadPlayerPhoto(ctx context.Context, playerID, currentUserID int, file io.Reader, contentType string) (*models.Player, error)
}

type playerService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(teamRepo repositories.TeamRepository, playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

// getOwnedPlayer загружает игрока и проверяет владение через его команду.
func (s *playerService) getOwnedPlayer(ctx context.Context, playerID, currentUserID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if _, err := getOwnedTeam(ctx, s.teamRepo, player.TeamID, currentUserID); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, teamID int, input CreatePlayerInput, currentUserID int) (*models.Player, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		TeamID:         teamID,
		Name:           name,
		JerseyNumber:   input.JerseyNumber,
		CanPlayCatcher: input.CanPlayCatcher,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNumberConflict):
			return nil, ErrJerseyNumberTaken
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error) {
	player, err := s.getOwnedPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}
	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *playerService) ListTeamPlayers(ctx context.Context, teamID, currentUserID int) ([]*models.Player, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		populatePlayerPhotoURL(p, s.uploader)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, playerID int, input UpdatePlayerInput, currentUserID int) (*models.Player, error) {
	player, err := s.getOwnedPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPlayerNameRequired
		}
		player.Name = name
	}
	if input.JerseyNumber != nil {
		player.JerseyNumber = *input.JerseyNumber
	}
	if input.CanPlayCatcher != nil {
		player.CanPlayCatcher = *input.CanPlayCatcher
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNumberConflict):
			return nil, ErrJerseyNumberTaken
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, playerID, currentUserID int) error {
	player, err := s.getOwnedPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}

	if s.uploader != nil && player.PhotoKey != nil && *player.PhotoKey != "" {
		if delErr := s.uploader.Delete(ctx, *player.PhotoKey); delErr != nil {
			log.Printf("Failed to delete photo %s for removed player %d: %v", *player.PhotoKey, playerID, delErr)
		}
	}
	return nil
}

func (s *playerService) UploadPlayerPhoto(ctx context.Context, playerID, currentUserID int, file io.Reader, contentType string) (*models.Player, error) {
	player, err := s.getOwnedPlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := player.PhotoKey
	newKey := fmt.Sprintf("player_photos/%d/photo_%d%s", playerID, time.Now().UnixNano(), ext)

	if _, err := s.uploader.Upload(ctx, newKey, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, playerID, &newKey); err != nil {
		if delErr := s.uploader.Delete(ctx, newKey); delErr != nil {
			log.Printf("Failed to clean up orphaned photo %s: %v", newKey, delErr)
		}
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to save player photo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != newKey {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			log.Printf("Failed to delete old photo %s for player %d: %v", *oldKey, playerID, delErr)
		}
	}

	player.PhotoKey = &newKey
	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

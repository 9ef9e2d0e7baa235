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

type CreateTeamInput struct {
	Name           string  `json:"name"`
	League         *string `json:"league,omitempty"`
	HeadCoach      *string `json:"head_coach,omitempty"`
	AssistantCoach *string `json:"assistant_coach,omitempty"`
}

type UpdateTeamInput struct {
	Name           *string `json:"name,omitempty"`
	League         *string `json:"league,omitempty"`
	HeadCoach      *string `json:"head_coach,omitempty"`
	AssistantCoach *string `json:"assistant_coach,omitempty"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput, currentUserID int) (*models.Team, error)
	GetTeamByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error)
	ListMyTeams(ctx context.Context, currentUserID int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, teamID int, input UpdateTeamInput, currentUserID int) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID, currentUserID int) error
	UploadTeamLogo(ctx context.Context, teamID, currentUserID int, file io.Reader, contentType string) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput, currentUserID int) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		UserID:         currentUserID,
		Name:           name,
		League:         derefString(input.League),
		HeadCoach:      derefString(input.HeadCoach),
		AssistantCoach: derefString(input.AssistantCoach),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamOwnerInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
	team, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID)
	if err != nil {
		return nil, err
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListMyTeams(ctx context.Context, currentUserID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByOwner(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID int, input UpdateTeamInput, currentUserID int) (*models.Team, error) {
	team, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if input.League != nil {
		team.League = *input.League
	}
	if input.HeadCoach != nil {
		team.HeadCoach = *input.HeadCoach
	}
	if input.AssistantCoach != nil {
		team.AssistantCoach = *input.AssistantCoach
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID, currentUserID int) error {
	team, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}

	if s.uploader != nil && team.LogoKey != nil && *team.LogoKey != "" {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			log.Printf("Failed to delete logo %s for removed team %d: %v", *team.LogoKey, teamID, delErr)
		}
	}
	return nil
}

func (s *teamService) UploadTeamLogo(ctx context.Context, teamID, currentUserID int, file io.Reader, contentType string) (*models.Team, error) {
	team, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID)
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

	oldKey := team.LogoKey
	newKey := fmt.Sprintf("team_logos/%d/logo_%d%s", teamID, time.Now().UnixNano(), ext)

	if _, err := s.uploader.Upload(ctx, newKey, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &newKey); err != nil {
		// БД не приняла новый ключ — подчищаем уже загруженный объект.
		if delErr := s.uploader.Delete(ctx, newKey); delErr != nil {
			log.Printf("Failed to clean up orphaned logo %s: %v", newKey, delErr)
		}
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to save team logo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != newKey {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			log.Printf("Failed to delete old logo %s for team %d: %v", *oldKey, teamID, delErr)
		}
	}

	team.LogoKey = &newKey
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// GetExtensionFromContentType подбирает расширение файла по content-type.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}

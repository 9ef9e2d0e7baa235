package services

import (
	"context"
	"errors"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"github.com/benchboss/lineup-system/storage"
)

// --- Общие хелперы ---

// getOwnedTeam загружает команду и проверяет, что ей владеет текущий тренер.
func getOwnedTeam(ctx context.Context, teamRepo repositories.TeamRepository, teamID, currentUserID int) (*models.Team, error) {
	team, err := teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.UserID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	return team, nil
}

// getOwnedGame загружает игру вместе с командой и проверяет владение.
func getOwnedGame(ctx context.Context, gameRepo repositories.GameRepository, teamRepo repositories.TeamRepository, gameID, currentUserID int) (*models.Game, *models.Team, error) {
	game, err := gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, err
	}
	team, err := getOwnedTeam(ctx, teamRepo, game.TeamID, currentUserID)
	if err != nil {
		return nil, nil, err
	}
	return game, team, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- Хелперы для заполнения URL логотипов и фото ---

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}

func populatePlayerPhotoURL(player *models.Player, uploader storage.FileUploader) {
	if player != nil && player.PhotoKey != nil && *player.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*player.PhotoKey)
		player.PhotoURL = &url
	}
}

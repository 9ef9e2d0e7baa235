package services

import (
	"context"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	userRepo     repositories.UserRepository
	teamRepo     repositories.TeamRepository
	gameRepo     repositories.GameRepository
	fieldingRepo repositories.FieldingRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	fieldingRepo repositories.FieldingRepository,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		teamRepo:     teamRepo,
		gameRepo:     gameRepo,
		fieldingRepo: fieldingRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	pending := models.UserStatusPending
	banned := models.UserStatusBanned

	// Отдельные счётчики не валят весь дашборд: недоступный — просто ноль.
	usersTotal, _ := s.userRepo.Count(ctx, nil)
	pendingUsers, _ := s.userRepo.Count(ctx, &pending)
	bannedUsers, _ := s.userRepo.Count(ctx, &banned)
	teamsTotal, _ := s.teamRepo.Count(ctx)
	gamesTotal, _ := s.gameRepo.Count(ctx)
	assignmentsTotal, _ := s.fieldingRepo.Count(ctx)

	return models.DashboardStats{
		UsersTotal:       usersTotal,
		PendingUsers:     pendingUsers,
		BannedUsers:      bannedUsers,
		TeamsTotal:       teamsTotal,
		GamesTotal:       gamesTotal,
		AssignmentsTotal: assignmentsTotal,
	}, nil
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/benchboss/lineup-system/models"
)

func TestDashboardStats(t *testing.T) {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	fielding := newFakeFieldingRepo(games)

	users.add(&models.User{Email: "a@example.com", Role: models.RoleCoach, Status: models.UserStatusActive})
	users.add(&models.User{Email: "b@example.com", Role: models.RoleCoach, Status: models.UserStatusPending})
	users.add(&models.User{Email: "c@example.com", Role: models.RoleCoach, Status: models.UserStatusBanned})

	team := teams.add(&models.Team{UserID: 1, Name: "Dragons"})
	game := games.add(&models.Game{TeamID: team.ID, Opponent: "Tigers", GameTime: time.Now(), Innings: 6, Status: models.GameStatusScheduled})
	if err := fielding.Upsert(context.Background(), nil, &models.FieldingAssignment{
		GameID: game.ID, Inning: 1, PlayerID: 1, Position: models.PositionPitcher,
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	svc := NewDashboardService(users, teams, games, fielding)
	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := models.DashboardStats{
		UsersTotal:       3,
		PendingUsers:     1,
		BannedUsers:      1,
		TeamsTotal:       1,
		GamesTotal:       1,
		AssignmentsTotal: 1,
	}
	if stats != want {
		t.Fatalf("GetStats() = %+v, want %+v", stats, want)
	}
}

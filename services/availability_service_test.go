package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benchboss/lineup-system/models"
)

const (
	testCoachID = 1
	testOtherID = 2
)

// seedTeamGame создаёт команду тренера testCoachID и одну запланированную игру.
func seedTeamGame(teams *fakeTeamRepo, games *fakeGameRepo) (*models.Team, *models.Game) {
	team := teams.add(&models.Team{UserID: testCoachID, Name: "Dragons"})
	game := games.add(&models.Game{
		TeamID:   team.ID,
		Opponent: "Tigers",
		GameTime: time.Date(2026, 6, 13, 10, 0, 0, 0, time.UTC),
		Innings:  6,
		Status:   models.GameStatusScheduled,
	})
	return team, game
}

func TestResolveForGameDefaultsToAvailable(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	avail := newFakeAvailabilityRepo()
	team, game := seedTeamGame(teams, games)

	players.add(&models.Player{TeamID: team.ID, Name: "Anna", JerseyNumber: 1, CanPlayCatcher: true})
	players.add(&models.Player{TeamID: team.ID, Name: "Boris", JerseyNumber: 2})

	svc := NewAvailabilityService(games, teams, players, avail)
	gotGame, roster, err := svc.ResolveForGame(context.Background(), game.ID, testCoachID)
	if err != nil {
		t.Fatalf("ResolveForGame() error = %v", err)
	}
	if gotGame.ID != game.ID {
		t.Fatalf("resolved game %d, want %d", gotGame.ID, game.ID)
	}
	// Без записей доступности весь ростер считается доступным.
	if len(roster) != 2 {
		t.Fatalf("got %d available players, want 2", len(roster))
	}
	if !roster[0].EffectiveCanPlayCatcher {
		t.Error("player with catcher flag lost eligibility")
	}
	if roster[1].EffectiveCanPlayCatcher {
		t.Error("player without catcher flag gained eligibility")
	}
}

func TestResolveForGameAppliesRecords(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	avail := newFakeAvailabilityRepo()
	team, game := seedTeamGame(teams, games)

	out := players.add(&models.Player{TeamID: team.ID, Name: "Anna", JerseyNumber: 1})
	override := players.add(&models.Player{TeamID: team.ID, Name: "Boris", JerseyNumber: 2})

	svc := NewAvailabilityService(games, teams, players, avail)
	ctx := context.Background()

	if _, err := svc.SetAvailability(ctx, game.ID, out.ID, SetAvailabilityInput{Available: false}, testCoachID); err != nil {
		t.Fatalf("SetAvailability() error = %v", err)
	}
	if _, err := svc.SetAvailability(ctx, game.ID, override.ID, SetAvailabilityInput{Available: true, CanPlayCatcherOverride: true}, testCoachID); err != nil {
		t.Fatalf("SetAvailability() error = %v", err)
	}

	_, roster, err := svc.ResolveForGame(ctx, game.ID, testCoachID)
	if err != nil {
		t.Fatalf("ResolveForGame() error = %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("got %d available players, want 1 (player %d is out)", len(roster), out.ID)
	}
	if roster[0].ID != override.ID {
		t.Fatalf("available player is %d, want %d", roster[0].ID, override.ID)
	}
	// Переопределение на игру даёт право кетчера даже без флага игрока.
	if !roster[0].EffectiveCanPlayCatcher {
		t.Error("per-game override did not grant catcher eligibility")
	}
}

func TestResolveForGameOwnership(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	avail := newFakeAvailabilityRepo()
	_, game := seedTeamGame(teams, games)

	svc := NewAvailabilityService(games, teams, players, avail)

	if _, _, err := svc.ResolveForGame(context.Background(), game.ID, testOtherID); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("foreign coach: error = %v, want ErrForbiddenOperation", err)
	}
	if _, _, err := svc.ResolveForGame(context.Background(), 999, testCoachID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing game: error = %v, want ErrGameNotFound", err)
	}
}

func TestSetAvailabilityRejectsForeignPlayer(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	avail := newFakeAvailabilityRepo()
	_, game := seedTeamGame(teams, games)

	otherTeam := teams.add(&models.Team{UserID: testCoachID, Name: "Second Squad"})
	stranger := players.add(&models.Player{TeamID: otherTeam.ID, Name: "Vlad", JerseyNumber: 9})

	svc := NewAvailabilityService(games, teams, players, avail)
	_, err := svc.SetAvailability(context.Background(), game.ID, stranger.ID, SetAvailabilityInput{Available: true}, testCoachID)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("player from another team: error = %v, want ErrPlayerNotFound", err)
	}
}

func TestSetAvailabilityUpsertsExistingRecord(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	avail := newFakeAvailabilityRepo()
	team, game := seedTeamGame(teams, games)
	player := players.add(&models.Player{TeamID: team.ID, Name: "Anna", JerseyNumber: 1})

	svc := NewAvailabilityService(games, teams, players, avail)
	ctx := context.Background()

	first, err := svc.SetAvailability(ctx, game.ID, player.ID, SetAvailabilityInput{Available: false}, testCoachID)
	if err != nil {
		t.Fatalf("SetAvailability() error = %v", err)
	}
	second, err := svc.SetAvailability(ctx, game.ID, player.ID, SetAvailabilityInput{Available: true}, testCoachID)
	if err != nil {
		t.Fatalf("SetAvailability() error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a new record (id %d, was %d)", second.ID, first.ID)
	}

	records, err := svc.ListByGame(ctx, game.ID, testCoachID)
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}
	if len(records) != 1 || !records[0].Available {
		t.Fatalf("got records %+v, want a single available record", records)
	}
}

package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/benchboss/lineup-system/models"
)

func TestSaveOrderValidatesRoster(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	batting := newFakeBattingRepo(games)
	team, game := seedTeamGame(teams, games)

	p1 := players.add(&models.Player{TeamID: team.ID, Name: "Anna", JerseyNumber: 1})
	p2 := players.add(&models.Player{TeamID: team.ID, Name: "Boris", JerseyNumber: 2})

	// Валидация срабатывает до транзакции, db здесь не нужен.
	svc := NewBattingOrderService(nil, games, teams, players, batting, nil)

	_, err := svc.SaveOrder(context.Background(), game.ID, []int{p1.ID, p2.ID, p1.ID, 777}, testCoachID)
	var validationErr *BattingOrderValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("SaveOrder() error = %v, want BattingOrderValidationError", err)
	}
	if !reflect.DeepEqual(validationErr.DuplicateIDs, []int{p1.ID}) {
		t.Errorf("duplicates = %v, want [%d]", validationErr.DuplicateIDs, p1.ID)
	}
	if !reflect.DeepEqual(validationErr.NotOnTeamIDs, []int{777}) {
		t.Errorf("not on team = %v, want [777]", validationErr.NotOnTeamIDs)
	}
}

func TestSaveOrderOwnership(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	batting := newFakeBattingRepo(games)
	_, game := seedTeamGame(teams, games)

	svc := NewBattingOrderService(nil, games, teams, players, batting, nil)
	if _, err := svc.SaveOrder(context.Background(), game.ID, []int{1}, testOtherID); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("foreign coach: error = %v, want ErrForbiddenOperation", err)
	}
}

func TestGetOrderReturnsSavedEntries(t *testing.T) {
	teams := newFakeTeamRepo()
	games := newFakeGameRepo()
	players := newFakePlayerRepo()
	batting := newFakeBattingRepo(games)
	team, game := seedTeamGame(teams, games)
	p1 := players.add(&models.Player{TeamID: team.ID, Name: "Anna", JerseyNumber: 1})
	p2 := players.add(&models.Player{TeamID: team.ID, Name: "Boris", JerseyNumber: 2})

	// Порядок пишем напрямую в репозиторий: сервисный SaveOrder требует db.
	if _, err := batting.ReplaceForGame(context.Background(), nil, game.ID, []int{p2.ID, p1.ID}); err != nil {
		t.Fatalf("ReplaceForGame() error = %v", err)
	}

	svc := NewBattingOrderService(nil, games, teams, players, batting, nil)
	entries, err := svc.GetOrder(context.Background(), game.ID, testCoachID)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].PlayerID != p2.ID || entries[0].Slot != 1 {
		t.Errorf("slot 1: player %d slot %d, want player %d slot 1", entries[0].PlayerID, entries[0].Slot, p2.ID)
	}
	if entries[1].PlayerID != p1.ID || entries[1].Slot != 2 {
		t.Errorf("slot 2: player %d slot %d, want player %d slot 2", entries[1].PlayerID, entries[1].Slot, p1.ID)
	}
}

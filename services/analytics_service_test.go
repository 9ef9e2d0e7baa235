package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benchboss/lineup-system/models"
)

type analyticsFixture struct {
	teams    *fakeTeamRepo
	games    *fakeGameRepo
	players  *fakePlayerRepo
	batting  *fakeBattingRepo
	fielding *fakeFieldingRepo
	team     *models.Team
	svc      AnalyticsService
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		teams:   newFakeTeamRepo(),
		games:   newFakeGameRepo(),
		players: newFakePlayerRepo(),
	}
	f.batting = newFakeBattingRepo(f.games)
	f.fielding = newFakeFieldingRepo(f.games)
	f.team = f.teams.add(&models.Team{UserID: testCoachID, Name: "Dragons"})
	f.svc = NewAnalyticsService(f.teams, f.players, f.games, f.batting, f.fielding)
	return f
}

func (f *analyticsFixture) addGame(day time.Time) *models.Game {
	return f.games.add(&models.Game{
		TeamID:   f.team.ID,
		Opponent: "Tigers",
		GameTime: day,
		Innings:  6,
		Status:   models.GameStatusCompleted,
	})
}

func TestBattingAnalyticsNoGames(t *testing.T) {
	f := newAnalyticsFixture()
	f.players.add(&models.Player{TeamID: f.team.ID, Name: "Anna", JerseyNumber: 1})

	// Команда без игр получает нулевую сводку, а не ошибку.
	got, err := f.svc.GetTeamBattingAnalytics(context.Background(), f.team.ID, testCoachID)
	if err != nil {
		t.Fatalf("GetTeamBattingAnalytics() error = %v", err)
	}
	if len(got.Players) != 1 {
		t.Fatalf("got %d player summaries, want 1", len(got.Players))
	}
	p := got.Players[0]
	if p.TotalGames != 0 || p.GamesInLineup != 0 || p.AvgBattingPosition != 0 {
		t.Fatalf("empty team produced non-zero summary: %+v", p)
	}
}

func TestBattingAnalyticsAggregation(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()
	p1 := f.players.add(&models.Player{TeamID: f.team.ID, Name: "Anna", JerseyNumber: 1})
	p2 := f.players.add(&models.Player{TeamID: f.team.ID, Name: "Boris", JerseyNumber: 2})
	g1 := f.addGame(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))
	g2 := f.addGame(time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC))

	// p1 отбивает первым в обеих играх, p2 — вторым только в первой.
	// Запись с id 999 принадлежит удалённому игроку и в сводку не попадает.
	if _, err := f.batting.ReplaceForGame(ctx, nil, g1.ID, []int{p1.ID, p2.ID, 999}); err != nil {
		t.Fatalf("ReplaceForGame() error = %v", err)
	}
	if _, err := f.batting.ReplaceForGame(ctx, nil, g2.ID, []int{p1.ID}); err != nil {
		t.Fatalf("ReplaceForGame() error = %v", err)
	}

	got, err := f.svc.GetTeamBattingAnalytics(ctx, f.team.ID, testCoachID)
	if err != nil {
		t.Fatalf("GetTeamBattingAnalytics() error = %v", err)
	}
	if len(got.Players) != 2 {
		t.Fatalf("got %d summaries, want 2 (deleted player excluded)", len(got.Players))
	}

	anna := got.Players[0]
	if anna.PlayerID != p1.ID {
		t.Fatalf("summaries not sorted by player id: first is %d", anna.PlayerID)
	}
	if anna.TotalGames != 2 || anna.GamesInLineup != 2 {
		t.Errorf("anna games = %d/%d, want 2/2", anna.GamesInLineup, anna.TotalGames)
	}
	if anna.AvgBattingPosition != 1.0 {
		t.Errorf("anna avg slot = %v, want 1.0", anna.AvgBattingPosition)
	}
	if anna.SlotCounts[1] != 2 {
		t.Errorf("anna slot counts = %v, want slot 1 twice", anna.SlotCounts)
	}

	boris := got.Players[1]
	if boris.GamesInLineup != 1 || boris.AvgBattingPosition != 2.0 {
		t.Errorf("boris summary = %+v, want one game at slot 2", boris)
	}
}

func TestFieldingAnalyticsCatcherCountsAsOutfield(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()
	p := f.players.add(&models.Player{TeamID: f.team.ID, Name: "Anna", JerseyNumber: 1, CanPlayCatcher: true})
	g := f.addGame(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	for inning, pos := range map[int]models.Position{
		1: models.PositionCatcher,
		2: models.PositionShortstop,
		3: models.PositionBench,
	} {
		if err := f.fielding.Upsert(ctx, nil, &models.FieldingAssignment{
			GameID: g.ID, Inning: inning, PlayerID: p.ID, Position: pos,
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	got, err := f.svc.GetTeamFieldingAnalytics(ctx, f.team.ID, testCoachID)
	if err != nil {
		t.Fatalf("GetTeamFieldingAnalytics() error = %v", err)
	}
	if len(got.Players) != 1 {
		t.Fatalf("got %d summaries, want 1", len(got.Players))
	}
	s := got.Players[0]
	// Кетчер исторически считается в аутфилд-группе.
	if s.OutfieldInnings != 1 || s.InfieldInnings != 1 || s.BenchInnings != 1 {
		t.Fatalf("innings split = in %d / out %d / bench %d, want 1/1/1", s.InfieldInnings, s.OutfieldInnings, s.BenchInnings)
	}
	if s.PositionCounts[models.PositionCatcher] != 1 {
		t.Errorf("position counts = %v, want one catcher inning", s.PositionCounts)
	}
}

func TestTeamAnalyticsBuckets(t *testing.T) {
	f := newAnalyticsFixture()
	f.addGame(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))  // суббота, май
	f.addGame(time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC))  // суббота, май
	f.addGame(time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)) // среда, июнь

	got, err := f.svc.GetTeamAnalytics(context.Background(), f.team.ID, testCoachID)
	if err != nil {
		t.Fatalf("GetTeamAnalytics() error = %v", err)
	}
	if got.TotalGames != 3 {
		t.Fatalf("total games = %d, want 3", got.TotalGames)
	}
	if got.GamesByMonth["May"] != 2 || got.GamesByMonth["June"] != 1 {
		t.Errorf("games by month = %v", got.GamesByMonth)
	}
	if got.GamesByDayOfWeek["Saturday"] != 2 || got.GamesByDayOfWeek["Wednesday"] != 1 {
		t.Errorf("games by day = %v", got.GamesByDayOfWeek)
	}
}

func TestAnalyticsOwnership(t *testing.T) {
	f := newAnalyticsFixture()
	if _, err := f.svc.GetTeamAnalytics(context.Background(), f.team.ID, testOtherID); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("foreign coach: error = %v, want ErrForbiddenOperation", err)
	}
}

func TestFieldingBaselines(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()
	p := f.players.add(&models.Player{TeamID: f.team.ID, Name: "Anna", JerseyNumber: 1})
	g := f.addGame(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC))

	for inning, pos := range map[int]models.Position{
		1: models.PositionPitcher,
		2: models.PositionFirstBase,
		3: models.PositionLeftField,
		4: models.PositionBench, // скамейка в базу не входит
	} {
		if err := f.fielding.Upsert(ctx, nil, &models.FieldingAssignment{
			GameID: g.ID, Inning: inning, PlayerID: p.ID, Position: pos,
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	baselines, err := f.svc.FieldingBaselines(ctx, f.team.ID)
	if err != nil {
		t.Fatalf("FieldingBaselines() error = %v", err)
	}
	base := baselines[p.ID]
	if base.InfieldInnings != 2 || base.OutfieldInnings != 1 {
		t.Fatalf("baseline = %+v, want 2 infield / 1 outfield", base)
	}
}

package services

import (
	"context"
	"sort"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
	"github.com/benchboss/lineup-system/rotation"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService — чистое чтение: сворачивает сохранённые расстановки и
// порядки отбивания в сводки по игрокам и команде. Команда без игр получает
// корректный нулевой результат, а не ошибку.
type AnalyticsService interface {
	GetTeamBattingAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamBattingAnalytics, error)
	GetTeamFieldingAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamFieldingAnalytics, error)
	GetTeamAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamAnalytics, error)
	// FieldingBaselines — исторический инфилд/аутфилд фон игроков команды,
	// вход для балансировки генератора расстановок.
	FieldingBaselines(ctx context.Context, teamID int) (map[int]rotation.Baseline, error)
}

type analyticsService struct {
	teamRepo     repositories.TeamRepository
	playerRepo   repositories.PlayerRepository
	gameRepo     repositories.GameRepository
	battingRepo  repositories.BattingOrderRepository
	fieldingRepo repositories.FieldingRepository
}

func NewAnalyticsService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	battingRepo repositories.BattingOrderRepository,
	fieldingRepo repositories.FieldingRepository,
) AnalyticsService {
	return &analyticsService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		gameRepo:     gameRepo,
		battingRepo:  battingRepo,
		fieldingRepo: fieldingRepo,
	}
}

func (s *analyticsService) GetTeamBattingAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamBattingAnalytics, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}

	var (
		players []*models.Player
		games   []*models.Game
		entries []*models.BattingOrderEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListByTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.battingRepo.ListByTeam(gCtx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type battingAgg struct {
		slotSum    int
		slotCount  int
		gamesSeen  map[int]bool
		slotCounts map[int]int
	}
	byPlayer := make(map[int]*battingAgg, len(players))
	for _, p := range players {
		byPlayer[p.ID] = &battingAgg{gamesSeen: make(map[int]bool), slotCounts: make(map[int]int)}
	}
	for _, e := range entries {
		agg, ok := byPlayer[e.PlayerID]
		if !ok {
			// Игрок удалён из ростера: исторические записи остаются в БД,
			// но в сводку по текущему составу не попадают.
			continue
		}
		agg.slotSum += e.Slot
		agg.slotCount++
		agg.gamesSeen[e.GameID] = true
		agg.slotCounts[e.Slot]++
	}

	result := &models.TeamBattingAnalytics{
		TeamID:  teamID,
		Players: make([]models.PlayerBattingSummary, 0, len(players)),
	}
	for _, p := range players {
		agg := byPlayer[p.ID]
		summary := models.PlayerBattingSummary{
			PlayerID:      p.ID,
			Name:          p.Name,
			JerseyNumber:  p.JerseyNumber,
			TotalGames:    len(games),
			GamesInLineup: len(agg.gamesSeen),
			SlotCounts:    agg.slotCounts,
		}
		if agg.slotCount > 0 {
			summary.AvgBattingPosition = float64(agg.slotSum) / float64(agg.slotCount)
		}
		result.Players = append(result.Players, summary)
	}
	sort.Slice(result.Players, func(i, j int) bool { return result.Players[i].PlayerID < result.Players[j].PlayerID })
	return result, nil
}

func (s *analyticsService) GetTeamFieldingAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamFieldingAnalytics, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}

	var (
		players     []*models.Player
		games       []*models.Game
		assignments []*models.FieldingAssignment
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListByTeam(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.fieldingRepo.ListByTeam(gCtx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make(map[int]*models.PlayerFieldingSummary, len(players))
	gamesSeen := make(map[int]map[int]bool, len(players))
	for _, p := range players {
		summaries[p.ID] = &models.PlayerFieldingSummary{
			PlayerID:       p.ID,
			Name:           p.Name,
			JerseyNumber:   p.JerseyNumber,
			TotalGames:     len(games),
			PositionCounts: make(map[models.Position]int),
		}
		gamesSeen[p.ID] = make(map[int]bool)
	}
	for _, a := range assignments {
		summary, ok := summaries[a.PlayerID]
		if !ok {
			continue
		}
		summary.PositionCounts[a.Position]++
		gamesSeen[a.PlayerID][a.GameID] = true
		// Catcher исторически учитывается в outfield-группе — сохраняем
		// группировку исходных данных.
		switch a.Position.Category() {
		case models.CategoryInfield:
			summary.InfieldInnings++
		case models.CategoryOutfield:
			summary.OutfieldInnings++
		default:
			summary.BenchInnings++
		}
	}

	result := &models.TeamFieldingAnalytics{
		TeamID:  teamID,
		Players: make([]models.PlayerFieldingSummary, 0, len(players)),
	}
	for _, p := range players {
		result.Players = append(result.Players, *summaries[p.ID])
	}
	sort.Slice(result.Players, func(i, j int) bool { return result.Players[i].PlayerID < result.Players[j].PlayerID })
	return result, nil
}

func (s *analyticsService) GetTeamAnalytics(ctx context.Context, teamID, currentUserID int) (*models.TeamAnalytics, error) {
	if _, err := getOwnedTeam(ctx, s.teamRepo, teamID, currentUserID); err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	result := &models.TeamAnalytics{
		TeamID:           teamID,
		TotalGames:       len(games),
		GamesByMonth:     make(map[string]int),
		GamesByDayOfWeek: make(map[string]int),
	}
	for _, game := range games {
		result.GamesByMonth[game.GameTime.Month().String()]++
		result.GamesByDayOfWeek[game.GameTime.Weekday().String()]++
	}
	return result, nil
}

func (s *analyticsService) FieldingBaselines(ctx context.Context, teamID int) (map[int]rotation.Baseline, error) {
	assignments, err := s.fieldingRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	baselines := make(map[int]rotation.Baseline)
	for _, a := range assignments {
		base := baselines[a.PlayerID]
		switch a.Position.Category() {
		case models.CategoryInfield:
			base.InfieldInnings++
		case models.CategoryOutfield:
			base.OutfieldInnings++
		}
		baselines[a.PlayerID] = base
	}
	return baselines, nil
}

package rotation

import (
	"context"
	"fmt"
	"sort"

	"github.com/benchboss/lineup-system/models"
)

// FairRotationGenerator строит расстановку иннинг за иннингом: сначала кетчер
// из числа допущенных, затем остальные слоты по накопленному числу иннингов на
// скамейке (кто больше сидел — тот выходит на поле), остальные на скамейку.
// Никакой случайности: одинаковые входы дают байт-в-байт одинаковый результат.
type FairRotationGenerator struct {
}

func NewFairRotationGenerator() Generator {
	return &FairRotationGenerator{}
}

func (g *FairRotationGenerator) GetName() string {
	return "FairRotation"
}

type playerTally struct {
	bench        int
	infield      int
	outfield     int
	timesCaught  int
	lastCaughtAt int
}

func (g *FairRotationGenerator) Generate(ctx context.Context, params GenerateParams) (*Result, error) {
	if params.Innings < models.MinInnings || params.Innings > models.MaxInnings {
		return nil, ErrInvalidInnings
	}
	if len(params.Players) == 0 {
		return nil, ErrEmptyRoster
	}

	players := make([]models.AvailablePlayer, len(params.Players))
	copy(players, params.Players)
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	tallies := make(map[int]*playerTally, len(players))
	for _, p := range players {
		tallies[p.ID] = &playerTally{}
	}

	result := &Result{
		Assignments: make([]*models.FieldingAssignment, 0, params.Innings*len(players)),
		Warnings:    make([]Warning, 0),
	}

	for inning := 1; inning <= params.Innings; inning++ {
		placed := make(map[int]bool, len(players))
		filled := 0

		// Кетчер первым: среди допущенных берём того, кто ловил меньше всех
		// и дольше всех назад; при равенстве — меньший id.
		catcher := g.pickCatcher(players, tallies)
		if catcher != nil {
			t := tallies[catcher.ID]
			t.outfield++ // Catcher исторически учитывается в outfield-группе
			t.timesCaught++
			t.lastCaughtAt = inning
			placed[catcher.ID] = true
			filled++
			result.Assignments = append(result.Assignments, &models.FieldingAssignment{
				GameID:   params.GameID,
				Inning:   inning,
				PlayerID: catcher.ID,
				Position: models.PositionCatcher,
			})
		} else {
			result.Warnings = append(result.Warnings, Warning{
				Inning:  inning,
				Message: "no catcher-eligible player available, catcher slot left unfilled",
			})
		}

		// Открытые слоты без кетчера, в каноническом порядке заполнения.
		openInfield := append([]models.Position(nil), models.InfieldPositions...)
		openOutfield := make([]models.Position, 0, len(models.OutfieldPositions)-1)
		for _, pos := range models.OutfieldPositions {
			if pos != models.PositionCatcher {
				openOutfield = append(openOutfield, pos)
			}
		}

		// На поле выходят в первую очередь те, кто больше сидел на скамейке.
		candidates := make([]models.AvailablePlayer, 0, len(players))
		for _, p := range players {
			if !placed[p.ID] {
				candidates = append(candidates, p)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			bi, bj := tallies[candidates[i].ID].bench, tallies[candidates[j].ID].bench
			if bi != bj {
				return bi > bj
			}
			return candidates[i].ID < candidates[j].ID
		})

		openTotal := len(openInfield) + len(openOutfield)
		fielders := len(candidates)
		if fielders > openTotal {
			fielders = openTotal
		}

		for _, p := range candidates[:fielders] {
			t := tallies[p.ID]
			pos, fromInfield := g.pickSlot(t, params.Baselines[p.ID], openInfield, openOutfield)
			if fromInfield {
				openInfield = openInfield[1:]
				t.infield++
			} else {
				openOutfield = openOutfield[1:]
				t.outfield++
			}
			placed[p.ID] = true
			filled++
			result.Assignments = append(result.Assignments, &models.FieldingAssignment{
				GameID:   params.GameID,
				Inning:   inning,
				PlayerID: p.ID,
				Position: pos,
			})
		}

		// Все оставшиеся — на скамейку. Bench не имеет лимита занятости.
		for _, p := range candidates[fielders:] {
			tallies[p.ID].bench++
			result.Assignments = append(result.Assignments, &models.FieldingAssignment{
				GameID:   params.GameID,
				Inning:   inning,
				PlayerID: p.ID,
				Position: models.PositionBench,
			})
		}

		// Если игроков меньше, чем слотов, часть позиций остаётся пустой —
		// это предупреждение, а не ошибка; следующий иннинг строится дальше.
		if filled < len(models.FieldPositions) && len(players) < len(models.FieldPositions) {
			result.Warnings = append(result.Warnings, Warning{
				Inning:  inning,
				Message: fmt.Sprintf("only %d of %d positions filled", filled, len(models.FieldPositions)),
			})
		}
	}

	sort.Slice(result.Assignments, func(i, j int) bool {
		if result.Assignments[i].Inning != result.Assignments[j].Inning {
			return result.Assignments[i].Inning < result.Assignments[j].Inning
		}
		return result.Assignments[i].PlayerID < result.Assignments[j].PlayerID
	})

	return result, nil
}

func (g *FairRotationGenerator) pickCatcher(players []models.AvailablePlayer, tallies map[int]*playerTally) *models.AvailablePlayer {
	var best *models.AvailablePlayer
	for i := range players {
		p := &players[i]
		if !p.EffectiveCanPlayCatcher {
			continue
		}
		if best == nil {
			best = p
			continue
		}
		tb, tp := tallies[best.ID], tallies[p.ID]
		switch {
		case tp.timesCaught != tb.timesCaught:
			if tp.timesCaught < tb.timesCaught {
				best = p
			}
		case tp.lastCaughtAt != tb.lastCaughtAt:
			if tp.lastCaughtAt < tb.lastCaughtAt {
				best = p
			}
		case p.ID < best.ID:
			best = p
		}
	}
	return best
}

// pickSlot выбирает категорию с дефицитом (с учётом исторической базы) и
// отдаёт первый открытый слот из неё; при равенстве — инфилд.
func (g *FairRotationGenerator) pickSlot(t *playerTally, base Baseline, openInfield, openOutfield []models.Position) (models.Position, bool) {
	infieldTotal := t.infield + base.InfieldInnings
	outfieldTotal := t.outfield + base.OutfieldInnings

	preferInfield := infieldTotal <= outfieldTotal
	if preferInfield && len(openInfield) > 0 {
		return openInfield[0], true
	}
	if !preferInfield && len(openOutfield) > 0 {
		return openOutfield[0], false
	}
	if len(openInfield) > 0 {
		return openInfield[0], true
	}
	return openOutfield[0], false
}

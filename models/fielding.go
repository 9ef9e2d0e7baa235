package models

import "time"

// Position — закрытый набор из 11 значений. Bench не является игровой
// позицией, но хранится в той же колонке.
type Position string

const (
	PositionPitcher     Position = "Pitcher"
	PositionCatcher     Position = "Catcher"
	PositionFirstBase   Position = "1B"
	PositionSecondBase  Position = "2B"
	PositionThirdBase   Position = "3B"
	PositionShortstop   Position = "SS"
	PositionLeftField   Position = "LF"
	PositionRightField  Position = "RF"
	PositionLeftCenter  Position = "LC"
	PositionRightCenter Position = "RC"
	PositionBench       Position = "Bench"
)

type PositionCategory string

const (
	CategoryInfield  PositionCategory = "infield"
	CategoryOutfield PositionCategory = "outfield"
	CategoryBench    PositionCategory = "bench"
)

// FieldPositions — все десять игровых слотов в каноническом порядке заполнения.
var FieldPositions = []Position{
	PositionPitcher,
	PositionCatcher,
	PositionFirstBase,
	PositionSecondBase,
	PositionThirdBase,
	PositionShortstop,
	PositionLeftField,
	PositionRightField,
	PositionLeftCenter,
	PositionRightCenter,
}

var InfieldPositions = []Position{
	PositionPitcher,
	PositionFirstBase,
	PositionSecondBase,
	PositionThirdBase,
	PositionShortstop,
}

// Catcher исторически попадает в outfield-группу аналитики. Исходные данные
// сгруппированы именно так, менять без подтверждения продукта нельзя.
var OutfieldPositions = []Position{
	PositionCatcher,
	PositionLeftField,
	PositionRightField,
	PositionLeftCenter,
	PositionRightCenter,
}

func (p Position) IsValid() bool {
	switch p {
	case PositionPitcher, PositionCatcher, PositionFirstBase, PositionSecondBase,
		PositionThirdBase, PositionShortstop, PositionLeftField, PositionRightField,
		PositionLeftCenter, PositionRightCenter, PositionBench:
		return true
	}
	return false
}

func (p Position) Category() PositionCategory {
	switch p {
	case PositionPitcher, PositionFirstBase, PositionSecondBase, PositionThirdBase, PositionShortstop:
		return CategoryInfield
	case PositionCatcher, PositionLeftField, PositionRightField, PositionLeftCenter, PositionRightCenter:
		return CategoryOutfield
	default:
		return CategoryBench
	}
}

type FieldingAssignment struct {
	ID        int       `json:"id"`
	GameID    int       `json:"game_id"`
	Inning    int       `json:"inning"`
	PlayerID  int       `json:"player_id"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

package rotation

import (
	"context"
	"errors"

	"github.com/benchboss/lineup-system/models"
)

var (
	ErrEmptyRoster    = errors.New("no available players to build a rotation for")
	ErrInvalidInnings = errors.New("innings must be between 1 and 9")
)

// Baseline — исторический фон игрока по категориям, подтягивается из
// аналитики. Нулевое значение допустимо (нового игрока считаем с нуля).
type Baseline struct {
	InfieldInnings  int
	OutfieldInnings int
}

type GenerateParams struct {
	GameID  int
	Innings int
	// Players — доступные на игру игроки. Порядок не важен: генератор сам
	// сортирует по id для воспроизводимости.
	Players   []models.AvailablePlayer
	Baselines map[int]Baseline
}

// Warning — нефатальное замечание к успешно построенной расстановке
// (например, иннинг заполнен частично).
type Warning struct {
	Inning  int    `json:"inning"`
	Message string `json:"message"`
}

type Result struct {
	Assignments []*models.FieldingAssignment `json:"assignments"`
	Warnings    []Warning                    `json:"warnings"`
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) (*Result, error)

	GetName() string
}

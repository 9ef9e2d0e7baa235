package models

import "time"

type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCanceled  GameStatus = "canceled"
)

const (
	MinInnings     = 1
	MaxInnings     = 9
	DefaultInnings = 6
)

type Game struct {
	ID        int        `json:"id"`
	TeamID    int        `json:"team_id"`
	Opponent  string     `json:"opponent"`
	GameTime  time.Time  `json:"game_time"`
	Innings   int        `json:"innings"`
	Status    GameStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`

	Team *Team `json:"team,omitempty"`
}

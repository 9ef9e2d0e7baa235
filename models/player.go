package models

import "time"

type Player struct {
	ID             int       `json:"id"`
	TeamID         int       `json:"team_id"`
	Name           string    `json:"name"`
	JerseyNumber   int       `json:"jersey_number"`
	CanPlayCatcher bool      `json:"can_play_catcher"`
	CreatedAt      time.Time `json:"created_at"`

	PhotoKey *string `json:"-"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// AvailablePlayer — игрок, отмеченный доступным на конкретную игру, с
// эффективным правом играть кетчером (флаг игрока ИЛИ переопределение на игру).
type AvailablePlayer struct {
	Player
	EffectiveCanPlayCatcher bool `json:"effective_can_play_catcher"`
}

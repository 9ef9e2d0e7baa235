package models

import "time"

type Team struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Name           string    `json:"name"`
	League         string    `json:"league"`
	HeadCoach      string    `json:"head_coach"`
	AssistantCoach string    `json:"assistant_coach,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Players []Player `json:"players,omitempty"`

	LogoKey *string `json:"-"`
	LogoURL *string `json:"logo_url,omitempty"`
}

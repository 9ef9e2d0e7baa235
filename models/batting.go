package models

import "time"

type BattingOrderEntry struct {
	ID        int       `json:"id"`
	GameID    int       `json:"game_id"`
	PlayerID  int       `json:"player_id"`
	Slot      int       `json:"slot"`
	CreatedAt time.Time `json:"created_at"`
}

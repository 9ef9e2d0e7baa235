package models

import "time"

// PlayerAvailability хранится по паре (game, player). Отсутствие записи
// означает "доступен, без переопределения кетчера" — политика по умолчанию.
type PlayerAvailability struct {
	ID                     int       `json:"id"`
	GameID                 int       `json:"game_id"`
	PlayerID               int       `json:"player_id"`
	Available              bool      `json:"available"`
	CanPlayCatcherOverride bool      `json:"can_play_catcher_override"`
	CreatedAt              time.Time `json:"created_at"`
}

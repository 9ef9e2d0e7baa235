package models

type PlayerBattingSummary struct {
	PlayerID           int         `json:"player_id"`
	Name               string      `json:"name"`
	JerseyNumber       int         `json:"jersey_number"`
	TotalGames         int         `json:"total_games"`
	GamesInLineup      int         `json:"games_in_lineup"`
	AvgBattingPosition float64     `json:"avg_batting_position"`
	SlotCounts         map[int]int `json:"slot_counts"`
}

type PlayerFieldingSummary struct {
	PlayerID        int              `json:"player_id"`
	Name            string           `json:"name"`
	JerseyNumber    int              `json:"jersey_number"`
	TotalGames      int              `json:"total_games"`
	PositionCounts  map[Position]int `json:"position_counts"`
	InfieldInnings  int              `json:"infield_innings"`
	OutfieldInnings int              `json:"outfield_innings"`
	BenchInnings    int              `json:"bench_innings"`
}

type TeamBattingAnalytics struct {
	TeamID  int                    `json:"team_id"`
	Players []PlayerBattingSummary `json:"players"`
}

type TeamFieldingAnalytics struct {
	TeamID  int                     `json:"team_id"`
	Players []PlayerFieldingSummary `json:"players"`
}

type TeamAnalytics struct {
	TeamID           int            `json:"team_id"`
	TotalGames       int            `json:"total_games"`
	GamesByMonth     map[string]int `json:"games_by_month"`
	GamesByDayOfWeek map[string]int `json:"games_by_day_of_week"`
}

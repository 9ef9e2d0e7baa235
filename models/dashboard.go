package models

type DashboardStats struct {
	UsersTotal       int `json:"users_total"`
	PendingUsers     int `json:"pending_users"`
	BannedUsers      int `json:"banned_users"`
	TeamsTotal       int `json:"teams_total"`
	GamesTotal       int `json:"games_total"`
	AssignmentsTotal int `json:"assignments_total"`
}

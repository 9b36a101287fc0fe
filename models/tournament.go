package models

import "time"

// Tournament groups teams. TotalTeams is informational and not enforced.
type Tournament struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	TotalTeams int       `json:"total_teams" db:"total_teams"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

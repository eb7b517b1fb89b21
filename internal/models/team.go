package models

import "time"

// Team groups ambassadors under a leader.
type Team struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	LeaderID  int64     `db:"leader_id" json:"leader_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeamMember links a user to a team.
type TeamMember struct {
	ID     int64 `db:"id" json:"id"`
	TeamID int64 `db:"team_id" json:"team_id"`
	UserID int64 `db:"user_id" json:"user_id"`
}

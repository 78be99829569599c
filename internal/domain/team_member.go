package domain

import "time"

// TeamMember is a person belonging to exactly one team.
type TeamMember struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

package domain

import "time"

// Team groups members and owns documents.
type Team struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	Members     []TeamMember
}

// Clone returns a copy with its own member slice. An empty slice stays empty, not nil.
func (t Team) Clone() Team {
	if t.Members != nil {
		members := make([]TeamMember, len(t.Members))
		copy(members, t.Members)
		t.Members = members
	}
	return t
}

// FindMember returns the index of the member with the given id, or -1.
func (t Team) FindMember(id string) int {
	for i := range t.Members {
		if t.Members[i].ID == id {
			return i
		}
	}
	return -1
}

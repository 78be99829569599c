package dto

import (
	"time"

	"github.com/spec-kit/convodocs/internal/domain"
)

// TeamRequest is the create/update payload for a team.
type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MemberRequest is the create/update payload for a member.
type MemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MemberResponse is the wire form of a team member.
type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamResponse is the wire form of a team with its members.
type TeamResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	Members     []MemberResponse `json:"members"`
}

// NewMemberResponse converts a domain member.
func NewMemberResponse(m *domain.TeamMember) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role, CreatedAt: m.CreatedAt}
}

// NewTeamResponse converts a domain team.
func NewTeamResponse(t *domain.Team) TeamResponse {
	members := make([]MemberResponse, 0, len(t.Members))
	for i := range t.Members {
		members = append(members, NewMemberResponse(&t.Members[i]))
	}
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		Members:     members,
	}
}

// ToDomain converts the wire form back into a domain member.
func (r MemberResponse) ToDomain() domain.TeamMember {
	return domain.TeamMember{ID: r.ID, Name: r.Name, Email: r.Email, Role: r.Role, CreatedAt: r.CreatedAt}
}

// ToDomain converts the wire form back into a domain team.
func (r TeamResponse) ToDomain() domain.Team {
	members := make([]domain.TeamMember, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m.ToDomain())
	}
	return domain.Team{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Members:     members,
	}
}

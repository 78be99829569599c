package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
)

const (
	resourceTeam   = "team"
	resourceMember = "member"
)

// TeamsClient exposes the /teams resource and its member sub-resource.
type TeamsClient struct {
	c *Client
}

// List GET /teams/.
func (t *TeamsClient) List(ctx context.Context) ([]domain.Team, error) {
	var out []dto.TeamResponse
	if err := t.c.do(ctx, resourceTeam, "list", http.MethodGet, "/teams/", nil, &out); err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(out))
	for _, r := range out {
		teams = append(teams, r.ToDomain())
	}
	return teams, nil
}

// Get GET /teams/:id.
func (t *TeamsClient) Get(ctx context.Context, id string) (*domain.Team, error) {
	return t.one(ctx, "get", http.MethodGet, teamPath(id), nil)
}

// Create POST /teams/.
func (t *TeamsClient) Create(ctx context.Context, req dto.TeamRequest) (*domain.Team, error) {
	return t.one(ctx, "create", http.MethodPost, "/teams/", req)
}

// Update PUT /teams/:id.
func (t *TeamsClient) Update(ctx context.Context, id string, req dto.TeamRequest) (*domain.Team, error) {
	return t.one(ctx, "update", http.MethodPut, teamPath(id), req)
}

// Delete DELETE /teams/:id.
func (t *TeamsClient) Delete(ctx context.Context, id string) error {
	return t.c.do(ctx, resourceTeam, "delete", http.MethodDelete, teamPath(id), nil, nil)
}

// AddMember POST /teams/:id/members.
func (t *TeamsClient) AddMember(ctx context.Context, teamID string, req dto.MemberRequest) (*domain.TeamMember, error) {
	return t.member(ctx, "create", http.MethodPost, teamPath(teamID)+"/members", req)
}

// UpdateMember PUT /teams/:id/members/:memberId.
func (t *TeamsClient) UpdateMember(ctx context.Context, teamID, memberID string, req dto.MemberRequest) (*domain.TeamMember, error) {
	return t.member(ctx, "update", http.MethodPut, memberPath(teamID, memberID), req)
}

// DeleteMember DELETE /teams/:id/members/:memberId.
func (t *TeamsClient) DeleteMember(ctx context.Context, teamID, memberID string) error {
	return t.c.do(ctx, resourceMember, "delete", http.MethodDelete, memberPath(teamID, memberID), nil, nil)
}

func (t *TeamsClient) one(ctx context.Context, action, method, path string, body any) (*domain.Team, error) {
	var out dto.TeamResponse
	if err := t.c.do(ctx, resourceTeam, action, method, path, body, &out); err != nil {
		return nil, err
	}
	team := out.ToDomain()
	return &team, nil
}

func (t *TeamsClient) member(ctx context.Context, action, method, path string, body any) (*domain.TeamMember, error) {
	var out dto.MemberResponse
	if err := t.c.do(ctx, resourceMember, action, method, path, body, &out); err != nil {
		return nil, err
	}
	m := out.ToDomain()
	return &m, nil
}

func teamPath(id string) string {
	return "/teams/" + url.PathEscape(id)
}

func memberPath(teamID, memberID string) string {
	return teamPath(teamID) + "/members/" + url.PathEscape(memberID)
}

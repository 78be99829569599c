package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/events"
	"github.com/spec-kit/convodocs/internal/repository"
	apperrors "github.com/spec-kit/convodocs/pkg/util/errorutil"
)

// TeamService manages teams and their members.
type TeamService struct {
	teams      repository.TeamRepository
	documents  repository.DocumentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	TeamRepo     repository.TeamRepository
	DocumentRepo repository.DocumentRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// TeamInput is the create/update payload for a team.
type TeamInput struct {
	Name        string
	Description string
}

// MemberInput is the create/update payload for a team member.
type MemberInput struct {
	Name  string
	Email string
	Role  string
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = systemClock
	}
	return &TeamService{
		teams:      deps.TeamRepo,
		documents:  deps.DocumentRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// ListTeams returns all teams with their members.
func (s *TeamService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// GetTeam fetches one team.
func (s *TeamService) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamErr(err, id)
	}
	return team, nil
}

// CreateTeam stores a new team with no members.
func (s *TeamService) CreateTeam(ctx context.Context, input TeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	team := &domain.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.now(),
		Members:     []domain.TeamMember{},
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("team created", zap.String("team_id", team.ID))
	return team, nil
}

// UpdateTeam replaces a team's name and description.
func (s *TeamService) UpdateTeam(ctx context.Context, id string, input TeamInput) (*domain.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamErr(err, id)
	}
	team.Name = name
	team.Description = strings.TrimSpace(input.Description)
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, mapTeamErr(err, id)
	}
	return team, nil
}

// DeleteTeam removes a team, its members and its documents.
// Documents go through the document repository first so any cache in front of it is invalidated.
func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return mapTeamErr(err, id)
	}

	removed := 0
	if s.documents != nil {
		docs, err := s.documents.List(ctx, repository.DocumentFilter{TeamID: &id})
		if err != nil {
			return apperrors.MapError(err)
		}
		for _, doc := range docs {
			if err := s.documents.Delete(ctx, doc.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return apperrors.MapError(err)
			}
			removed++
		}
	}

	if err := s.teams.Delete(ctx, id); err != nil {
		return mapTeamErr(err, id)
	}
	s.logger.Info("team deleted", zap.String("team_id", id), zap.Int("documents_removed", removed))
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:     events.EventTeamDeleted,
		EntityID: id,
		Payload: events.TeamDeletedPayload{
			Name:             team.Name,
			MembersRemoved:   len(team.Members),
			DocumentsRemoved: removed,
		},
	})
	return nil
}

// ListMembers returns the members of a team in insertion order.
func (s *TeamService) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapTeamErr(err, teamID)
	}
	return team.Members, nil
}

// AddMember appends a member to a team.
func (s *TeamService) AddMember(ctx context.Context, teamID string, input MemberInput) (*domain.TeamMember, error) {
	member, err := validateMember(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, mapTeamErr(err, teamID)
	}
	member.ID = uuid.NewString()
	member.CreatedAt = s.now()
	if err := s.teams.AddMember(ctx, teamID, member); err != nil {
		return nil, mapTeamErr(err, teamID)
	}
	return member, nil
}

// UpdateMember replaces a member's name, email and role.
func (s *TeamService) UpdateMember(ctx context.Context, teamID, memberID string, input MemberInput) (*domain.TeamMember, error) {
	member, err := validateMember(input)
	if err != nil {
		return nil, err
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapTeamErr(err, teamID)
	}
	idx := team.FindMember(memberID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
	}
	member.ID = memberID
	member.CreatedAt = team.Members[idx].CreatedAt
	if err := s.teams.UpdateMember(ctx, teamID, member); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// DeleteMember removes one member from a team.
func (s *TeamService) DeleteMember(ctx context.Context, teamID, memberID string) error {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return mapTeamErr(err, teamID)
	}
	if err := s.teams.DeleteMember(ctx, teamID, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func validateMember(input MemberInput) (*domain.TeamMember, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	missing := []string{}
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("member name and email required", map[string]any{"missing": missing})
	}
	return &domain.TeamMember{
		Name:  name,
		Email: email,
		Role:  strings.TrimSpace(input.Role),
	}, nil
}

func mapTeamErr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("team", map[string]any{"team_id": id})
	}
	return apperrors.MapError(err)
}

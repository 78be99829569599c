// Package teams manages the team collection, nested members, selection and dialog state.
package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
)

var (
	ErrValidation     = errors.New("teams: validation failed")
	ErrNoTeamSelected = errors.New("teams: no team selected")
	ErrTeamNotFound   = errors.New("teams: team not found")
	ErrMemberNotFound = errors.New("teams: member not found")
	ErrDialogClosed   = errors.New("teams: dialog is not open")
	ErrIDExhausted    = errors.New("teams: no unused id after retries")
)

const (
	MsgTeamSaved          = "Team saved successfully"
	MsgTeamSaveFailed     = "Failed to save team"
	MsgTeamDeleted        = "Team deleted successfully"
	MsgTeamDeleteFailed   = "Failed to delete team"
	MsgMemberSaved        = "Member saved successfully"
	MsgMemberSaveFailed   = "Failed to save member"
	MsgMemberDeleted      = "Member removed successfully"
	MsgMemberDeleteFailed = "Failed to remove member"
	MsgLoadFailed         = "Failed to load teams"
)

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the manager's single user-facing message slot.
type Notification struct {
	Message  string
	Severity Severity
}

// Store is the remote team API. When a manager has one, local changes are committed
// only after the matching remote call succeeds.
type Store interface {
	List(ctx context.Context) ([]domain.Team, error)
	Create(ctx context.Context, req dto.TeamRequest) (*domain.Team, error)
	Update(ctx context.Context, id string, req dto.TeamRequest) (*domain.Team, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID string, req dto.MemberRequest) (*domain.TeamMember, error)
	UpdateMember(ctx context.Context, teamID, memberID string, req dto.MemberRequest) (*domain.TeamMember, error)
	DeleteMember(ctx context.Context, teamID, memberID string) error
}

// Options configures a Manager.
type Options struct {
	// Store is optional; without it the manager works purely in memory.
	Store  Store
	Logger *zap.Logger
	NewID  func() string
	Now    func() time.Time
}

// State is a deep copy of the manager's state.
type State struct {
	Teams          []domain.Team
	SelectedTeamID string
	TeamDialog     TeamDialog
	MemberDialog   MemberDialog
	Notification   *Notification
}

// SelectedTeam returns the selected team, if any.
func (s State) SelectedTeam() (domain.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == s.SelectedTeamID {
			return t, true
		}
	}
	return domain.Team{}, false
}

// Manager owns the team collection. Mutations are serialized and hold the lock
// across remote calls so they never interleave.
type Manager struct {
	mu sync.Mutex

	store  Store
	logger *zap.Logger
	newID  func() string
	now    func() time.Time

	teams        []domain.Team
	selected     string
	teamDialog   TeamDialog
	memberDialog MemberDialog
	notification *Notification
}

// NewManager seeds a manager with initial teams.
func NewManager(initial []domain.Team, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Manager{
		store:  opts.Store,
		logger: logger,
		newID:  newID,
		now:    now,
		teams:  cloneTeams(initial),
	}
}

// Load replaces the collection with the store's teams. It is a no-op without a store.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	teams, err := m.store.List(ctx)
	if err != nil {
		m.notify(MsgLoadFailed, SeverityError)
		m.logger.Warn("load teams failed", zap.Error(err))
		return fmt.Errorf("load teams: %w", err)
	}
	m.commit(cloneTeams(teams), m.selected)
	return nil
}

// Select marks a team as selected. An empty id clears the selection.
func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" && indexOf(m.teams, id) < 0 {
		return ErrTeamNotFound
	}
	m.selected = id
	return nil
}

// OpenTeamDialog opens the team dialog, pre-filled from team when editing.
func (m *Manager) OpenTeamDialog(team *domain.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if team == nil {
		m.teamDialog = TeamDialog{Open: true, Mode: CreateMode()}
		return
	}
	m.teamDialog = TeamDialog{
		Open: true,
		Mode: EditMode(team.ID),
		Form: TeamForm{Name: team.Name, Description: team.Description},
	}
}

// SetTeamForm replaces the team dialog's form.
func (m *Manager) SetTeamForm(form TeamForm) {
	m.mu.Lock()
	m.teamDialog.Form = form
	m.mu.Unlock()
}

// CloseTeamDialog discards the team dialog.
func (m *Manager) CloseTeamDialog() {
	m.mu.Lock()
	m.teamDialog = TeamDialog{}
	m.mu.Unlock()
}

// SaveTeam applies the team dialog. Creating appends and selects the new team;
// editing replaces name and description in place.
func (m *Manager) SaveTeam(ctx context.Context) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dialog := m.teamDialog
	if !dialog.Open {
		return domain.Team{}, ErrDialogClosed
	}
	name := strings.TrimSpace(dialog.Form.Name)
	if name == "" {
		return domain.Team{}, fmt.Errorf("%w: team name required", ErrValidation)
	}
	req := dto.TeamRequest{Name: name, Description: strings.TrimSpace(dialog.Form.Description)}

	next := cloneTeams(m.teams)
	selected := m.selected
	var saved domain.Team

	if dialog.Mode.IsEdit() {
		idx := indexOf(next, dialog.Mode.TargetID)
		if idx < 0 {
			return domain.Team{}, ErrTeamNotFound
		}
		next[idx].Name = req.Name
		next[idx].Description = req.Description
		if m.store != nil {
			remote, err := m.store.Update(ctx, dialog.Mode.TargetID, req)
			if err != nil {
				return domain.Team{}, m.fail(MsgTeamSaveFailed, "update team", err)
			}
			next[idx].Name = remote.Name
			next[idx].Description = remote.Description
		}
		saved = next[idx].Clone()
	} else {
		var team domain.Team
		if m.store != nil {
			remote, err := m.store.Create(ctx, req)
			if err != nil {
				return domain.Team{}, m.fail(MsgTeamSaveFailed, "create team", err)
			}
			team = remote.Clone()
			if team.Members == nil {
				team.Members = []domain.TeamMember{}
			}
		} else {
			id, err := m.newTeamID(next)
			if err != nil {
				return domain.Team{}, m.fail(MsgTeamSaveFailed, "create team", err)
			}
			team = domain.Team{
				ID:          id,
				Name:        req.Name,
				Description: req.Description,
				CreatedAt:   m.now(),
				Members:     []domain.TeamMember{},
			}
		}
		next = append(next, team)
		selected = team.ID
		saved = team.Clone()
	}

	m.commit(next, selected)
	m.teamDialog = TeamDialog{}
	m.notify(MsgTeamSaved, SeveritySuccess)
	return saved, nil
}

// DeleteTeam removes a team and its members, clearing the selection if it pointed at it.
func (m *Manager) DeleteTeam(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexOf(m.teams, id)
	if idx < 0 {
		return ErrTeamNotFound
	}
	next := cloneTeams(m.teams)
	next = append(next[:idx], next[idx+1:]...)

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			return m.fail(MsgTeamDeleteFailed, "delete team", err)
		}
	}
	m.commit(next, m.selected)
	if m.memberDialog.TeamID == id {
		m.memberDialog = MemberDialog{}
	}
	if m.teamDialog.Mode.IsEdit() && m.teamDialog.Mode.TargetID == id {
		m.teamDialog = TeamDialog{}
	}
	m.notify(MsgTeamDeleted, SeveritySuccess)
	return nil
}

// OpenMemberDialog selects teamID and opens the member dialog, pre-filled from member when editing.
func (m *Manager) OpenMemberDialog(teamID string, member *domain.TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.teams, teamID) < 0 {
		return ErrTeamNotFound
	}
	m.selected = teamID
	if member == nil {
		m.memberDialog = MemberDialog{Open: true, Mode: CreateMode(), TeamID: teamID}
		return nil
	}
	m.memberDialog = MemberDialog{
		Open:   true,
		Mode:   EditMode(member.ID),
		TeamID: teamID,
		Form:   MemberForm{Name: member.Name, Email: member.Email, Role: member.Role},
	}
	return nil
}

// SetMemberForm replaces the member dialog's form.
func (m *Manager) SetMemberForm(form MemberForm) {
	m.mu.Lock()
	m.memberDialog.Form = form
	m.mu.Unlock()
}

// CloseMemberDialog discards the member dialog.
func (m *Manager) CloseMemberDialog() {
	m.mu.Lock()
	m.memberDialog = MemberDialog{}
	m.mu.Unlock()
}

// SaveMember applies the member dialog to the selected team.
func (m *Manager) SaveMember(ctx context.Context) (domain.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dialog := m.memberDialog
	if !dialog.Open {
		return domain.TeamMember{}, ErrDialogClosed
	}
	teamIdx := indexOf(m.teams, m.selected)
	if m.selected == "" || teamIdx < 0 {
		return domain.TeamMember{}, ErrNoTeamSelected
	}
	req := dto.MemberRequest{
		Name:  strings.TrimSpace(dialog.Form.Name),
		Email: strings.TrimSpace(dialog.Form.Email),
		Role:  strings.TrimSpace(dialog.Form.Role),
	}
	if req.Name == "" || req.Email == "" {
		return domain.TeamMember{}, fmt.Errorf("%w: member name and email required", ErrValidation)
	}

	next := cloneTeams(m.teams)
	team := &next[teamIdx]
	var saved domain.TeamMember

	if dialog.Mode.IsEdit() {
		memberIdx := team.FindMember(dialog.Mode.TargetID)
		if memberIdx < 0 {
			return domain.TeamMember{}, ErrMemberNotFound
		}
		member := &team.Members[memberIdx]
		member.Name, member.Email, member.Role = req.Name, req.Email, req.Role
		if m.store != nil {
			remote, err := m.store.UpdateMember(ctx, team.ID, member.ID, req)
			if err != nil {
				return domain.TeamMember{}, m.fail(MsgMemberSaveFailed, "update member", err)
			}
			member.Name, member.Email, member.Role = remote.Name, remote.Email, remote.Role
		}
		saved = *member
	} else {
		var member domain.TeamMember
		if m.store != nil {
			remote, err := m.store.AddMember(ctx, team.ID, req)
			if err != nil {
				return domain.TeamMember{}, m.fail(MsgMemberSaveFailed, "add member", err)
			}
			member = *remote
		} else {
			id, err := m.newMemberID(team)
			if err != nil {
				return domain.TeamMember{}, m.fail(MsgMemberSaveFailed, "add member", err)
			}
			member = domain.TeamMember{
				ID:        id,
				Name:      req.Name,
				Email:     req.Email,
				Role:      req.Role,
				CreatedAt: m.now(),
			}
		}
		team.Members = append(team.Members, member)
		saved = member
	}

	m.commit(next, m.selected)
	m.memberDialog = MemberDialog{}
	m.notify(MsgMemberSaved, SeveritySuccess)
	return saved, nil
}

// DeleteMember removes one member from one team. Other teams are untouched.
func (m *Manager) DeleteMember(ctx context.Context, teamID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	teamIdx := indexOf(m.teams, teamID)
	if teamIdx < 0 {
		return ErrTeamNotFound
	}
	next := cloneTeams(m.teams)
	team := &next[teamIdx]
	memberIdx := team.FindMember(memberID)
	if memberIdx < 0 {
		return ErrMemberNotFound
	}
	team.Members = append(team.Members[:memberIdx], team.Members[memberIdx+1:]...)

	if m.store != nil {
		if err := m.store.DeleteMember(ctx, teamID, memberID); err != nil {
			return m.fail(MsgMemberDeleteFailed, "delete member", err)
		}
	}
	m.commit(next, m.selected)
	m.notify(MsgMemberDeleted, SeveritySuccess)
	return nil
}

// DismissNotification clears the notification slot.
func (m *Manager) DismissNotification() {
	m.mu.Lock()
	m.notification = nil
	m.mu.Unlock()
}

// State returns a deep copy of the manager state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := State{
		Teams:          cloneTeams(m.teams),
		SelectedTeamID: m.selected,
		TeamDialog:     m.teamDialog,
		MemberDialog:   m.memberDialog,
	}
	if m.notification != nil {
		n := *m.notification
		st.Notification = &n
	}
	return st
}

// commit swaps in a new snapshot and keeps the selection pointing at an existing team.
func (m *Manager) commit(next []domain.Team, selected string) {
	if selected != "" && indexOf(next, selected) < 0 {
		selected = ""
	}
	m.teams = next
	m.selected = selected
}

func (m *Manager) fail(message, action string, err error) error {
	m.notify(message, SeverityError)
	m.logger.Warn(action+" failed", zap.Error(err))
	return fmt.Errorf("%s: %w", action, err)
}

func (m *Manager) notify(message string, severity Severity) {
	m.notification = &Notification{Message: message, Severity: severity}
}

const maxIDAttempts = 16

func (m *Manager) newTeamID(teams []domain.Team) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		if id := m.newID(); indexOf(teams, id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// newMemberID draws ids until one is unused within the team and distinct from the team id.
func (m *Manager) newMemberID(team *domain.Team) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := m.newID()
		if id != team.ID && team.FindMember(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func indexOf(teams []domain.Team, id string) int {
	for i := range teams {
		if teams[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTeams(teams []domain.Team) []domain.Team {
	out := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.Clone())
	}
	return out
}

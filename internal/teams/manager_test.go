package teams

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/domain"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixtureTeams() []domain.Team {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Team{
		{ID: "eng", Name: "Engineering", CreatedAt: created, Members: []domain.TeamMember{
			{ID: "m1", Name: "Ada", Email: "ada@example.com", Role: "lead"},
			{ID: "m2", Name: "Linus", Email: "linus@example.com"},
		}},
		{ID: "ops", Name: "Operations", CreatedAt: created, Members: []domain.TeamMember{
			{ID: "m3", Name: "Grace", Email: "grace@example.com"},
		}},
	}
}

func newLocalManager() *Manager {
	return NewManager(fixtureTeams(), Options{NewID: sequentialIDs()})
}

func TestCreateTeamThenMember(t *testing.T) {
	m := newLocalManager()
	ctx := context.Background()

	m.OpenTeamDialog(nil)
	m.SetTeamForm(TeamForm{Name: "QA"})
	team, err := m.SaveTeam(ctx)
	require.NoError(t, err)

	st := m.State()
	require.Len(t, st.Teams, 3)
	last := st.Teams[2]
	require.Equal(t, "QA", last.Name)
	require.NotNil(t, last.Members)
	require.Empty(t, last.Members)
	require.Equal(t, team.ID, st.SelectedTeamID)
	require.False(t, st.TeamDialog.Open)

	require.NoError(t, m.OpenMemberDialog(team.ID, nil))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: "sam@example.com"})
	member, err := m.SaveMember(ctx)
	require.NoError(t, err)

	st = m.State()
	qa, ok := st.SelectedTeam()
	require.True(t, ok)
	require.Len(t, qa.Members, 1)
	require.Equal(t, "Sam", qa.Members[0].Name)
	require.NotEqual(t, qa.ID, member.ID)
	require.Equal(t, MsgMemberSaved, st.Notification.Message)
}

func TestSaveTeamRequiresName(t *testing.T) {
	m := newLocalManager()
	m.OpenTeamDialog(nil)
	m.SetTeamForm(TeamForm{Name: "   "})

	_, err := m.SaveTeam(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	st := m.State()
	require.Len(t, st.Teams, 2)
	require.True(t, st.TeamDialog.Open)
}

func TestCreateFailsWhenIDGeneratorKeepsColliding(t *testing.T) {
	m := NewManager(fixtureTeams(), Options{NewID: func() string { return "eng" }})
	ctx := context.Background()

	m.OpenTeamDialog(nil)
	m.SetTeamForm(TeamForm{Name: "QA"})
	_, err := m.SaveTeam(ctx)
	require.ErrorIs(t, err, ErrIDExhausted)

	st := m.State()
	require.Len(t, st.Teams, 2)
	require.True(t, st.TeamDialog.Open)
	require.Equal(t, MsgTeamSaveFailed, st.Notification.Message)

	m = NewManager(fixtureTeams(), Options{NewID: func() string { return "m1" }})
	require.NoError(t, m.OpenMemberDialog("eng", nil))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: "sam@example.com"})
	_, err = m.SaveMember(ctx)
	require.ErrorIs(t, err, ErrIDExhausted)
	require.Len(t, m.State().Teams[0].Members, 2)
}

func TestEditTeamKeepsMembers(t *testing.T) {
	m := newLocalManager()
	teams := m.State().Teams
	m.OpenTeamDialog(&teams[0])

	st := m.State()
	require.Equal(t, EditMode("eng"), st.TeamDialog.Mode)
	require.Equal(t, "Engineering", st.TeamDialog.Form.Name)

	m.SetTeamForm(TeamForm{Name: "Platform", Description: "core"})
	_, err := m.SaveTeam(context.Background())
	require.NoError(t, err)

	st = m.State()
	require.Equal(t, "Platform", st.Teams[0].Name)
	require.Equal(t, "core", st.Teams[0].Description)
	require.Len(t, st.Teams[0].Members, 2)
	require.Empty(t, st.SelectedTeamID)
}

func TestDeleteSelectedTeamClearsSelection(t *testing.T) {
	m := newLocalManager()
	ctx := context.Background()
	require.NoError(t, m.Select("eng"))

	require.NoError(t, m.DeleteTeam(ctx, "eng"))

	st := m.State()
	require.Len(t, st.Teams, 1)
	require.Equal(t, "ops", st.Teams[0].ID)
	require.Empty(t, st.SelectedTeamID)
	for _, team := range st.Teams {
		require.Negative(t, team.FindMember("m1"))
		require.Negative(t, team.FindMember("m2"))
	}

	require.NoError(t, m.Select("ops"))
	m2 := newLocalManager()
	require.NoError(t, m2.Select("ops"))
	require.NoError(t, m2.DeleteTeam(ctx, "eng"))
	require.Equal(t, "ops", m2.State().SelectedTeamID)

	require.ErrorIs(t, m.DeleteTeam(ctx, "eng"), ErrTeamNotFound)
}

func TestSaveMemberWithoutEmailChangesNothing(t *testing.T) {
	m := newLocalManager()
	before := m.State().Teams

	require.NoError(t, m.OpenMemberDialog("ops", nil))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: ""})
	_, err := m.SaveMember(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	require.Equal(t, before, m.State().Teams)
}

func TestSaveMemberRequiresSelection(t *testing.T) {
	m := newLocalManager()
	require.NoError(t, m.OpenMemberDialog("ops", nil))
	require.NoError(t, m.Select(""))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: "sam@example.com"})

	_, err := m.SaveMember(context.Background())
	require.ErrorIs(t, err, ErrNoTeamSelected)
}

func TestEditMemberInPlace(t *testing.T) {
	m := newLocalManager()
	member := fixtureTeams()[0].Members[1]
	require.NoError(t, m.OpenMemberDialog("eng", &member))
	require.Equal(t, "eng", m.State().SelectedTeamID)

	m.SetMemberForm(MemberForm{Name: "Linus T.", Email: "lt@example.com", Role: "maintainer"})
	_, err := m.SaveMember(context.Background())
	require.NoError(t, err)

	eng := m.State().Teams[0]
	require.Len(t, eng.Members, 2)
	require.Equal(t, "m2", eng.Members[1].ID)
	require.Equal(t, "Linus T.", eng.Members[1].Name)
	require.Equal(t, "maintainer", eng.Members[1].Role)
}

func TestDeleteMemberTouchesOneTeam(t *testing.T) {
	m := newLocalManager()
	require.NoError(t, m.DeleteMember(context.Background(), "eng", "m1"))

	st := m.State()
	require.Len(t, st.Teams[0].Members, 1)
	require.Equal(t, "m2", st.Teams[0].Members[0].ID)
	require.Equal(t, fixtureTeams()[1], st.Teams[1])

	require.ErrorIs(t, m.DeleteMember(context.Background(), "ops", "m1"), ErrMemberNotFound)
}

func TestStateIsACopy(t *testing.T) {
	m := newLocalManager()
	st := m.State()
	st.Teams[0].Members[0].Name = "changed"
	require.Equal(t, "Ada", m.State().Teams[0].Members[0].Name)
}

type storeMock struct{ mock.Mock }

var _ Store = (*storeMock)(nil)

func (s *storeMock) List(ctx context.Context) ([]domain.Team, error) {
	args := s.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (s *storeMock) Create(ctx context.Context, req dto.TeamRequest) (*domain.Team, error) {
	args := s.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (s *storeMock) Update(ctx context.Context, id string, req dto.TeamRequest) (*domain.Team, error) {
	args := s.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (s *storeMock) Delete(ctx context.Context, id string) error {
	return s.Called(ctx, id).Error(0)
}

func (s *storeMock) AddMember(ctx context.Context, teamID string, req dto.MemberRequest) (*domain.TeamMember, error) {
	args := s.Called(ctx, teamID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (s *storeMock) UpdateMember(ctx context.Context, teamID, memberID string, req dto.MemberRequest) (*domain.TeamMember, error) {
	args := s.Called(ctx, teamID, memberID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (s *storeMock) DeleteMember(ctx context.Context, teamID, memberID string) error {
	return s.Called(ctx, teamID, memberID).Error(0)
}

func TestRemoteFailureRollsBack(t *testing.T) {
	store := &storeMock{}
	store.On("Delete", mock.Anything, "eng").Return(errors.New("request failed")).Once()
	store.On("AddMember", mock.Anything, "ops", dto.MemberRequest{Name: "Sam", Email: "sam@example.com"}).
		Return(nil, errors.New("request failed")).Once()

	m := NewManager(fixtureTeams(), Options{Store: store})
	require.NoError(t, m.Select("eng"))
	before := m.State().Teams

	require.Error(t, m.DeleteTeam(context.Background(), "eng"))
	st := m.State()
	require.Equal(t, before, st.Teams)
	require.Equal(t, "eng", st.SelectedTeamID)
	require.Equal(t, MsgTeamDeleteFailed, st.Notification.Message)
	require.Equal(t, SeverityError, st.Notification.Severity)

	require.NoError(t, m.OpenMemberDialog("ops", nil))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: "sam@example.com"})
	_, err := m.SaveMember(context.Background())
	require.Error(t, err)
	st = m.State()
	require.Equal(t, before, st.Teams)
	require.True(t, st.MemberDialog.Open)
	require.Equal(t, MsgMemberSaveFailed, st.Notification.Message)
	store.AssertExpectations(t)
}

func TestRemoteCreateUsesServerEntity(t *testing.T) {
	store := &storeMock{}
	created := &domain.Team{ID: "srv-1", Name: "QA", CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	store.On("Create", mock.Anything, dto.TeamRequest{Name: "QA"}).Return(created, nil).Once()
	store.On("AddMember", mock.Anything, "srv-1", dto.MemberRequest{Name: "Sam", Email: "sam@example.com"}).
		Return(&domain.TeamMember{ID: "srv-m1", Name: "Sam", Email: "sam@example.com"}, nil).Once()

	m := NewManager(nil, Options{Store: store})
	m.OpenTeamDialog(nil)
	m.SetTeamForm(TeamForm{Name: "QA"})
	_, err := m.SaveTeam(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.OpenMemberDialog("srv-1", nil))
	m.SetMemberForm(MemberForm{Name: "Sam", Email: "sam@example.com"})
	_, err = m.SaveMember(context.Background())
	require.NoError(t, err)

	st := m.State()
	require.Equal(t, "srv-1", st.SelectedTeamID)
	require.Equal(t, []domain.TeamMember{{ID: "srv-m1", Name: "Sam", Email: "sam@example.com"}}, st.Teams[0].Members)
	store.AssertExpectations(t)
}

func TestLoadKeepsSelectionOnlyIfPresent(t *testing.T) {
	store := &storeMock{}
	store.On("List", mock.Anything).Return([]domain.Team{{ID: "ops", Name: "Operations"}}, nil).Once()

	m := NewManager(fixtureTeams(), Options{Store: store})
	require.NoError(t, m.Select("eng"))
	require.NoError(t, m.Load(context.Background()))

	st := m.State()
	require.Len(t, st.Teams, 1)
	require.Empty(t, st.SelectedTeamID)
}

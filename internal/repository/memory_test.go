package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/convodocs/internal/domain"
)

func TestMemoryTeamDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	teams, docs := store.Teams(), store.Documents()

	require.NoError(t, teams.Create(ctx, &domain.Team{ID: "t1", Name: "Eng"}))
	require.NoError(t, teams.Create(ctx, &domain.Team{ID: "t2", Name: "Design"}))
	require.NoError(t, teams.AddMember(ctx, "t1", &domain.TeamMember{ID: "m1", Name: "Ann", Email: "ann@x.com"}))
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: "d1", TeamID: "t1"}))
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: "d2", TeamID: "t2"}))

	require.NoError(t, teams.Delete(ctx, "t1"))

	_, err := teams.GetMember(ctx, "m1")
	require.ErrorIs(t, err, ErrNotFound)
	remaining, err := docs.List(ctx, DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "d2", remaining[0].ID)
}

func TestMemoryMembersScopedToTeam(t *testing.T) {
	ctx := context.Background()
	teams := NewMemoryStore().Teams()
	require.NoError(t, teams.Create(ctx, &domain.Team{ID: "t1"}))
	require.NoError(t, teams.Create(ctx, &domain.Team{ID: "t2"}))
	require.NoError(t, teams.AddMember(ctx, "t1", &domain.TeamMember{ID: "m1", Name: "Ann"}))
	require.NoError(t, teams.AddMember(ctx, "t2", &domain.TeamMember{ID: "m2", Name: "Bo"}))

	require.ErrorIs(t, teams.DeleteMember(ctx, "t2", "m1"), ErrNotFound)
	require.NoError(t, teams.UpdateMember(ctx, "t1", &domain.TeamMember{ID: "m1", Name: "Anna", Email: "a@x.com", Role: "Lead"}))
	require.NoError(t, teams.DeleteMember(ctx, "t2", "m2"))

	t1, err := teams.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Anna", t1.Members[0].Name)
	t2, err := teams.GetByID(ctx, "t2")
	require.NoError(t, err)
	require.Empty(t, t2.Members)
}

func TestMemoryDocumentFilter(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryStore().Documents()
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: "d1", TeamID: "t1", Status: domain.DocumentStatusDraft}))
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: "d2", TeamID: "t1", Status: domain.DocumentStatusPublished}))
	require.NoError(t, docs.Create(ctx, &domain.Document{ID: "d3", TeamID: "t2", Status: domain.DocumentStatusPublished}))

	team := "t1"
	published := domain.DocumentStatusPublished
	got, err := docs.List(ctx, DocumentFilter{TeamID: &team, Status: &published})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "d2", got[0].ID)
}

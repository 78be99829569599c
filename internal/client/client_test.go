package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/convodocs/internal/api/dto"
	httptransport "github.com/spec-kit/convodocs/internal/api/http"
	"github.com/spec-kit/convodocs/internal/api/http/handlers"
	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/repository"
	"github.com/spec-kit/convodocs/internal/service"
)

func TestNewNormalizesBaseURL(t *testing.T) {
	c, err := New("example.com:9000/")
	require.NoError(t, err)
	require.Equal(t, "http://example.com:9000", c.BaseURL())

	c, err = New("")
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, c.BaseURL())
}

func TestNotFoundIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents/doc-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"document not found"}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Documents.Get(context.Background(), "doc-9")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "document", reqErr.Resource)
	require.Equal(t, "get", reqErr.Action)
	require.Equal(t, http.StatusNotFound, reqErr.Status)
	require.Equal(t, "document not found", reqErr.Message)
	require.Contains(t, err.Error(), "request failed")
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Documents.Publish(context.Background(), "doc-1")
	require.Error(t, err)
	require.False(t, IsNotFound(err))
	require.Equal(t, 1, calls, "no retries")

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "publish", reqErr.Action)
	require.Equal(t, http.StatusInternalServerError, reqErr.Status)
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	err = c.Teams.Delete(context.Background(), "team-1")

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Zero(t, reqErr.Status)
	require.Equal(t, "team", reqErr.Resource)
	require.NotNil(t, reqErr.Unwrap())
}

func TestListSendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "team-1", r.URL.Query().Get("team_id"))
		require.Equal(t, "Draft", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode([]dto.DocumentResponse{{ID: "doc-1", Title: "A", Status: domain.DocumentStatusDraft, Tags: []string{"x"}}})
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	team := "team-1"
	status := domain.DocumentStatusDraft
	docs, err := c.Documents.List(context.Background(), DocumentQuery{TeamID: &team, Status: &status})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, []string{"x"}, docs[0].Tags)
}

func startServer(t *testing.T) *Client {
	t.Helper()
	store := repository.NewMemoryStore()
	docs := service.NewDocumentService(service.DocumentDependencies{DocumentRepo: store.Documents(), TeamRepo: store.Teams()})
	teams := service.NewTeamService(service.TeamDependencies{TeamRepo: store.Teams(), DocumentRepo: store.Documents()})
	app := httptransport.NewApp("convodocs-test", nil, nil, httptransport.MiddlewareConfig{}, httptransport.RouteConfig{
		Documents: handlers.NewDocumentsHandler(docs),
		Teams:     handlers.NewTeamsHandler(teams),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	c, err := New("http://" + ln.Addr().String())
	require.NoError(t, err)
	return c
}

func TestRoundTripAgainstServer(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	team, err := c.Teams.Create(ctx, dto.TeamRequest{Name: "QA"})
	require.NoError(t, err)
	member, err := c.Teams.AddMember(ctx, team.ID, dto.MemberRequest{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, team.ID, member.ID)

	doc, err := c.Documents.Create(ctx, dto.CreateDocumentRequest{Title: "Plan", TeamID: team.ID, AuthorID: member.ID, Tags: []string{"api"}})
	require.NoError(t, err)
	require.Equal(t, "Sam", doc.AuthorName)

	title := "Test plan"
	doc, err = c.Documents.Update(ctx, doc.ID, dto.UpdateDocumentRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Test plan", doc.Title)

	doc, err = c.Documents.Publish(ctx, doc.ID)
	require.NoError(t, err)
	require.True(t, doc.IsPublished())
	require.NotNil(t, doc.PublishedAt)

	_, err = c.Documents.Publish(ctx, doc.ID)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, http.StatusConflict, reqErr.Status)

	updated, err := c.Teams.UpdateMember(ctx, team.ID, member.ID, dto.MemberRequest{Name: "Samantha", Email: "sam@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Samantha", updated.Name)

	require.NoError(t, c.Teams.DeleteMember(ctx, team.ID, member.ID))
	require.NoError(t, c.Teams.Delete(ctx, team.ID))

	_, err = c.Documents.Get(ctx, doc.ID)
	require.True(t, IsNotFound(err))
	teams, err := c.Teams.List(ctx)
	require.NoError(t, err)
	require.Empty(t, teams)
}

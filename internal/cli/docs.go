package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/convodocs/internal/api/dto"
	"github.com/spec-kit/convodocs/internal/client"
	"github.com/spec-kit/convodocs/internal/dashboard"
	"github.com/spec-kit/convodocs/internal/domain"
	"github.com/spec-kit/convodocs/internal/editor"
)

type docListOutput struct {
	Items     []dto.DocumentResponse  `json:"items"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"page_size"`
	PageCount int                     `json:"page_count"`
	Total     int                     `json:"total"`
	Teams     []string                `json:"teams"`
	Statuses  []domain.DocumentStatus `json:"statuses"`
}

type docOutput struct {
	Document     *dto.DocumentResponse `json:"document,omitempty"`
	Notification string                `json:"notification,omitempty"`
	Preview      string                `json:"preview,omitempty"`
}

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List, show, save and publish documents",
	}
	cmd.AddCommand(newDocsListCmd(app))
	cmd.AddCommand(newDocsShowCmd(app))
	cmd.AddCommand(newDocsSaveCmd(app))
	cmd.AddCommand(newDocsPublishCmd(app))
	return cmd
}

func newDocsListCmd(app *App) *cobra.Command {
	var (
		search   string
		team     string
		status   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents with search, facets and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := app.api.Documents.List(cmd.Context(), client.DocumentQuery{})
			if err != nil {
				return writeErr(cmd, err)
			}

			view := dashboard.NewView(docs)
			view.SetSearch(search)
			if cmd.Flags().Changed("team") {
				view.SetTeam(&team)
			}
			if cmd.Flags().Changed("status") {
				s := domain.DocumentStatus(status)
				if !s.Valid() {
					return writeErr(cmd, fmt.Errorf("invalid status %q (want Draft or Published)", status))
				}
				view.SetStatus(&s)
			}
			view.SetPageSize(pageSize)
			view.SetPage(page)

			facets := view.Facets()
			out := docListOutput{
				Items:     documentResponses(view.Page()),
				Page:      view.PageIndex(),
				PageSize:  view.PageSize(),
				PageCount: view.PageCount(),
				Total:     view.Total(),
				Teams:     facets.Teams,
				Statuses:  facets.Statuses,
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on title, author or tag")
	cmd.Flags().StringVar(&team, "team", "", "Only documents of this team id")
	cmd.Flags().StringVar(&status, "status", "", "Only documents with this status (Draft|Published)")
	cmd.Flags().IntVar(&page, "page", 0, "0-based page index")
	cmd.Flags().IntVar(&pageSize, "page-size", dashboard.DefaultPageSize, "Documents per page")
	return cmd
}

func newDocsShowCmd(app *App) *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document, optionally with its rendered preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := editor.NewSession(app.api.Documents, editor.Options{
				DocumentID: args[0],
				Logger:     app.logger,
			})
			defer session.Close()
			if err := session.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			out := docOutput{Document: documentResponse(session.State().Document)}
			if preview {
				out.Preview = session.Preview()
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "Include the rendered HTML preview")
	return cmd
}

func newDocsSaveCmd(app *App) *cobra.Command {
	var (
		id          string
		title       string
		content     string
		contentFile string
		team        string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a document or update an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				raw, err := os.ReadFile(contentFile)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("read content file: %w", err))
				}
				content = string(raw)
			}
			if id == "" && app.AuthorID == "" {
				return writeErr(cmd, errors.New("--author (or CONVODOCS_AUTHOR_ID) is required to create a document"))
			}

			session := editor.NewSession(app.api.Documents, editor.Options{
				DocumentID: id,
				AuthorID:   app.AuthorID,
				TeamID:     team,
				Logger:     app.logger,
			})
			defer session.Close()
			if err := session.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			flags := cmd.Flags()
			edits := []error{}
			if flags.Changed("title") {
				edits = append(edits, session.SetTitle(title))
			}
			if flags.Changed("content") || flags.Changed("content-file") {
				edits = append(edits, session.SetContent(content))
			}
			if flags.Changed("team") {
				edits = append(edits, session.SetTeam(team))
			}
			if flags.Changed("tag") {
				edits = append(edits, session.SetTags(tags))
			}
			if err := errors.Join(edits...); err != nil {
				return writeErr(cmd, err)
			}

			return finishSession(cmd, app, session, session.Save)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Existing document id; omit to create")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&content, "content", "", "Document body (markdown)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the body from a file")
	cmd.Flags().StringVar(&team, "team", "", "Owning team id")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable or comma separated)")
	return cmd
}

func newDocsPublishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <document-id>",
		Short: "Publish a draft document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := editor.NewSession(app.api.Documents, editor.Options{
				DocumentID:    args[0],
				Logger:        app.logger,
				NavigateDelay: app.cfg.Editor.NavigateDelay(),
			})
			defer session.Close()
			if err := session.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if err := session.RequestPublish(); err != nil {
				return writeErr(cmd, err)
			}
			return finishSession(cmd, app, session, session.ConfirmPublish)
		},
	}
	return cmd
}

// finishSession runs a save or publish and prints the resulting document and notification.
func finishSession(cmd *cobra.Command, app *App, session *editor.Session, run func(context.Context) error) error {
	runErr := run(cmd.Context())
	st := session.State()
	out := docOutput{Document: documentResponse(st.Document)}
	if st.Notification != nil {
		out.Notification = st.Notification.Message
	}
	if runErr != nil {
		if out.Notification != "" {
			return writeErr(cmd, fmt.Errorf("%s: %w", out.Notification, runErr))
		}
		return writeErr(cmd, runErr)
	}
	return writeOut(cmd, app, out)
}

func documentResponse(doc *domain.Document) *dto.DocumentResponse {
	if doc == nil {
		return nil
	}
	r := dto.NewDocumentResponse(doc)
	return &r
}

func documentResponses(docs []domain.Document) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, dto.NewDocumentResponse(&docs[i]))
	}
	return out
}

// Package cli implements the docctl command line client.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/client"
	"github.com/spec-kit/convodocs/internal/config"
	"github.com/spec-kit/convodocs/internal/observability"
)

// App carries global flags and the collaborators built from them.
type App struct {
	APIURL   string
	AuthorID string
	LogLevel string
	Pretty   bool

	cfg    *config.Config
	logger *zap.Logger
	api    *client.Client
}

// NewRootCmd builds the docctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "docctl",
		Short:        "Browse, edit and publish team documents",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Second page of drafts mentioning "api"
  docctl docs list --search api --status Draft --page 1

  # Create a document from a file
  docctl docs save --title "Runbook" --team <team-id> --content-file runbook.md

  # Publish it
  docctl docs publish <document-id>
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "API base URL (default $CONVODOCS_API_URL)")
	cmd.PersistentFlags().StringVar(&app.AuthorID, "author", "", "Author member id for new documents (default $CONVODOCS_AUTHOR_ID)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "warn", "Log level written to stderr")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTeamsCmd(app))

	return cmd
}

func (a *App) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.NewCLILogger(config.LoggerConfig{Level: a.LogLevel})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger

	base := a.APIURL
	if base == "" {
		base = cfg.Client.BaseURL
	}
	if a.AuthorID == "" {
		a.AuthorID = cfg.Client.AuthorID
	}
	api, err := client.New(base, client.WithTimeout(cfg.Client.Timeout()))
	if err != nil {
		return err
	}
	a.api = api
	a.logger.Debug("api client ready", zap.String("base_url", api.BaseURL()))
	return nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return writeJSON(cmd.OutOrStdout(), v, app.Pretty)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

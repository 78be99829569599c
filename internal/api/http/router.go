package http

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/convodocs/internal/api/http/handlers"
	"github.com/spec-kit/convodocs/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Documents *handlers.DocumentsHandler
	Teams     *handlers.TeamsHandler
}

// NewApp builds a fiber app using goccy/go-json for request and response bodies,
// with middlewares and routes attached.
func NewApp(appName string, logger *zap.Logger, metrics *observability.Metrics, mw MiddlewareConfig, routes RouteConfig) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               appName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, mw)
	RegisterRoutes(app, routes)
	return app
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/metrics", cfg.Health.Metrics)
	}

	docs := app.Group("/documents")
	docs.Get("/", cfg.Documents.ListDocuments)
	docs.Post("/", cfg.Documents.CreateDocument)
	docs.Get("/:id", cfg.Documents.GetDocument)
	docs.Put("/:id", cfg.Documents.UpdateDocument)
	docs.Delete("/:id", cfg.Documents.DeleteDocument)
	docs.Post("/:id/publish", cfg.Documents.PublishDocument)

	teams := app.Group("/teams")
	teams.Get("/", cfg.Teams.ListTeams)
	teams.Post("/", cfg.Teams.CreateTeam)
	teams.Get("/:id", cfg.Teams.GetTeam)
	teams.Put("/:id", cfg.Teams.UpdateTeam)
	teams.Delete("/:id", cfg.Teams.DeleteTeam)
	teams.Get("/:id/members", cfg.Teams.ListMembers)
	teams.Post("/:id/members", cfg.Teams.AddMember)
	teams.Put("/:id/members/:memberId", cfg.Teams.UpdateMember)
	teams.Delete("/:id/members/:memberId", cfg.Teams.DeleteMember)
}

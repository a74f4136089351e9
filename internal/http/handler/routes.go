package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kiruna/docs"
	"kiruna/internal/auth"
	"kiruna/internal/http/middleware"
	"kiruna/internal/model"
	"kiruna/internal/service"
	"kiruna/internal/storage"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	Log            *zap.Logger
	DB             *sql.DB
	Storage        storage.Storage
	Tokens         *auth.Tokens
	Metrics        *middleware.PrometheusMiddleware
	Gatherer       prometheus.Gatherer
	CORSOrigins    string
	MaxUploadBytes int

	Users        service.UserService
	Stakeholders service.StakeholderService
	DocTypes     service.DocumentTypeService
	Coordinates  service.CoordinateService
	Documents    service.DocumentService
	Media        service.MediaService
	Graph        service.GraphService
}

// NewApp builds the Fiber app with the global middleware chain and routes.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(d.Log),
		BodyLimit:    d.MaxUploadBytes + 1<<20,
	})

	app.Use(middleware.Recovery(d.Log))
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.Logger(d.Log))
	if d.Metrics != nil {
		app.Use(d.Metrics.Handler())
	}
	app.Use(middleware.CORS(d.CORSOrigins))

	RegisterRoutes(app, d)
	return app
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.Storage))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	editor := middleware.RequireRoles(model.RolePlanner, model.RoleDeveloper)

	api := app.Group("/api", middleware.Authenticate(d.Tokens))

	api.Post("/users", Register(d.Users))
	api.Post("/sessions", Login(d.Users))
	api.Get("/sessions/current", middleware.RequireRoles(), CurrentUser(d.Users))

	api.Get("/stakeholders", ListStakeholders(d.Stakeholders))
	api.Post("/stakeholders", editor, CreateStakeholder(d.Stakeholders))
	api.Get("/document-types", ListDocumentTypes(d.DocTypes))
	api.Post("/document-types", editor, CreateDocumentType(d.DocTypes))

	api.Get("/coordinates", ListCoordinates(d.Coordinates))
	api.Get("/coordinates/:id", GetCoordinate(d.Coordinates))
	api.Post("/coordinates", editor, CreateCoordinate(d.Coordinates))
	api.Delete("/coordinates/:id", editor, DeleteCoordinate(d.Coordinates))

	api.Get("/documents", ListDocuments(d.Documents))
	api.Get("/documents/:id", GetDocument(d.Documents))
	api.Get("/documents/:id/connections", ListConnections(d.Documents))
	api.Post("/documents", editor, CreateDocument(d.Documents))
	api.Put("/documents/:id", editor, UpdateDocument(d.Documents))

	api.Post("/media", editor, UploadMedia(d.Media, int64(d.MaxUploadBytes)))
	api.Get("/media/:id", GetMedia(d.Media))
	api.Get("/media/:id/content", GetMediaContent(d.Media))

	api.Get("/graph", GetGraph(d.Graph))
}

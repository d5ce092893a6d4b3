package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/docs"
	"productapi/internal/errs"
	"productapi/internal/handlers"
	"productapi/internal/services"
)

// Deps are the collaborators the HTTP server is built from.
type Deps struct {
	Config    *config.Config
	Log       zerolog.Logger
	Database  *Database
	Publisher services.EventPublisher
}

// New builds the Fiber application with global middleware, docs, health and product routes.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "productapi",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(deps.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		Output: deps.Log,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.FrontendURL,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	docs.Register(app, "/docs")
	app.Get("/health", healthHandler(deps.Database))

	productService := services.NewProductService(deps.Database.Products, deps.Publisher, deps.Log)
	productHandler := handlers.NewProductHandler(productService, deps.Log)
	productHandler.RegisterRoutes(app.Group("/api"))

	return app
}

// ErrorHandler renders every error returned by a handler in the response envelope.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		httpErr := errs.Resolve(err)
		if httpErr.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(httpErr.Status).JSON(httpErr.Body())
	}
}

func healthHandler(db *Database) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, storage := fiber.StatusOK, "connected"
		switch {
		case db.Err != nil:
			status, storage = fiber.StatusServiceUnavailable, "unavailable"
		case db.DB == nil:
			storage = "memory"
		default:
			if err := database.Ping(c.UserContext(), db.DB); err != nil {
				status, storage = fiber.StatusServiceUnavailable, "unreachable"
			}
		}

		state := "healthy"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   state,
			"database": storage,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}

// Package httpapi assembles the Fiber application: middleware, routes and
// the last-resort error handler.
package httpapi

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"productcatalog/internal/config"
	"productcatalog/internal/http/handlers"
	applog "productcatalog/internal/log"
	"productcatalog/web"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewApp(cfg config.Config, deps *handlers.Deps) *fiber.App {
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    maxBodyBytes,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString, ContextKey: "requestid"}))
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(helmet.New())
	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Warn(c, "rate.limit.hit", nil, nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}

	// ---------- Routes ----------
	p := deps.ProductHandler
	app.Get("/", p.Page)

	app.Get("/items", p.List)
	app.Post("/items", p.Create)
	app.Get("/items/:id", p.Get)
	app.Put("/items/:id", p.Update)
	app.Delete("/items/:id", p.Delete)

	app.Get("/healthz", deps.HealthHandler.Check)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	return app
}

// errorHandler answers anything a handler returned instead of writing a
// response. Fiber errors keep their status; the rest become a bare 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

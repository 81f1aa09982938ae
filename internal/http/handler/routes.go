package handler

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codepad/internal/shell"
)

// Deps are the collaborators the routes are built from. DB is nil when the
// save journal is disabled.
type Deps struct {
	DB         *sql.DB
	Dispatcher shell.Dispatcher
	Page       *Page
	Gatherer   prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Index(d.Page))
	app.Post("/", Submit(d.Dispatcher, d.Page))

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", Metrics(d.Gatherer))
	}
}

// Index renders the empty form with the default language selected.
func Index(page *Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return page.render(c, "", "", nil)
	}
}

// Submit turns the posted form into a shell.Command, dispatches it and
// renders the page again with the outcome. The submitted code and language
// are kept in the form. Browsers submit textarea line breaks as CRLF; they
// are turned back into LF so the code is saved as it was pasted.
func Submit(d shell.Dispatcher, page *Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cmd := shell.Command{
			Action:   shell.Action(c.FormValue("action")),
			Code:     strings.ReplaceAll(c.FormValue("code"), "\r\n", "\n"),
			Language: c.FormValue("language"),
		}
		out := d.Dispatch(c.UserContext(), cmd)
		return page.render(c, cmd.Code, cmd.Language, &out)
	}
}

// HealthCheck reports whether the journal database answers a ping.
// Without a journal the service is always healthy.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "journal": "disabled"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "journal": "enabled"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes g in the Prometheus text format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

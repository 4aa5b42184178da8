package events

import (
	"earlywarning/internal/sequence"

	"github.com/gofiber/fiber/v3"
)

// Gen allocates event numbers; wired in SetupApp.
var Gen *sequence.Generator

func Routes(app fiber.Router) {
	events := app.Group("/events")

	events.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	events.Get("/schema", schemaHandler)
	events.Get("/export", exportHandler)

	events.Get("/", listHandler)
	events.Post("/", postHandler)
	events.Get("/:id", getHandler)
	events.Patch("/:id", patchHandler)
	events.Put("/:id", putHandler)
	events.Delete("/:id", deleteHandler)
}

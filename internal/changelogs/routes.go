package changelogs

import (
	"earlywarning/internal/models"

	"github.com/gofiber/fiber/v3"
)

func Routes(app fiber.Router) {
	changelogs := app.Group("/changelogs")

	changelogs.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	changelogs.Get("/schema", schemaHandler)
	changelogs.Get("/export", exportHandler)

	changelogs.Get("/", listHandler)
	changelogs.Post("/", postHandler, models.PartyOptionalMiddleware)
	changelogs.Get("/:id", getHandler)
	changelogs.Patch("/:id", patchHandler)
	changelogs.Put("/:id", putHandler)
	changelogs.Delete("/:id", deleteHandler)
}

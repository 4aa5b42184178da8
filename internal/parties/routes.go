package parties

import (
	"earlywarning/internal/models"
	"earlywarning/internal/utils"

	"github.com/gofiber/fiber/v3"
)

func Routes(app fiber.Router) {
	parties := app.Group("/parties")

	parties.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	parties.Post("/login", loginHandler)

	parties.Get("/me", meHandler, models.PartyMiddleware)
}

func meHandler(c fiber.Ctx) error {
	var party models.Party
	utils.GetLocals(c, "party", &party)

	return c.JSON(party)
}

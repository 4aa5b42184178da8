package events

import "github.com/gofiber/fiber/v3"

// eventSchema mirrors the stored document layout for API consumers
// that build forms or validators from it.
var eventSchema = fiber.Map{
	"title": "Event",
	"type":  "object",
	"properties": fiber.Map{
		"_id":       fiber.Map{"type": "string"},
		"group":     fiber.Map{"type": "string", "ref": "Predefine"},
		"type":      fiber.Map{"type": "string", "ref": "Predefine"},
		"certainty": fiber.Map{"type": "string", "ref": "Predefine"},
		"severity":  fiber.Map{"type": "string", "ref": "Predefine"},
		"stage": fiber.Map{
			"type":    "string",
			"enum":    []string{"Alert", "Event"},
			"default": "Alert",
		},
		"number": fiber.Map{
			"type":      "string",
			"unique":    true,
			"immutable": true,
		},
		"areas": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Predefine"},
		},
		"address":       fiber.Map{"type": "string"},
		"causes":        fiber.Map{"type": "string"},
		"description":   fiber.Map{"type": "string"},
		"places":        fiber.Map{"type": "string"},
		"instructions":  fiber.Map{"type": "string"},
		"interventions": fiber.Map{"type": "string"},
		"impacts":       fiber.Map{"type": "string"},
		"remarks":       fiber.Map{"type": "string"},
		"location": fiber.Map{
			"type": "object",
			"properties": fiber.Map{
				"type":        fiber.Map{"type": "string", "enum": []string{"Point"}},
				"coordinates": fiber.Map{"type": "array", "items": fiber.Map{"type": "number"}},
			},
		},
		"startedAt": fiber.Map{"type": "string", "format": "date-time"},
		"endedAt":   fiber.Map{"type": "string", "format": "date-time"},
		"createdAt": fiber.Map{"type": "string", "format": "date-time"},
		"updatedAt": fiber.Map{"type": "string", "format": "date-time"},
		"deletedAt": fiber.Map{"type": "string", "format": "date-time"},
	},
	"required": []string{"number", "stage"},
}

func schemaHandler(c fiber.Ctx) error {
	return c.JSON(eventSchema)
}

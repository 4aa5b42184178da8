package changelogs

import "github.com/gofiber/fiber/v3"

var changelogSchema = fiber.Map{
	"title": "ChangeLog",
	"type":  "object",
	"properties": fiber.Map{
		"_id":   fiber.Map{"type": "string"},
		"event": fiber.Map{"type": "string", "ref": "Event", "immutable": true},
		"use": fiber.Map{
			"type": "string",
			"enum": []string{
				"change", "notification", "need", "effect",
				"assessment", "action", "exposure",
			},
			"default": "change",
		},
		"initiator": fiber.Map{"type": "string", "ref": "Party"},
		"verifier":  fiber.Map{"type": "string", "ref": "Party"},
		"group":     fiber.Map{"type": "string", "ref": "Predefine"},
		"type":      fiber.Map{"type": "string", "ref": "Predefine"},
		"function":  fiber.Map{"type": "string", "ref": "Predefine"},
		"action":    fiber.Map{"type": "string", "ref": "Predefine"},
		"indicator": fiber.Map{"type": "string", "ref": "Predefine"},
		"need":      fiber.Map{"type": "string", "ref": "Predefine"},
		"effect":    fiber.Map{"type": "string", "ref": "Predefine"},
		"unit":      fiber.Map{"type": "string", "ref": "Predefine"},
		"value":     fiber.Map{"type": "number", "minimum": 0},
		"areas": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Predefine"},
		},
		"groups": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Party"},
		},
		"roles": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Predefine"},
		},
		"agencies": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Party"},
		},
		"focals": fiber.Map{
			"type":  "array",
			"items": fiber.Map{"type": "string", "ref": "Party"},
		},
		"comment":   fiber.Map{"type": "string"},
		"createdAt": fiber.Map{"type": "string", "format": "date-time"},
		"updatedAt": fiber.Map{"type": "string", "format": "date-time"},
		"deletedAt": fiber.Map{"type": "string", "format": "date-time"},
	},
	"required": []string{"event", "use"},
}

func schemaHandler(c fiber.Ctx) error {
	return c.JSON(changelogSchema)
}

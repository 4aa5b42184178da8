package events

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"earlywarning/internal/db"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/models"
	"earlywarning/internal/utils"

	"github.com/gofiber/fiber/v3"
)

var exportHeader = []string{
	"number", "stage", "group", "type", "certainty", "severity",
	"areas", "address", "causes", "description", "places",
	"instructions", "impacts", "startedAt", "endedAt",
}

func exportHandler(c fiber.Ctx) error {
	events, err := models.ListEvents(db.Ctx)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	for _, event := range events {
		if err := writer.Write(exportRow(event)); err != nil {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	filename := fmt.Sprintf("events_exports_%d.csv", time.Now().UnixMilli())

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	return c.Send(buf.Bytes())
}

func exportRow(event models.Event) []string {
	return []string{
		event.Number,
		event.Stage,
		event.Group,
		event.Type,
		event.Certainty,
		event.Severity,
		strings.Join(event.Areas, ";"),
		event.Address,
		event.Causes,
		event.Description,
		event.Places,
		event.Instructions,
		event.Impacts,
		formatTime(event.StartedAt),
		formatTime(event.EndedAt),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

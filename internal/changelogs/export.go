package changelogs

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"earlywarning/internal/db"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/models"
	"earlywarning/internal/utils"

	"github.com/gofiber/fiber/v3"
)

var exportHeader = []string{
	"event", "use", "initiator", "verifier", "group", "type",
	"function", "action", "indicator", "need", "effect", "unit",
	"value", "areas", "comment", "createdAt",
}

func exportHandler(c fiber.Ctx) error {
	changelogs, err := models.ListChangeLogs(db.Ctx, c.Query("event"))
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	for _, changelog := range changelogs {
		if err := writer.Write(exportRow(changelog)); err != nil {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	filename := fmt.Sprintf("changelogs_exports_%d.csv", time.Now().UnixMilli())

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	return c.Send(buf.Bytes())
}

func exportRow(changelog models.ChangeLog) []string {
	value := ""
	if changelog.Value != nil {
		value = strconv.FormatFloat(*changelog.Value, 'f', -1, 64)
	}

	return []string{
		changelog.Event,
		changelog.Use,
		changelog.Initiator,
		changelog.Verifier,
		changelog.Group,
		changelog.Type,
		changelog.Function,
		changelog.Action,
		changelog.Indicator,
		changelog.Need,
		changelog.Effect,
		changelog.Unit,
		value,
		strings.Join(changelog.Areas, ";"),
		changelog.Comment,
		changelog.CreatedAt.Format(time.RFC3339),
	}
}

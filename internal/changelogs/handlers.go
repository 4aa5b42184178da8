package changelogs

import (
	"encoding/json"
	"errors"

	"earlywarning/internal/db"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/models"
	"earlywarning/internal/notify"
	"earlywarning/internal/utils"
	"earlywarning/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// storage hooks, swappable in tests
var (
	getEvent        = models.GetEventByID
	createChangeLog = models.CreateChangeLog
)

func listHandler(c fiber.Ctx) error {
	changelogs, err := models.ListChangeLogs(db.Ctx, c.Query("event"))
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	total, err := models.CountChangeLogs(db.Ctx)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(bson.M{
		"data":  changelogs,
		"total": total,
	})
}

func postHandler(c fiber.Ctx) error {
	var changelog models.ChangeLog
	if err := json.Unmarshal(c.Body(), &changelog); err != nil {
		return utils.StatusError(c, errmsg.ChangeLogInvalidPayload)
	}

	changelog.EnsureDefaults()

	// the authenticated party logged the change unless stated otherwise
	if changelog.Initiator == "" {
		var party models.Party
		utils.GetLocals(c, "party", &party)
		changelog.Initiator = party.ID
	}

	if serr := changelog.Validate(); serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	// a changelog is never orphaned
	event, err := getEvent(db.Ctx, changelog.Event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.ChangeLogEventNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if err := createChangeLog(db.Ctx, &changelog); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	// best effort side effects; the creation already succeeded
	if notify.Dp != nil {
		snap := notify.Snapshot(db.Ctx, event)
		notify.Dp.Dispatch(notify.ComposeUpdate(snap, changelog.Comment))
	}
	ws.Live.Broadcast("changelog", changelog)

	return c.Status(fiber.StatusCreated).JSON(changelog)
}

func getHandler(c fiber.Ctx) error {
	changelog, err := models.GetChangeLogByID(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.ChangeLogNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(changelog)
}

func patchHandler(c fiber.Ctx) error {
	return updateHandler(c)
}

func putHandler(c fiber.Ctx) error {
	return updateHandler(c)
}

// updateHandler serves both PATCH and PUT: the provided fields are
// merged over the stored record, validated as a whole, then applied.
func updateHandler(c fiber.Ctx) error {
	var changes bson.M
	if err := json.Unmarshal(c.Body(), &changes); err != nil {
		return utils.StatusError(c, errmsg.ChangeLogInvalidPayload)
	}

	if _, ok := changes["event"]; ok {
		return utils.StatusError(c, errmsg.ChangeLogEventImmutable)
	}
	delete(changes, "_id")
	delete(changes, "createdAt")
	delete(changes, "updatedAt")
	delete(changes, "deletedAt")

	existing, err := models.GetChangeLogByID(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.ChangeLogNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	merged := *existing
	if err := json.Unmarshal(c.Body(), &merged); err != nil {
		return utils.StatusError(c, errmsg.ChangeLogInvalidPayload)
	}
	merged.EnsureDefaults()

	if serr := merged.Validate(); serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	// take the stored values from the typed record so dates and lists
	// land in their bson form, not as raw json
	raw, err := bson.Marshal(merged)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}
	var mergedDoc bson.M
	if err := bson.Unmarshal(raw, &mergedDoc); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}
	for field := range changes {
		if value, ok := mergedDoc[field]; ok {
			changes[field] = value
		}
	}

	changelog, err := models.UpdateChangeLog(db.Ctx, existing.ID, changes)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(changelog)
}

func deleteHandler(c fiber.Ctx) error {
	changelog, err := models.SoftDeleteChangeLog(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.ChangeLogNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(changelog)
}

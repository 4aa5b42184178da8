package events

import (
	"encoding/json"
	"errors"
	"time"

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

func listHandler(c fiber.Ctx) error {
	events, err := models.ListEvents(db.Ctx)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	total, err := models.CountEvents(db.Ctx)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(bson.M{
		"data":  events,
		"total": total,
	})
}

func postHandler(c fiber.Ctx) error {
	var event models.Event
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return utils.StatusError(c, errmsg.EventInvalidPayload)
	}

	event.ResolveGroup(db.Ctx)
	event.EnsureStartedAt(time.Now())
	event.EnsureDefaults()

	if serr := event.Validate(); serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	if err := event.EnsureNumber(db.Ctx, Gen, time.Now()); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if err := models.CreateEvent(db.Ctx, &event); err != nil {
		if models.IsDuplicateNumber(err) {
			return utils.StatusError(c, errmsg.EventNumberTaken)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	// best effort side effects; the creation already succeeded
	if notify.Dp != nil {
		snap := notify.Snapshot(db.Ctx, &event)
		notify.Dp.Dispatch(notify.ComposeAdvisory(snap))
	}
	ws.Live.Broadcast("event", event)

	return c.Status(fiber.StatusCreated).JSON(event)
}

func getHandler(c fiber.Ctx) error {
	event, err := models.GetEventByID(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.EventNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(event)
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
		return utils.StatusError(c, errmsg.EventInvalidPayload)
	}

	if _, ok := changes["number"]; ok {
		return utils.StatusError(c, errmsg.EventNumberImmutable)
	}
	delete(changes, "_id")
	delete(changes, "createdAt")
	delete(changes, "updatedAt")
	delete(changes, "deletedAt")

	existing, err := models.GetEventByID(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.EventNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	merged := *existing
	if err := json.Unmarshal(c.Body(), &merged); err != nil {
		return utils.StatusError(c, errmsg.EventInvalidPayload)
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

	event, err := models.UpdateEvent(db.Ctx, existing.ID, changes)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(event)
}

func deleteHandler(c fiber.Ctx) error {
	event, err := models.SoftDeleteEvent(db.Ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.StatusError(c, errmsg.EventNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(event)
}

package models

import (
	"context"
	"strings"
	"time"

	"earlywarning/internal/db"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/sequence"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StageAlert = "Alert"
	StageEvent = "Event"
)

// GeoPoint is a single GeoJSON point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Event is an emergency or disaster occurrence being tracked, from
// first alert through to its end.
type Event struct {
	ID string `bson:"_id,omitempty" json:"_id,omitempty"`

	Group     string `bson:"group,omitempty" json:"group,omitempty"`
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	Certainty string `bson:"certainty,omitempty" json:"certainty,omitempty"`
	Severity  string `bson:"severity,omitempty" json:"severity,omitempty"`

	Stage  string `bson:"stage,omitempty" json:"stage,omitempty"`
	Number string `bson:"number,omitempty" json:"number,omitempty"`

	Areas []string `bson:"areas,omitempty" json:"areas,omitempty"`

	Address       string `bson:"address,omitempty" json:"address,omitempty"`
	Causes        string `bson:"causes,omitempty" json:"causes,omitempty"`
	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	Places        string `bson:"places,omitempty" json:"places,omitempty"`
	Instructions  string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Interventions string `bson:"interventions,omitempty" json:"interventions,omitempty"`
	Impacts       string `bson:"impacts,omitempty" json:"impacts,omitempty"`
	Remarks       string `bson:"remarks,omitempty" json:"remarks,omitempty"`

	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`

	StartedAt *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	EndedAt   *time.Time `bson:"endedAt,omitempty" json:"endedAt,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// EnsureStartedAt defaults the start time before validation runs.
// Idempotent: an already set value is never touched.
func (e *Event) EnsureStartedAt(now time.Time) {
	if e.StartedAt == nil {
		e.StartedAt = &now
	}
}

// EnsureDefaults normalizes the record ahead of persistence: the stage
// falls back to Alert, the number is trimmed uppercase, and affected
// areas are deduplicated while keeping their first-seen order.
func (e *Event) EnsureDefaults() {
	if e.Stage == "" {
		e.Stage = StageAlert
	}

	e.Number = strings.ToUpper(strings.TrimSpace(e.Number))

	if len(e.Areas) > 1 {
		seen := make(map[string]bool, len(e.Areas))
		deduped := e.Areas[:0]
		for _, area := range e.Areas {
			if !seen[area] {
				seen[area] = true
				deduped = append(deduped, area)
			}
		}
		e.Areas = deduped
	}
}

func (e *Event) Validate() errmsg.StatusError {
	if e.Stage != StageAlert && e.Stage != StageEvent {
		return errmsg.EventInvalidStage
	}

	if e.StartedAt != nil && e.EndedAt != nil && e.EndedAt.Before(*e.StartedAt) {
		return errmsg.EventEndsBeforeStart
	}

	return errmsg.EmptyStatusError
}

// EnsureNumber assigns the event number exactly once, keyed by the type
// code and the creation year. An unresolvable type reference degrades
// to a year-only prefix.
func (e *Event) EnsureNumber(ctx context.Context, gen *sequence.Generator, at time.Time) error {
	if e.Number != "" {
		return nil
	}

	typeCode := ""
	if e.Type != "" {
		if pd, err := GetPredefineByID(ctx, e.Type); err == nil {
			typeCode = pd.Strings.Code
		}
	}

	number, err := gen.Generate(ctx, typeCode, at)
	if err != nil {
		return err
	}

	e.Number = number
	return nil
}

// ResolveGroup pre-populates the group from the type's parent group
// relation. Lookup failure means "use no value", never an error.
func (e *Event) ResolveGroup(ctx context.Context) {
	if e.Group != "" || e.Type == "" {
		return
	}

	if pd, err := GetPredefineByID(ctx, e.Type); err == nil {
		e.Group = pd.Relations.Group
	}
}

func CreateEvent(ctx context.Context, e *Event) error {
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := db.Events.InsertOne(ctx, e)
	return err
}

func GetEventByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := db.Events.FindOne(ctx, bson.M{
		"_id":       id,
		"deletedAt": nil,
	}).Decode(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func ListEvents(ctx context.Context) ([]Event, error) {
	cursor, err := db.Events.Find(
		ctx,
		bson.M{"deletedAt": nil},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func CountEvents(ctx context.Context) (int64, error) {
	return db.Events.CountDocuments(ctx, bson.M{"deletedAt": nil})
}

// UpdateEvent applies a partial change set and returns the updated
// record. The number is immutable after creation; handlers strip it
// before calling.
func UpdateEvent(ctx context.Context, id string, changes bson.M) (*Event, error) {
	changes["updatedAt"] = time.Now()

	var e Event
	err := db.Events.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$set": changes},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// SoftDeleteEvent marks the record deleted; events are never hard
// deleted.
func SoftDeleteEvent(ctx context.Context, id string) (*Event, error) {
	now := time.Now()

	var e Event
	err := db.Events.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// IsDuplicateNumber reports whether an insert failed on the unique
// number index, the last line of defense against a double-allocated
// sequence.
func IsDuplicateNumber(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

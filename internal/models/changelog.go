package models

import (
	"context"
	"time"

	"earlywarning/internal/db"
	"earlywarning/internal/errmsg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeLogUse discriminates what a changelog entry records and which
// of its sibling fields carry meaning.
type ChangeLogUse string

const (
	UseChange       ChangeLogUse = "change"
	UseNotification ChangeLogUse = "notification"
	UseNeed         ChangeLogUse = "need"
	UseEffect       ChangeLogUse = "effect"
	UseAssessment   ChangeLogUse = "assessment"
	UseAction       ChangeLogUse = "action"
	UseExposure     ChangeLogUse = "exposure"
)

// ChangeLog is one entry in an event's ordered stream of status
// updates, needs, effects, assessments and actions. It cannot exist
// without its parent event and the reference never changes.
type ChangeLog struct {
	ID    string `bson:"_id,omitempty" json:"_id,omitempty"`
	Event string `bson:"event" json:"event"`
	Use   string `bson:"use,omitempty" json:"use,omitempty"`

	Initiator string `bson:"initiator,omitempty" json:"initiator,omitempty"`
	Verifier  string `bson:"verifier,omitempty" json:"verifier,omitempty"`

	Group     string `bson:"group,omitempty" json:"group,omitempty"`
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	Function  string `bson:"function,omitempty" json:"function,omitempty"`
	Action    string `bson:"action,omitempty" json:"action,omitempty"`
	Indicator string `bson:"indicator,omitempty" json:"indicator,omitempty"`
	Need      string `bson:"need,omitempty" json:"need,omitempty"`
	Effect    string `bson:"effect,omitempty" json:"effect,omitempty"`
	Unit      string `bson:"unit,omitempty" json:"unit,omitempty"`

	Value *float64 `bson:"value,omitempty" json:"value,omitempty"`

	Areas    []string `bson:"areas,omitempty" json:"areas,omitempty"`
	Groups   []string `bson:"groups,omitempty" json:"groups,omitempty"`
	Roles    []string `bson:"roles,omitempty" json:"roles,omitempty"`
	Agencies []string `bson:"agencies,omitempty" json:"agencies,omitempty"`
	Focals   []string `bson:"focals,omitempty" json:"focals,omitempty"`

	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

func (cl *ChangeLog) EnsureDefaults() {
	if cl.Use == "" {
		cl.Use = string(UseChange)
	}
}

func (cl *ChangeLog) Validate() errmsg.StatusError {
	if cl.Event == "" {
		return errmsg.ChangeLogEventRequired
	}

	if cl.Value != nil && *cl.Value < 0 {
		return errmsg.ChangeLogNegativeValue
	}

	return cl.validateUseFields()
}

// validateUseFields rejects sibling fields that are meaningless for the
// given use, so the discriminator keeps its promise instead of being a
// flat bag of optionals.
func (cl *ChangeLog) validateUseFields() errmsg.StatusError {
	quantified := cl.Value != nil || cl.Unit != ""

	switch ChangeLogUse(cl.Use) {
	case UseChange, UseNotification:
		if cl.Need != "" || cl.Effect != "" || cl.Indicator != "" ||
			cl.Function != "" || cl.Action != "" || quantified {
			return errmsg.ChangeLogUseMismatch
		}
	case UseNeed:
		if cl.Effect != "" || cl.Indicator != "" || cl.Function != "" || cl.Action != "" {
			return errmsg.ChangeLogUseMismatch
		}
	case UseEffect:
		if cl.Need != "" || cl.Indicator != "" || cl.Function != "" || cl.Action != "" {
			return errmsg.ChangeLogUseMismatch
		}
	case UseAssessment, UseExposure:
		if cl.Need != "" || cl.Effect != "" || cl.Function != "" || cl.Action != "" {
			return errmsg.ChangeLogUseMismatch
		}
	case UseAction:
		if cl.Need != "" || cl.Effect != "" || cl.Indicator != "" || quantified {
			return errmsg.ChangeLogUseMismatch
		}
	default:
		return errmsg.ChangeLogInvalidUse
	}

	return errmsg.EmptyStatusError
}

func CreateChangeLog(ctx context.Context, cl *ChangeLog) error {
	if cl.ID == "" {
		cl.ID = primitive.NewObjectID().Hex()
	}

	now := time.Now()
	cl.CreatedAt = now
	cl.UpdatedAt = now

	_, err := db.ChangeLogs.InsertOne(ctx, cl)
	return err
}

func GetChangeLogByID(ctx context.Context, id string) (*ChangeLog, error) {
	var cl ChangeLog
	err := db.ChangeLogs.FindOne(ctx, bson.M{
		"_id":       id,
		"deletedAt": nil,
	}).Decode(&cl)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// ListChangeLogs returns the undeleted entries, oldest first so the
// stream reads in the order it was logged. An eventID narrows the list
// to one event's stream.
func ListChangeLogs(ctx context.Context, eventID string) ([]ChangeLog, error) {
	filter := bson.M{"deletedAt": nil}
	if eventID != "" {
		filter["event"] = eventID
	}

	cursor, err := db.ChangeLogs.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var changelogs []ChangeLog
	if err := cursor.All(ctx, &changelogs); err != nil {
		return nil, err
	}

	return changelogs, nil
}

func CountChangeLogs(ctx context.Context) (int64, error) {
	return db.ChangeLogs.CountDocuments(ctx, bson.M{"deletedAt": nil})
}

// UpdateChangeLog applies a partial change set. The event reference is
// immutable after creation; handlers strip it before calling.
func UpdateChangeLog(ctx context.Context, id string, changes bson.M) (*ChangeLog, error) {
	changes["updatedAt"] = time.Now()

	var cl ChangeLog
	err := db.ChangeLogs.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$set": changes},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cl)
	if err != nil {
		return nil, err
	}

	return &cl, nil
}

func SoftDeleteChangeLog(ctx context.Context, id string) (*ChangeLog, error) {
	now := time.Now()

	var cl ChangeLog
	err := db.ChangeLogs.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cl)
	if err != nil {
		return nil, err
	}

	return &cl, nil
}

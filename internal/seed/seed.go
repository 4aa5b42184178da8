package seed

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"earlywarning/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// File is the bootstrap seed layout: one list of candidate payloads per
// collection, applied as idempotent upserts.
type File struct {
	Predefines []bson.M `json:"predefines"`
	Parties    []bson.M `json:"parties"`
	Events     []bson.M `json:"events"`
	ChangeLogs []bson.M `json:"changelogs"`
}

func Run(ctx context.Context, path string) error {
	file, err := Load(path)
	if err != nil {
		return err
	}

	if err := NewApplier(db.Predefines).Apply(ctx, file.Predefines, PredefineSeedFields); err != nil {
		return err
	}
	if err := NewApplier(db.Parties).Apply(ctx, file.Parties, PartySeedFields); err != nil {
		return err
	}
	if err := NewApplier(db.Events).Apply(ctx, file.Events, EventSeedFields); err != nil {
		return err
	}

	return NewApplier(db.ChangeLogs).Apply(ctx, file.ChangeLogs, ChangeLogSeedFields)
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// Applier upserts seed candidates into one collection.
type Applier struct {
	name string

	// Upsert applies one candidate under its criteria. Defaults to the
	// collection upsert; swappable in tests.
	Upsert func(ctx context.Context, criteria bson.M, set bson.M) error
}

func NewApplier(coll *mongo.Collection) *Applier {
	a := &Applier{name: coll.Name()}

	a.Upsert = func(ctx context.Context, criteria bson.M, set bson.M) error {
		_, err := coll.UpdateOne(
			ctx,
			criteria,
			bson.M{"$set": set},
			options.Update().SetUpsert(true),
		)
		return err
	}

	return a
}

// Apply upserts each candidate under its seed criteria. Candidates that
// resolve to an empty filter would match arbitrarily, so they are
// skipped and logged rather than risk overwriting unrelated records.
func (a *Applier) Apply(ctx context.Context, payloads []bson.M, allowlist []string) error {
	for _, payload := range payloads {
		criteria := Criteria(payload, allowlist)
		if len(criteria) == 0 {
			log.Printf("seed: skipping %s candidate with no identifying fields", a.name)
			continue
		}

		// _id is immutable; it may only appear in the filter.
		set := bson.M{}
		for field, value := range payload {
			if field != "_id" {
				set[field] = value
			}
		}

		if err := a.Upsert(ctx, criteria, set); err != nil {
			return err
		}
	}

	return nil
}

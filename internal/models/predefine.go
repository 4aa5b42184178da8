package models

import (
	"context"
	"encoding/json"

	"earlywarning/internal/db"

	"go.mongodb.org/mongo-driver/bson"
)

// Predefine is one entry of the classification catalog: event groups,
// event types, certainties, severities, administrative areas, units and
// the like, distinguished by namespace.
type Predefine struct {
	ID        string             `bson:"_id,omitempty" json:"_id,omitempty"`
	Namespace string             `bson:"namespace" json:"namespace"`
	Strings   PredefineStrings   `bson:"strings" json:"strings"`
	Relations PredefineRelations `bson:"relations,omitempty" json:"relations,omitempty"`
}

type PredefineStrings struct {
	Name string `bson:"name" json:"name"`
	Code string `bson:"code,omitempty" json:"code,omitempty"`
}

type PredefineRelations struct {
	Group string `bson:"group,omitempty" json:"group,omitempty"`
}

// GetPredefineByID resolves a classification reference, reading through
// the cache. Cache errors fall back to the database; cache writes are
// best effort.
func GetPredefineByID(ctx context.Context, id string) (*Predefine, error) {
	cacheKey := "predefine:" + id

	if cached, err := db.CacheGetBytes(cacheKey); err == nil {
		var pd Predefine
		if err := json.Unmarshal(cached, &pd); err == nil {
			return &pd, nil
		}
	}

	var pd Predefine
	err := db.Predefines.FindOne(ctx, bson.M{"_id": id}).Decode(&pd)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(pd); err == nil {
		_ = db.CacheSetBytes(cacheKey, encoded)
	}

	return &pd, nil
}

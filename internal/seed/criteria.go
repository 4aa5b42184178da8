package seed

import "go.mongodb.org/mongo-driver/bson"

// Natural key fields per entity, used to match already seeded records
// when a candidate carries no id.
var (
	EventSeedFields = []string{"group", "type", "number"}

	ChangeLogSeedFields = []string{
		"use", "initiator", "verifier", "group", "type", "event",
		"function", "action", "need", "effect", "unit",
	}

	PredefineSeedFields = []string{"namespace", "strings.code"}

	PartySeedFields = []string{"email"}
)

// Criteria derives the filter that identifies at most one persisted
// record matching the candidate payload. An id wins outright; otherwise
// whichever allowlisted fields are present form the filter. A payload
// with neither yields an empty filter, which matches arbitrarily - the
// caller must treat that as "cannot determine uniqueness".
func Criteria(payload bson.M, allowlist []string) bson.M {
	if id, ok := payload["_id"]; ok && id != nil && id != "" {
		return bson.M{"_id": id}
	}

	criteria := bson.M{}
	for _, field := range allowlist {
		if value, ok := payload[field]; ok && value != nil && value != "" {
			criteria[field] = value
		}
	}

	return criteria
}

func EventCriteria(payload bson.M) bson.M {
	return Criteria(payload, EventSeedFields)
}

func ChangeLogCriteria(payload bson.M) bson.M {
	return Criteria(payload, ChangeLogSeedFields)
}

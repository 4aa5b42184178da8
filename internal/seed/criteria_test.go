package seed

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCriteriaIDWinsOutright(t *testing.T) {
	criteria := EventCriteria(bson.M{
		"_id":    "X",
		"group":  "A",
		"type":   "B",
		"number": "C",
	})

	require.Equal(t, bson.M{"_id": "X"}, criteria)
}

func TestCriteriaNaturalKeys(t *testing.T) {
	criteria := EventCriteria(bson.M{
		"group":  "A",
		"type":   "B",
		"number": "C",
	})

	require.Equal(t, bson.M{"group": "A", "type": "B", "number": "C"}, criteria)
}

func TestCriteriaPartialNaturalKeys(t *testing.T) {
	criteria := EventCriteria(bson.M{
		"number":      "C",
		"description": "ignored",
	})

	require.Equal(t, bson.M{"number": "C"}, criteria)
}

func TestCriteriaEmptyPayload(t *testing.T) {
	criteria := EventCriteria(bson.M{})
	require.Equal(t, bson.M{}, criteria)
}

func TestChangeLogCriteriaAllowlist(t *testing.T) {
	criteria := ChangeLogCriteria(bson.M{
		"use":       "need",
		"event":     "E1",
		"need":      "N1",
		"comment":   "not a natural key",
		"value":     7,
		"verifier":  "",
		"initiator": nil,
	})

	require.Equal(t, bson.M{
		"use":   "need",
		"event": "E1",
		"need":  "N1",
	}, criteria)
}

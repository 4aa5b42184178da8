package notify

import (
	"strings"
	"testing"

	"earlywarning/internal/env"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func fullSnapshot() EventSnapshot {
	return EventSnapshot{
		Level:        "Severe",
		Type:         "Flood",
		Stage:        "Alert",
		Number:       "FL-2018-000033-TZA",
		Causes:       "Heavy rainfall",
		Description:  "River bursting its banks",
		Instructions: "Move to higher ground",
		Places:       "Msimbazi valley",
		AreaIDs:      []string{"a1", "a2"},
		AreaNames:    []string{"Ilala", "Kinondoni"},
	}
}

func TestAreaCriteriaDedupAndWildcard(t *testing.T) {
	criteria := AreaCriteria([]string{"a1", "a1", "a2"})

	require.Equal(t, bson.M{
		"area": bson.M{"$in": []any{"a1", "a2", nil}},
	}, criteria)
}

func TestAreaCriteriaNoAreas(t *testing.T) {
	criteria := AreaCriteria(nil)

	require.Equal(t, bson.M{
		"area": bson.M{"$in": []any{nil}},
	}, criteria)
}

func TestComposeAdvisory(t *testing.T) {
	env.SENDER_NAME = "Disaster Desk"

	msg := ComposeAdvisory(fullSnapshot())

	require.Equal(t, "Severe Advisory: Flood Alert - No. FL-2018-000033-TZA", msg.Subject)
	require.Contains(t, msg.Message, "Causes: Heavy rainfall")
	require.Contains(t, msg.Message, "Description: River bursting its banks")
	require.Contains(t, msg.Message, "Instructions: Move to higher ground")
	require.Contains(t, msg.Message, "Areas: Ilala, Kinondoni")
	require.Contains(t, msg.Message, "Places: Msimbazi valley")
	require.Contains(t, msg.Message, "Regards,\nDisaster Desk")
	require.Equal(t, DefaultChannels, msg.Channels)
}

func TestComposeAdvisorySparseEvent(t *testing.T) {
	env.SENDER_NAME = "Disaster Desk"

	snap := EventSnapshot{
		Stage:  "Alert",
		Number: "2018-000001-TZA",
	}
	msg := ComposeAdvisory(snap)

	// missing subject interpolations stay literal
	require.Equal(t, "{level} Advisory: {type} Alert - No. 2018-000001-TZA", msg.Subject)
	require.Contains(t, msg.Subject, "No. 2018-000001-TZA")

	// every unset body field falls back to N/A
	require.Contains(t, msg.Message, "Causes: N/A")
	require.Contains(t, msg.Message, "Description: N/A")
	require.Contains(t, msg.Message, "Instructions: N/A")
	require.Contains(t, msg.Message, "Areas: N/A")
	require.Contains(t, msg.Message, "Places: N/A")

	require.Equal(t, bson.M{"area": bson.M{"$in": []any{nil}}}, msg.Criteria)
}

func TestComposeUpdate(t *testing.T) {
	env.SENDER_NAME = "Disaster Desk"

	msg := ComposeUpdate(fullSnapshot(), "Water level receding")

	require.Equal(t, "Status Update: Flood Alert - No. FL-2018-000033-TZA", msg.Subject)
	require.Contains(t, msg.Message, "Updates: Water level receding")
}

func TestComposeUpdateWithoutComment(t *testing.T) {
	msg := ComposeUpdate(fullSnapshot(), "")
	require.Contains(t, msg.Message, "Updates: N/A")
}

func TestRenderStripsDelimitersFromValues(t *testing.T) {
	rendered := Render("Causes: {causes}", map[string]string{
		"causes": "flooding {description} upstream",
	})

	require.Equal(t, "Causes: flooding description upstream", rendered)
	require.False(t, strings.Contains(rendered, "{description}"))
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	rendered := Render("{level} Advisory", map[string]string{})
	require.Equal(t, "{level} Advisory", rendered)
}

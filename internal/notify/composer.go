package notify

import (
	"context"
	"strings"

	"earlywarning/internal/env"
	"earlywarning/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// NA fills body fields the event never provided.
const NA = "N/A"

const (
	advisorySubject = "{level} Advisory: {type} {stage} - No. {number}"
	updateSubject   = "Status Update: {type} {stage} - No. {number}"

	eventBody = "Causes: {causes}\n" +
		"Description: {description}\n" +
		"Instructions: {instructions}\n" +
		"Areas: {areas}\n" +
		"Places: {places}"

	updateBody = eventBody + "\nUpdates: {updates}"

	footer = "\n\nRegards,\n{sender}"
)

var DefaultChannels = []string{"SMS", "EMAIL"}

// Message is the contract with the messaging collaborator.
type Message struct {
	Criteria bson.M   `bson:"criteria" json:"criteria"`
	Subject  string   `bson:"subject" json:"subject"`
	Message  string   `bson:"message" json:"message"`
	Channels []string `bson:"channels,omitempty" json:"channels,omitempty"`
}

// EventSnapshot carries the resolved, display ready view of an event
// that templates interpolate. Classification references are already
// looked up to names; absent ones stay empty.
type EventSnapshot struct {
	Level        string
	Type         string
	Stage        string
	Number       string
	Causes       string
	Description  string
	Instructions string
	Places       string
	AreaIDs      []string
	AreaNames    []string
}

// Snapshot resolves an event's references into an EventSnapshot.
// Catalog lookup failures leave the corresponding field empty.
func Snapshot(ctx context.Context, e *models.Event) EventSnapshot {
	snap := EventSnapshot{
		Stage:        e.Stage,
		Number:       e.Number,
		Causes:       e.Causes,
		Description:  e.Description,
		Instructions: e.Instructions,
		Places:       e.Places,
		AreaIDs:      e.Areas,
	}

	if e.Severity != "" {
		if pd, err := models.GetPredefineByID(ctx, e.Severity); err == nil {
			snap.Level = pd.Strings.Name
		}
	}

	if e.Type != "" {
		if pd, err := models.GetPredefineByID(ctx, e.Type); err == nil {
			snap.Type = pd.Strings.Name
		}
	}

	for _, areaID := range e.Areas {
		if pd, err := models.GetPredefineByID(ctx, areaID); err == nil {
			snap.AreaNames = append(snap.AreaNames, pd.Strings.Name)
		}
	}

	return snap
}

// AreaCriteria builds the recipient filter: parties in one of the
// event's areas, or parties with no area restriction at all. Duplicate
// area references collapse, first-seen order kept, with the null
// wildcard appended last.
func AreaCriteria(areaIDs []string) bson.M {
	seen := make(map[string]bool, len(areaIDs))
	in := make([]any, 0, len(areaIDs)+1)

	for _, id := range areaIDs {
		if !seen[id] {
			seen[id] = true
			in = append(in, id)
		}
	}

	in = append(in, nil)

	return bson.M{"area": bson.M{"$in": in}}
}

// Render substitutes {name} placeholders with the provided values.
// Values are stripped of template delimiters first, so user supplied
// text can never smuggle in new placeholders. Placeholders without a
// value stay literal.
func Render(template string, values map[string]string) string {
	rendered := template
	for name, value := range values {
		value = strings.NewReplacer("{", "", "}", "").Replace(value)
		rendered = strings.ReplaceAll(rendered, "{"+name+"}", value)
	}
	return rendered
}

func orNA(value string) string {
	if value == "" {
		return NA
	}
	return value
}

// ComposeAdvisory builds the notification sent when an event is
// created.
func ComposeAdvisory(snap EventSnapshot) Message {
	subject := Render(advisorySubject, subjectValues(snap))
	body := Render(eventBody, bodyValues(snap))

	return Message{
		Criteria: AreaCriteria(snap.AreaIDs),
		Subject:  subject,
		Message:  body + signOff(),
		Channels: DefaultChannels,
	}
}

// ComposeUpdate builds the status update notification sent when a
// changelog entry lands on an event.
func ComposeUpdate(snap EventSnapshot, comment string) Message {
	values := bodyValues(snap)
	values["updates"] = orNA(comment)

	subject := Render(updateSubject, subjectValues(snap))
	body := Render(updateBody, values)

	return Message{
		Criteria: AreaCriteria(snap.AreaIDs),
		Subject:  subject,
		Message:  body + signOff(),
		Channels: DefaultChannels,
	}
}

// subjectValues leaves absent fields out so the placeholder survives
// literally instead of crashing or rendering empty.
func subjectValues(snap EventSnapshot) map[string]string {
	values := map[string]string{}
	if snap.Level != "" {
		values["level"] = snap.Level
	}
	if snap.Type != "" {
		values["type"] = snap.Type
	}
	if snap.Stage != "" {
		values["stage"] = snap.Stage
	}
	if snap.Number != "" {
		values["number"] = snap.Number
	}
	return values
}

func bodyValues(snap EventSnapshot) map[string]string {
	return map[string]string{
		"causes":       orNA(snap.Causes),
		"description":  orNA(snap.Description),
		"instructions": orNA(snap.Instructions),
		"areas":        orNA(strings.Join(snap.AreaNames, ", ")),
		"places":       orNA(snap.Places),
	}
}

func signOff() string {
	return Render(footer, map[string]string{"sender": env.SENDER_NAME})
}

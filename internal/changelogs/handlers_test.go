package changelogs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"earlywarning/internal/env"
	"earlywarning/internal/errmsg"
	"earlywarning/internal/models"
	"earlywarning/internal/notify"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func postChangeLog(t *testing.T, app *fiber.App, payload any, token string) (bodyBytes []byte, statusCode int) {
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/changelogs", bytes.NewBuffer(sendBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req)
	require.NoError(t, err)

	bodyBytes, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	defer res.Body.Close()

	return bodyBytes, res.StatusCode
}

func TestPostChangeLogUnresolvableEventRejected(t *testing.T) {
	prevGet := getEvent
	prevCreate := createChangeLog
	t.Cleanup(func() {
		getEvent = prevGet
		createChangeLog = prevCreate
	})

	getEvent = func(context.Context, string) (*models.Event, error) {
		return nil, mongo.ErrNoDocuments
	}

	created := 0
	createChangeLog = func(context.Context, *models.ChangeLog) error {
		created++
		return nil
	}

	app := fiber.New()
	Routes(app)

	body, statusCode := postChangeLog(t, app, map[string]string{
		"event":   "missing",
		"comment": "water rising",
	}, "")

	require.Equal(t, errmsg.ChangeLogEventNotExists.StatusCode, statusCode)

	var response struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &response))
	require.Equal(t, errmsg.ChangeLogEventNotExists.Message, response.Message)

	// the changelog must never reach storage
	require.Zero(t, created)
}

func TestPostChangeLogDefaultsInitiatorAndNotifies(t *testing.T) {
	env.JWT_SECRET = []byte("test-secret")

	prevGet := getEvent
	prevCreate := createChangeLog
	prevDp := notify.Dp
	t.Cleanup(func() {
		getEvent = prevGet
		createChangeLog = prevCreate
		notify.Dp = prevDp
	})

	parent := &models.Event{
		ID:     "evt1",
		Stage:  models.StageAlert,
		Number: "FL-2018-000033-TZA",
	}
	getEvent = func(_ context.Context, id string) (*models.Event, error) {
		require.Equal(t, "evt1", id)
		return parent, nil
	}

	var created *models.ChangeLog
	createChangeLog = func(_ context.Context, cl *models.ChangeLog) error {
		created = cl
		return nil
	}

	notify.Dp = notify.NewDispatcher(nil, true)
	var sent []notify.Message
	notify.Dp.Send = func(_ context.Context, msg notify.Message) error {
		sent = append(sent, msg)
		return nil
	}

	party := models.Party{ID: "p1", Name: "Asha", Email: "asha@example.org"}
	token := party.GenToken()

	app := fiber.New()
	Routes(app)

	body, statusCode := postChangeLog(t, app, map[string]string{
		"event":   "evt1",
		"comment": "water receding",
	}, token)

	require.Equal(t, http.StatusCreated, statusCode)

	require.NotNil(t, created)
	require.Equal(t, "p1", created.Initiator)
	require.Equal(t, string(models.UseChange), created.Use)

	var response models.ChangeLog
	require.NoError(t, json.Unmarshal(body, &response))
	require.Equal(t, "p1", response.Initiator)

	// the status update went out scoped by the parent event
	require.Len(t, sent, 1)
	require.Contains(t, sent[0].Subject, "No. FL-2018-000033-TZA")
	require.Contains(t, sent[0].Message, "Updates: water receding")
}

func TestPostChangeLogKeepsExplicitInitiator(t *testing.T) {
	env.JWT_SECRET = []byte("test-secret")

	prevGet := getEvent
	prevCreate := createChangeLog
	t.Cleanup(func() {
		getEvent = prevGet
		createChangeLog = prevCreate
	})

	getEvent = func(context.Context, string) (*models.Event, error) {
		return &models.Event{ID: "evt1", Stage: models.StageAlert}, nil
	}

	var created *models.ChangeLog
	createChangeLog = func(_ context.Context, cl *models.ChangeLog) error {
		created = cl
		return nil
	}

	party := models.Party{ID: "p1", Name: "Asha", Email: "asha@example.org"}
	token := party.GenToken()

	app := fiber.New()
	Routes(app)

	_, statusCode := postChangeLog(t, app, map[string]string{
		"event":     "evt1",
		"initiator": "p2",
	}, token)

	require.Equal(t, http.StatusCreated, statusCode)
	require.NotNil(t, created)
	require.Equal(t, "p2", created.Initiator)
}

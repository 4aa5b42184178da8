package internal

import (
	"log"
	"strings"

	"earlywarning/internal/changelogs"
	"earlywarning/internal/db"
	"earlywarning/internal/env"
	"earlywarning/internal/events"
	"earlywarning/internal/notify"
	"earlywarning/internal/parties"
	"earlywarning/internal/seed"
	"earlywarning/internal/sequence"
	"earlywarning/internal/ws"

	"github.com/gofiber/fiber/v3"
)

func SetupApp(deployment string, envRoot string) *fiber.App {
	app := fiber.New()

	deploy := strings.TrimSpace(deployment)

	env.Init(envRoot, deploy)

	if err := db.InitDB(deploy); err != nil {
		log.Fatal("Could not connect to MongoDB")
		return nil
	}

	if err := db.InitCache(); err != nil {
		log.Fatal("Could not connect to Redis")
		return nil
	}

	events.Gen = sequence.NewGenerator(env.COUNTRY_CODE)

	// sync transport sends inline (test mode); production always
	// enqueues through the worker
	syncMode := env.ENABLE_SYNC_TRANSPORT && !env.IsProduction()
	notify.Dp = notify.NewDispatcher(db.Campaigns, syncMode)

	if env.SEED_FILE != "" {
		if err := seed.Run(db.Ctx, env.SEED_FILE); err != nil {
			log.Fatalf("Could not apply seed file %s: %v", env.SEED_FILE, err)
			return nil
		}
	}

	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	events.Routes(app)
	changelogs.Routes(app)
	parties.Routes(app)

	app.Get("/feed", ws.Live.Handler)

	return app
}

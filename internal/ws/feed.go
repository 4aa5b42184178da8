package ws

import (
	"sync"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

// Live is the shared feed dashboards subscribe to for records as they
// are created.
var Live = NewFeed()

// Feed fans newly created records out to connected websocket clients.
// A slow or dead client just loses its connection; broadcasts never
// block the creating request beyond the write itself.
type Feed struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]bool
}

func NewFeed() *Feed {
	return &Feed{
		subs: make(map[*websocket.Conn]bool),
	}
}

func (f *Feed) subscribe(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[conn] = true
}

func (f *Feed) unsubscribe(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, conn)
}

// Broadcast pushes one record to every subscriber, dropping the ones
// whose writes fail.
func (f *Feed) Broadcast(kind string, record any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for conn := range f.subs {
		if err := WriteRecord(conn, kind, record); err != nil {
			conn.Close()
			delete(f.subs, conn)
		}
	}
}

// Handler upgrades the request and keeps the subscription open until
// the client goes away.
func (f *Feed) Handler(c fiber.Ctx) error {
	type requestCtxProvider interface {
		RequestCtx() *fasthttp.RequestCtx
	}

	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		f.subscribe(conn)
		defer f.unsubscribe(conn)

		_ = WriteStatus(conn, "info", "live feed connected")

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

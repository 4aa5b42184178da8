package notify

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var Dp *Dispatcher

type Config struct {
	Buffer      int
	SendTimeout time.Duration
}

var defaultConfig = Config{
	Buffer:      1000,
	SendTimeout: 2 * time.Second,
}

// Dispatcher hands composed notifications to the messaging
// collaborator without ever blocking or failing the request that
// produced them. In async mode a worker drains a buffered channel; a
// saturated buffer drops the message and counts it rather than block.
// Sync mode (test transport) sends inline.
type Dispatcher struct {
	coll *mongo.Collection
	buf  chan Message
	cfg  Config
	sync bool

	wg        sync.WaitGroup
	onceClose sync.Once

	// dispatch outcomes, observable since errors never propagate
	Sent    atomic.Int64
	Failed  atomic.Int64
	Dropped atomic.Int64

	// Send delivers one message. Defaults to enqueueing the campaign
	// document for the external messaging service; swappable in tests.
	Send func(context.Context, Message) error
}

func NewDispatcher(coll *mongo.Collection, syncMode bool) *Dispatcher {
	return NewDispatcherWithConfig(coll, syncMode, defaultConfig)
}

func NewDispatcherWithConfig(coll *mongo.Collection, syncMode bool, cfg Config) *Dispatcher {
	d := &Dispatcher{
		coll: coll,
		buf:  make(chan Message, cfg.Buffer),
		cfg:  cfg,
		sync: syncMode,
	}

	d.Send = func(ctx context.Context, msg Message) error {
		_, err := d.coll.InsertOne(ctx, msg)
		return err
	}

	if !d.sync {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Dispatch accepts a message for delivery. It never blocks and never
// returns an error; the creating request must not be failed by a
// notification problem.
func (d *Dispatcher) Dispatch(msg Message) {
	if d.sync {
		d.send(msg)
		return
	}

	select {
	case d.buf <- msg:
	default:
		d.Dropped.Add(1)
		log.Printf("notify: buffer full, dropping %q", msg.Subject)
	}
}

func (d *Dispatcher) Close() {
	d.onceClose.Do(func() {
		if !d.sync {
			close(d.buf)
			d.wg.Wait()
		}
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.buf {
		d.send(msg)
	}
}

func (d *Dispatcher) send(msg Message) {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		d.cfg.SendTimeout,
	)
	defer cancel()

	if err := d.Send(ctx, msg); err != nil {
		d.Failed.Add(1)
		log.Printf("notify: dispatch of %q failed: %v", msg.Subject, err)
		return
	}

	d.Sent.Add(1)
}

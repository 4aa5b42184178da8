package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatchSyncSendsInline(t *testing.T) {
	d := NewDispatcher(nil, true)

	var sent []Message
	d.Send = func(_ context.Context, msg Message) error {
		sent = append(sent, msg)
		return nil
	}

	d.Dispatch(Message{Subject: "hello"})

	require.Len(t, sent, 1)
	require.Equal(t, "hello", sent[0].Subject)
	require.Equal(t, int64(1), d.Sent.Load())
}

func TestDispatchSyncSwallowsSendFailure(t *testing.T) {
	d := NewDispatcher(nil, true)

	d.Send = func(context.Context, Message) error {
		return errors.New("transport down")
	}

	// must not panic or surface the error
	d.Dispatch(Message{Subject: "doomed"})

	require.Equal(t, int64(1), d.Failed.Load())
	require.Equal(t, int64(0), d.Sent.Load())
}

func TestDispatchAsyncDelivers(t *testing.T) {
	d := NewDispatcherWithConfig(nil, false, Config{
		Buffer:      8,
		SendTimeout: time.Second,
	})

	received := make(chan Message, 8)
	d.Send = func(_ context.Context, msg Message) error {
		received <- msg
		return nil
	}

	d.Dispatch(Message{Subject: "queued"})
	d.Close()

	require.Len(t, received, 1)
	require.Equal(t, int64(1), d.Sent.Load())
}

func TestDispatchAsyncDropsWhenSaturated(t *testing.T) {
	d := NewDispatcherWithConfig(nil, false, Config{
		Buffer:      1,
		SendTimeout: time.Second,
	})

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	d.Send = func(_ context.Context, msg Message) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}

	// first message occupies the worker
	d.Dispatch(Message{Subject: "first"})
	<-started

	// second fills the buffer, third has nowhere to go
	d.Dispatch(Message{Subject: "second"})
	d.Dispatch(Message{Subject: "third"})

	require.Equal(t, int64(1), d.Dropped.Load())

	close(release)
	d.Close()

	require.Equal(t, int64(2), d.Sent.Load())
}

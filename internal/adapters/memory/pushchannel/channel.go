// Package pushchannel is an in-memory push channel for tests and offline runs.
//
// Emits are recorded instead of sent; Deliver plays a server event to the listeners.
package pushchannel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/platform/listeners"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

var _ pushchannel.Channel = (*Channel)(nil)

// Channel records emitted frames and dispatches delivered ones. It is safe for concurrent use.
type Channel struct {
	listeners *listeners.Registry

	mu      sync.Mutex
	emitted []pushchannel.Frame
	failErr error

	// deliverMu keeps deliveries serial, like a connection read loop.
	deliverMu sync.Mutex
}

func New() *Channel {
	return &Channel{listeners: listeners.NewRegistry()}
}

func (c *Channel) Emit(ctx context.Context, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	c.emitted = append(c.emitted, pushchannel.Frame{Event: event, Data: data})
	return nil
}

func (c *Channel) Listen(event, owner string, fn pushchannel.Listener) (stop func()) {
	return c.listeners.Add(event, owner, fn)
}

// FailEmits makes every later Emit return err. Pass nil to restore.
func (c *Channel) FailEmits(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// Deliver encodes payload and hands it to the listeners registered for event.
// It returns how many listeners received it.
func (c *Channel) Deliver(event string, payload any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	return c.listeners.Dispatch(pushchannel.Frame{Event: event, Data: data}), nil
}

// Emitted returns the frames sent for event, oldest first. An empty event returns all.
func (c *Channel) Emitted(event string) []pushchannel.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]pushchannel.Frame, 0, len(c.emitted))
	for _, f := range c.emitted {
		if event == "" || f.Event == event {
			out = append(out, f)
		}
	}
	return out
}

// Rooms decodes the string payloads of every join or leave frame, oldest first.
func (c *Channel) Rooms(event string) []string {
	frames := c.Emitted(event)
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		var room string
		if err := json.Unmarshal(f.Data, &room); err == nil {
			out = append(out, room)
		}
	}
	return out
}

// Listeners reports how many listeners are registered for event.
func (c *Channel) Listeners(event string) int {
	return c.listeners.Len(event)
}

// Package wspush is the process-wide push connection over a websocket.
//
// One connection is kept open for the life of the process and re-established with
// exponential backoff whenever it drops. Frames are JSON objects {"event", "data"}.
package wspush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"golang.org/x/net/websocket"

	"github.com/kunall-01/crowdspark-frontend/internal/platform/listeners"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

// ErrNotConnected is returned by Emit for events that cannot wait for a connection.
var ErrNotConnected = errors.New("push channel not connected")

// ErrClosed is returned after Close.
var ErrClosed = errors.New("push channel closed")

type Options struct {
	// URL is the websocket endpoint (ws:// or wss://).
	URL string
	// Origin is the http(s) origin presented during the handshake.
	Origin string
	// Cookies supplies the credential cookies for each handshake.
	Cookies func() []*http.Cookie
	// NewBackOff builds the reconnect policy. Defaults to backoff's exponential policy.
	NewBackOff func() backoff.BackOff
	Log        logr.Logger
}

// Endpoints derives the push URL and handshake origin from the backend base URL.
func Endpoints(base *url.URL, path string) (wsURL, origin string, err error) {
	if base == nil {
		return "", "", errors.New("push: missing backend url")
	}
	u := *base
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", "", fmt.Errorf("push: unsupported scheme %q", base.Scheme)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery, u.Fragment = "", ""
	return u.String(), base.Scheme + "://" + base.Host, nil
}

// Client implements pushchannel.Channel. It is safe for concurrent use.
type Client struct {
	opts     Options
	log      logr.Logger
	registry *listeners.Registry

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	conn   *websocket.Conn
	enc    *json.Encoder
	ready  chan struct{}
	// rooms counts joins per room; a room is held while its count is positive.
	rooms  map[string]int
	closed bool

	// writeMu serializes frames on the current connection.
	writeMu sync.Mutex
}

var _ pushchannel.Channel = (*Client)(nil)

// Connect starts the connection loop and returns immediately. Use WaitConnected to block
// until the first handshake succeeds.
func Connect(ctx context.Context, opts Options) (*Client, error) {
	if _, err := websocket.NewConfig(opts.URL, opts.Origin); err != nil {
		return nil, fmt.Errorf("push config: %w", err)
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	cctx, cancel := context.WithCancel(ctx)
	c := &Client{
		opts:     opts,
		log:      log.WithName("push"),
		registry: listeners.NewRegistry(),
		ctx:      cctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		ready:    make(chan struct{}),
		rooms:    make(map[string]int),
	}
	go c.run()
	return c, nil
}

func (c *Client) run() {
	defer close(c.done)
	for {
		conn, err := backoff.Retry(c.ctx, c.dial,
			backoff.WithBackOff(c.opts.NewBackOff()),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, next time.Duration) {
				c.log.V(1).Info("push connect failed", "err", err.Error(), "retryIn", next.String())
			}),
		)
		if err != nil {
			return
		}
		c.serve(conn)
		if c.ctx.Err() != nil {
			return
		}
		c.log.Info("push connection lost, reconnecting")
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	cfg, err := websocket.NewConfig(c.opts.URL, c.opts.Origin)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if c.opts.Cookies != nil {
		var parts []string
		for _, ck := range c.opts.Cookies() {
			parts = append(parts, (&http.Cookie{Name: ck.Name, Value: ck.Value}).String())
		}
		if len(parts) > 0 {
			cfg.Header.Set("Cookie", strings.Join(parts, "; "))
		}
	}
	return cfg.DialContext(c.ctx)
}

// serve owns conn until its read loop ends. Listeners run on this goroutine, one frame at a time.
func (c *Client) serve(conn *websocket.Conn) {
	enc := json.NewEncoder(conn)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	rooms := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		rooms = append(rooms, r)
	}
	c.conn, c.enc = conn, enc
	ready := c.ready
	c.mu.Unlock()

	// Server-side membership does not survive the old connection.
	for _, room := range rooms {
		if err := c.write(enc, pushchannel.EventJoin, room); err != nil {
			c.log.Info("rejoin failed", "room", room, "err", err.Error())
		}
	}
	close(ready)
	c.log.Info("push connected", "url", c.opts.URL, "rooms", len(rooms))

	stop := context.AfterFunc(c.ctx, func() { _ = conn.Close() })
	defer stop()

	dec := json.NewDecoder(conn)
	for {
		var f pushchannel.Frame
		if err := dec.Decode(&f); err != nil {
			break
		}
		if f.Event == "" {
			continue
		}
		c.registry.Dispatch(f)
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn, c.enc = nil, nil
		c.ready = make(chan struct{})
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) write(enc *json.Encoder, event string, payload any) error {
	f := pushchannel.Frame{Event: event}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event, err)
		}
		f.Data = b
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return enc.Encode(f)
}

// Emit sends event. Join and leave update the rooms replayed on reconnect and succeed while
// disconnected; other events fail with ErrNotConnected.
//
// Rooms are reference counted: every join is sent, but a leave only reaches the server once
// it balances the last outstanding join for that room.
func (c *Client) Emit(ctx context.Context, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	switch event {
	case pushchannel.EventJoin, pushchannel.EventLeave:
		room, ok := payload.(string)
		if !ok {
			c.mu.Unlock()
			return fmt.Errorf("%s: room must be a string, got %T", event, payload)
		}
		if event == pushchannel.EventJoin {
			c.rooms[room]++
		} else {
			switch n := c.rooms[room]; {
			case n > 1:
				c.rooms[room] = n - 1
				c.mu.Unlock()
				return nil
			case n == 1:
				delete(c.rooms, room)
			default:
				c.mu.Unlock()
				return nil
			}
		}
	}
	enc := c.enc
	c.mu.Unlock()

	if enc == nil {
		if event == pushchannel.EventJoin || event == pushchannel.EventLeave {
			return nil
		}
		return ErrNotConnected
	}
	return c.write(enc, event, payload)
}

func (c *Client) Listen(event, owner string, fn pushchannel.Listener) (stop func()) {
	return c.registry.Add(event, owner, fn)
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// WaitConnected blocks until a connection is open, ctx ends, or the client is closed.
func (c *Client) WaitConnected(ctx context.Context) error {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	select {
	case <-ready:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops reconnecting and closes the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		_ = conn.Close()
	}
	<-c.done
	return nil
}

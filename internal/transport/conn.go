package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/types"
	"github.com/coder/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrSendBufferFull = errors.New("transport: send buffer full")

const (
	writeTimeout = 3 * time.Second
	readLimit    = 1 << 20
	outboxSize   = 32
)

// Conn is the websocket link to the authority. A reader goroutine decodes notifications into
// the embedded Queue; nothing reaches the client until ProcessEvents is called.
type Conn struct {
	Queue

	self      string
	ws        *websocket.Conn
	out       chan types.ClientMessage
	connected atomic.Bool
	closing   atomic.Bool
	closeOnce sync.Once
	cancel    context.CancelFunc
	group     *errgroup.Group
	log       *zap.Logger
}

// Dial connects to serverURL as user. The user name travels as the "user" query parameter.
func Dial(ctx context.Context, serverURL, user string, log *zap.Logger) (*Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	q := u.Query()
	q.Set("user", user)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}
	ws.SetReadLimit(readLimit)

	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)

	c := &Conn{
		self:   user,
		ws:     ws,
		out:    make(chan types.ClientMessage, outboxSize),
		cancel: cancel,
		group:  g,
		log:    log.With(zap.String("user", user)),
	}
	c.connected.Store(true)

	g.Go(func() error { return c.readLoop(gctx) })
	g.Go(func() error { return c.writeLoop(gctx) })

	c.log.Info("connected", zap.String("url", u.Redacted()))
	return c, nil
}

func (c *Conn) Self() string    { return c.self }
func (c *Conn) Connected() bool { return c.connected.Load() }

// Send queues req for the writer goroutine and never blocks.
func (c *Conn) Send(req types.Request) error {
	if !c.connected.Load() {
		return ErrClosed
	}
	m, err := types.EncodeRequest(req)
	if err != nil {
		return err
	}
	select {
	case c.out <- m:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) ProcessEvents() error {
	_, err := c.Process()
	return err
}

// Close shuts the link down and waits for both goroutines.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		wasUp := c.connected.Load()
		c.closing.Store(true)
		if cerr := c.ws.Close(websocket.StatusNormalClosure, "bye"); wasUp {
			err = multierr.Append(err, ignoreClosed(cerr))
		}
		c.lost("closed by client")
		c.cancel()
		err = multierr.Append(err, c.group.Wait())
	})
	return err
}

func (c *Conn) readLoop(ctx context.Context) error {
	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			// Close reports its own reason
			if c.closing.Load() {
				return nil
			}
			c.lost(err.Error())
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var m types.ServerMessage
		if err := json.Unmarshal(data, &m); err != nil {
			c.log.Warn("bad json from authority", zap.Error(err))
			continue
		}
		n, err := types.DecodeNotification(m)
		if err != nil {
			c.log.Warn("dropping notification", zap.String("type", m.Type), zap.Error(err))
			continue
		}
		c.Push(n)
	}
}

func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-c.out:
			payload, err := json.Marshal(m)
			if err != nil {
				c.log.Error("encode request", zap.String("type", m.Type), zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.ws.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				if c.closing.Load() {
					return nil
				}
				c.lost(err.Error())
				return fmt.Errorf("write %s: %w", m.Type, err)
			}
		}
	}
}

// lost flips the link to disconnected exactly once and tells the client through the queue.
func (c *Conn) lost(reason string) {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}
	if !c.closing.Load() {
		c.log.Error("connection lost", zap.String("reason", reason))
	}
	c.Push(types.ConnectionLost{Reason: reason})
	c.cancel()
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	return err
}

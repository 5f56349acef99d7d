package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/turnqueue"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// ErrNotAttached is returned when the bridge has no puzzle.
var ErrNotAttached = errors.New("ws: no puzzle attached")

// Target is the puzzle the bridge drives.
type Target interface {
	Submit(m types.Move, source string) error
	ShuffleAnimated(n int) ([]types.Move, error)
	State() *cube.State
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge's logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithAckTimeout sets how long a turn waits for the renderer's animated
// reply before it is painted anyway.
func WithAckTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.ackTimeout = d
	}
}

// peer is the connected renderer.
type peer struct {
	out  chan []byte
	done chan struct{}
}

// Bridge serves one remote renderer at a time.
type Bridge struct {
	logger     *slog.Logger
	ackTimeout time.Duration
	schemas    *Schemas
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	target  Target
	peer    *peer
	nextID  uint64
	waiting map[uint64]chan struct{}
}

// NewBridge creates a bridge. Attach a puzzle before serving.
func NewBridge(opts ...Option) (*Bridge, error) {
	schemas, err := LoadSchemas()
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ackTimeout: 5 * time.Second,
		schemas:    schemas,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		waiting: make(map[uint64]chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Attach sets the puzzle that inbound messages drive.
func (b *Bridge) Attach(t Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = t
}

// Connected reports whether a renderer is connected.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peer != nil
}

// Animator returns a turn animator for state that plays each turn on the
// connected renderer. Its signature fits twisty.WithAnimator.
func (b *Bridge) Animator(state *cube.State) turnqueue.Animator {
	return &RemoteAnimator{bridge: b, state: state}
}

// Handler returns the HTTP handler for the /ws endpoint.
func (b *Bridge) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			b.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		p, err := b.claim()
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
				time.Now().Add(time.Second))
			return
		}
		defer b.release(p)

		b.logger.Info("renderer connected", "remote", r.RemoteAddr)
		defer b.logger.Info("renderer disconnected", "remote", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-p.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		b.sendState()

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := b.handle(msg); err != nil {
				b.logger.Debug("rejected message", "error", err)
				b.send(ErrorMsg{Type: TypeError, Message: err.Error()})
			}
		}
	}
}

func (b *Bridge) claim() (*peer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.target == nil {
		return nil, ErrNotAttached
	}
	if b.peer != nil {
		return nil, errors.New("renderer already connected")
	}
	b.peer = &peer{out: make(chan []byte, 64), done: make(chan struct{})}
	return b.peer, nil
}

func (b *Bridge) release(p *peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.peer == p {
		b.peer = nil
	}
	close(p.done)
}

func (b *Bridge) handle(msg []byte) error {
	base, err := b.schemas.Validate(msg)
	if err != nil {
		return err
	}

	b.mu.Lock()
	target := b.target
	b.mu.Unlock()

	switch base.Type {
	case TypeTurn:
		var m TurnMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return err
		}
		return target.Submit(m.Move, types.SourceRemote)
	case TypeShuffle:
		var m ShuffleMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return err
		}
		_, err := target.ShuffleAnimated(m.Count)
		return err
	case TypeAnimated:
		var m AnimatedMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return err
		}
		b.ack(m.ID)
		return nil
	}
	return fmt.Errorf("unhandled message type %q", base.Type)
}

// send queues v for the connected renderer; dropped when none is connected
// or its buffer is full.
func (b *Bridge) send(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("failed to encode message", "error", err)
		return
	}

	b.mu.Lock()
	p := b.peer
	b.mu.Unlock()
	if p == nil {
		return
	}

	select {
	case p.out <- msg:
	default:
		b.logger.Warn("renderer send buffer full, message dropped")
	}
}

func (b *Bridge) sendState() {
	b.mu.Lock()
	target := b.target
	b.mu.Unlock()
	if target == nil {
		return
	}
	b.send(newStateMsg(target.State()))
}

// expect registers a turn id and returns the channel closed by its ack, plus
// the current peer's done channel. ok is false when no renderer is connected.
func (b *Bridge) expect() (id uint64, acked, done <-chan struct{}, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.peer == nil {
		return 0, nil, nil, false
	}
	b.nextID++
	ch := make(chan struct{})
	b.waiting[b.nextID] = ch
	return b.nextID, ch, b.peer.done, true
}

func (b *Bridge) ack(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.waiting[id]; ok {
		close(ch)
		delete(b.waiting, id)
	}
}

func (b *Bridge) forget(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.waiting, id)
}

// RemoteAnimator plays turns on the connected renderer. With no renderer it
// paints immediately.
type RemoteAnimator struct {
	bridge *Bridge
	state  *cube.State
}

// AnimateTurn sends an animate message, waits for the matching animated
// reply, then paints the move and pushes the new state. A disconnect or ack
// timeout paints the move without waiting further.
func (a *RemoteAnimator) AnimateTurn(ctx context.Context, m types.Move) error {
	if err := a.state.Validate(m); err != nil {
		return err
	}

	b := a.bridge
	if id, acked, done, ok := b.expect(); ok {
		b.send(AnimateMsg{Type: TypeAnimate, ID: id, Move: m})

		timer := time.NewTimer(b.ackTimeout)
		select {
		case <-acked:
		case <-done:
			b.forget(id)
		case <-timer.C:
			b.forget(id)
			b.logger.Warn("renderer did not acknowledge turn", "move", m.Notation(), "id", id)
		case <-ctx.Done():
			b.forget(id)
		}
		timer.Stop()
	}

	if err := a.state.Paint(m); err != nil {
		return fmt.Errorf("failed to paint %s: %w", m.Notation(), err)
	}
	b.sendState()
	return nil
}

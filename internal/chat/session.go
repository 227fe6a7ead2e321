package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"backend-honeymoonhq/internal/sse"
	"backend-honeymoonhq/internal/toolcall"
)

var (
	nowFn   = time.Now
	newIDFn = uuid.NewString
)

// Streamer opens one streaming completion. A non-2xx answer is returned as
// *StatusError.
type Streamer interface {
	Stream(ctx context.Context, req Request) (io.ReadCloser, error)
}

type Option func(*Session)

func WithMaxPending(n int) Option {
	return func(s *Session) { s.maxPending = n }
}

// WithTripContext supplies the trip context attached to every turn.
func WithTripContext(fn func(ctx context.Context) *TripContext) Option {
	return func(s *Session) { s.tripContext = fn }
}

// Session owns one conversation. Only one turn runs at a time; snapshots
// are handed to the OnChange listener after every visible change.
type Session struct {
	id          string
	streamer    Streamer
	maxPending  int
	tripContext func(ctx context.Context) *TripContext

	mu       sync.Mutex
	messages []Message
	loading  bool
	onChange func(Snapshot)

	closed atomic.Bool
}

type Snapshot struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
	Loading   bool      `json:"loading"`
}

func NewSession(id string, streamer Streamer, opts ...Option) *Session {
	s := &Session{
		id:         id,
		streamer:   streamer,
		maxPending: sse.DefaultMaxPending,
		messages: []Message{{
			ID:        newIDFn(),
			Role:      RoleAssistant,
			Content:   Greeting,
			Timestamp: nowFn(),
		}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops the session from applying any further updates. A running
// stream is not aborted but its remaining deltas are discarded.
func (s *Session) Close() {
	s.closed.Store(true)
}

// Send runs one turn for input and returns the tool calls completed in it.
func (s *Session) Send(ctx context.Context, input string) ([]toolcall.Call, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyMessage
	}
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrTurnInProgress
	}
	s.loading = true
	history := lo.FilterMap(s.messages, func(m Message, _ int) (HistoryMessage, bool) {
		return HistoryMessage{Role: m.Role, Content: m.Content}, m.Role == RoleUser || m.Role == RoleAssistant
	})
	history = append(history, HistoryMessage{Role: RoleUser, Content: input})
	s.messages = append(s.messages, Message{ID: newIDFn(), Role: RoleUser, Content: input, Timestamp: nowFn()})
	s.publishLocked()
	s.mu.Unlock()

	assistantID := ""
	defer func() {
		s.mu.Lock()
		s.loading = false
		if assistantID != "" {
			s.dropIfEmptyLocked(assistantID)
		}
		s.publishLocked()
		s.mu.Unlock()
	}()

	req := Request{Messages: history}
	if s.tripContext != nil {
		req.TripContext = s.tripContext(ctx)
	}
	body, err := s.streamer.Stream(ctx, req)
	if err != nil {
		turnErr := classify(err)
		log.Printf("chat %s: turn failed: %v", s.id, err)
		return nil, turnErr
	}
	defer body.Close()

	assistantID = newIDFn()
	s.mu.Lock()
	if !s.closed.Load() {
		s.messages = append(s.messages, Message{ID: assistantID, Role: RoleAssistant, Timestamp: nowFn()})
		s.publishLocked()
	}
	s.mu.Unlock()

	dec := sse.NewDecoder(body, sse.WithMaxPending(s.maxPending))
	asm := toolcall.NewAssembler()
	for {
		delta, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("chat %s: stream interrupted: %v", s.id, err)
			return asm.Results(), classify(err)
		}
		if asm.Apply(delta) {
			s.updateAssistant(assistantID, asm.Content(), asm.Results())
		}
	}
	return asm.Results(), nil
}

func (s *Session) updateAssistant(id, content string, calls []toolcall.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	next := append([]Message(nil), s.messages...)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		next[i].Content = content
		if len(calls) > 0 {
			next[i].ToolCalls = calls
		}
		s.messages = next
		s.publishLocked()
		return
	}
}

func (s *Session) dropIfEmptyLocked(id string) {
	s.messages = lo.Reject(s.messages, func(m Message, _ int) bool {
		return m.ID == id && m.Content == "" && len(m.ToolCalls) == 0
	})
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: s.id,
		Messages:  append([]Message(nil), s.messages...),
		Loading:   s.loading,
	}
}

// publishLocked runs the listener with the lock held so snapshots arrive in
// order. Listeners must not call back into the session.
func (s *Session) publishLocked() {
	if s.onChange == nil || s.closed.Load() {
		return
	}
	s.onChange(s.snapshotLocked())
}

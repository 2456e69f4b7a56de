package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
	"breakthrough/internal/game"
	"breakthrough/internal/store"
)

const subscriberBuffer = 64

// Session is one hosted game. All access to the controller goes through the
// session lock, which gives the controller the single thread it expects.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time // guarded by mu

	m    *Manager
	mu   sync.Mutex
	ctrl *game.Controller

	round   int
	saved   bool
	pending []game.Event

	subs    map[int]chan game.Event
	nextSub int
}

// LastActive is the time of the last accepted action, or the creation time.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) == 0 && now.Sub(s.UpdatedAt) >= ttl
}

// Result is what one operation did.
type Result struct {
	Accepted bool             `json:"accepted"`
	Events   []game.Event     `json:"events"`
	Decision *engine.Decision `json:"-"`
	State    game.State       `json:"state"`
}

func newSession(id string, m *Manager) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		m:         m,
		round:     1,
		subs:      make(map[int]chan game.Event),
	}
	s.ctrl = game.NewController(m.eng, s.emit)
	if m.opts.Trace {
		s.ctrl.SetLogger(m.opts.Logger)
	}
	return s
}

// emit runs under s.mu from inside the controller.
func (s *Session) emit(e game.Event) {
	s.pending = append(s.pending, e)
	for id, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.m.opts.Logger.Printf("game %s: subscriber %d is slow, dropping %s", s.ID, id, e.Type)
		}
	}
}

// Play submits a Defender move and, with AutoAdvance, answers it with the
// Attacker's move.
func (s *Session) Play(ctx context.Context, to bt.Position) Result {
	return s.do(ctx, func(r *Result) {
		r.Accepted = s.ctrl.SubmitDefenderMove(to)
		if r.Accepted && s.m.opts.AutoAdvance && s.ctrl.Phase() == game.AttackerTurn {
			if d, ok := s.ctrl.AdvanceAttacker(); ok {
				r.Decision = &d
			}
		}
	})
}

func (s *Session) Advance(ctx context.Context) Result {
	return s.do(ctx, func(r *Result) {
		if d, ok := s.ctrl.AdvanceAttacker(); ok {
			r.Accepted = true
			r.Decision = &d
		}
	})
}

func (s *Session) Restart(ctx context.Context) Result {
	return s.do(ctx, func(r *Result) {
		s.ctrl.Restart()
		s.round++
		s.saved = false
		r.Accepted = true
	})
}

func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.State()
}

// do runs op under the lock, collects the events it emitted and stores the
// game once it is over.
func (s *Session) do(ctx context.Context, op func(r *Result)) Result {
	s.mu.Lock()
	var r Result
	s.pending = nil
	op(&r)
	r.Events = s.pending
	s.pending = nil
	if r.Events == nil {
		r.Events = []game.Event{}
	}
	r.State = s.ctrl.State()
	if r.Accepted {
		s.UpdatedAt = time.Now()
	}

	var rec *store.Record
	if r.State.Phase == game.GameOver && !s.saved {
		s.saved = true
		v := store.NewRecord(fmt.Sprintf("%s/%d", s.ID, s.round), r.State, time.Now())
		rec = &v
	}
	s.mu.Unlock()

	if rec != nil {
		s.m.record(ctx, *rec)
	}
	return r
}

// Subscribe returns a channel receiving every event of the session from now
// on, and a function that cancels the subscription and closes the channel.
func (s *Session) Subscribe() (<-chan game.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan game.Event, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"breakthrough/internal/engine"
	"breakthrough/internal/store"
)

var ErrGameNotFound = errors.New("game not found")

// Recorder persists finished games. *store.Store implements it.
type Recorder interface {
	Save(ctx context.Context, rec store.Record) error
}

type Options struct {
	Recorder    Recorder    // nil: finished games are not stored
	Logger      *log.Logger // nil: log.Default()
	Trace       bool        // per-move controller tracing
	AutoAdvance bool        // play the Attacker right after an accepted Defender move
}

type Manager struct {
	mu    sync.RWMutex
	games map[string]*Session

	eng  *engine.Engine
	opts Options
}

func NewManager(eng *engine.Engine, opts Options) *Manager {
	if eng == nil {
		eng = engine.NewEngine()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Manager{games: make(map[string]*Session), eng: eng, opts: opts}
}

func (m *Manager) NewGame() *Session {
	s := newSession(uuid.NewString(), m)

	m.mu.Lock()
	m.games[s.ID] = s
	m.mu.Unlock()

	m.opts.Logger.Printf("game %s created", s.ID)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Remove drops the session and closes its subscribers.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if !ok {
		return ErrGameNotFound
	}
	s.closeSubscribers()
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close closes every session's subscribers. Sessions stay readable.
func (m *Manager) Close() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.games {
		s.closeSubscribers()
	}
}

func (m *Manager) record(ctx context.Context, rec store.Record) {
	if m.opts.Recorder == nil {
		return
	}
	if err := m.opts.Recorder.Save(ctx, rec); err != nil {
		m.opts.Logger.Printf("save game %s: %v", rec.ID, err)
		return
	}
	m.opts.Logger.Printf("game %s saved (%s, %s)", rec.ID, rec.Result, rec.Reason)
}

// Sweep removes sessions that have had no accepted action for ttl and have no
// event subscribers. It returns how many were removed.
func (m *Manager) Sweep(now time.Time, ttl time.Duration) int {
	m.mu.RLock()
	var expired []*Session
	for _, s := range m.games {
		if s.expired(now, ttl) {
			expired = append(expired, s)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, s := range expired {
		if err := m.Remove(s.ID); err == nil {
			removed++
			m.opts.Logger.Printf("game %s expired after %v idle (age %v)", s.ID,
				now.Sub(s.LastActive()).Round(time.Second), now.Sub(s.CreatedAt).Round(time.Second))
		}
	}
	return removed
}

const minSweepInterval = time.Second

// RunSweeper calls Sweep every ttl/4 until ctx is done. A ttl <= 0 disables it.
func (m *Manager) RunSweeper(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(max(ttl/4, minSweepInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now, ttl)
		}
	}
}

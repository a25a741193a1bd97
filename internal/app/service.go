package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("too many open sessions")
)

// ServiceConfig holds the defaults applied to new sessions.
type ServiceConfig struct {
	DeckID       string
	Spread       domain.SpreadID
	Placement    PlacementMode
	TouchSlop    float64
	Model        string
	SessionLimit int

	// IdleTTL closes sessions unused for this long. Zero keeps them until
	// deleted.
	IdleTTL time.Duration

	// Now is the clock used for idle tracking; nil means time.Now.
	Now func() time.Time
}

// CreateSessionRequest is the application-level input for a new table.
type CreateSessionRequest struct {
	DeckID       string
	Spread       domain.SpreadID
	Capabilities interaction.Capabilities
}

// SpreadService builds sessions and keeps the open ones addressable by id.
// Each session has its own lock, so events for one session apply one at a
// time in arrival order while different sessions proceed independently.
type SpreadService struct {
	decks       ports.DeckStore
	catalog     *domain.Catalog
	interpreter ports.Interpreter
	newRNG      func() domain.RNG
	cfg         ServiceConfig
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu       sync.Mutex
	s        *Session
	lastUsed atomic.Int64 // unix nanoseconds
}

func (e *sessionEntry) touch(now time.Time) { e.lastUsed.Store(now.UnixNano()) }

// NewSpreadService wires the service. interp may be nil to disable readings.
func NewSpreadService(ds ports.DeckStore, catalog *domain.Catalog, interp ports.Interpreter, newRNG func() domain.RNG, cfg ServiceConfig, logger *slog.Logger) *SpreadService {
	if cfg.SessionLimit <= 0 {
		cfg.SessionLimit = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SpreadService{
		decks:       ds,
		catalog:     catalog,
		interpreter: interp,
		newRNG:      newRNG,
		cfg:         cfg,
		logger:      logger,
		sessions:    make(map[string]*sessionEntry),
	}
}

// Catalog returns the spread catalog shared by every session.
func (svc *SpreadService) Catalog() *domain.Catalog { return svc.catalog }

// Decks lists the card-meaning tables a session can be opened with.
func (svc *SpreadService) Decks(ctx context.Context) ([]domain.DeckInfo, error) {
	return svc.decks.ListDecks(ctx)
}

// NewSession builds a standalone session. The input backend is detected from
// the request's capabilities once, here.
func (svc *SpreadService) NewSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	deckID := req.DeckID
	if deckID == "" {
		deckID = svc.cfg.DeckID
	}
	deck, err := svc.decks.GetDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}

	spread := req.Spread
	if spread == "" {
		spread = svc.cfg.Spread
	}

	return NewSession(deck, svc.catalog, svc.newRNG(), Options{
		Spread:      spread,
		Placement:   svc.cfg.Placement,
		Backend:     interaction.DetectBackend(req.Capabilities, svc.cfg.TouchSlop),
		Interpreter: svc.interpreter,
		Model:       svc.cfg.Model,
		Logger:      svc.logger,
	})
}

// Create opens a registered session and returns its id.
func (svc *SpreadService) Create(ctx context.Context, req CreateSessionRequest) (string, *Session, error) {
	s, err := svc.NewSession(ctx, req)
	if err != nil {
		return "", nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.sessions) >= svc.cfg.SessionLimit {
		svc.evictIdleLocked()
	}
	if len(svc.sessions) >= svc.cfg.SessionLimit {
		return "", nil, ErrSessionLimit
	}
	id := uuid.NewString()
	e := &sessionEntry{s: s}
	e.touch(svc.cfg.Now())
	svc.sessions[id] = e
	svc.logger.Info("session created", "session_id", id, "deck", s.DeckID(), "backend", s.Backend())
	return id, s, nil
}

// Do runs fn with exclusive access to the session.
func (svc *SpreadService) Do(id string, fn func(*Session) error) error {
	svc.mu.Lock()
	e, ok := svc.sessions[id]
	svc.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch(svc.cfg.Now())
	defer func() { e.touch(svc.cfg.Now()) }()
	return fn(e.s)
}

// EvictIdle closes every session unused for longer than the idle TTL and
// returns how many were closed.
func (svc *SpreadService) EvictIdle() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.evictIdleLocked()
}

func (svc *SpreadService) evictIdleLocked() int {
	if svc.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := svc.cfg.Now().Add(-svc.cfg.IdleTTL).UnixNano()
	n := 0
	for id, e := range svc.sessions {
		if e.lastUsed.Load() < cutoff {
			delete(svc.sessions, id)
			svc.logger.Info("session expired", "session_id", id)
			n++
		}
	}
	return n
}

// RunEviction sweeps idle sessions every interval until ctx is done.
func (svc *SpreadService) RunEviction(ctx context.Context, interval time.Duration) {
	if svc.cfg.IdleTTL <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := svc.EvictIdle(); n > 0 {
				svc.logger.Debug("idle sessions evicted", "count", n, "open", svc.Len())
			}
		}
	}
}

// Delete forgets a session.
func (svc *SpreadService) Delete(id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, ok := svc.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(svc.sessions, id)
	svc.logger.Info("session closed", "session_id", id)
	return nil
}

// Len returns the number of open sessions.
func (svc *SpreadService) Len() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.sessions)
}

package services

import (
	"context"
	"sync"

	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// ============================================================
// Store - single-consumer dispatch over the reducer
// ============================================================

// Observer receives a read-only copy of the state after every accepted action
type Observer func(state domain.State)

// Store owns the live application state. Dispatches are serialized; the
// reducer never runs concurrently with itself.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	reducer   *Reducer
	persister SnapshotPersister
	log       *logrus.Entry
	metrics   *metrics.Metrics

	subMu   sync.RWMutex
	subs    map[int]Observer
	nextSub int

	// states waiting for delivery, in dispatch order
	queueMu  sync.Mutex
	queue    []domain.State
	draining bool
}

// NewStore creates a store in the loading state. Call Init before serving.
func NewStore(reducer *Reducer, persister SnapshotPersister, log *logrus.Entry, m *metrics.Metrics) *Store {
	return &Store{
		state:     domain.NewInitialState(),
		reducer:   reducer,
		persister: persister,
		log:       log,
		metrics:   m,
		subs:      make(map[int]Observer),
	}
}

// Init loads the persisted snapshot, if any, and dispatches INIT_APP with it.
// Once loaded, the live state is authoritative: a second Init does not read
// storage again and only seeds collections that are still missing.
func (s *Store) Init(ctx context.Context) {
	if !s.GetState().IsLoading {
		s.log.Debug("Already loaded, skipping snapshot read")
		s.Dispatch(ctx, domain.InitApp(nil))
		return
	}

	snapshot, ok := s.persister.Load(ctx)
	if !ok {
		snapshot = nil
		s.log.Info("No snapshot found, seeding fixtures")
	} else {
		s.log.Info("Rehydrating from snapshot")
	}
	s.Dispatch(ctx, domain.InitApp(snapshot))
}

// Dispatch reduces the action into the live state and reports whether it was
// accepted. Accepted actions other than INIT_APP are persisted once loading
// has finished, then observers are notified outside the lock. Observers see
// states in dispatch order; a dispatch made while another goroutine (or an
// observer) is delivering returns before its own state has been delivered.
func (s *Store) Dispatch(ctx context.Context, action domain.Action) bool {
	s.mu.Lock()
	next, accepted := s.reducer.Reduce(s.state, action)
	s.metrics.ObserveDispatch(string(action.Type), accepted)
	if !accepted {
		s.mu.Unlock()
		s.log.WithField("action", action.Type).Debug("Action ignored")
		return false
	}

	s.state = next
	if action.Type != domain.ActionInitApp && !next.IsLoading {
		s.persister.Save(ctx, next.Clone())
	}
	s.enqueue(next.Clone())
	s.mu.Unlock()

	s.log.WithField("action", action.Type).Debug("Action applied")
	s.drain()
	return true
}

// GetState returns a copy of the current state
func (s *Store) GetState() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(fn Observer) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// enqueue is called with s.mu held so queue order matches reduce order
func (s *Store) enqueue(state domain.State) {
	s.queueMu.Lock()
	s.queue = append(s.queue, state)
	s.queueMu.Unlock()
}

// drain delivers queued states one at a time. Only one goroutine drains;
// re-entrant calls from observers return at once.
func (s *Store) drain() {
	s.queueMu.Lock()
	if s.draining {
		s.queueMu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		state := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()
		s.notify(state)
		s.queueMu.Lock()
	}
	s.draining = false
	s.queueMu.Unlock()
}

func (s *Store) notify(state domain.State) {
	s.subMu.RLock()
	observers := make([]Observer, 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range observers {
		fn(state.Clone())
	}
}

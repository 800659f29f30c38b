package services

import (
	"context"
	"sync"
	"testing"

	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryPersister records every save and serves the latest one on load
type memoryPersister struct {
	mu    sync.Mutex
	saved []domain.State
	loads int
}

func (p *memoryPersister) Load(context.Context) (*domain.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	if len(p.saved) == 0 {
		return nil, false
	}
	s := p.saved[len(p.saved)-1].Clone()
	return &s, true
}

func (p *memoryPersister) Save(_ context.Context, s domain.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, s.Clone())
}

func (p *memoryPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saved)
}

func newTestStore(t *testing.T, p SnapshotPersister) *Store {
	t.Helper()
	return NewStore(newTestReducer(t), p, logger.Discard(), nil)
}

func TestStoreInitSeedsWithoutSaving(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(t, p)
	assert.True(t, s.GetState().IsLoading)

	s.Init(context.Background())

	st := s.GetState()
	assert.False(t, st.IsLoading)
	assert.Len(t, st.PartnerCafes, 3)
	assert.Equal(t, 1, p.loads)
	assert.Zero(t, p.count(), "INIT_APP is the read path")
}

func TestStoreDoesNotPersistDuringLoadingWindow(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(t, p)

	assert.True(t, s.Dispatch(context.Background(), domain.ToggleStatus()))
	assert.Zero(t, p.count())

	s.Init(context.Background())
	s.Dispatch(context.Background(), domain.ToggleStatus())
	assert.Equal(t, 1, p.count())
}

func TestStorePersistsAcceptedActionsOnly(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(t, p)
	ctx := context.Background()
	s.Init(ctx)

	require.True(t, s.Dispatch(ctx, domain.Login(domain.UserRecord{ID: "u1", Status: domain.CafeStatusActive})))
	assert.Equal(t, 1, p.count(), "login persists immediately")

	assert.False(t, s.Dispatch(ctx, domain.Action{Type: "NOT_A_REAL_ACTION"}))
	assert.False(t, s.Dispatch(ctx, domain.VerifyOTP(domain.VerifyOTPPayload{Code: "123456"})))
	assert.Equal(t, 1, p.count())
}

func TestStoreRehydratesSessionAcrossRestart(t *testing.T) {
	p := &memoryPersister{}
	ctx := context.Background()

	first := newTestStore(t, p)
	first.Init(ctx)
	first.Dispatch(ctx, domain.Login(domain.UserRecord{ID: "u1", Status: domain.CafeStatusPendingApproval, Token: "tok"}))
	first.Dispatch(ctx, domain.CompleteSetup(domain.CafeProfile{Name: "Bean There"}))
	first.Dispatch(ctx, domain.GenerateOTP(domain.OTPChallenge{Code: "123456", CustomerPhone: "1", PointsToRedeem: 5}))
	want := first.GetState()

	second := newTestStore(t, p)
	second.Init(ctx)
	got := second.GetState()

	assert.Equal(t, want.IsAuthenticated, got.IsAuthenticated)
	assert.Equal(t, want.User, got.User)
	assert.Equal(t, want.CafeStatus(), got.CafeStatus())
	assert.Equal(t, want.CafeInfo, got.CafeInfo)
	assert.Equal(t, want.SetupCompleted, got.SetupCompleted)
	assert.Equal(t, want.PendingOTP, got.PendingOTP)
	assert.Equal(t, want.Transactions, got.Transactions)
}

// stalePersister serves a fixed snapshot and drops every save, like a
// backend that went read-only after boot
type stalePersister struct {
	mu       sync.Mutex
	snapshot *domain.State
	loads    int
}

func (p *stalePersister) Load(context.Context) (*domain.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	if p.snapshot == nil {
		return nil, false
	}
	s := p.snapshot.Clone()
	return &s, true
}

func (p *stalePersister) Save(context.Context, domain.State) {}

func TestStoreReinitAfterFailedSavesKeepsLiveState(t *testing.T) {
	ctx := context.Background()
	for name, snapshot := range map[string]*domain.State{
		"no snapshot":    nil,
		"older snapshot": {Transactions: []domain.Transaction{{ID: "t-old", Type: domain.TransactionPurchase, Points: 1}}},
	} {
		t.Run(name, func(t *testing.T) {
			p := &stalePersister{snapshot: snapshot}
			s := newTestStore(t, p)
			s.Init(ctx)

			require.True(t, s.Dispatch(ctx, domain.Login(domain.UserRecord{ID: "u1", Status: domain.CafeStatusActive})))
			require.True(t, s.Dispatch(ctx, domain.AddTransaction(domain.Transaction{ID: "t-new", Type: domain.TransactionPurchase, Points: 5})))
			before := s.GetState()

			s.Init(ctx)

			after := s.GetState()
			assert.Equal(t, 1, p.loads, "storage is read once per process")
			assert.True(t, after.IsAuthenticated)
			assert.Equal(t, before.Transactions, after.Transactions)
			assert.Equal(t, "t-new", after.Transactions[0].ID)
		})
	}
}

func TestStoreDeliversStatesInDispatchOrder(t *testing.T) {
	s := newTestStore(t, &memoryPersister{})
	ctx := context.Background()
	s.Init(ctx)

	var mu sync.Mutex
	var seen []bool
	s.Subscribe(func(st domain.State) {
		mu.Lock()
		seen = append(seen, st.IsOpen)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ctx, domain.ToggleStatus())
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 100)
	for i, open := range seen {
		assert.Equal(t, i%2 == 0, open, "toggle %d delivered out of order", i)
	}
}

func TestStoreGetStateReturnsCopy(t *testing.T) {
	s := newTestStore(t, &memoryPersister{})
	s.Init(context.Background())

	st := s.GetState()
	st.PartnerCafes[0].Name = "mutated"
	assert.NotEqual(t, "mutated", s.GetState().PartnerCafes[0].Name)
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	s := newTestStore(t, &memoryPersister{})
	ctx := context.Background()
	s.Init(ctx)

	var seen []bool
	cancel := s.Subscribe(func(st domain.State) { seen = append(seen, st.IsOpen) })

	s.Dispatch(ctx, domain.ToggleStatus())
	s.Dispatch(ctx, domain.Action{Type: "NOT_A_REAL_ACTION"})
	s.Dispatch(ctx, domain.ToggleStatus())
	cancel()
	s.Dispatch(ctx, domain.ToggleStatus())

	assert.Equal(t, []bool{true, false}, seen)
}

func TestObserverMayDispatch(t *testing.T) {
	s := newTestStore(t, &memoryPersister{})
	ctx := context.Background()
	s.Init(ctx)

	var once sync.Once
	s.Subscribe(func(st domain.State) {
		if st.PendingOTP != nil {
			once.Do(func() { s.Dispatch(ctx, domain.ClearOTP()) })
		}
	})

	s.Dispatch(ctx, domain.GenerateOTP(domain.OTPChallenge{Code: "123456", CustomerPhone: "1", PointsToRedeem: 5}))
	assert.Nil(t, s.GetState().PendingOTP)
}

func TestStoreConcurrentDispatchIsSerialized(t *testing.T) {
	s := newTestStore(t, &memoryPersister{})
	ctx := context.Background()
	s.Init(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ctx, domain.AddGalleryImage(domain.ImageRef{URL: "x.png"}))
		}()
	}
	wg.Wait()

	assert.Len(t, s.GetState().Gallery, 50)
}

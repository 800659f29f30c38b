package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifySink struct {
	mu       sync.Mutex
	messages []string
	auth     string
}

func (n *notifySink) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	n.mu.Lock()
	n.messages = append(n.messages, r.PostForm.Get("message"))
	n.auth = r.Header.Get("Authorization")
	n.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func TestNotificationOnRedemptionAndStatus(t *testing.T) {
	sink := &notifySink{}
	srv := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer srv.Close()

	svc, store := newTestRedemption(t, "123456")
	notifier := NewNotificationService(srv.URL, "tok", logger.Discard())
	notifier.Prime(store.GetState())
	store.Subscribe(notifier.Observe)

	ctx := context.Background()
	_, err := svc.RequestOTP(ctx, "0812345678", 30, 100)
	require.NoError(t, err)
	_, err = svc.VerifyOTP(ctx, "123456")
	require.NoError(t, err)
	store.Dispatch(ctx, domain.ToggleStatus())

	assert.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.messages) == 2
	}, 2*time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.ElementsMatch(t, []string{"🎁 30 points redeemed by xxxxxx5678", "☕ Cafe is now open"}, sink.messages)
	assert.Equal(t, "Bearer tok", sink.auth)
}

func TestNotificationIgnoresPurchases(t *testing.T) {
	n := NewNotificationService("http://unused", "", logger.Discard())
	n.Prime(domain.State{})

	msgs := n.changes(domain.State{Transactions: []domain.Transaction{{ID: "p1", Type: domain.TransactionPurchase, Points: 10}}})
	assert.Empty(t, msgs)
}

func TestNotificationDisabledWithoutToken(t *testing.T) {
	n := NewNotificationService("", "", logger.Discard())
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.send(context.Background(), "hello"))
}

func TestNotificationReportsEndpointErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewNotificationService(srv.URL, "bad", logger.Discard())
	assert.Error(t, n.send(context.Background(), "hello"))
}

func TestDisplayPhone(t *testing.T) {
	assert.Equal(t, "123", displayPhone("123"))
	assert.Equal(t, "xx3456", displayPhone("123456"))
}

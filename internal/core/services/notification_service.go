package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"cafechain/internal/core/domain"

	"github.com/sirupsen/logrus"
)

// DefaultNotifyURL is the LINE Notify endpoint
const DefaultNotifyURL = "https://notify-api.line.me/api/notify"

// NotificationService watches the store and pushes a short message to the
// cafe owner when a redemption is recorded or the shop opens or closes.
// It is disabled when no token is configured.
type NotificationService struct {
	endpoint string
	token    string
	client   *http.Client
	log      *logrus.Entry

	mu       sync.Mutex
	lastTxID string
	lastOpen bool
	primed   bool
}

// NewNotificationService creates a notifier posting to endpoint
func NewNotificationService(endpoint, token string, log *logrus.Entry) *NotificationService {
	if endpoint == "" {
		endpoint = DefaultNotifyURL
	}
	return &NotificationService{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.token != ""
}

// Prime records the current state so only later changes are announced
func (s *NotificationService) Prime(state domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remember(state)
}

// Observe is a store Observer. Changes are detected inline and delivered in
// the background so dispatch never waits on the network.
func (s *NotificationService) Observe(state domain.State) {
	msgs := s.changes(state)
	if len(msgs) == 0 || !s.IsEnabled() {
		return
	}
	go func() {
		for _, msg := range msgs {
			if err := s.send(context.Background(), msg); err != nil {
				s.log.WithError(err).Warn("Notification failed")
			}
		}
	}()
}

// changes diffs state against what was last seen
func (s *NotificationService) changes(state domain.State) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		s.remember(state)
		return nil
	}

	var msgs []string
	if len(state.Transactions) > 0 {
		head := state.Transactions[0]
		if head.ID != s.lastTxID && head.Type == domain.TransactionRedemption {
			msgs = append(msgs, fmt.Sprintf("🎁 %d points redeemed by %s", -head.Points, displayPhone(head.CustomerPhone)))
		}
	}
	if state.IsOpen != s.lastOpen {
		if state.IsOpen {
			msgs = append(msgs, "☕ Cafe is now open")
		} else {
			msgs = append(msgs, "🔒 Cafe is now closed")
		}
	}

	s.remember(state)
	return msgs
}

func (s *NotificationService) remember(state domain.State) {
	s.lastTxID = ""
	if len(state.Transactions) > 0 {
		s.lastTxID = state.Transactions[0].ID
	}
	s.lastOpen = state.IsOpen
	s.primed = true
}

// send posts a message in LINE Notify form encoding
func (s *NotificationService) send(ctx context.Context, message string) error {
	if !s.IsEnabled() {
		return nil
	}

	data := url.Values{}
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBufferString(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify endpoint returned %s", resp.Status)
	}
	return nil
}

// displayPhone masks all but the last four digits
func displayPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = 'x'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}

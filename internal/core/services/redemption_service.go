package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cafechain/internal/core/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ============================================================
// Redemption Service - operator OTP flow for point redemption
// ============================================================

// RedemptionStep is the visible step of the redemption form
type RedemptionStep string

const (
	StepInputPhone RedemptionStep = "inputPhone"
	StepVerifyOTP  RedemptionStep = "verifyOtp"
)

// RedemptionView is what the operator screen renders
type RedemptionView struct {
	Step           RedemptionStep       `json:"step"`
	CustomerPhone  string               `json:"customerPhone,omitempty"`
	PointsToRedeem int                  `json:"pointsToRedeem,omitempty"`
	Challenge      *domain.OTPChallenge `json:"challenge,omitempty"`
}

// RedemptionService drives inputPhone -> verifyOtp -> inputPhone on top of
// the GENERATE_OTP / VERIFY_OTP / CLEAR_OTP actions. The step is read from the
// store's pending challenge, so OTP actions dispatched elsewhere (LOGOUT, a
// raw GENERATE_OTP) move the form too. Codes are fabricated and compared
// in-process; there is no expiry or attempt limit.
type RedemptionService struct {
	mu       sync.Mutex
	store    Dispatcher
	generate CodeGenerator
	now      func() time.Time
	newID    func() string
	log      *logrus.Entry
}

// RedemptionOption customizes a RedemptionService
type RedemptionOption func(*RedemptionService)

// WithCodeGenerator overrides the OTP source
func WithCodeGenerator(gen CodeGenerator) RedemptionOption {
	return func(s *RedemptionService) { s.generate = gen }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) RedemptionOption {
	return func(s *RedemptionService) { s.now = now }
}

// WithIDGenerator overrides transaction id generation
func WithIDGenerator(newID func() string) RedemptionOption {
	return func(s *RedemptionService) { s.newID = newID }
}

// NewRedemptionService creates the flow over store
func NewRedemptionService(store Dispatcher, log *logrus.Entry, opts ...RedemptionOption) *RedemptionService {
	s := &RedemptionService{
		store:    store,
		generate: SecureCodeGenerator,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestOTP validates the form and issues a new challenge.
// The returned challenge is shown to the operator.
func (s *RedemptionService) RequestOTP(ctx context.Context, phone string, points, available int) (domain.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.GetState().PendingOTP != nil {
		return domain.OTPChallenge{}, domain.ErrWrongPhase
	}

	phone = strings.TrimSpace(phone)
	switch {
	case phone == "":
		return domain.OTPChallenge{}, domain.ErrPhoneRequired
	case points <= 0:
		return domain.OTPChallenge{}, domain.ErrInvalidPoints
	case points > available:
		return domain.OTPChallenge{}, domain.ErrInsufficientBalance
	}

	code, err := s.generate()
	if err != nil {
		return domain.OTPChallenge{}, err
	}

	challenge := domain.OTPChallenge{
		Code:           code,
		CustomerPhone:  phone,
		PointsToRedeem: points,
		IssuedAt:       s.now().UTC(),
	}
	if !s.store.Dispatch(ctx, domain.GenerateOTP(challenge)) {
		return domain.OTPChallenge{}, fmt.Errorf("%w: challenge rejected", domain.ErrInvalidInput)
	}

	s.log.WithFields(logrus.Fields{
		"phone":  phone,
		"points": points,
	}).Info("Redemption OTP issued")

	return challenge, nil
}

// VerifyOTP checks the entered code against the pending challenge and, on a
// match, records the redemption. On mismatch the challenge stays pending so
// the operator can retry.
func (s *RedemptionService) VerifyOTP(ctx context.Context, code string) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.store.GetState().PendingOTP
	if pending == nil {
		return domain.Transaction{}, domain.ErrNoPendingOTP
	}

	code = strings.TrimSpace(code)
	if !isOTPCode(code) {
		return domain.Transaction{}, domain.ErrInvalidOTPFormat
	}
	if code != pending.Code {
		s.log.WithField("phone", pending.CustomerPhone).Warn("Redemption OTP mismatch")
		return domain.Transaction{}, domain.ErrOTPMismatch
	}

	txID := s.newID()
	accepted := s.store.Dispatch(ctx, domain.VerifyOTP(domain.VerifyOTPPayload{
		Code:          code,
		TransactionID: txID,
		VerifiedAt:    s.now().UTC(),
	}))
	if !accepted {
		// The challenge changed between the read and the dispatch
		return domain.Transaction{}, domain.ErrOTPMismatch
	}

	var tx domain.Transaction
	for _, t := range s.store.GetState().Transactions {
		if t.ID == txID {
			tx = t
			break
		}
	}

	s.log.WithFields(logrus.Fields{
		"phone":  pending.CustomerPhone,
		"points": pending.PointsToRedeem,
		"txn":    txID,
	}).Info("Redemption completed")

	return tx, nil
}

// Cancel discards any pending challenge, returning the form to inputPhone
func (s *RedemptionService) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Dispatch(ctx, domain.ClearOTP())
}

// View returns the current step and the challenge to display
func (s *RedemptionService) View() RedemptionView {
	pending := s.store.GetState().PendingOTP
	if pending == nil {
		return RedemptionView{Step: StepInputPhone}
	}
	return RedemptionView{
		Step:           StepVerifyOTP,
		CustomerPhone:  pending.CustomerPhone,
		PointsToRedeem: pending.PointsToRedeem,
		Challenge:      pending,
	}
}

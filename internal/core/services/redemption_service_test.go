package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestRedemption(t *testing.T, codes ...string) (*RedemptionService, *Store) {
	t.Helper()
	store := newTestStore(t, &memoryPersister{})
	store.Init(context.Background())

	i := 0
	gen := func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
	svc := NewRedemptionService(store, logger.Discard(),
		WithCodeGenerator(gen),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "txn-test" }),
	)
	return svc, store
}

func TestRedemptionFlowHappyPath(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()
	ledgerBefore := len(store.GetState().Transactions)

	challenge, err := svc.RequestOTP(ctx, " 9999999999 ", 50, 200)
	require.NoError(t, err)
	assert.Equal(t, domain.OTPChallenge{Code: "123456", CustomerPhone: "9999999999", PointsToRedeem: 50, IssuedAt: fixedNow}, challenge)

	view := svc.View()
	assert.Equal(t, StepVerifyOTP, view.Step)
	require.NotNil(t, view.Challenge)
	assert.Equal(t, "123456", view.Challenge.Code)

	tx, err := svc.VerifyOTP(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "txn-test", tx.ID)
	assert.Equal(t, -50, tx.Points)
	assert.Equal(t, fixedNow, tx.Date)

	st := store.GetState()
	assert.Nil(t, st.PendingOTP)
	assert.Len(t, st.Transactions, ledgerBefore+1)
	assert.Equal(t, RedemptionView{Step: StepInputPhone}, svc.View(), "form fields cleared")
}

func TestRedemptionValidation(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()

	cases := []struct {
		name      string
		phone     string
		points    int
		available int
		want      error
	}{
		{"empty phone", "  ", 10, 100, domain.ErrPhoneRequired},
		{"zero points", "1", 0, 100, domain.ErrInvalidPoints},
		{"negative points", "1", -5, 100, domain.ErrInvalidPoints},
		{"over balance", "1", 101, 100, domain.ErrInsufficientBalance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RequestOTP(ctx, tc.phone, tc.points, tc.available)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, StepInputPhone, svc.View().Step)
			assert.Nil(t, store.GetState().PendingOTP, "reducer never invoked")
		})
	}

	_, err := svc.RequestOTP(ctx, "1", 100, 100)
	assert.NoError(t, err, "redeeming the full balance is allowed")
}

func TestRedemptionMismatchStaysInVerify(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()
	ledgerBefore := len(store.GetState().Transactions)

	_, err := svc.RequestOTP(ctx, "9999999999", 50, 100)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err = svc.VerifyOTP(ctx, "000000")
		assert.ErrorIs(t, err, domain.ErrOTPMismatch)
	}
	assert.Equal(t, StepVerifyOTP, svc.View().Step, "no retry limit")
	assert.NotNil(t, store.GetState().PendingOTP)
	assert.Len(t, store.GetState().Transactions, ledgerBefore)

	_, err = svc.VerifyOTP(ctx, "123456")
	assert.NoError(t, err)
}

func TestRedemptionRejectsMalformedCode(t *testing.T) {
	svc, _ := newTestRedemption(t, "123456")
	ctx := context.Background()
	_, err := svc.RequestOTP(ctx, "1", 5, 10)
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := svc.VerifyOTP(ctx, code)
		assert.ErrorIs(t, err, domain.ErrInvalidOTPFormat, code)
	}
}

func TestRedemptionCancelDiscardsChallenge(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "1", 5, 10)
	require.NoError(t, err)

	svc.Cancel(ctx)
	assert.Nil(t, store.GetState().PendingOTP)
	assert.Equal(t, StepInputPhone, svc.View().Step)

	svc.Cancel(ctx)
	assert.Equal(t, StepInputPhone, svc.View().Step, "back is always available")
}

func TestRedemptionStepGuards(t *testing.T) {
	svc, _ := newTestRedemption(t, "123456")
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, "123456")
	assert.ErrorIs(t, err, domain.ErrNoPendingOTP)

	_, err = svc.RequestOTP(ctx, "1", 5, 10)
	require.NoError(t, err)
	_, err = svc.RequestOTP(ctx, "2", 5, 10)
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestRedemptionChallengeClearedElsewhere(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "1", 5, 10)
	require.NoError(t, err)
	store.Dispatch(ctx, domain.Logout())

	_, err = svc.VerifyOTP(ctx, "123456")
	assert.ErrorIs(t, err, domain.ErrNoPendingOTP)
	assert.Equal(t, StepInputPhone, svc.View().Step)
}

func TestRedemptionRequestAfterLogoutElsewhere(t *testing.T) {
	svc, store := newTestRedemption(t, "123456", "654321")
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "1", 5, 10)
	require.NoError(t, err)
	require.True(t, store.Dispatch(ctx, domain.Logout()))

	assert.Equal(t, RedemptionView{Step: StepInputPhone}, svc.View())

	challenge, err := svc.RequestOTP(ctx, "2", 7, 10)
	require.NoError(t, err)
	assert.Equal(t, "654321", challenge.Code)
	assert.Equal(t, StepVerifyOTP, svc.View().Step)
}

func TestRedemptionFollowsChallengeIssuedElsewhere(t *testing.T) {
	svc, store := newTestRedemption(t, "123456")
	ctx := context.Background()
	ledgerBefore := len(store.GetState().Transactions)

	require.True(t, store.Dispatch(ctx, domain.GenerateOTP(domain.OTPChallenge{
		Code:           "987654",
		CustomerPhone:  "0811111111",
		PointsToRedeem: 30,
		IssuedAt:       fixedNow,
	})))

	view := svc.View()
	assert.Equal(t, StepVerifyOTP, view.Step)
	assert.Equal(t, "0811111111", view.CustomerPhone)
	assert.Equal(t, 30, view.PointsToRedeem)

	_, err := svc.RequestOTP(ctx, "1", 5, 10)
	assert.ErrorIs(t, err, domain.ErrWrongPhase, "a challenge is already pending")

	tx, err := svc.VerifyOTP(ctx, "987654")
	require.NoError(t, err)
	assert.Equal(t, -30, tx.Points)
	assert.Len(t, store.GetState().Transactions, ledgerBefore+1)
	assert.Equal(t, StepInputPhone, svc.View().Step)
}

func TestRedemptionGeneratorFailure(t *testing.T) {
	store := newTestStore(t, &memoryPersister{})
	store.Init(context.Background())
	boom := errors.New("entropy exhausted")
	svc := NewRedemptionService(store, logger.Discard(), WithCodeGenerator(func() (string, error) { return "", boom }))

	_, err := svc.RequestOTP(context.Background(), "1", 5, 10)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StepInputPhone, svc.View().Step)
}

func TestSecureCodeGenerator(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := SecureCodeGenerator()
		require.NoError(t, err)
		assert.True(t, isOTPCode(code), code)
	}
}

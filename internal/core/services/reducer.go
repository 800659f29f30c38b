package services

import (
	"fmt"

	"cafechain/internal/core/domain"
	"cafechain/internal/core/fixtures"
)

// ============================================================
// Reducer - pure (state, action) -> state transitions
// ============================================================

const defaultRedemptionItem = "Points redemption"

// Reducer computes the next application state. It performs no I/O: the
// store loads snapshots before INIT_APP and persists after accepted actions.
type Reducer struct {
	fixtures fixtures.Data
}

// NewReducer creates a reducer seeding from the given fixtures
func NewReducer(data fixtures.Data) *Reducer {
	return &Reducer{fixtures: data}
}

// Reduce returns the next state and whether the action was accepted.
// The input state is never mutated. Rejected and unknown actions return the
// input unchanged with ok=false.
func (r *Reducer) Reduce(state domain.State, action domain.Action) (domain.State, bool) {
	switch action.Type {
	case domain.ActionInitApp:
		p, _ := payloadAs[domain.InitAppPayload](action.Payload)
		return r.initApp(state, p.Snapshot), true

	case domain.ActionLogin, domain.ActionRegister:
		user, ok := payloadAs[domain.UserRecord](action.Payload)
		if !ok {
			return state, false
		}
		next := state
		next.IsAuthenticated = true
		next.User = &user
		return next, true

	case domain.ActionLogout:
		next := state
		next.IsAuthenticated = false
		next.User = nil
		next.CafeInfo = nil
		next.SetupCompleted = false
		next.IsOpen = false
		next.PendingOTP = nil
		next.Gallery = nil
		return next, true

	case domain.ActionSetCafeInfo, domain.ActionCompleteSetup:
		info, ok := payloadAs[domain.CafeProfile](action.Payload)
		if !ok {
			return state, false
		}
		next := state
		next.CafeInfo = &info
		next.SetupCompleted = true
		return next, true

	case domain.ActionGenerateOTP:
		challenge, ok := payloadAs[domain.OTPChallenge](action.Payload)
		if !ok || !validChallenge(challenge) {
			return state, false
		}
		// Any previous challenge is dropped; there is no queue.
		next := state
		next.PendingOTP = &challenge
		return next, true

	case domain.ActionVerifyOTP:
		p, ok := payloadAs[domain.VerifyOTPPayload](action.Payload)
		if !ok || state.PendingOTP == nil || p.Code != state.PendingOTP.Code {
			return state, false
		}
		next := state
		next.Transactions = prepend(state.Transactions, redemptionFrom(*state.PendingOTP, p))
		next.PendingOTP = nil
		return next, true

	case domain.ActionClearOTP:
		next := state
		next.PendingOTP = nil
		return next, state.PendingOTP != nil

	case domain.ActionUpdateProfile:
		patch, ok := payloadAs[domain.CafeProfilePatch](action.Payload)
		if !ok {
			return state, false
		}
		var info domain.CafeProfile
		if state.CafeInfo != nil {
			info = *state.CafeInfo
		}
		applyProfilePatch(&info, patch)
		next := state
		next.CafeInfo = &info
		return next, true

	case domain.ActionAddGalleryImage:
		img, ok := payloadAs[domain.ImageRef](action.Payload)
		if !ok || img.URL == "" {
			return state, false
		}
		gallery := make([]domain.ImageRef, 0, len(state.Gallery)+1)
		gallery = append(gallery, state.Gallery...)
		next := state
		next.Gallery = append(gallery, img)
		return next, true

	case domain.ActionRemoveGalleryImage:
		p, ok := payloadAs[domain.RemoveGalleryImagePayload](action.Payload)
		if !ok || p.Index < 0 || p.Index >= len(state.Gallery) {
			return state, false
		}
		gallery := make([]domain.ImageRef, 0, len(state.Gallery)-1)
		gallery = append(gallery, state.Gallery[:p.Index]...)
		gallery = append(gallery, state.Gallery[p.Index+1:]...)
		next := state
		next.Gallery = gallery
		return next, true

	case domain.ActionUpdateMetrics:
		patch, ok := payloadAs[domain.MetricsPatch](action.Payload)
		if !ok {
			return state, false
		}
		next := state
		applyMetricsPatch(&next.Metrics, patch)
		return next, true

	case domain.ActionUpdatePerformance:
		perf, ok := payloadAs[domain.Performance](action.Payload)
		if !ok {
			return state, false
		}
		next := state
		next.Performance = domain.State{Performance: perf}.Clone().Performance
		return next, true

	case domain.ActionToggleStatus:
		next := state
		next.IsOpen = !state.IsOpen
		return next, true

	case domain.ActionSetReferenceData:
		data, ok := payloadAs[domain.ReferenceData](action.Payload)
		if !ok {
			return state, false
		}
		next := state
		if data.PartnerCafes != nil {
			next.PartnerCafes = data.PartnerCafes
		}
		if data.Announcements != nil {
			next.Announcements = data.Announcements
		}
		if data.Leaderboard != nil {
			next.Leaderboard = data.Leaderboard
		}
		if data.Events != nil {
			next.Events = data.Events
		}
		return next.Clone(), true

	case domain.ActionAddTransaction:
		tx, ok := payloadAs[domain.Transaction](action.Payload)
		if !ok || tx.ID == "" {
			return state, false
		}
		if tx.Type == domain.TransactionRedemption && tx.Points > 0 {
			return state, false
		}
		if tx.Items == nil {
			tx.Items = []string{}
		}
		next := state
		next.Transactions = prepend(state.Transactions, tx)
		return next, true

	default:
		return state, false
	}
}

// initApp merges a persisted snapshot over the seeded defaults. Without a
// snapshot the current session is kept; a loading state is seeded in full,
// a live one only gets the collections it is missing.
func (r *Reducer) initApp(state domain.State, snapshot *domain.State) domain.State {
	seed := r.seeded()

	if snapshot == nil {
		next := state
		if state.IsLoading {
			next.Metrics = seed.Metrics
			next.Performance = seed.Performance
		}
		// A live ledger is append-only: only fill what was never loaded.
		if next.PartnerCafes == nil || state.IsLoading {
			next.PartnerCafes = seed.PartnerCafes
		}
		if next.Announcements == nil || state.IsLoading {
			next.Announcements = seed.Announcements
		}
		if next.Leaderboard == nil || state.IsLoading {
			next.Leaderboard = seed.Leaderboard
		}
		if next.Events == nil || state.IsLoading {
			next.Events = seed.Events
		}
		if next.Transactions == nil || state.IsLoading {
			next.Transactions = seed.Transactions
		}
		next.IsLoading = false
		return next
	}

	next := snapshot.Clone()
	if next.PartnerCafes == nil {
		next.PartnerCafes = seed.PartnerCafes
	}
	if next.Announcements == nil {
		next.Announcements = seed.Announcements
	}
	if next.Leaderboard == nil {
		next.Leaderboard = seed.Leaderboard
	}
	if next.Events == nil {
		next.Events = seed.Events
	}
	if next.Transactions == nil {
		next.Transactions = seed.Transactions
	}
	next.IsLoading = false
	return next
}

func (r *Reducer) seeded() domain.State {
	return domain.State{
		PartnerCafes:  r.fixtures.PartnerCafes,
		Announcements: r.fixtures.Announcements,
		Leaderboard:   r.fixtures.Leaderboard,
		Events:        r.fixtures.Events,
		Transactions:  r.fixtures.Transactions,
		Metrics:       r.fixtures.Metrics,
		Performance:   r.fixtures.Performance,
	}.Clone()
}

func redemptionFrom(c domain.OTPChallenge, p domain.VerifyOTPPayload) domain.Transaction {
	id := p.TransactionID
	if id == "" {
		id = fmt.Sprintf("otp-%s-%d", c.Code, c.IssuedAt.UnixNano())
	}
	date := p.VerifiedAt
	if date.IsZero() {
		date = c.IssuedAt
	}
	items := append([]string(nil), p.Items...)
	if len(items) == 0 {
		items = []string{defaultRedemptionItem}
	}
	return domain.Transaction{
		ID:            id,
		CustomerID:    p.CustomerID,
		CustomerPhone: c.CustomerPhone,
		Points:        -c.PointsToRedeem,
		Date:          date,
		Type:          domain.TransactionRedemption,
		Items:         items,
	}
}

func validChallenge(c domain.OTPChallenge) bool {
	return isOTPCode(c.Code) && c.CustomerPhone != "" && c.PointsToRedeem > 0
}

// prepend returns a new slice; the input backing array is left alone
func prepend(txs []domain.Transaction, tx domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs)+1)
	out = append(out, tx)
	return append(out, txs...)
}

func applyProfilePatch(info *domain.CafeProfile, p domain.CafeProfilePatch) {
	if p.Name != nil {
		info.Name = *p.Name
	}
	if p.OwnerName != nil {
		info.OwnerName = *p.OwnerName
	}
	if p.Address != nil {
		info.Address = *p.Address
	}
	if p.Phone != nil {
		info.Phone = *p.Phone
	}
	if p.Email != nil {
		info.Email = *p.Email
	}
	if p.Description != nil {
		info.Description = *p.Description
	}
	if p.OpeningHours != nil {
		info.OpeningHours = *p.OpeningHours
	}
	if p.LogoURL != nil {
		info.LogoURL = *p.LogoURL
	}
}

func applyMetricsPatch(m *domain.Metrics, p domain.MetricsPatch) {
	if p.TotalCustomers != nil {
		m.TotalCustomers = *p.TotalCustomers
	}
	if p.ActiveCustomers != nil {
		m.ActiveCustomers = *p.ActiveCustomers
	}
	if p.PointsIssued != nil {
		m.PointsIssued = *p.PointsIssued
	}
	if p.PointsRedeemed != nil {
		m.PointsRedeemed = *p.PointsRedeemed
	}
	if p.Revenue != nil {
		m.Revenue = *p.Revenue
	}
	if p.AverageRating != nil {
		m.AverageRating = *p.AverageRating
	}
}

// payloadAs accepts both T and *T payloads
func payloadAs[T any](payload any) (T, bool) {
	switch v := payload.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

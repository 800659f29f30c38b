package domain

// State is the single application aggregate owned by the reducer.
// Values handed out by the store are clones; callers never share backing arrays.
type State struct {
	IsLoading       bool         `json:"isLoading"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *UserRecord  `json:"user"`
	SetupCompleted  bool         `json:"setupCompleted"`
	CafeInfo        *CafeProfile `json:"cafeInfo"`
	IsOpen          bool         `json:"isOpen"`

	PartnerCafes  []PartnerCafe      `json:"partnerCafes"`
	Announcements []Announcement     `json:"announcements"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
	Events        []Event            `json:"events"`
	Transactions  []Transaction      `json:"transactions"`
	Metrics       Metrics            `json:"metrics"`
	Performance   Performance        `json:"performance"`

	PendingOTP *OTPChallenge `json:"pendingOtp"`
	Gallery    []ImageRef    `json:"gallery"`
}

// NewInitialState returns the state a freshly mounted app starts with
func NewInitialState() State {
	return State{IsLoading: true}
}

// CafeStatus is derived from the logged-in user's status so it can never
// drift from it. Returns "" when no user or status is known.
func (s State) CafeStatus() CafeStatus {
	if s.User == nil {
		return ""
	}
	return s.User.Status
}

// AvailablePoints sums the ledger
func (s State) AvailablePoints() int {
	total := 0
	for _, t := range s.Transactions {
		total += t.Points
	}
	return total
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.CafeInfo != nil {
		c := *s.CafeInfo
		out.CafeInfo = &c
	}
	if s.PendingOTP != nil {
		p := *s.PendingOTP
		out.PendingOTP = &p
	}
	out.PartnerCafes = cloneSlice(s.PartnerCafes)
	out.Announcements = cloneSlice(s.Announcements)
	out.Leaderboard = cloneSlice(s.Leaderboard)
	out.Events = cloneSlice(s.Events)
	out.Gallery = cloneSlice(s.Gallery)
	out.Performance.WeeklyVisits = cloneSlice(s.Performance.WeeklyVisits)
	out.Performance.MonthlyRevenue = cloneSlice(s.Performance.MonthlyRevenue)
	if s.Transactions != nil {
		out.Transactions = make([]Transaction, len(s.Transactions))
		for i, t := range s.Transactions {
			t.Items = cloneSlice(t.Items)
			out.Transactions[i] = t
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

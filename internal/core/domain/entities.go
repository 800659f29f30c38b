package domain

import "time"

// CafeStatus is the approval state of a cafe account
type CafeStatus string

const (
	CafeStatusActive          CafeStatus = "active"
	CafeStatusPendingApproval CafeStatus = "pendingApproval"
	CafeStatusOther           CafeStatus = "other"
)

// TransactionType distinguishes point accrual from redemption
type TransactionType string

const (
	TransactionPurchase   TransactionType = "purchase"
	TransactionRedemption TransactionType = "redemption"
)

// UserRecord is the session identity returned by the external auth API
type UserRecord struct {
	ID     string     `json:"id,omitempty" yaml:"id"`
	Name   string     `json:"name,omitempty" yaml:"name"`
	Email  string     `json:"email,omitempty" yaml:"email"`
	Phone  string     `json:"phone,omitempty" yaml:"phone"`
	Status CafeStatus `json:"status,omitempty" yaml:"status"`
	Token  string     `json:"token,omitempty" yaml:"token"`
	Points int        `json:"points,omitempty" yaml:"points"`
}

// CafeProfile is the cafe owner's public profile
type CafeProfile struct {
	Name         string `json:"name" yaml:"name"`
	OwnerName    string `json:"ownerName,omitempty" yaml:"ownerName"`
	Address      string `json:"address,omitempty" yaml:"address"`
	Phone        string `json:"phone,omitempty" yaml:"phone"`
	Email        string `json:"email,omitempty" yaml:"email"`
	Description  string `json:"description,omitempty" yaml:"description"`
	OpeningHours string `json:"openingHours,omitempty" yaml:"openingHours"`
	LogoURL      string `json:"logoUrl,omitempty" yaml:"logoUrl"`
}

// CafeProfilePatch carries the fields of an UPDATE_PROFILE action.
// Nil fields are left untouched.
type CafeProfilePatch struct {
	Name         *string `json:"name,omitempty"`
	OwnerName    *string `json:"ownerName,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Description  *string `json:"description,omitempty"`
	OpeningHours *string `json:"openingHours,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// PartnerCafe is a cafe participating in the loyalty network
type PartnerCafe struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Location   string  `json:"location" yaml:"location"`
	PointsRate float64 `json:"pointsRate" yaml:"pointsRate"`
	Rating     float64 `json:"rating,omitempty" yaml:"rating"`
	ImageURL   string  `json:"imageUrl,omitempty" yaml:"imageUrl"`
}

// Announcement is a network-wide notice shown on dashboards
type Announcement struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	Date  string `json:"date" yaml:"date"`
}

// LeaderboardEntry is one ranked customer
type LeaderboardEntry struct {
	Rank   int    `json:"rank" yaml:"rank"`
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"points"`
	Visits int    `json:"visits,omitempty" yaml:"visits"`
}

// Event is a promotional event hosted by a cafe
type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	Location    string `json:"location,omitempty" yaml:"location"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Transaction is an append-only loyalty ledger entry.
// Redemptions carry non-positive points.
type Transaction struct {
	ID            string          `json:"id" yaml:"id"`
	CustomerID    string          `json:"customerId,omitempty" yaml:"customerId"`
	CustomerPhone string          `json:"customerPhone,omitempty" yaml:"customerPhone"`
	Points        int             `json:"points" yaml:"points"`
	Date          time.Time       `json:"date" yaml:"date"`
	Type          TransactionType `json:"type" yaml:"type"`
	Items         []string        `json:"items" yaml:"items"`
}

// Metrics holds the dashboard KPIs
type Metrics struct {
	TotalCustomers  int     `json:"totalCustomers" yaml:"totalCustomers"`
	ActiveCustomers int     `json:"activeCustomers" yaml:"activeCustomers"`
	PointsIssued    int     `json:"pointsIssued" yaml:"pointsIssued"`
	PointsRedeemed  int     `json:"pointsRedeemed" yaml:"pointsRedeemed"`
	Revenue         float64 `json:"revenue" yaml:"revenue"`
	AverageRating   float64 `json:"averageRating" yaml:"averageRating"`
}

// MetricsPatch carries the fields of an UPDATE_METRICS action
type MetricsPatch struct {
	TotalCustomers  *int     `json:"totalCustomers,omitempty"`
	ActiveCustomers *int     `json:"activeCustomers,omitempty"`
	PointsIssued    *int     `json:"pointsIssued,omitempty"`
	PointsRedeemed  *int     `json:"pointsRedeemed,omitempty"`
	Revenue         *float64 `json:"revenue,omitempty"`
	AverageRating   *float64 `json:"averageRating,omitempty"`
}

// Performance holds period-over-period figures
type Performance struct {
	WeeklyVisits   []int   `json:"weeklyVisits" yaml:"weeklyVisits"`
	MonthlyRevenue []int   `json:"monthlyRevenue" yaml:"monthlyRevenue"`
	RetentionRate  float64 `json:"retentionRate" yaml:"retentionRate"`
	GrowthRate     float64 `json:"growthRate" yaml:"growthRate"`
}

// ImageRef points at an uploaded gallery image
type ImageRef struct {
	URL     string `json:"url" yaml:"url"`
	Caption string `json:"caption,omitempty" yaml:"caption"`
}

// OTPChallenge is the single outstanding redemption challenge
type OTPChallenge struct {
	Code           string    `json:"code"`
	CustomerPhone  string    `json:"customerPhone"`
	PointsToRedeem int       `json:"pointsToRedeem"`
	IssuedAt       time.Time `json:"issuedAt"`
}

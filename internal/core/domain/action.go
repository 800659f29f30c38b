package domain

import "time"

// ActionType names a state transition
type ActionType string

const (
	ActionInitApp            ActionType = "INIT_APP"
	ActionLogin              ActionType = "LOGIN"
	ActionRegister           ActionType = "REGISTER"
	ActionLogout             ActionType = "LOGOUT"
	ActionSetCafeInfo        ActionType = "SET_CAFE_INFO"
	ActionCompleteSetup      ActionType = "COMPLETE_SETUP"
	ActionGenerateOTP        ActionType = "GENERATE_OTP"
	ActionVerifyOTP          ActionType = "VERIFY_OTP"
	ActionClearOTP           ActionType = "CLEAR_OTP"
	ActionUpdateProfile      ActionType = "UPDATE_PROFILE"
	ActionAddGalleryImage    ActionType = "ADD_GALLERY_IMAGE"
	ActionRemoveGalleryImage ActionType = "REMOVE_GALLERY_IMAGE"
	ActionUpdateMetrics      ActionType = "UPDATE_METRICS"
	ActionUpdatePerformance  ActionType = "UPDATE_PERFORMANCE"
	ActionToggleStatus       ActionType = "TOGGLE_STATUS"
	ActionSetReferenceData   ActionType = "SET_REFERENCE_DATA"
	ActionAddTransaction     ActionType = "ADD_TRANSACTION"
)

// Action is a dispatched state transition request
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

// InitAppPayload carries the snapshot loaded from persistence, if any
type InitAppPayload struct {
	Snapshot *State
}

// VerifyOTPPayload is the operator's presented code plus the identifiers
// the resulting transaction will carry.
type VerifyOTPPayload struct {
	Code          string    `json:"code"`
	TransactionID string    `json:"transactionId,omitempty"`
	CustomerID    string    `json:"customerId,omitempty"`
	VerifiedAt    time.Time `json:"verifiedAt,omitempty"`
	Items         []string  `json:"items,omitempty"`
}

// RemoveGalleryImagePayload selects a gallery entry by position
type RemoveGalleryImagePayload struct {
	Index int `json:"index"`
}

// ReferenceData replaces read-mostly collections fetched from the REST API.
// A nil slice leaves that collection untouched.
type ReferenceData struct {
	PartnerCafes  []PartnerCafe      `json:"partnerCafes,omitempty"`
	Announcements []Announcement     `json:"announcements,omitempty"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard,omitempty"`
	Events        []Event            `json:"events,omitempty"`
}

func InitApp(snapshot *State) Action {
	return Action{Type: ActionInitApp, Payload: InitAppPayload{Snapshot: snapshot}}
}

func Login(user UserRecord) Action {
	return Action{Type: ActionLogin, Payload: user}
}

func Register(user UserRecord) Action {
	return Action{Type: ActionRegister, Payload: user}
}

func Logout() Action {
	return Action{Type: ActionLogout}
}

func SetCafeInfo(info CafeProfile) Action {
	return Action{Type: ActionSetCafeInfo, Payload: info}
}

func CompleteSetup(info CafeProfile) Action {
	return Action{Type: ActionCompleteSetup, Payload: info}
}

func GenerateOTP(challenge OTPChallenge) Action {
	return Action{Type: ActionGenerateOTP, Payload: challenge}
}

func VerifyOTP(payload VerifyOTPPayload) Action {
	return Action{Type: ActionVerifyOTP, Payload: payload}
}

func ClearOTP() Action {
	return Action{Type: ActionClearOTP}
}

func UpdateProfile(patch CafeProfilePatch) Action {
	return Action{Type: ActionUpdateProfile, Payload: patch}
}

func AddGalleryImage(img ImageRef) Action {
	return Action{Type: ActionAddGalleryImage, Payload: img}
}

func RemoveGalleryImage(index int) Action {
	return Action{Type: ActionRemoveGalleryImage, Payload: RemoveGalleryImagePayload{Index: index}}
}

func UpdateMetrics(patch MetricsPatch) Action {
	return Action{Type: ActionUpdateMetrics, Payload: patch}
}

func UpdatePerformance(p Performance) Action {
	return Action{Type: ActionUpdatePerformance, Payload: p}
}

func ToggleStatus() Action {
	return Action{Type: ActionToggleStatus}
}

func SetReferenceData(data ReferenceData) Action {
	return Action{Type: ActionSetReferenceData, Payload: data}
}

func AddTransaction(t Transaction) Action {
	return Action{Type: ActionAddTransaction, Payload: t}
}

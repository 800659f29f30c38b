package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeAction builds a typed Action from its wire form.
// Unknown types decode to a payload-less action so newer callers can talk to
// an older reducer; a known type with a malformed payload is an error.
func DecodeAction(actionType ActionType, raw json.RawMessage) (Action, error) {
	raw = bytes.TrimSpace(raw)
	empty := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	decode := func(v any) error {
		if empty {
			return fmt.Errorf("%w: %s requires a payload", ErrInvalidAction, actionType)
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAction, actionType, err)
		}
		return nil
	}

	switch actionType {
	case ActionInitApp:
		return InitApp(nil), nil
	case ActionLogout, ActionClearOTP, ActionToggleStatus:
		return Action{Type: actionType}, nil
	case ActionLogin, ActionRegister:
		var user UserRecord
		if err := decode(&user); err != nil {
			return Action{}, err
		}
		return Action{Type: actionType, Payload: user}, nil
	case ActionSetCafeInfo, ActionCompleteSetup:
		var info CafeProfile
		if err := decode(&info); err != nil {
			return Action{}, err
		}
		return Action{Type: actionType, Payload: info}, nil
	case ActionGenerateOTP:
		var challenge OTPChallenge
		if err := decode(&challenge); err != nil {
			return Action{}, err
		}
		return GenerateOTP(challenge), nil
	case ActionVerifyOTP:
		var p VerifyOTPPayload
		if err := decode(&p); err != nil {
			return Action{}, err
		}
		return VerifyOTP(p), nil
	case ActionUpdateProfile:
		var patch CafeProfilePatch
		if err := decode(&patch); err != nil {
			return Action{}, err
		}
		return UpdateProfile(patch), nil
	case ActionAddGalleryImage:
		var img ImageRef
		if err := decode(&img); err != nil {
			return Action{}, err
		}
		return AddGalleryImage(img), nil
	case ActionRemoveGalleryImage:
		var p RemoveGalleryImagePayload
		if err := decode(&p); err != nil {
			return Action{}, err
		}
		return RemoveGalleryImage(p.Index), nil
	case ActionUpdateMetrics:
		var patch MetricsPatch
		if err := decode(&patch); err != nil {
			return Action{}, err
		}
		return UpdateMetrics(patch), nil
	case ActionUpdatePerformance:
		var p Performance
		if err := decode(&p); err != nil {
			return Action{}, err
		}
		return UpdatePerformance(p), nil
	case ActionSetReferenceData:
		var data ReferenceData
		if err := decode(&data); err != nil {
			return Action{}, err
		}
		return SetReferenceData(data), nil
	case ActionAddTransaction:
		var t Transaction
		if err := decode(&t); err != nil {
			return Action{}, err
		}
		return AddTransaction(t), nil
	default:
		return Action{Type: actionType}, nil
	}
}

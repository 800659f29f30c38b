package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActionTypedPayloads(t *testing.T) {
	a, err := DecodeAction(ActionGenerateOTP, json.RawMessage(`{"code":"123456","customerPhone":"9999999999","pointsToRedeem":50}`))
	require.NoError(t, err)
	challenge, ok := a.Payload.(OTPChallenge)
	require.True(t, ok)
	assert.Equal(t, "123456", challenge.Code)
	assert.Equal(t, 50, challenge.PointsToRedeem)

	a, err = DecodeAction(ActionRemoveGalleryImage, json.RawMessage(`{"index":2}`))
	require.NoError(t, err)
	assert.Equal(t, RemoveGalleryImagePayload{Index: 2}, a.Payload)

	a, err = DecodeAction(ActionUpdateMetrics, json.RawMessage(`{"revenue":12.5}`))
	require.NoError(t, err)
	patch := a.Payload.(MetricsPatch)
	require.NotNil(t, patch.Revenue)
	assert.Nil(t, patch.TotalCustomers)
}

func TestDecodeActionWithoutPayload(t *testing.T) {
	for _, typ := range []ActionType{ActionLogout, ActionClearOTP, ActionToggleStatus} {
		a, err := DecodeAction(typ, nil)
		require.NoError(t, err)
		assert.Equal(t, typ, a.Type)
		assert.Nil(t, a.Payload)
	}
}

func TestDecodeActionUnknownTypeIsNoPayload(t *testing.T) {
	a, err := DecodeAction("NOT_A_REAL_ACTION", json.RawMessage(`{"anything":true}`))
	require.NoError(t, err)
	assert.Equal(t, ActionType("NOT_A_REAL_ACTION"), a.Type)
	assert.Nil(t, a.Payload)
}

func TestDecodeActionRejectsMalformedPayload(t *testing.T) {
	_, err := DecodeAction(ActionLogin, json.RawMessage(`"nope"`))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = DecodeAction(ActionVerifyOTP, json.RawMessage(`null`))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

package handlers

import (
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RedemptionHandler drives the two-step OTP redemption flow
type RedemptionHandler struct {
	store   *services.Store
	service *services.RedemptionService
}

// NewRedemptionHandler creates a new redemption handler
func NewRedemptionHandler(store *services.Store, service *services.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{store: store, service: service}
}

// RequestOTPRequest is the inputPhone form. AvailableBalance defaults to the
// logged-in user's points.
type RequestOTPRequest struct {
	CustomerPhone    string `json:"customerPhone"`
	PointsToRedeem   int    `json:"pointsToRedeem"`
	AvailableBalance *int   `json:"availableBalance,omitempty"`
}

// VerifyOTPRequest is the verifyOtp form
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// Get returns the current step and challenge
// @Summary Redemption state
// @Tags Redemption
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/redemption [get]
func (h *RedemptionHandler) Get(c *fiber.Ctx) error {
	return response.Success(c, "", h.service.View())
}

// RequestOTP issues a challenge for the customer
// @Summary Request OTP
// @Tags Redemption
// @Accept json
// @Produce json
// @Param body body RequestOTPRequest true "Customer and points"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/redemption/otp [post]
func (h *RedemptionHandler) RequestOTP(c *fiber.Ctx) error {
	var req RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	available := 0
	if req.AvailableBalance != nil {
		available = *req.AvailableBalance
	} else if user := h.store.GetState().User; user != nil {
		available = user.Points
	}

	challenge, err := h.service.RequestOTP(c.UserContext(), req.CustomerPhone, req.PointsToRedeem, available)
	if err != nil {
		return errorStatus(c, err)
	}
	return response.Created(c, "OTP issued", challenge)
}

// VerifyOTP checks the entered code and records the redemption
// @Summary Verify OTP
// @Tags Redemption
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/redemption/verify [post]
func (h *RedemptionHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.service.VerifyOTP(c.UserContext(), req.Code)
	if err != nil {
		return errorStatus(c, err)
	}
	return response.Success(c, "Points redeemed", tx)
}

// Cancel discards the challenge and returns to the phone form
func (h *RedemptionHandler) Cancel(c *fiber.Ctx) error {
	h.service.Cancel(c.UserContext())
	return response.Success(c, "Redemption cancelled", h.service.View())
}

package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"cafechain/internal/core/domain"
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/pagination"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StateView is the state as served over HTTP, with derived fields filled in
type StateView struct {
	domain.State
	CafeStatus      domain.CafeStatus `json:"cafeStatus"`
	AvailablePoints int               `json:"availablePoints"`
}

// NewStateView derives the read-only fields from state
func NewStateView(state domain.State) StateView {
	return StateView{
		State:           state,
		CafeStatus:      state.CafeStatus(),
		AvailablePoints: state.AvailablePoints(),
	}
}

// StateHandler exposes the store
type StateHandler struct {
	store *services.Store
}

// NewStateHandler creates a new state handler
func NewStateHandler(store *services.Store) *StateHandler {
	return &StateHandler{store: store}
}

// DispatchRequest is the wire form of an action
type DispatchRequest struct {
	Type    domain.ActionType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

// GetState returns the current state
// @Summary Get state
// @Tags State
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/state [get]
func (h *StateHandler) GetState(c *fiber.Ctx) error {
	return response.Success(c, "", NewStateView(h.store.GetState()))
}

// Dispatch applies a raw action. Ignored actions answer 202 with the
// unchanged state.
// @Summary Dispatch action
// @Tags State
// @Accept json
// @Produce json
// @Param body body DispatchRequest true "Action"
// @Success 200 {object} response.Response
// @Success 202 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/actions [post]
func (h *StateHandler) Dispatch(c *fiber.Ctx) error {
	var req DispatchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Type = domain.ActionType(strings.TrimSpace(string(req.Type)))
	if req.Type == "" {
		return response.BadRequest(c, "Action type is required")
	}

	// INIT_APP always goes through the load path
	if req.Type == domain.ActionInitApp {
		h.store.Init(c.UserContext())
		return response.Success(c, "State reloaded", NewStateView(h.store.GetState()))
	}

	action, err := domain.DecodeAction(req.Type, req.Payload)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return dispatchAndRespond(c, h.store, action, "Action applied")
}

// ListTransactions returns the ledger newest first, paginated
// @Summary List transactions
// @Tags State
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param type query string false "purchase or redemption"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions [get]
func (h *StateHandler) ListTransactions(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	txs := h.store.GetState().Transactions

	if typ := domain.TransactionType(c.Query("type")); typ != "" {
		filtered := make([]domain.Transaction, 0, len(txs))
		for _, t := range txs {
			if t.Type == typ {
				filtered = append(filtered, t)
			}
		}
		txs = filtered
	}

	return response.Success(c, "", pagination.NewResponse(pagination.Page(txs, params), params, int64(len(txs))))
}

// dispatchAndRespond dispatches action and writes the resulting state
func dispatchAndRespond(c *fiber.Ctx, store services.Dispatcher, action domain.Action, message string) error {
	if !store.Dispatch(c.UserContext(), action) {
		return response.Accepted(c, "Action ignored", NewStateView(store.GetState()))
	}
	return response.Success(c, message, NewStateView(store.GetState()))
}

// errorStatus maps domain errors onto HTTP responses
func errorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPhoneRequired),
		errors.Is(err, domain.ErrInvalidPoints),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidOTPFormat),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAction):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrOTPMismatch):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrNoPendingOTP),
		errors.Is(err, domain.ErrWrongPhase):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	default:
		return response.InternalServerError(c, "Internal server error")
	}
}

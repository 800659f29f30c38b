package handlers

import (
	"strings"

	"cafechain/internal/core/domain"
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler records session changes made by the external auth API.
// It does not check credentials: the client has already done that.
type AuthHandler struct {
	store *services.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store *services.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// Login stores the authenticated user record
// @Summary Record login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.UserRecord true "User record returned by the auth API"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	user, err := parseUser(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return dispatchAndRespond(c, h.store, domain.Login(user), "Login recorded")
}

// Register stores a newly registered user. New cafes start pending approval
// unless the auth API says otherwise.
// @Summary Record registration
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.UserRecord true "User record returned by the auth API"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	user, err := parseUser(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	if user.Status == "" {
		user.Status = domain.CafeStatusPendingApproval
	}
	if !h.store.Dispatch(c.UserContext(), domain.Register(user)) {
		return response.Accepted(c, "Action ignored", NewStateView(h.store.GetState()))
	}
	return response.Created(c, "Registration recorded", NewStateView(h.store.GetState()))
}

// Logout clears the session. LOGOUT drops the pending challenge, which puts
// the redemption form back on inputPhone.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.store.Dispatch(c.UserContext(), domain.Logout())
	return response.Success(c, "Logged out", NewStateView(h.store.GetState()))
}

func parseUser(c *fiber.Ctx) (domain.UserRecord, error) {
	var user domain.UserRecord
	if err := c.BodyParser(&user); err != nil {
		return user, errInvalidBody
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.TrimSpace(user.Email)
	user.Phone = strings.TrimSpace(user.Phone)
	if user.ID == "" && user.Email == "" && user.Phone == "" {
		return user, errMissingIdentity
	}
	return user, nil
}

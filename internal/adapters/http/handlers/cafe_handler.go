package handlers

import (
	"errors"
	"strings"
	"time"

	"cafechain/internal/core/domain"
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errInvalidBody     = errors.New("invalid request body")
	errMissingIdentity = errors.New("user id, email or phone is required")
)

// CafeHandler handles profile, gallery, dashboard and ledger updates
type CafeHandler struct {
	store *services.Store
	now   func() time.Time
}

// NewCafeHandler creates a new cafe handler
func NewCafeHandler(store *services.Store) *CafeHandler {
	return &CafeHandler{store: store, now: time.Now}
}

// SetProfile replaces the cafe profile
// @Summary Set cafe profile
// @Tags Cafe
// @Accept json
// @Produce json
// @Param body body domain.CafeProfile true "Profile"
// @Success 200 {object} response.Response
// @Router /api/v1/cafe [put]
func (h *CafeHandler) SetProfile(c *fiber.Ctx) error {
	info, err := parseProfile(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return dispatchAndRespond(c, h.store, domain.SetCafeInfo(info), "Profile saved")
}

// CompleteSetup stores the profile captured by the setup wizard
// @Summary Complete setup
// @Tags Cafe
// @Accept json
// @Produce json
// @Param body body domain.CafeProfile true "Profile"
// @Success 200 {object} response.Response
// @Router /api/v1/cafe/setup [post]
func (h *CafeHandler) CompleteSetup(c *fiber.Ctx) error {
	info, err := parseProfile(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return dispatchAndRespond(c, h.store, domain.CompleteSetup(info), "Setup completed")
}

// PatchProfile merges the given fields into the profile
// @Summary Update cafe profile
// @Tags Cafe
// @Accept json
// @Produce json
// @Param body body domain.CafeProfilePatch true "Fields to change"
// @Success 200 {object} response.Response
// @Router /api/v1/cafe [patch]
func (h *CafeHandler) PatchProfile(c *fiber.Ctx) error {
	var patch domain.CafeProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return dispatchAndRespond(c, h.store, domain.UpdateProfile(patch), "Profile updated")
}

// ToggleStatus flips the open/closed flag
func (h *CafeHandler) ToggleStatus(c *fiber.Ctx) error {
	return dispatchAndRespond(c, h.store, domain.ToggleStatus(), "Status toggled")
}

// AddGalleryImage appends an image to the gallery
// @Summary Add gallery image
// @Tags Cafe
// @Accept json
// @Produce json
// @Param body body domain.ImageRef true "Image"
// @Success 200 {object} response.Response
// @Router /api/v1/cafe/gallery [post]
func (h *CafeHandler) AddGalleryImage(c *fiber.Ctx) error {
	var img domain.ImageRef
	if err := c.BodyParser(&img); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	img.URL = strings.TrimSpace(img.URL)
	if img.URL == "" {
		return response.BadRequest(c, "Image url is required")
	}
	return dispatchAndRespond(c, h.store, domain.AddGalleryImage(img), "Image added")
}

// RemoveGalleryImage removes the image at :index. Out of range is a no-op.
func (h *CafeHandler) RemoveGalleryImage(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return response.BadRequest(c, "Invalid gallery index")
	}
	return dispatchAndRespond(c, h.store, domain.RemoveGalleryImage(index), "Image removed")
}

// PatchMetrics merges dashboard metrics
func (h *CafeHandler) PatchMetrics(c *fiber.Ctx) error {
	var patch domain.MetricsPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return dispatchAndRespond(c, h.store, domain.UpdateMetrics(patch), "Metrics updated")
}

// SetPerformance replaces the performance figures
func (h *CafeHandler) SetPerformance(c *fiber.Ctx) error {
	var perf domain.Performance
	if err := c.BodyParser(&perf); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return dispatchAndRespond(c, h.store, domain.UpdatePerformance(perf), "Performance updated")
}

// SetReferenceData replaces partner cafes, announcements, leaderboard or events
func (h *CafeHandler) SetReferenceData(c *fiber.Ctx) error {
	var data domain.ReferenceData
	if err := c.BodyParser(&data); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return dispatchAndRespond(c, h.store, domain.SetReferenceData(data), "Reference data updated")
}

// AddTransaction records a purchase from invoice history
// @Summary Add purchase
// @Tags Cafe
// @Accept json
// @Produce json
// @Param body body domain.Transaction true "Transaction"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/transactions [post]
func (h *CafeHandler) AddTransaction(c *fiber.Ctx) error {
	var tx domain.Transaction
	if err := c.BodyParser(&tx); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if tx.Type == "" {
		tx.Type = domain.TransactionPurchase
	}
	if tx.Type != domain.TransactionPurchase {
		return response.BadRequest(c, "Redemptions are recorded through OTP verification")
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = h.now().UTC()
	}

	if !h.store.Dispatch(c.UserContext(), domain.AddTransaction(tx)) {
		return response.Accepted(c, "Action ignored", NewStateView(h.store.GetState()))
	}
	return response.Created(c, "Transaction recorded", tx)
}

func parseProfile(c *fiber.Ctx) (domain.CafeProfile, error) {
	var info domain.CafeProfile
	if err := c.BodyParser(&info); err != nil {
		return info, errInvalidBody
	}
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return info, errors.New("cafe name is required")
	}
	return info, nil
}

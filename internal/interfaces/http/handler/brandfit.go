package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sizingapp "github.com/lumiere/backend/internal/application/sizing"
)

// BrandFitHandler exposes brand fit profiles, size adjustment and fit
// feedback endpoints
type BrandFitHandler struct {
	BaseHandler
	brandFitService *sizingapp.BrandFitService
}

// NewBrandFitHandler creates a new BrandFitHandler
func NewBrandFitHandler(brandFitService *sizingapp.BrandFitService) *BrandFitHandler {
	return &BrandFitHandler{brandFitService: brandFitService}
}

func (h *BrandFitHandler) brandID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("brandId"))
	if err != nil {
		h.BadRequest(c, "Invalid brand ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Profile returns a brand's fit profile
// GET /brands/:brandId/fit
func (h *BrandFitHandler) Profile(c *gin.Context) {
	id, ok := h.brandID(c)
	if !ok {
		return
	}

	result, err := h.brandFitService.Profile(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AllProfiles lists every brand's fit profile
// GET /brands/fit
func (h *BrandFitHandler) AllProfiles(c *gin.Context) {
	result, err := h.brandFitService.AllProfiles(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Adjust translates a shopper's usual size into the size to order in
// this brand
// POST /brands/:brandId/fit/adjust
func (h *BrandFitHandler) Adjust(c *gin.Context) {
	id, ok := h.brandID(c)
	if !ok {
		return
	}

	var req sizingapp.AdjustSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.brandFitService.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SubmitFeedback records how a purchased size actually fit
// POST /brands/:brandId/fit/feedback
func (h *BrandFitHandler) SubmitFeedback(c *gin.Context) {
	id, ok := h.brandID(c)
	if !ok {
		return
	}

	var req sizingapp.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.brandFitService.SubmitFeedback(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Stats aggregates fit feedback for a brand
// GET /brands/:brandId/fit/stats
func (h *BrandFitHandler) Stats(c *gin.Context) {
	id, ok := h.brandID(c)
	if !ok {
		return
	}

	result, err := h.brandFitService.Stats(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SuggestedAdjustment derives a fit adjustment from accumulated feedback
// GET /brands/:brandId/fit/suggested-adjustment
func (h *BrandFitHandler) SuggestedAdjustment(c *gin.Context) {
	id, ok := h.brandID(c)
	if !ok {
		return
	}

	result, err := h.brandFitService.SuggestedAdjustment(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

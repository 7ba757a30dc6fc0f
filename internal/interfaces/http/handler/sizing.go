package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sizingapp "github.com/lumiere/backend/internal/application/sizing"
)

// SizingHandler exposes sister size lookups, stock-out alternatives and
// cup conversion endpoints
type SizingHandler struct {
	BaseHandler
	sisterService     *sizingapp.SisterSizeService
	conversionService *sizingapp.CupConversionService
}

// NewSizingHandler creates a new SizingHandler
func NewSizingHandler(
	sisterService *sizingapp.SisterSizeService,
	conversionService *sizingapp.CupConversionService,
) *SizingHandler {
	return &SizingHandler{
		sisterService:     sisterService,
		conversionService: conversionService,
	}
}

// SisterSizes returns the immediate sister sizes of a universal code
// GET /sizing/sister/:uic
func (h *SizingHandler) SisterSizes(c *gin.Context) {
	uic := strings.TrimSpace(c.Param("uic"))
	if uic == "" {
		h.BadRequest(c, "Universal size code is required")
		return
	}

	result, err := h.sisterService.SisterSizes(c.Request.Context(), uic)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SisterFamily returns the full sister chain of a universal code,
// rendered for a region
// GET /sizing/sister/:uic/family?region=US
func (h *SizingHandler) SisterFamily(c *gin.Context) {
	uic := strings.TrimSpace(c.Param("uic"))
	if uic == "" {
		h.BadRequest(c, "Universal size code is required")
		return
	}

	region := c.DefaultQuery("region", "US")

	result, err := h.sisterService.SisterFamily(c.Request.Context(), uic, region)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// FindAlternatives suggests in-stock sister sizes when the requested
// size of a product is unavailable
// GET /sizing/products/:productId/alternatives?size=34C&region=US
func (h *SizingHandler) FindAlternatives(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	size := strings.TrimSpace(c.Query("size"))
	if size == "" {
		h.BadRequest(c, "size query parameter is required")
		return
	}

	region := c.DefaultQuery("region", "US")
	sessionID := getSessionID(c)

	result, err := h.sisterService.FindAlternatives(c.Request.Context(), productID, size, region, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AcceptRecommendation marks a sister size recommendation as accepted
// POST /sizing/recommendations/:id/accept
func (h *SizingHandler) AcceptRecommendation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recommendation ID format")
		return
	}

	result, err := h.sisterService.AcceptRecommendation(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AcceptanceStats reports acceptance rates by recommendation type
// GET /sizing/recommendations/stats
func (h *SizingHandler) AcceptanceStats(c *gin.Context) {
	result, err := h.sisterService.AcceptanceStats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// TopOutOfStock lists the most requested sizes that were out of stock
// GET /sizing/recommendations/out-of-stock?limit=10
func (h *SizingHandler) TopOutOfStock(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	result, err := h.sisterService.TopOutOfStock(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ConvertCup translates a cup letter between regional conventions
// POST /sizing/cup/convert
func (h *SizingHandler) ConvertCup(c *gin.Context) {
	var req sizingapp.ConvertCupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.conversionService.Convert(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CupProgression returns a region's cup ladder, or details for a single
// letter when ?letter= is supplied
// GET /sizing/cup/progression/:region
func (h *SizingHandler) CupProgression(c *gin.Context) {
	region := c.Param("region")

	if letter := strings.TrimSpace(c.Query("letter")); letter != "" {
		result, err := h.conversionService.Info(c.Request.Context(), region, letter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	result, err := h.conversionService.Progression(c.Request.Context(), region)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// CupMatrix returns the label every region uses for one cup volume
// GET /sizing/cup/matrix/:volume
func (h *SizingHandler) CupMatrix(c *gin.Context) {
	volume, err := strconv.Atoi(c.Param("volume"))
	if err != nil {
		h.BadRequest(c, "Cup volume must be an integer")
		return
	}

	result, err := h.conversionService.Matrix(c.Request.Context(), volume)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Regions lists the sizing regions the conversion tables cover
// GET /sizing/cup/regions
func (h *SizingHandler) Regions(c *gin.Context) {
	h.Success(c, h.conversionService.Regions(c.Request.Context()))
}

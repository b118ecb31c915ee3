package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// PricesHandler provides HTTP handlers for the price book routes.
type PricesHandler struct {
	priceBooks service.PriceBookService
}

// NewPricesHandler creates a new PricesHandler instance.
func NewPricesHandler(priceBooks service.PriceBookService) *PricesHandler {
	return &PricesHandler{priceBooks: priceBooks}
}

// GetActive handles GET /api/prices requests.
//
// @Summary      Get active prices
// @Description  Returns the caller's active food price overrides. Foods without an override use the reference cost.
// @Tags         Prices
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Success      200 {object} dto.SuccessResponse "Active prices"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/prices [get]
func (h *PricesHandler) GetActive(c *gin.Context) {
	builder := NewResponseBuilder(c)

	prices, err := h.priceBooks.Active(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(gin.H{"prices": prices})
}

// Update handles PUT /api/prices requests.
//
// @Summary      Update prices
// @Description  Merges the given prices over the active version and stores the next version.
// @Tags         Prices
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        request body dto.PricesRequest true "Price overrides"
// @Success      200 {object} dto.SuccessResponse{data=model.PriceBook} "New price book version"
// @Failure      400 {object} dto.ErrorResponse "Bad request - unknown food or invalid price"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/prices [put]
func (h *PricesHandler) Update(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.PricesRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	book, err := h.priceBooks.Upsert(c.Request.Context(), middleware.GetSession(c), req.Prices)
	if err != nil {
		builder.Fail(err)
		return
	}

	audit(c, model.ActionPricesUpdated, "Price book updated", map[string]any{
		"version":   book.Version,
		"overrides": len(req.Prices),
	})
	builder.SuccessOK(book)
}

// History handles GET /api/prices/history requests.
//
// @Summary      List price book versions
// @Tags         Prices
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        limit query int false "Maximum number of versions (default 20, max 100)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.PriceBook} "Versions, newest first"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/prices/history [get]
func (h *PricesHandler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	books, err := h.priceBooks.History(c.Request.Context(), middleware.GetSession(c), queryLimit(c, defaultHistoryLimit))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(books)
}

// queryLimit reads the limit query parameter, clamped to (0, maxHistoryLimit].
func queryLimit(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	return min(limit, maxHistoryLimit)
}

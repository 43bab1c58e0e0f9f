package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/gin-gonic/gin"
)

// movementHandler handles HTTP requests that read or write the ledger.
type movementHandler struct {
	redemptionService portssvc.RedemptionSvc
	ledgerService     portssvc.LedgerReaderSvc
}

func newMovementHandler(rs portssvc.RedemptionSvc, ls portssvc.LedgerReaderSvc) *movementHandler {
	return &movementHandler{
		redemptionService: rs,
		ledgerService:     ls,
	}
}

// RegisterMovementRoutes registers the ledger routes. submitMiddleware runs only in front of submissions.
func RegisterMovementRoutes(rg *gin.RouterGroup, rs portssvc.RedemptionSvc, ls portssvc.LedgerReaderSvc, submitMiddleware ...gin.HandlerFunc) {
	h := newMovementHandler(rs, ls)

	movements := rg.Group("/movements")
	{
		movements.POST("", append(submitMiddleware, h.submitMovement)...)
		movements.GET("", h.listMovements)
	}
}

// submitMovement godoc
// @Summary Submit a cashback movement
// @Description Earns cashback on a sale, redeems available cashback, or reverses an earlier earning.
// @Description The operator code must match exactly one active operator of the store.
// @Tags movements
// @Accept  json
// @Produce  json
// @Param   movement body dto.SubmitMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized or invalid operator credential"
// @Failure 403 {object} map[string]string "Forbidden, store suspended or customer inactive"
// @Failure 404 {object} map[string]string "Customer or store not found"
// @Failure 409 {object} map[string]string "Another redemption for the customer is in progress"
// @Failure 422 {object} map[string]string "Insufficient balance or invalid amount"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 503 {object} map[string]string "Storage temporarily unavailable"
// @Security BearerAuth
// @Router /movements [post]
func (h *movementHandler) submitMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("kind", string(req.Kind)),
		slog.String("customer_id", req.CustomerID),
		slog.String("store_id", req.StoreID),
	)
	logger.Info("Received request to submit movement", slog.String("amount", req.Amount.String()))

	movement, err := h.redemptionService.Submit(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, logger, err, "Failed to submit movement")
		return
	}

	logger.Info("Movement committed", slog.String("movement_id", movement.MovementID))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement, time.Now()))
}

// listMovements godoc
// @Summary List ledger movements
// @Description Lists movements newest first. Customers only see their own, stores only their own store.
// @Tags movements
// @Produce  json
// @Param   customerID query string false "Filter by customer"
// @Param   storeID query string false "Filter by store"
// @Param   since query string false "Only movements at or after this RFC3339 instant"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from a previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListMovements(c.Request.Context(), principal, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list movements")
		return
	}

	logger.Info("Movements listed successfully", slog.Int("count", len(resp.Movements)))
	c.JSON(http.StatusOK, resp)
}

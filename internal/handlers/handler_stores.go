package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/gin-gonic/gin"
)

// storeHandler handles HTTP requests related to stores and their operators.
type storeHandler struct {
	storeService portssvc.StoreSvc
}

// RegisterStoreRoutes registers store routes. Everything but reading a store is administrative.
func RegisterStoreRoutes(rg *gin.RouterGroup, ss portssvc.StoreSvc) {
	h := &storeHandler{storeService: ss}

	stores := rg.Group("/stores")
	{
		stores.GET("/:storeID", h.getStore)

		admin := stores.Group("", middleware.RequireAdmin())
		admin.POST("", h.createStore)
		admin.PATCH("/:storeID", h.updateStore)
		admin.POST("/:storeID/operators", h.createOperator)
		admin.DELETE("/:storeID/operators/:operatorID", h.revokeOperator)
	}
}

// createStore godoc
// @Summary Onboard a store
// @Tags stores
// @Accept  json
// @Produce  json
// @Param   store body dto.CreateStoreRequest true "Store details"
// @Success 201 {object} dto.StoreResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Tax id already registered"
// @Security BearerAuth
// @Router /stores [post]
func (h *storeHandler) createStore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStore", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create store")
		return
	}

	logger.Info("Store created successfully", slog.String("store_id", store.StoreID))
	c.JSON(http.StatusCreated, dto.ToStoreResponse(store))
}

// getStore godoc
// @Summary Get a store by ID
// @Tags stores
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Success 200 {object} dto.StoreResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Store not found"
// @Security BearerAuth
// @Router /stores/{storeID} [get]
func (h *storeHandler) getStore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	store, err := h.storeService.GetStore(c.Request.Context(), principal, c.Param("storeID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve store")
		return
	}
	c.JSON(http.StatusOK, dto.ToStoreResponse(store))
}

// updateStore godoc
// @Summary Update a store
// @Description Changes the cashback percentage or suspends and reactivates the store.
// @Tags stores
// @Accept  json
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   store body dto.UpdateStoreRequest true "Fields to update"
// @Success 200 {object} dto.StoreResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Store not found"
// @Security BearerAuth
// @Router /stores/{storeID} [patch]
func (h *storeHandler) updateStore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateStore", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	store, err := h.storeService.UpdateStore(c.Request.Context(), principal, c.Param("storeID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update store")
		return
	}

	logger.Info("Store updated successfully", slog.String("store_id", store.StoreID), slog.Bool("is_active", store.IsActive))
	c.JSON(http.StatusOK, dto.ToStoreResponse(store))
}

// createOperator godoc
// @Summary Add an operator to a store
// @Description The 5-digit code must not match any other active operator of the same store.
// @Tags stores
// @Accept  json
// @Produce  json
// @Param   storeID path string true "Store ID"
// @Param   operator body dto.CreateOperatorRequest true "Operator details"
// @Success 201 {object} dto.OperatorResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Store not found"
// @Failure 409 {object} map[string]string "Code already in use at the store"
// @Security BearerAuth
// @Router /stores/{storeID}/operators [post]
func (h *storeHandler) createOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Never echo the bind error: it may contain the code.
		logger.Warn("Failed to bind JSON for CreateOperator")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: name is required and code must be 5 digits"})
		return
	}
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	operator, err := h.storeService.CreateOperator(c.Request.Context(), principal, c.Param("storeID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create operator")
		return
	}

	logger.Info("Operator created successfully", slog.String("operator_id", operator.OperatorID))
	c.JSON(http.StatusCreated, dto.ToOperatorResponse(operator))
}

// revokeOperator godoc
// @Summary Revoke an operator
// @Tags stores
// @Param   storeID path string true "Store ID"
// @Param   operatorID path string true "Operator ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Operator not found"
// @Security BearerAuth
// @Router /stores/{storeID}/operators/{operatorID} [delete]
func (h *storeHandler) revokeOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	operatorID := c.Param("operatorID")
	if err := h.storeService.RevokeOperator(c.Request.Context(), principal, c.Param("storeID"), operatorID); err != nil {
		respondError(c, logger, err, "Failed to revoke operator")
		return
	}

	logger.Info("Operator revoked", slog.String("operator_id", operatorID))
	c.Status(http.StatusNoContent)
}

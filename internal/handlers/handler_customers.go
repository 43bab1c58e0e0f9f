package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles HTTP requests related to customers and their balances.
type customerHandler struct {
	customerService portssvc.CustomerSvc
	balanceService  portssvc.BalanceSvc
}

// RegisterCustomerRoutes registers customer and balance routes.
func RegisterCustomerRoutes(rg *gin.RouterGroup, cs portssvc.CustomerSvc, bs portssvc.BalanceSvc) {
	h := &customerHandler{customerService: cs, balanceService: bs}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.enrollCustomer)
		customers.GET("", h.findCustomerByCard)
		customers.GET("/:customerID", h.getCustomer)
		customers.GET("/:customerID/balance", h.getBalance)
		customers.PATCH("/:customerID", middleware.RequireAdmin(), h.updateCustomer)
	}
}

// enrollCustomer godoc
// @Summary Enroll a customer
// @Description Registers a shopper. A card number is generated when none is supplied.
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Tax id or card number already registered"
// @Security BearerAuth
// @Router /customers [post]
func (h *customerHandler) enrollCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EnrollCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	customer, err := h.customerService.EnrollCustomer(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, logger, err, "Failed to enroll customer")
		return
	}

	logger.Info("Customer enrolled", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// findCustomerByCard godoc
// @Summary Find a customer by card number
// @Tags customers
// @Produce  json
// @Param   cardNumber query string true "Loyalty card number"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "cardNumber is required"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers [get]
func (h *customerHandler) findCustomerByCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	cardNumber := c.Query("cardNumber")
	if cardNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardNumber query parameter is required"})
		return
	}

	customer, err := h.customerService.GetCustomerByCardNumber(c.Request.Context(), principal, cardNumber)
	if err != nil {
		respondError(c, logger, err, "Failed to find customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), principal, c.Param("customerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// getBalance godoc
// @Summary Get a customer's cashback balances
// @Description Total includes pending earnings; available only counts matured ones.
// @Description Administrators see raw figures and an anomaly flag, everyone else sees figures clamped at zero.
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID}/balance [get]
func (h *customerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetCustomerBalances(c.Request.Context(), principal, c.Param("customerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// updateCustomer godoc
// @Summary Activate or deactivate a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID} [patch]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	principal, ok := principalOrAbort(c, logger)
	if !ok {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), principal, c.Param("customerID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update customer")
		return
	}

	logger.Info("Customer updated", slog.String("customer_id", customer.CustomerID), slog.Bool("is_active", customer.IsActive))
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP status codes and client-facing messages.
// Unknown errors map to 500 with a generic message; details stay in the logs.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredential):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrStoreSuspended),
		errors.Is(err, apperrors.ErrCustomerInactive):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrRedemptionBusy):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrInvariant):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrTransient):
		return http.StatusServiceUnavailable, "Storage temporarily unavailable, please retry"
	}
	return http.StatusInternalServerError, ""
}

// respondError writes err as a JSON error body. fallback is the message for unexpected failures.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		if msg == "" {
			msg = fallback
		}
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, gin.H{"error": msg})
}

// principalOrAbort fetches the authenticated principal or writes a 401.
func principalOrAbort(c *gin.Context, logger *slog.Logger) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		logger.Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return principal, true
}

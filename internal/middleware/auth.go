package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalClaims are the claims the identity provider puts in access tokens.
type PrincipalClaims struct {
	Role       string `json:"role"`
	StoreID    string `json:"storeID,omitempty"`
	CustomerID string `json:"customerID,omitempty"`
	jwt.RegisteredClaims
}

// ToPrincipal decodes the role claim into one of the closed principal kinds.
func (c PrincipalClaims) ToPrincipal() (domain.Principal, error) {
	if c.Subject == "" {
		return nil, errors.New("subject missing from token")
	}
	switch domain.Role(c.Role) {
	case domain.RoleAdmin:
		return domain.AdminPrincipal{SubjectID: c.Subject}, nil
	case domain.RoleStore:
		if c.StoreID == "" {
			return nil, errors.New("store token without storeID")
		}
		return domain.StorePrincipal{SubjectID: c.Subject, StoreID: c.StoreID}, nil
	case domain.RoleCustomer:
		if c.CustomerID == "" {
			return nil, errors.New("customer token without customerID")
		}
		return domain.CustomerPrincipal{SubjectID: c.Subject, CustomerID: c.CustomerID}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", c.Role)
	}
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the resulting principal in the request context.
func AuthMiddleware(jwtSecret string, issuer string) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &PrincipalClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			logger.Warn("Invalid token", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		principal, err := claims.ToPrincipal()
		if err != nil {
			logger.Warn("Invalid token claims", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		enrichedLogger := logger.With(
			slog.String("subject", principal.Subject()),
			slog.String("role", string(principal.Role())),
		)
		ctx := WithPrincipal(WithLogger(c.Request.Context(), enrichedLogger), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin aborts requests whose principal may not manage the directory.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipalFromContext(c)
		if !ok || !principal.CanManageDirectory() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/auth"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/types"
)

// UserLoader is the slice of storage the auth middleware needs.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

func unauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}

// tokenFromRequest prefers an Authorization bearer token and falls back to
// the session cookie.
func tokenFromRequest(ctx *gin.Context) (string, bool) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	token, err := ctx.Cookie(types.TokenCookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// AuthMiddleware resolves the session token to a user and stores it under
// types.ContextUserKey.
func AuthMiddleware(issuer *auth.Issuer, users UserLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := tokenFromRequest(ctx)
		if !ok {
			unauthorized(ctx, "Authentication required")
			return
		}

		claims, err := issuer.Verify(tokenString)
		if err != nil {
			unauthorized(ctx, "Invalid or expired token")
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(ctx, "User not found")
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

package middlewares

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// VerifyIdToken authenticates requests with a Firebase ID token.
func VerifyIdToken(verifier IDTokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		idToken := bearerToken(ctx)
		if idToken == "" {
			unauthorized(ctx)
			return
		}
		token, err := verifier.VerifyIDToken(ctx.Request.Context(), idToken)
		if err != nil {
			logger.Debug("failed to verify ID token", zap.Error(err))
			unauthorized(ctx)
			return
		}
		ctx.Set(userIDKey, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			ctx.Set(emailKey, email)
		}
		ctx.Next()
	}
}

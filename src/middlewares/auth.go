package middlewares

import (
	"errors"
	"hotelbooking/src/types"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const (
	userIDKey = "uid"
	emailKey  = "email"
)

// UserID returns the authenticated user id set by an identity middleware.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(userIDKey)
}

// Email returns the authenticated user's email, empty when the identity
// provider did not supply one.
func Email(ctx *gin.Context) string {
	return ctx.GetString(emailKey)
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": types.PublicMessage(types.ErrUnauthenticated)})
}

// AuthMiddleware accepts HS256 bearer tokens signed with secret. The user id
// comes from the uid claim, falling back to the subject.
func AuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqToken := bearerToken(ctx)
		if reqToken == "" || len(secret) == 0 {
			unauthorized(ctx)
			return
		}
		claims := &types.Claims{}
		tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !tkn.Valid {
			logger.Debug("token rejected", zap.Error(err))
			unauthorized(ctx)
			return
		}
		uid := claims.UID
		if uid == "" {
			uid = claims.Subject
		}
		if uid == "" {
			unauthorized(ctx)
			return
		}
		ctx.Set(userIDKey, uid)
		ctx.Set(emailKey, claims.Email)
		ctx.Next()
	}
}

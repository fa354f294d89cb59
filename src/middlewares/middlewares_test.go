package middlewares

import (
	"context"
	"errors"
	"hotelbooking/src/types"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-jwt-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"uid": UserID(ctx), "email": Email(ctx)})
}

func signToken(t *testing.T, claims *types.Claims, key []byte) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret, zap.NewNop()), whoami)

	valid := signToken(t, &types.Claims{
		UID:   "user-1",
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)
	w := serve(r, valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"user-1"`)

	subjectOnly := signToken(t, &types.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-2"},
	}, testSecret)
	w = serve(r, subjectOnly)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"user-2"`)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret, zap.NewNop()), whoami)

	expired := signToken(t, &types.Claims{
		UID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)
	wrongKey := signToken(t, &types.Claims{UID: "user-1"}, []byte("other"))
	noUser := signToken(t, &types.Claims{Email: "ada@example.com"}, testSecret)

	for name, token := range map[string]string{
		"missing":   "",
		"garbage":   "not.a.token",
		"expired":   expired,
		"wrong key": wrongKey,
		"no user":   noUser,
	} {
		t.Run(name, func(t *testing.T) {
			w := serve(r, token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good-token" {
		return nil, errors.New("token has expired")
	}
	return &auth.Token{UID: "firebase-user", Claims: map[string]any{"email": "ada@example.com"}}, nil
}

func TestVerifyIdToken(t *testing.T) {
	r := gin.New()
	r.GET("/me", VerifyIdToken(fakeVerifier{}, zap.NewNop()), whoami)

	w := serve(r, "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"firebase-user"`)
	assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "bad-token").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/me", func(ctx *gin.Context) {
		ctx.Set(userIDKey, ctx.GetHeader("X-User"))
	}, RateLimit(4, zap.NewNop()), whoami)

	call := func(user string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}

func TestLimiterStoreEvictsIdleCallers(t *testing.T) {
	now := time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC)
	store := newLimiterStore(60, time.Minute)
	store.now = func() time.Time { return now }

	first := store.get("ip:10.0.0.1")
	store.get("ip:10.0.0.2")
	assert.Equal(t, 2, store.size())

	now = now.Add(30 * time.Second)
	assert.Same(t, first, store.get("ip:10.0.0.1"))

	// only 10.0.0.1 was seen within the last minute
	now = now.Add(45 * time.Second)
	store.get("user-1")
	assert.Equal(t, 2, store.size())
	assert.Same(t, first, store.get("ip:10.0.0.1"))

	now = now.Add(5 * time.Minute)
	store.get("user-2")
	assert.Equal(t, 1, store.size())
	assert.NotSame(t, first, store.get("ip:10.0.0.1"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), SecureHeaders)
	r.GET("/me", whoami)

	w := serve(r, "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

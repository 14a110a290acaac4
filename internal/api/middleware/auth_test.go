package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardsite/internal/api/middleware"
	"boardsite/internal/auth"
	"boardsite/internal/config"
	"boardsite/internal/models"
	"boardsite/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key"

func newTestGuard(t *testing.T) (*auth.Guard, *testutil.AccountStore) {
	t.Helper()
	store := testutil.NewAccountStore()
	tokens := auth.NewService(config.AuthConfig{JWTSecret: testSecret, SessionTTL: 24 * time.Hour})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewGuard(store, tokens, nil, logger), store
}

func TestAuthMiddleware_AdminRequired(t *testing.T) {
	tests := []struct {
		name       string
		setupAuth  func(t *testing.T, guard *auth.Guard) *http.Request
		wantStatus int
		wantErr    string
	}{
		{
			name: "Valid Cookie",
			setupAuth: func(t *testing.T, guard *auth.Guard) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.AddCookie(&http.Cookie{Name: "token", Value: login(t, guard)})
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Valid Bearer Header",
			setupAuth: func(t *testing.T, guard *auth.Guard) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("Authorization", "Bearer "+login(t, guard))
				return req
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Missing Token",
			setupAuth: func(*testing.T, *auth.Guard) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/test", nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "authentication required",
		},
		{
			name: "Invalid Authorization Header Format",
			setupAuth: func(*testing.T, *auth.Guard) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("Authorization", "InvalidFormat Token")
				return req
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "authentication required",
		},
		{
			name: "Wrong Signing Key",
			setupAuth: func(t *testing.T, _ *auth.Guard) *http.Request {
				// Create a token signed with a different secret
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"sub":      "0f8fad5b-d9cb-469f-a165-70867728950e",
					"username": "admin",
					"exp":      time.Now().Add(time.Hour).Unix(),
				})
				tokenString, err := token.SignedString([]byte("wrong-secret"))
				require.NoError(t, err)

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.AddCookie(&http.Cookie{Name: "token", Value: tokenString})
				return req
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid or expired session",
		},
		{
			name: "Expired Token",
			setupAuth: func(t *testing.T, _ *auth.Guard) *http.Request {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"sub":      "0f8fad5b-d9cb-469f-a165-70867728950e",
					"username": "admin",
					"iat":      time.Now().Add(-25 * time.Hour).Unix(),
					"exp":      time.Now().Add(-time.Hour).Unix(),
				})
				tokenString, err := token.SignedString([]byte(testSecret))
				require.NoError(t, err)

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.AddCookie(&http.Cookie{Name: "token", Value: tokenString})
				return req
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid or expired session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			guard, _ := newTestGuard(t)

			r := gin.New()
			r.GET("/test", middleware.NewAuthMiddleware(guard, "token").AdminRequired(), func(c *gin.Context) {
				account := auth.GetAccountFromContext(c)
				require.NotNil(t, account)
				c.JSON(http.StatusOK, gin.H{"username": account.Username})
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.setupAuth(t, guard))
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, tt.wantErr, resp.Error)
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, "admin", body["username"])
		})
	}
}

func TestAuthMiddleware_DeletedAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard, store := newTestGuard(t)
	token := login(t, guard)

	account, err := store.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NoError(t, guard.DeleteAccount(context.Background(), account.ID))

	r := gin.New()
	r.GET("/test", middleware.NewAuthMiddleware(guard, "token").AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func login(t *testing.T, guard *auth.Guard) string {
	t.Helper()
	ctx := context.Background()
	if _, err := guard.Register(ctx, "admin", "admin-password"); err != nil {
		require.ErrorIs(t, err, auth.ErrAccountExists)
	}
	session, err := guard.Authenticate(ctx, "admin", "admin-password", auth.LoginContext{ClientIP: "127.0.0.1"})
	require.NoError(t, err)
	return session.Token
}

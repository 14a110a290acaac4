package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"boardsite/internal/config"
	"boardsite/internal/models"
	"boardsite/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		options    []testutil.Option
		setupFunc  func(*testutil.TestContext)
		input      any
		wantStatus int
		errMsg     string
	}{
		{
			name:       "Success",
			input:      models.SignupRequest{Username: "alice", Password: "pw1"},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Username Taken",
			setupFunc: func(tc *testutil.TestContext) {
				tc.CreateAccount("alice", "pw1")
			},
			input:      models.SignupRequest{Username: "alice", Password: "pw2"},
			wantStatus: http.StatusBadRequest,
			errMsg:     "username already exists",
		},
		{
			name:       "Missing Password",
			input:      map[string]string{"username": "alice"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Blank Username",
			input:      models.SignupRequest{Username: "     ", Password: "pw1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Registration Closed",
			options: []testutil.Option{testutil.WithConfig(func(cfg *config.Config) {
				cfg.Auth.RegistrationOpen = false
			})},
			input:      models.SignupRequest{Username: "alice", Password: "pw1"},
			wantStatus: http.StatusForbidden,
			errMsg:     "registration is closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t, tt.options...)
			if tt.setupFunc != nil {
				tt.setupFunc(tc)
			}

			w := tc.Do(http.MethodPost, "/api/auth/signup", tt.input)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusCreated {
				var errResp models.ErrorResponse
				tc.Decode(w, &errResp)
				if tt.errMsg != "" {
					require.Equal(t, tt.errMsg, errResp.Error)
				}
				return
			}

			var account models.Account
			tc.Decode(w, &account)
			require.Equal(t, "alice", account.Username)
			require.True(t, account.IsActive)
			require.NotContains(t, w.Body.String(), "password")

			stored, err := tc.Accounts.GetByUsername(context.Background(), "alice")
			require.NoError(t, err)
			require.NotEqual(t, "pw1", stored.PasswordHash)
		})
	}
}

// Signup, then five wrong passwords, then the right one
func TestAuthHandler_AliceScenario(t *testing.T) {
	tc := testutil.NewTestContext(t)

	w := tc.Do(http.MethodPost, "/api/auth/signup", models.SignupRequest{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = tc.Do(http.MethodPost, "/api/auth/signup", models.SignupRequest{Username: "alice", Password: "pw2"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	wrong := models.LoginRequest{Username: "alice", Password: "wrong"}
	for want := 4; want >= 1; want-- {
		w = tc.Do(http.MethodPost, "/api/auth/login", wrong)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp models.LoginErrorResponse
		tc.Decode(w, &resp)
		require.Equal(t, "invalid credentials", resp.Error)
		require.NotNil(t, resp.RemainingAttempts)
		require.Equal(t, want, *resp.RemainingAttempts)
		require.Nil(t, testutil.SessionCookie(w, "token"))
	}

	w = tc.Do(http.MethodPost, "/api/auth/login", wrong)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var locked models.LoginErrorResponse
	tc.Decode(w, &locked)
	require.Equal(t, "too many failed attempts, the account has been deactivated", locked.Error)
	require.Nil(t, locked.RemainingAttempts)

	w = tc.Do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var deactivated models.LoginErrorResponse
	tc.Decode(w, &deactivated)
	require.Equal(t, "account is deactivated, contact an administrator", deactivated.Error)
	require.Nil(t, testutil.SessionCookie(w, "token"))

	account, err := tc.Accounts.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.False(t, account.IsActive)
	require.Equal(t, 5, account.FailedLoginAttempts)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		setupFunc  func(*testutil.TestContext)
		input      any
		wantStatus int
		errMsg     string
	}{
		{
			name: "Success",
			setupFunc: func(tc *testutil.TestContext) {
				tc.CreateAccount("test_user", "test_password")
			},
			input:      models.LoginRequest{Username: "test_user", Password: "test_password"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Account Not Found",
			input:      models.LoginRequest{Username: "nonexistent_user", Password: "test_password"},
			wantStatus: http.StatusUnauthorized,
			errMsg:     "account not found",
		},
		{
			name:       "Invalid Request Format",
			input:      map[string]string{"username": "test_user"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Storage Failure",
			setupFunc: func(tc *testutil.TestContext) {
				tc.CreateAccount("test_user", "test_password")
				tc.Accounts.Err = errors.New("connection reset")
			},
			input:      models.LoginRequest{Username: "test_user", Password: "test_password"},
			wantStatus: http.StatusInternalServerError,
			errMsg:     "failed to process login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			if tt.setupFunc != nil {
				tt.setupFunc(tc)
			}

			w := tc.Do(http.MethodPost, "/api/auth/login", tt.input)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				var errResp models.ErrorResponse
				tc.Decode(w, &errResp)
				if tt.errMsg != "" {
					require.Equal(t, tt.errMsg, errResp.Error)
				}
				require.NotContains(t, errResp.Error, "connection reset")
				return
			}

			var resp models.LoginResponse
			tc.Decode(w, &resp)
			require.Equal(t, "login successful", resp.Message)
			require.NotNil(t, resp.Account)
			require.Equal(t, "test_user", resp.Account.Username)
			require.Zero(t, resp.Account.FailedLoginAttempts)
			require.NotNil(t, resp.Account.LastLoginAttempt)
			require.NotContains(t, w.Body.String(), "password_hash")

			cookie := testutil.SessionCookie(w, "token")
			require.NotNil(t, cookie)
			require.NotEmpty(t, cookie.Value)
			require.True(t, cookie.HttpOnly)
			require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
			require.False(t, cookie.Secure)
			require.Equal(t, "/", cookie.Path)
			require.Equal(t, 24*60*60, cookie.MaxAge)
		})
	}
}

func TestAuthHandler_Login_SecureCookieInProduction(t *testing.T) {
	tc := testutil.NewTestContext(t, testutil.WithConfig(func(cfg *config.Config) {
		cfg.Env = "production"
	}))
	tc.CreateAccount("admin", "admin-password")

	cookie := tc.Login("admin", "admin-password")
	require.True(t, cookie.Secure)
	require.True(t, cookie.HttpOnly)
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	tests := []struct {
		name      string
		cookie    func(*testutil.TestContext) *http.Cookie
		wantValid bool
	}{
		{
			name:      "Valid Session",
			cookie:    func(tc *testutil.TestContext) *http.Cookie { return tc.AdminCookie() },
			wantValid: true,
		},
		{
			name:   "No Cookie",
			cookie: func(*testutil.TestContext) *http.Cookie { return nil },
		},
		{
			name: "Tampered Token",
			cookie: func(tc *testutil.TestContext) *http.Cookie {
				c := tc.AdminCookie()
				c.Value += "x"
				return c
			},
		},
		{
			name: "Garbage Token",
			cookie: func(*testutil.TestContext) *http.Cookie {
				return &http.Cookie{Name: "token", Value: "not-a-token"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)

			var cookies []*http.Cookie
			if c := tt.cookie(tc); c != nil {
				cookies = append(cookies, c)
			}

			w := tc.Do(http.MethodPost, "/api/auth/verify-token", nil, cookies...)
			require.Equal(t, http.StatusOK, w.Code)

			var resp models.VerifyTokenResponse
			tc.Decode(w, &resp)
			require.Equal(t, tt.wantValid, resp.IsValid)
			if tt.wantValid {
				require.NotNil(t, resp.Account)
				require.Equal(t, "admin", resp.Account.Username)
			} else {
				require.Nil(t, resp.Account)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tc := testutil.NewTestContext(t)
	session := tc.AdminCookie()

	w := tc.Do(http.MethodPost, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := testutil.SessionCookie(w, "token")
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
	require.True(t, cleared.HttpOnly)
}

func TestAuthHandler_DeleteProfile(t *testing.T) {
	tests := []struct {
		name       string
		target     func(tc *testutil.TestContext, self *models.Account) string
		anonymous  bool
		wantStatus int
		errMsg     string
	}{
		{
			name: "Delete Other Account",
			target: func(tc *testutil.TestContext, _ *models.Account) string {
				return tc.CreateAccount("bob", "bob-password").ID.String()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Delete Own Account",
			target: func(_ *testutil.TestContext, self *models.Account) string {
				return self.ID.String()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Account Not Found",
			target: func(*testutil.TestContext, *models.Account) string {
				return uuid.NewString()
			},
			wantStatus: http.StatusNotFound,
			errMsg:     "account not found",
		},
		{
			name: "Invalid ID",
			target: func(*testutil.TestContext, *models.Account) string {
				return "not-a-uuid"
			},
			wantStatus: http.StatusBadRequest,
			errMsg:     "invalid account ID",
		},
		{
			name: "Unauthenticated",
			target: func(tc *testutil.TestContext, _ *models.Account) string {
				return tc.CreateAccount("bob", "bob-password").ID.String()
			},
			anonymous:  true,
			wantStatus: http.StatusUnauthorized,
			errMsg:     "authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			self := tc.CreateAccount("admin", "admin-password")
			session := tc.Login("admin", "admin-password")
			id := tt.target(tc, self)

			var cookies []*http.Cookie
			if !tt.anonymous {
				cookies = append(cookies, session)
			}

			w := tc.Do(http.MethodDelete, "/api/auth/profile/"+id, nil, cookies...)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.errMsg != "" {
				var errResp models.ErrorResponse
				tc.Decode(w, &errResp)
				require.Equal(t, tt.errMsg, errResp.Error)
				return
			}

			parsed := uuid.MustParse(id)
			_, err := tc.Accounts.GetByID(context.Background(), parsed)
			require.Error(t, err)

			cleared := testutil.SessionCookie(w, "token")
			if parsed == self.ID {
				require.NotNil(t, cleared)
				require.Negative(t, cleared.MaxAge)

				// A deleted account's token no longer verifies
				w = tc.Do(http.MethodPost, "/api/auth/verify-token", nil, session)
				var resp models.VerifyTokenResponse
				tc.Decode(w, &resp)
				require.False(t, resp.IsValid)
			} else {
				require.Nil(t, cleared)
			}
		})
	}
}

// Package testutil provides utilities for testing
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"boardsite/internal/api/routes"
	"boardsite/internal/auth"
	"boardsite/internal/config"
	"boardsite/internal/models"
	"boardsite/internal/storage"
	"boardsite/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig returns a configuration suitable for tests
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:      "test",
		LogLevel: "debug",
		API:      config.APIConfig{Port: "0"},
		Auth: config.AuthConfig{
			JWTSecret:        "test_secret_key",
			SessionTTL:       24 * time.Hour,
			CookieName:       "token",
			RegistrationOpen: true,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "boardsite_test",
			SSLMode:        "disable",
			MigrationsPath: "migrations",
		},
		Listing: config.ListingConfig{Timezone: "UTC"},
	}
}

// FakePinger satisfies handlers.Pinger. A non-nil Err fails the ping.
type FakePinger struct {
	Err error
}

func (p *FakePinger) PingContext(context.Context) error {
	return p.Err
}

// RecordingNotifier captures inquiry notifications
type RecordingNotifier struct {
	mu       sync.Mutex
	contacts []models.Contact
	sent     chan struct{}
	Err      error
}

// NewRecordingNotifier creates a notifier that records what it is asked to send
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{sent: make(chan struct{}, 16)}
}

func (n *RecordingNotifier) NotifyInquiry(_ context.Context, contact *models.Contact) error {
	n.mu.Lock()
	n.contacts = append(n.contacts, *contact)
	n.mu.Unlock()
	select {
	case n.sent <- struct{}{}:
	default:
	}
	return n.Err
}

// Wait blocks until a notification arrives or the timeout passes
func (n *RecordingNotifier) Wait(timeout time.Duration) bool {
	select {
	case <-n.sent:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Contacts returns the inquiries notified so far
func (n *RecordingNotifier) Contacts() []models.Contact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Contact(nil), n.contacts...)
}

// FakePresigner hands out deterministic upload URLs
type FakePresigner struct {
	Err error
}

func (p *FakePresigner) PresignUpload(_ context.Context, fileName, _ string) (*storage.Upload, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	key := "posts/2024/03/" + fileName
	return &storage.Upload{
		URL:       "https://files.example.com/" + key + "?X-Amz-Signature=test",
		Key:       key,
		ObjectURL: "https://files.example.com/" + key,
		ExpiresIn: 15 * time.Minute,
	}, nil
}

// TestContext holds common test dependencies
type TestContext struct {
	T         *testing.T
	Config    *config.Config
	Accounts  *AccountStore
	Posts     *PostStore
	Contacts  *ContactStore
	Pinger    *FakePinger
	Notifier  *RecordingNotifier
	Presigner *FakePresigner
	Guard     *auth.Guard
	Router    *gin.Engine
}

// Option adjusts a TestContext before the router is built
type Option func(*TestContext)

// WithConfig lets a test change configuration values
func WithConfig(fn func(*config.Config)) Option {
	return func(tc *TestContext) { fn(tc.Config) }
}

// WithoutPresigner builds the router with uploads disabled
func WithoutPresigner() Option {
	return func(tc *TestContext) { tc.Presigner = nil }
}

// NewTestContext creates a new test context with in-memory stores behind the
// real router
func NewTestContext(t *testing.T, opts ...Option) *TestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
	validation.Initialize()

	tc := &TestContext{
		T:         t,
		Config:    LoadTestConfig(t),
		Accounts:  NewAccountStore(),
		Posts:     NewPostStore(),
		Contacts:  NewContactStore(),
		Pinger:    &FakePinger{},
		Notifier:  NewRecordingNotifier(),
		Presigner: &FakePresigner{},
	}
	for _, opt := range opts {
		opt(tc)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tc.Guard = auth.NewGuard(tc.Accounts, auth.NewService(tc.Config.Auth), nil, logger)

	deps := routes.Dependencies{
		DB:       tc.Pinger,
		Posts:    tc.Posts,
		Contacts: tc.Contacts,
		Guard:    tc.Guard,
		Notifier: tc.Notifier,
		Logger:   logger,
	}
	if tc.Presigner != nil {
		deps.Presigner = tc.Presigner
	}
	tc.Router = routes.SetupRoutes(tc.Config, deps)

	return tc
}

// CreateAccount registers an admin account through the guard
func (tc *TestContext) CreateAccount(username, password string) *models.Account {
	tc.T.Helper()
	account, err := tc.Guard.Register(context.Background(), username, password)
	require.NoError(tc.T, err, "Failed to create test account")
	return account
}

// Login authenticates and returns the session cookie
func (tc *TestContext) Login(username, password string) *http.Cookie {
	tc.T.Helper()
	w := tc.Do(http.MethodPost, "/api/auth/login", models.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(tc.T, http.StatusOK, w.Code, w.Body.String())
	cookie := SessionCookie(w, tc.Config.Auth.CookieName)
	require.NotNil(tc.T, cookie, "login did not set a session cookie")
	return cookie
}

// AdminCookie creates an account and logs it in
func (tc *TestContext) AdminCookie() *http.Cookie {
	tc.T.Helper()
	tc.CreateAccount("admin", "admin-password")
	return tc.Login("admin", "admin-password")
}

// Do sends a JSON request through the router. A nil body sends none.
func (tc *TestContext) Do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	tc.T.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(tc.T, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	tc.Router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the response body into v
func (tc *TestContext) Decode(w *httptest.ResponseRecorder, v any) {
	tc.T.Helper()
	require.NoError(tc.T, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// SessionCookie finds the named cookie on a response
func SessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

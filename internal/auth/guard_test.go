package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"boardsite/internal/auth"
	"boardsite/internal/config"
	"boardsite/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type stubResolver struct {
	ip  string
	err error
}

func (r stubResolver) PublicIP(context.Context, string) (string, error) {
	return r.ip, r.err
}

func newGuard(t *testing.T, ips auth.IPResolver) (*auth.Guard, *testutil.AccountStore, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := testutil.NewAccountStore()
	tokens := auth.NewService(config.AuthConfig{
		JWTSecret:  "test_secret_key",
		SessionTTL: 24 * time.Hour,
	}, auth.WithClock(clk.Now))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewGuard(store, tokens, ips, logger), store, clk
}

func TestGuard_Register(t *testing.T) {
	guard, _, _ := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.True(t, account.IsActive)
	require.Zero(t, account.FailedLoginAttempts)
	require.NotEqual(t, "pw1", account.PasswordHash)

	_, err = guard.Register(ctx, "alice", "pw2")
	require.ErrorIs(t, err, auth.ErrAccountExists)
}

func TestGuard_AliceLockout(t *testing.T) {
	guard, store, _ := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
	var invalid *auth.InvalidCredentialsError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 4, invalid.RemainingAttempts)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	for remaining := 3; remaining >= 1; remaining-- {
		_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, remaining, invalid.RemainingAttempts)
	}

	_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
	require.ErrorIs(t, err, auth.ErrLockedOut)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
	require.Equal(t, 5, stored.FailedLoginAttempts)

	_, err = guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.ErrorIs(t, err, auth.ErrDeactivated)
}

func TestGuard_SuccessResetsCounter(t *testing.T) {
	guard, _, _ := newGuard(t, nil)
	ctx := context.Background()

	_, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	session, err := guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.NoError(t, err)
	require.Zero(t, session.Account.FailedLoginAttempts)

	_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
	var invalid *auth.InvalidCredentialsError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 4, invalid.RemainingAttempts)
}

func TestGuard_DeactivatedSkipsPasswordCheck(t *testing.T) {
	guard, store, _ := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	for i := 0; i < auth.MaxFailedAttempts; i++ {
		_, _, err = store.RecordFailedLogin(ctx, account.ID, time.Now(), auth.MaxFailedAttempts)
		require.NoError(t, err)
	}

	_, err = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
	require.ErrorIs(t, err, auth.ErrDeactivated)

	stored, err := store.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, auth.MaxFailedAttempts, stored.FailedLoginAttempts)
}

func TestGuard_LockoutHasNoTimer(t *testing.T) {
	guard, store, clk := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	for i := 0; i < auth.MaxFailedAttempts; i++ {
		_, _ = guard.Authenticate(ctx, "alice", "wrong", auth.LoginContext{})
	}

	clk.Advance(365 * 24 * time.Hour)
	_, err = guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.ErrorIs(t, err, auth.ErrDeactivated)

	store.Reactivate(account.ID)
	_, err = guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.NoError(t, err)
}

func TestGuard_Authenticate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, store *testutil.AccountStore)
		wantErr error
	}{
		{
			name:    "unknown username",
			setup:   func(*testing.T, *testutil.AccountStore) {},
			wantErr: auth.ErrAccountNotFound,
		},
		{
			name: "store failure",
			setup: func(_ *testing.T, store *testutil.AccountStore) {
				store.Err = errors.New("connection refused")
			},
			wantErr: auth.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, store, _ := newGuard(t, nil)
			tt.setup(t, store)

			_, err := guard.Authenticate(context.Background(), "nobody", "pw", auth.LoginContext{})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGuard_PublicIP(t *testing.T) {
	tests := []struct {
		name     string
		resolver auth.IPResolver
		wantIP   *string
	}{
		{name: "no resolver"},
		{name: "lookup fails", resolver: stubResolver{err: errors.New("timeout")}},
		{name: "lookup succeeds", resolver: stubResolver{ip: "93.184.216.34"}, wantIP: testutil.String("93.184.216.34")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, store, _ := newGuard(t, tt.resolver)
			ctx := context.Background()

			_, err := guard.Register(ctx, "alice", "pw1")
			require.NoError(t, err)

			session, err := guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{ClientIP: "10.0.0.2"})
			require.NoError(t, err)
			require.Equal(t, tt.wantIP, session.Account.IPAddress)

			stored, err := store.GetByID(ctx, session.Account.ID)
			require.NoError(t, err)
			require.Equal(t, tt.wantIP, stored.IPAddress)
			require.NotNil(t, stored.LastLoginAttempt)
		})
	}
}

func TestGuard_Verify(t *testing.T) {
	guard, store, clk := newGuard(t, nil)
	ctx := context.Background()

	_, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	session, err := guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.NoError(t, err)
	require.Equal(t, clk.Now().Add(24*time.Hour), session.ExpiresAt)

	clk.Advance(time.Second)
	result := guard.Verify(ctx, session.Token)
	require.True(t, result.Valid)
	require.Equal(t, "alice", result.Account.Username)

	store.Err = errors.New("connection refused")
	result = guard.Verify(ctx, session.Token)
	require.True(t, result.Valid)
	require.Equal(t, session.Account.ID, result.Account.ID)
	store.Err = nil

	clk.Advance(24 * time.Hour)
	require.False(t, guard.Verify(ctx, session.Token).Valid)
}

func TestGuard_Verify_RejectsBadTokens(t *testing.T) {
	guard, _, clk := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	session, err := guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.NoError(t, err)

	other := auth.NewService(config.AuthConfig{JWTSecret: "other_secret"}, auth.WithClock(clk.Now))
	forged, _, err := other.IssueToken(account)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   account.ID.String(),
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":    "",
		"garbage":  "not-a-token",
		"tampered": session.Token + "x",
		"forged":   forged,
		"alg none": none,
	} {
		t.Run(name, func(t *testing.T) {
			result := guard.Verify(ctx, token)
			require.False(t, result.Valid)
			require.Nil(t, result.Account)
		})
	}

	require.NoError(t, guard.DeleteAccount(ctx, account.ID))
	require.False(t, guard.Verify(ctx, session.Token).Valid)
}

func TestGuard_DeleteAccount(t *testing.T) {
	guard, _, _ := newGuard(t, nil)
	ctx := context.Background()

	account, err := guard.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, guard.DeleteAccount(ctx, account.ID))
	require.ErrorIs(t, guard.DeleteAccount(ctx, account.ID), auth.ErrAccountNotFound)

	_, err = guard.Authenticate(ctx, "alice", "pw1", auth.LoginContext{})
	require.ErrorIs(t, err, auth.ErrAccountNotFound)
}

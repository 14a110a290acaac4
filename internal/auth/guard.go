package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginContext describes where a login attempt came from
type LoginContext struct {
	ClientIP  string
	UserAgent string
}

// Session is the result of a successful login
type Session struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}

// VerifyResult reports whether a session token is still usable
type VerifyResult struct {
	Valid   bool
	Account *models.Account
}

// Guard owns account registration, login with lockout, and token checks
type Guard struct {
	accounts repository.AccountRepository
	tokens   *Service
	ips      IPResolver
	logger   *slog.Logger
}

// NewGuard creates a Guard. ips may be nil, in which case no address is recorded.
func NewGuard(accounts repository.AccountRepository, tokens *Service, ips IPResolver, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		accounts: accounts,
		tokens:   tokens,
		ips:      ips,
		logger:   logger.With("component", "auth"),
	}
}

// Tokens returns the token service used by the guard
func (g *Guard) Tokens() *Service {
	return g.tokens
}

// Register creates an active account with a bcrypt hash of password
func (g *Guard) Register(ctx context.Context, username, password string) (*models.Account, error) {
	hash, err := g.tokens.HashPassword(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := g.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrAccountExists
		}
		return nil, storageError("create account", err)
	}

	g.logger.InfoContext(ctx, "account registered", "account_id", account.ID, "username", username)
	return account, nil
}

// Authenticate checks a username and password. Every mismatch increments the
// account's failure counter and the fifth consecutive one deactivates it.
func (g *Guard) Authenticate(ctx context.Context, username, password string, lc LoginContext) (*Session, error) {
	account, err := g.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, storageError("get account", err)
	}

	if !account.IsActive {
		g.logger.WarnContext(ctx, "login on deactivated account",
			"account_id", account.ID, "client_ip", lc.ClientIP)
		return nil, ErrDeactivated
	}

	now := g.tokens.Now()

	if err := g.tokens.ComparePasswords(account.PasswordHash, password); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("compare password: %w", err)
		}
		return nil, g.recordFailure(ctx, account, now, lc)
	}

	ip := g.resolveIP(ctx, lc.ClientIP)
	if err := g.accounts.RecordSuccessfulLogin(ctx, account.ID, now, ip); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, storageError("record login", err)
	}

	account.FailedLoginAttempts = 0
	account.LastLoginAttempt = &now
	if ip != nil {
		account.IPAddress = ip
	}

	token, expiresAt, err := g.tokens.IssueToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	g.logger.InfoContext(ctx, "login succeeded",
		"account_id", account.ID, "client_ip", lc.ClientIP, "user_agent", lc.UserAgent)

	return &Session{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

func (g *Guard) recordFailure(ctx context.Context, account *models.Account, at time.Time, lc LoginContext) error {
	attempts, active, err := g.accounts.RecordFailedLogin(ctx, account.ID, at, MaxFailedAttempts)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return storageError("record failed login", err)
	}

	g.logger.WarnContext(ctx, "login failed",
		"account_id", account.ID, "attempts", attempts, "client_ip", lc.ClientIP)

	if attempts >= MaxFailedAttempts || !active {
		g.logger.WarnContext(ctx, "account deactivated", "account_id", account.ID)
		return ErrLockedOut
	}
	return &InvalidCredentialsError{RemainingAttempts: MaxFailedAttempts - attempts}
}

// resolveIP never fails the login; lookup errors are logged and dropped
func (g *Guard) resolveIP(ctx context.Context, clientIP string) *string {
	if g.ips == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ip, err := g.ips.PublicIP(lookupCtx, clientIP)
	if err != nil {
		g.logger.DebugContext(ctx, "public ip lookup failed", "client_ip", clientIP, "error", err)
		return nil
	}
	return &ip
}

// Verify reports whether token carries a valid signature and has not expired.
// The account is re-read for display; if it no longer exists the token is
// treated as invalid.
func (g *Guard) Verify(ctx context.Context, token string) VerifyResult {
	claims, err := g.tokens.ParseToken(token)
	if err != nil {
		return VerifyResult{}
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return VerifyResult{}
	}

	account, err := g.accounts.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return VerifyResult{}
	case err != nil:
		g.logger.WarnContext(ctx, "account lookup failed during verify", "account_id", id, "error", err)
		return VerifyResult{
			Valid:   true,
			Account: &models.Account{ID: id, Username: claims.Username, IsActive: true},
		}
	}

	return VerifyResult{Valid: true, Account: account}
}

// DeleteAccount removes the account permanently
func (g *Guard) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := g.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return storageError("delete account", err)
	}

	g.logger.InfoContext(ctx, "account deleted", "account_id", id)
	return nil
}

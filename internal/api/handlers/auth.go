package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"boardsite/internal/auth"
	"boardsite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler handles HTTP requests for admin accounts and sessions
type AuthHandler struct {
	guard            *auth.Guard
	cookie           CookieConfig
	registrationOpen bool
	logger           *slog.Logger
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(guard *auth.Guard, cookie CookieConfig, registrationOpen bool, logger *slog.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = guard.Tokens().TTL()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		guard:            guard,
		cookie:           cookie,
		registrationOpen: registrationOpen,
		logger:           logger,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

// Signup godoc
// @Summary Register an admin account
// @Description Create a new admin account when registration is open
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Account credentials"
// @Success 201 {object} models.Account
// @Failure 400 {object} models.ErrorResponse "Invalid input or username taken"
// @Failure 403 {object} models.ErrorResponse "Registration closed"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	if !h.registrationOpen {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "registration is closed"})
		return
	}

	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	account, err := h.guard.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "username already exists"})
		case errors.Is(err, auth.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "password is too long"})
		default:
			h.logger.ErrorContext(c.Request.Context(), "signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, account)
}

// Login godoc
// @Summary Admin login
// @Description Authenticate and receive the session cookie. Five consecutive failures deactivate the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.LoginErrorResponse "Rejected login"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.guard.Authenticate(c.Request.Context(), req.Username, req.Password, auth.LoginContext{
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		var invalid *auth.InvalidCredentialsError
		switch {
		case errors.As(err, &invalid):
			remaining := invalid.RemainingAttempts
			c.JSON(http.StatusUnauthorized, models.LoginErrorResponse{
				Error:             "invalid credentials",
				RemainingAttempts: &remaining,
			})
		case errors.Is(err, auth.ErrLockedOut):
			c.JSON(http.StatusUnauthorized, models.LoginErrorResponse{
				Error: "too many failed attempts, the account has been deactivated",
			})
		case errors.Is(err, auth.ErrDeactivated):
			c.JSON(http.StatusUnauthorized, models.LoginErrorResponse{
				Error: "account is deactivated, contact an administrator",
			})
		case errors.Is(err, auth.ErrAccountNotFound):
			c.JSON(http.StatusUnauthorized, models.LoginErrorResponse{Error: "account not found"})
		default:
			h.logger.ErrorContext(c.Request.Context(), "login failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process login"})
		}
		return
	}

	h.setSessionCookie(c, session.Token, int(h.cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, models.LoginResponse{
		Message: "login successful",
		Account: session.Account,
	})
}

// VerifyToken godoc
// @Summary Verify the session cookie
// @Description Reports whether the session cookie carries a valid, unexpired token
// @Tags auth
// @Produce json
// @Success 200 {object} models.VerifyTokenResponse
// @Router /auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	token := auth.TokenFromRequest(c, h.cookie.Name)
	if token == "" {
		c.JSON(http.StatusOK, models.VerifyTokenResponse{IsValid: false})
		return
	}

	result := h.guard.Verify(c.Request.Context(), token)
	c.JSON(http.StatusOK, models.VerifyTokenResponse{
		IsValid: result.Valid,
		Account: result.Account,
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "logged out"})
}

// DeleteProfile godoc
// @Summary Delete an admin account
// @Description Permanently removes the account
// @Tags auth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid account ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Account not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /auth/profile/{id} [delete]
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid account ID"})
		return
	}

	if err := h.guard.DeleteAccount(c.Request.Context(), id); err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "account not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete account failed", "account_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete account"})
		return
	}

	if current := auth.GetAccountFromContext(c); current != nil && current.ID == id {
		h.setSessionCookie(c, "", -1)
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "account deleted"})
}

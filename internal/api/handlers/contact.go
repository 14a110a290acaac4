package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"boardsite/internal/email"
	"boardsite/internal/models"
	"boardsite/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const notifyTimeout = 30 * time.Second

// ContactHandler handles HTTP requests for contact inquiries
type ContactHandler struct {
	contactRepo repository.ContactRepository
	notifier    email.Notifier
	location    *time.Location
	logger      *slog.Logger
}

// NewContactHandler creates a new inquiry handler. notifier may be nil.
func NewContactHandler(contactRepo repository.ContactRepository, notifier email.Notifier, location *time.Location, logger *slog.Logger) *ContactHandler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{
		contactRepo: contactRepo,
		notifier:    notifier,
		location:    location,
		logger:      logger,
	}
}

// CreateContact godoc
// @Summary Submit an inquiry
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.CreateContactRequest true "Inquiry"
// @Success 201 {object} models.Contact
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	contact := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: req.Message,
		Status:  models.ContactStatusPending,
	}
	if err := h.contactRepo.Create(c.Request.Context(), contact); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create inquiry failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to submit inquiry"})
		return
	}

	if h.notifier != nil {
		submitted := *contact
		go h.notify(context.WithoutCancel(c.Request.Context()), &submitted)
	}

	c.JSON(http.StatusCreated, contact)
}

// notify is best effort; the inquiry is already stored
func (h *ContactHandler) notify(ctx context.Context, contact *models.Contact) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := h.notifier.NotifyInquiry(ctx, contact); err != nil {
		h.logger.WarnContext(ctx, "inquiry notification failed", "contact_id", contact.ID, "error", err)
	}
}

// ListContacts godoc
// @Summary List inquiries
// @Description Search, filter by status and paginate inquiries, newest first
// @Tags contacts
// @Produce json
// @Param search query string false "Search term"
// @Param field query string false "Search field (name, email, phone, message)" default(name)
// @Param status query string false "Status filter (all, pending, in progress, completed)" default(all)
// @Param start_date query string false "First creation day (YYYY-MM-DD)"
// @Param end_date query string false "Last creation day (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} models.PageResponse[models.Contact]
// @Failure 400 {object} models.ErrorResponse "Invalid query"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	q, ok := bindListQuery(c, models.ContactFieldName, h.location)
	if !ok {
		return
	}

	contacts, err := h.contactRepo.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list inquiries failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list inquiries"})
		return
	}

	writePage(c, contacts, q)
}

// UpdateContactStatus godoc
// @Summary Change an inquiry's status
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body models.UpdateContactStatusRequest true "New status"
// @Success 200 {object} models.Contact
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Inquiry not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContactStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry ID"})
		return
	}

	var req models.UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	contact, err := h.contactRepo.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "inquiry not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update inquiry failed", "contact_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update inquiry"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary Delete an inquiry
// @Tags contacts
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid inquiry ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Inquiry not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Security CookieAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid inquiry ID"})
		return
	}

	if err := h.contactRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "inquiry not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete inquiry failed", "contact_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete inquiry"})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "inquiry deleted"})
}

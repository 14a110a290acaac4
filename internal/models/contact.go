package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the processing state of an inquiry
type ContactStatus string

// Inquiry states. Any state may be changed to any other.
const (
	ContactStatusPending    ContactStatus = "pending"
	ContactStatusInProgress ContactStatus = "in progress"
	ContactStatusCompleted  ContactStatus = "completed"
)

// Valid reports whether s is a known status
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusPending, ContactStatusInProgress, ContactStatusCompleted:
		return true
	}
	return false
}

// Contact represents an inquiry submitted through the public contact form
type Contact struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Contact search fields
const (
	ContactFieldName    = "name"
	ContactFieldEmail   = "email"
	ContactFieldPhone   = "phone"
	ContactFieldMessage = "message"
)

// ContactSearchFields lists the fields an inquiry listing may be searched by
var ContactSearchFields = []string{ContactFieldName, ContactFieldEmail, ContactFieldPhone, ContactFieldMessage}

// FieldValue returns the searchable text of the named field
func (c Contact) FieldValue(field string) (string, bool) {
	switch field {
	case ContactFieldName:
		return c.Name, true
	case ContactFieldEmail:
		return c.Email, true
	case ContactFieldPhone:
		return c.Phone, true
	case ContactFieldMessage:
		return c.Message, true
	}
	return "", false
}

// ItemStatus returns the inquiry status
func (c Contact) ItemStatus() string { return string(c.Status) }

// CreatedTime returns the submission timestamp
func (c Contact) CreatedTime() time.Time { return c.CreatedAt }

// ItemKey returns the stable identifier used to break ordering ties
func (c Contact) ItemKey() string { return c.ID.String() }

// CreateContactRequest represents a public inquiry submission
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required,max=100,nospaces"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required,max=30"`
	Message string `json:"message" binding:"required,max=5000"`
}

// UpdateContactStatusRequest represents an admin status change
type UpdateContactStatusRequest struct {
	Status ContactStatus `json:"status" binding:"required,contactstatus"`
}

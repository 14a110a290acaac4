// Package email sends operator notifications over SMTP
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"sync"
	"time"

	"boardsite/internal/config"
	"boardsite/internal/models"
)

// ErrNotConfigured indicates SMTP settings are incomplete
var ErrNotConfigured = errors.New("incomplete email configuration")

// Notifier is told about every new inquiry
type Notifier interface {
	NotifyInquiry(ctx context.Context, contact *models.Contact) error
}

// Service implements Notifier with a reused SMTP connection
type Service struct {
	config config.EmailConfig
	logger *slog.Logger
	client *smtp.Client
	mu     sync.Mutex
	send   func(to []string, msg []byte) error
}

// NewService creates an SMTP notifier
func NewService(cfg config.EmailConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		config: cfg,
		logger: logger.With("component", "email"),
	}
	s.send = s.sendMail
	return s
}

// dialSMTP establishes an SMTP connection
func (s *Service) dialSMTP() (*smtp.Client, error) {
	// Reuse existing connection if it's still alive
	if s.client != nil {
		if err := s.client.Noop(); err == nil {
			return s.client, nil
		}
		s.client.Close()
		s.client = nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.config.SMTPUsername != "" {
		if err := client.Auth(smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to authenticate with SMTP server: %w", err)
		}
	}

	s.client = client
	return client, nil
}

// sendMail sends an email using a pooled SMTP connection
func (s *Service) sendMail(to []string, msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.dialSMTP()
	if err != nil {
		return err
	}

	if err := client.Mail(s.config.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}

	return nil
}

// Close closes the SMTP connection
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		err := s.client.Quit()
		s.client = nil
		return err
	}
	return nil
}

var inquiryTemplate = template.Must(template.New("inquiry").Parse(`
		<h2>New inquiry from {{.Name}}</h2>
		<p><strong>Email:</strong> {{.Email}}<br>
		<strong>Phone:</strong> {{.Phone}}<br>
		<strong>Received:</strong> {{.Received}}</p>
		<p>{{.Message}}</p>
	`))

func (s *Service) buildInquiryMessage(contact *models.Contact) ([]byte, error) {
	var body bytes.Buffer
	if err := inquiryTemplate.Execute(&body, map[string]string{
		"Name":     contact.Name,
		"Email":    contact.Email,
		"Phone":    contact.Phone,
		"Message":  contact.Message,
		"Received": contact.CreatedAt.Format(time.RFC1123),
	}); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", s.config.NotifyTo, s.config.FromAddress, "New inquiry received", body.String())
	return []byte(msg), nil
}

// NotifyInquiry emails the configured operator address about contact
func (s *Service) NotifyInquiry(ctx context.Context, contact *models.Contact) error {
	if s.config.SMTPHost == "" || s.config.SMTPPort == 0 || s.config.FromAddress == "" || s.config.NotifyTo == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.buildInquiryMessage(contact)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "sending inquiry notification",
		"contact_id", contact.ID, "smtp_host", s.config.SMTPHost)
	if err := s.send([]string{s.config.NotifyTo}, msg); err != nil {
		return fmt.Errorf("failed to send inquiry notification: %w", err)
	}
	return nil
}

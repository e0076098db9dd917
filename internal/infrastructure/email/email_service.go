package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	config    config.EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates *template.Template
}

// NewEmailService returns a SendGrid sender, or a no-op sender when no API key is configured.
func NewEmailService(cfg config.EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	if cfg.SendGridAPIKey == "" {
		if logger != nil {
			logger.Info("email: SENDGRID_API_KEY not set, outbound mail disabled")
		}
		return NoopEmailService{}, nil
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &EmailService{
		config:    cfg,
		logger:    logger,
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		templates: templates,
	}, nil
}

func (e *EmailService) sendEmail(ctx context.Context, to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", htmlContent)

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("email: send failed")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d", response.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{"to": to, "subject": subject, "status_code": response.StatusCode}).Info("email: sent")
	}
	return nil
}

// WelcomeEmailData holds data for the welcome template
type WelcomeEmailData struct {
	FullName string
	City     string
	AppURL   string
}

func (e *EmailService) SendWelcomeEmail(ctx context.Context, email, fullName, city string) error {
	var buf bytes.Buffer
	data := WelcomeEmailData{FullName: fullName, City: city, AppURL: e.config.BaseURL}
	if err := e.templates.ExecuteTemplate(&buf, "welcome.html", data); err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}
	return e.sendEmail(ctx, email, "Welcome to PetPal", buf.String())
}

// NoopEmailService drops every message.
type NoopEmailService struct{}

func (NoopEmailService) SendWelcomeEmail(context.Context, string, string, string) error { return nil }

package ports

import (
	"context"
)

// EmailService defines the interface for transactional email
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, email, fullName, city string) error
}

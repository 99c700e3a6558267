package notification

import (
	"context"
	"log"

	"gymstudio/internal/domain"
)

// Routing keys for the back-office consumer.
const (
	KeyRegistrationConfirmed = "registration.confirmed"
)

// ConfirmationMessage is the payload published when a registration is
// confirmed, either directly for a free event or after payment.
type ConfirmationMessage struct {
	RegistrationID int64  `json:"registration_id"`
	EventID        int64  `json:"event_id"`
	EventTitle     string `json:"event_title"`
	EventSlug      string `json:"event_slug"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
}

// Sender delivers confirmation messages to whoever sends the actual SMS
// or email. Callers treat delivery as best-effort.
type Sender interface {
	RegistrationConfirmed(ctx context.Context, reg *domain.Registration, ev *domain.Event) error
}

// LogSender writes confirmations to the process log. Used in development
// and as the fallback when no broker is configured.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) RegistrationConfirmed(_ context.Context, reg *domain.Registration, ev *domain.Event) error {
	log.Printf("notify registration confirmed reg_id=%d event=%q phone=%s", reg.ID, ev.Slug, reg.Phone)
	return nil
}

func buildConfirmation(reg *domain.Registration, ev *domain.Event) ConfirmationMessage {
	return ConfirmationMessage{
		RegistrationID: reg.ID,
		EventID:        ev.ID,
		EventTitle:     ev.Title,
		EventSlug:      ev.Slug,
		Name:           reg.Name,
		Phone:          reg.Phone,
		Email:          reg.Email,
	}
}

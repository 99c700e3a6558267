package payment

import (
	"context"
	"time"

	"gymstudio/internal/domain"
)

type registrationStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Registration, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RegistrationStatus) error
	LinkPayment(ctx context.Context, id, paymentID int64) error
}

type eventReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

type paymentStore interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	MarkPaidIdempotent(ctx context.Context, orderID, rawBody string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID, rawBody, reason string) error
}

type notificationSender interface {
	RegistrationConfirmed(ctx context.Context, reg *domain.Registration, ev *domain.Event) error
}

package registration

import (
	"context"

	"gymstudio/internal/domain"
)

type EventRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
}

type RegistrationRepository interface {
	CreateWithinCapacity(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id int64) (*domain.Registration, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Registration, error)
}

type NotificationSender interface {
	RegistrationConfirmed(ctx context.Context, reg *domain.Registration, ev *domain.Event) error
}

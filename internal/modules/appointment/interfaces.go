package appointment

import (
	"context"

	"gymstudio/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]domain.Appointment, error)
	TakenSlots(ctx context.Context, date string) ([]string, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"gymstudio/internal/domain"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create relies on idx_no_double_booking (date, start_time) for slot
// exclusivity; callers detect the unique violation via IsUniqueViolation
// rather than racing a prior existence check.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("start_time").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TakenSlots returns the start times already booked on a date, for rendering
// availability. Advisory only: the unique index remains the arbiter.
func (r *AppointmentRepository) TakenSlots(ctx context.Context, date string) ([]string, error) {
	var starts []string
	err := r.db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("date = ?", date).
		Order("start_time").
		Pluck("start_time", &starts).Error
	if err != nil {
		return nil, err
	}
	return starts, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymstudio/internal/domain"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// activeStatuses are the registration states that consume capacity.
var activeStatuses = []domain.RegistrationStatus{
	domain.RegistrationPending,
	domain.RegistrationConfirmed,
}

// CreateWithinCapacity inserts reg only if the event still has room. The count
// and the insert run inside one transaction with the event row locked FOR
// UPDATE on Postgres, so two concurrent claims on the last remaining place
// cannot both pass the count. SQLite serializes writers on its own, which is
// why the locking clause is applied per dialect instead of unconditionally.
func (r *RegistrationRepository) CreateWithinCapacity(ctx context.Context, reg *domain.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var ev domain.Event
		if err := q.First(&ev, reg.EventID).Error; err != nil {
			return err
		}
		if !ev.Active {
			return ErrEventInactive
		}

		if ev.MaxCapacity != nil {
			var claimed int64
			err := tx.Model(&domain.Registration{}).
				Where("event_id = ? AND status IN ?", reg.EventID, activeStatuses).
				Count(&claimed).Error
			if err != nil {
				return err
			}
			if claimed >= int64(*ev.MaxCapacity) {
				return ErrCapacityExceeded
			}
		}

		return tx.Create(reg).Error
	})
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	var reg domain.Registration
	if err := r.db.WithContext(ctx).First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Registration, error) {
	var reg domain.Registration
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id int64, status domain.RegistrationStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// LinkPayment attaches the payment row created for this registration.
func (r *RegistrationRepository) LinkPayment(ctx context.Context, id, paymentID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("id = ?", id).
		Update("payment_id", paymentID).Error
}

func (r *RegistrationRepository) CountActiveForEvent(ctx context.Context, eventID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, activeStatuses).
		Count(&cnt).Error
	return cnt, err
}

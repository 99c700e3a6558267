package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymstudio/internal/domain"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateCheckIn inserts a new open session unless the client already has one.
// The existence check and the insert share a transaction; on Postgres the
// client row is locked so concurrent check-ins for the same client serialize.
func (r *AttendanceRepository) CreateCheckIn(ctx context.Context, l *domain.AttendanceLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var client domain.Client
		if err := q.First(&client, l.ClientID).Error; err != nil {
			return err
		}

		var open int64
		err := tx.Model(&domain.AttendanceLog{}).
			Where("client_id = ? AND check_out_at IS NULL", l.ClientID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrOpenSessionExists
		}

		return tx.Create(l).Error
	})
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*domain.AttendanceLog, error) {
	var l domain.AttendanceLog
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// Close sets the check-out time on an open log. The guarded update makes a
// double check-out detectable without a separate read.
func (r *AttendanceRepository) Close(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.AttendanceLog{}).
		Where("id = ? AND check_out_at IS NULL", id).
		Update("check_out_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&domain.AttendanceLog{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrAlreadyClosed
	}
	return nil
}

func (r *AttendanceRepository) GetOpenForClient(ctx context.Context, clientID int64) (*domain.AttendanceLog, error) {
	var l domain.AttendanceLog
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND check_out_at IS NULL", clientID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListBetween returns sessions checked in inside [from, to), client preloaded,
// oldest first. Used by the CSV export.
func (r *AttendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceLog, error) {
	var out []domain.AttendanceLog
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("check_in_at >= ? AND check_in_at < ?", from, to).
		Order("check_in_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

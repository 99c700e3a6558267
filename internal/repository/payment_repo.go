package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymstudio/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("provider_order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPaidIdempotent transitions the payment to paid exactly once. Returns
// changed=false when the row was already paid, which callers treat as no-op
// success so client callbacks and gateway webhooks can both report the same
// outcome.
func (r *PaymentRepository) MarkPaidIdempotent(ctx context.Context, orderID, rawBody string, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var p domain.Payment
		if err := q.Where("provider_order_id = ?", orderID).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.PaymentPaid {
			changed = false
			return nil
		}

		res := tx.Model(&domain.Payment{}).
			Where("provider_order_id = ?", orderID).
			Updates(map[string]interface{}{
				"status":               domain.PaymentPaid,
				"raw_callback_payload": rawBody,
				"paid_at":              paidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		return nil
	})
	return changed, err
}

// MarkFailed records a terminal failure. Guarded so an already-paid payment is
// never demoted by a late or forged failure report.
func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID, rawBody, reason string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("provider_order_id = ? AND status <> ?", orderID, domain.PaymentPaid).
		Updates(map[string]interface{}{
			"status":               domain.PaymentFailed,
			"raw_callback_payload": rawBody,
			"failure_reason":       reason,
		}).Error
}

// ListCreatedBefore returns payments stuck in created older than the cutoff.
// Feed for the reconciliation job that asks the gateway what really happened.
func (r *PaymentRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.PaymentCreated, cutoff).
		Order("created_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

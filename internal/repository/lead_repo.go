package repository

import (
	"context"

	"gorm.io/gorm"

	"gymstudio/internal/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LeadRepository) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	var out []domain.Lead
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]domain.Lead, error) {
	var out []domain.Lead
	if err := r.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

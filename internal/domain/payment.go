package domain

import "time"

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records one attempted external charge. It is mutated exactly once to
// a terminal status and kept for audit even if the registration that created
// it is later cancelled or deleted, so there is no cascading foreign key.
type Payment struct {
	ID                 int64         `gorm:"primaryKey" json:"id"`
	Reference          string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Provider           string        `gorm:"type:varchar(40);not null" json:"provider"`
	ProviderOrderID    string        `gorm:"type:varchar(64);uniqueIndex" json:"provider_order_id"`
	Status             PaymentStatus `gorm:"type:varchar(20);default:'created';index" json:"status"`
	Amount             int64         `gorm:"not null" json:"amount"` // minor units
	Currency           string        `gorm:"type:varchar(8);not null" json:"currency"`
	Receipt            string        `gorm:"type:varchar(40)" json:"receipt"`
	RawOrderPayload    string        `gorm:"type:text" json:"-"`
	RawCallbackPayload string        `gorm:"type:text" json:"-"`
	FailureReason      string        `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt             *time.Time    `json:"paid_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

package domain

import "time"

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationFailed    RegistrationStatus = "failed"
)

// IsTerminal reports whether no further automatic transition applies.
// Cancelled and failed registrations do not count against event capacity.
func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationConfirmed || s == RegistrationCancelled || s == RegistrationFailed
}

// Attribution carries marketing source metadata. Opaque to the booking core,
// stored verbatim for the CRM side.
type Attribution struct {
	UTMSource   string `gorm:"type:varchar(120)" json:"utm_source,omitempty"`
	UTMMedium   string `gorm:"type:varchar(120)" json:"utm_medium,omitempty"`
	UTMCampaign string `gorm:"type:varchar(120)" json:"utm_campaign,omitempty"`
	UTMContent  string `gorm:"type:varchar(120)" json:"utm_content,omitempty"`
	Referrer    string `gorm:"type:text" json:"referrer,omitempty"`
}

// Registration is one attendee's claim on an Event. Created pending when the
// event is priced, confirmed directly when it is free.
type Registration struct {
	ID             int64              `gorm:"primaryKey" json:"id"`
	EventID        int64              `gorm:"index;not null" json:"event_id"`
	Name           string             `gorm:"type:varchar(150);not null" json:"name"`
	Phone          string             `gorm:"type:varchar(32);not null" json:"phone"`
	Email          string             `gorm:"type:varchar(200)" json:"email,omitempty"`
	City           string             `gorm:"type:varchar(120)" json:"city,omitempty"`
	Status         RegistrationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentID      *int64             `gorm:"index" json:"payment_id,omitempty"`
	IdempotencyKey *string            `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	Attribution    Attribution        `gorm:"embedded;embeddedPrefix:attr_" json:"attribution"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

func (Registration) TableName() string { return "event_registrations" }

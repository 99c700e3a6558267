package domain

import "time"

// Event is a scheduled, publicly bookable activity (group class, workshop,
// open day). Price is in whole currency units; MaxCapacity nil means unlimited.
type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title" validate:"required"`
	Slug        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug" validate:"required"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Price       int64     `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	MaxCapacity *int      `json:"max_capacity,omitempty"`
	Active      bool      `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// IsFree reports whether registrations for this event skip the payment flow.
func (e *Event) IsFree() bool { return e.Price == 0 }

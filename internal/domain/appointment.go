package domain

import "time"

type AppointmentType string

const (
	AppointmentTraining     AppointmentType = "training"
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentAssessment   AppointmentType = "assessment"
)

// Appointment is a single-client, single-slot booking. Date and times are kept
// as the calendar strings the slot grid speaks ("2006-01-02", "15:04"); the
// composite unique index is the slot-exclusivity arbiter under concurrency.
type Appointment struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	ClientID  *int64          `gorm:"index" json:"client_id,omitempty"`
	Title     string          `gorm:"type:varchar(200);not null" json:"title"`
	Type      AppointmentType `gorm:"type:varchar(30);default:'training'" json:"type"`
	Date      string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_no_double_booking" json:"date"`
	StartTime string          `gorm:"type:varchar(5);not null;uniqueIndex:idx_no_double_booking" json:"start_time"`
	EndTime   string          `gorm:"type:varchar(5);not null" json:"end_time"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Appointment) TableName() string { return "appointments" }

package domain

import "time"

// AttendanceLog is one check-in/check-out session. A nil CheckOutAt means the
// client is currently in session; at most one such row may exist per client.
type AttendanceLog struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	AppointmentID *int64     `gorm:"index" json:"appointment_id,omitempty"`
	ClientID      int64      `gorm:"index;not null" json:"client_id"`
	CheckInAt     time.Time  `gorm:"not null" json:"check_in_at"`
	CheckOutAt    *time.Time `json:"check_out_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (AttendanceLog) TableName() string { return "attendance_logs" }

// Open reports whether the session has not been checked out yet.
func (l *AttendanceLog) Open() bool { return l.CheckOutAt == nil }

// Duration is checkout minus checkin, zero while the session is open.
// Reporting only; it never feeds back into the appointment.
func (l *AttendanceLog) Duration() time.Duration {
	if l.CheckOutAt == nil {
		return 0
	}
	return l.CheckOutAt.Sub(l.CheckInAt)
}

package attendance

import (
	"context"
	"time"

	"gymstudio/internal/domain"
)

type AttendanceRepository interface {
	CreateCheckIn(ctx context.Context, l *domain.AttendanceLog) error
	GetByID(ctx context.Context, id int64) (*domain.AttendanceLog, error)
	Close(ctx context.Context, id int64, at time.Time) error
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceLog, error)
}

type AppointmentReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// FeedBroadcaster pushes attendance events to connected front-desk
// dashboards. Best-effort; never blocks the state transition.
type FeedBroadcaster interface {
	Broadcast(event string, payload interface{})
}

package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"

	"gymstudio/internal/domain"
	"gymstudio/internal/repository"
)

// exportTimeLayout is the human-readable stamp used in CSV exports. The
// front desk opens these in a spreadsheet, so no RFC 3339 here.
const exportTimeLayout = "02 Jan 2006 15:04"

type Service struct {
	logs         AttendanceRepository
	appointments AppointmentReader
	feed         FeedBroadcaster
	now          func() time.Time
	loggerf      func(format string, args ...interface{})
}

func NewService(logs AttendanceRepository, appointments AppointmentReader, feed FeedBroadcaster, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		logs:         logs,
		appointments: appointments,
		feed:         feed,
		now:          time.Now,
		loggerf:      loggerf,
	}
}

// CheckIn opens a session for the client. A client with an open session
// cannot check in again until that session is closed.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*domain.AttendanceLog, error) {
	if req.ClientID <= 0 {
		return nil, ErrValidation
	}
	if req.AppointmentID != nil {
		if _, err := s.appointments.GetByID(ctx, *req.AppointmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAppointmentNotFound
			}
			return nil, fmt.Errorf("load appointment: %w", err)
		}
	}

	log := &domain.AttendanceLog{
		ClientID:      req.ClientID,
		AppointmentID: req.AppointmentID,
		CheckInAt:     s.now().UTC(),
	}
	if err := s.logs.CreateCheckIn(ctx, log); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrClientNotFound
		case errors.Is(err, repository.ErrOpenSessionExists):
			return nil, ErrAlreadyCheckedIn
		default:
			return nil, fmt.Errorf("create check-in: %w", err)
		}
	}

	s.loggerf("attendance check-in log_id=%d client_id=%d", log.ID, log.ClientID)
	s.broadcast("attendance.checkin", log)
	return log, nil
}

// CheckOut closes the session. Closing an already closed session is an
// error, not a silent overwrite: the first check-out time stands.
func (s *Service) CheckOut(ctx context.Context, logID int64) (*domain.AttendanceLog, error) {
	if logID <= 0 {
		return nil, ErrValidation
	}
	if err := s.logs.Close(ctx, logID, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrAlreadyClosed):
			return nil, ErrAlreadyClosed
		default:
			return nil, fmt.Errorf("close attendance log: %w", err)
		}
	}

	log, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("reload attendance log: %w", err)
	}

	s.loggerf("attendance check-out log_id=%d client_id=%d duration=%s", log.ID, log.ClientID, log.Duration())
	s.broadcast("attendance.checkout", log)
	return log, nil
}

// ExportCSV streams all sessions checked in inside [from, to) as CSV.
// Open sessions export with an empty check-out column and zero duration.
func (s *Service) ExportCSV(ctx context.Context, from, to time.Time, w io.Writer) error {
	if !to.After(from) {
		return ErrValidation
	}
	logs, err := s.logs.ListBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list attendance logs: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"log_id", "client_id", "client_name", "appointment_id", "check_in", "check_out", "duration_minutes"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range logs {
		l := &logs[i]
		name := ""
		if l.Client != nil {
			name = l.Client.Name
		}
		apptID := ""
		if l.AppointmentID != nil {
			apptID = strconv.FormatInt(*l.AppointmentID, 10)
		}
		checkOut := ""
		minutes := "0"
		if l.CheckOutAt != nil {
			checkOut = l.CheckOutAt.Format(exportTimeLayout)
			minutes = strconv.Itoa(int(l.Duration().Minutes()))
		}
		row := []string{
			strconv.FormatInt(l.ID, 10),
			strconv.FormatInt(l.ClientID, 10),
			name,
			apptID,
			l.CheckInAt.Format(exportTimeLayout),
			checkOut,
			minutes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) broadcast(event string, log *domain.AttendanceLog) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(event, log)
}

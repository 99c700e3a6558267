package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"gymstudio/internal/domain"
	"gymstudio/internal/modules/schedule"
	"gymstudio/internal/repository"
)

type Service struct {
	appointments AppointmentRepository
	clients      ClientRepository
}

func NewService(appointments AppointmentRepository, clients ClientRepository) *Service {
	return &Service{
		appointments: appointments,
		clients:      clients,
	}
}

// Book creates a single-slot appointment. The start time is re-validated
// against the slot grid here no matter what the caller's UI showed, and the
// end time is always derived server-side. Slot exclusivity comes from the
// unique index, so a lost race surfaces as ErrSlotTaken rather than a
// double booking.
func (s *Service) Book(ctx context.Context, req BookRequest) (*domain.Appointment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, ErrValidation
	}
	if !schedule.IsValid(req.Date, req.StartTime) {
		return nil, ErrSlotInvalid
	}

	apptType := domain.AppointmentType(req.Type)
	if apptType == "" {
		apptType = domain.AppointmentTraining
	}
	switch apptType {
	case domain.AppointmentTraining, domain.AppointmentConsultation, domain.AppointmentAssessment:
	default:
		return nil, ErrValidation
	}

	if req.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	a := &domain.Appointment{
		ClientID:  req.ClientID,
		Title:     strings.TrimSpace(req.Title),
		Type:      apptType,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   schedule.EndTime(req.StartTime),
		Notes:     req.Notes,
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		if repository.IsUniqueViolation(err, "idx_no_double_booking") {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	return a, nil
}

// Availability returns the full grid for a date with taken slots marked.
// Advisory for rendering; Book re-checks everything.
func (s *Service) Availability(ctx context.Context, date string) (*AvailabilityResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrValidation
	}

	taken, err := s.appointments.TakenSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]bool, len(taken))
	for _, t := range taken {
		busy[t] = true
	}

	grid := schedule.SlotsFor(date)
	slots := make([]Slot, 0, len(grid))
	for _, start := range grid {
		slots = append(slots, Slot{
			Start:     start,
			End:       schedule.EndTime(start),
			Available: !busy[start],
		})
	}

	return &AvailabilityResponse{Date: date, Slots: slots}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrValidation
	}
	return s.appointments.ListByDate(ctx, date)
}

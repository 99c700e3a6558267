package registration

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymstudio/internal/domain"
	"gymstudio/internal/repository"
)

type Service struct {
	events EventRepository
	regs   RegistrationRepository
	notifs NotificationSender
}

func NewService(events EventRepository, regs RegistrationRepository, notifs NotificationSender) *Service {
	return &Service{
		events: events,
		regs:   regs,
		notifs: notifs,
	}
}

// Register claims a place on the event named by req.EventSlug. Free events go
// straight to confirmed; priced events start pending and stay there until the
// payment flow resolves them. Capacity is enforced by the repository's atomic
// count-then-insert, never by a prior read here.
//
// Retried submissions carrying the same idempotency key return the original
// registration instead of a duplicate claim.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.Registration, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, ErrValidation
	}

	var idemKey *string
	if req.IdempotencyKey != "" {
		if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
			return nil, ErrValidation
		}
		k := req.IdempotencyKey
		idemKey = &k
	}

	ev, err := s.events.GetBySlug(ctx, req.EventSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !ev.Active {
		return nil, ErrEventInactive
	}

	status := domain.RegistrationPending
	if ev.IsFree() {
		status = domain.RegistrationConfirmed
	}

	reg := &domain.Registration{
		EventID:        ev.ID,
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		City:           strings.TrimSpace(req.City),
		Status:         status,
		IdempotencyKey: idemKey,
		Attribution: domain.Attribution{
			UTMSource:   req.Attribution.UTMSource,
			UTMMedium:   req.Attribution.UTMMedium,
			UTMCampaign: req.Attribution.UTMCampaign,
			UTMContent:  req.Attribution.UTMContent,
			Referrer:    req.Attribution.Referrer,
		},
	}

	if err := s.regs.CreateWithinCapacity(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, ErrEventFull
		case errors.Is(err, repository.ErrEventInactive):
			return nil, ErrEventInactive
		case idemKey != nil && repository.IsUniqueViolation(err, "idx_event_registrations_idempotency_key"):
			return s.regs.GetByIdempotencyKey(ctx, *idemKey)
		default:
			return nil, err
		}
	}

	if status == domain.RegistrationConfirmed && s.notifs != nil {
		_ = s.notifs.RegistrationConfirmed(ctx, reg, ev)
	}

	return reg, nil
}

// Get returns a registration by id, for the payment flow and back office.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

package lead

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gymstudio/internal/domain"
)

var ErrValidation = errors.New("validation error")

type Repository interface {
	Create(ctx context.Context, l *domain.Lead) error
	List(ctx context.Context, limit, offset int) ([]domain.Lead, error)
	ListAll(ctx context.Context) ([]domain.Lead, error)
}

type Service struct {
	leads   Repository
	loggerf func(format string, args ...interface{})
}

func NewService(leads Repository, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{leads: leads, loggerf: loggerf}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, ErrValidation
	}

	l := &domain.Lead{
		Name:    name,
		Phone:   phone,
		Email:   strings.TrimSpace(req.Email),
		City:    strings.TrimSpace(req.City),
		Message: strings.TrimSpace(req.Message),
		Status:  domain.LeadNew,
		Attribution: domain.Attribution{
			UTMSource:   req.Attribution.UTMSource,
			UTMMedium:   req.Attribution.UTMMedium,
			UTMCampaign: req.Attribution.UTMCampaign,
			UTMContent:  req.Attribution.UTMContent,
			Referrer:    req.Attribution.Referrer,
		},
	}
	if err := s.leads.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.loggerf("lead created id=%d source=%q", l.ID, l.Attribution.UTMSource)
	return l, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.leads.List(ctx, limit, offset)
}

// ExportCSV writes every lead, oldest first. Same spreadsheet-friendly
// timestamp format as the attendance export.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	leads, err := s.leads.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list leads: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "created", "name", "phone", "email", "city", "status", "utm_source", "utm_medium", "utm_campaign", "message"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range leads {
		l := &leads[i]
		row := []string{
			strconv.FormatInt(l.ID, 10),
			l.CreatedAt.Format("02 Jan 2006 15:04"),
			l.Name,
			l.Phone,
			l.Email,
			l.City,
			string(l.Status),
			l.Attribution.UTMSource,
			l.Attribution.UTMMedium,
			l.Attribution.UTMCampaign,
			l.Message,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package lead

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymstudio/internal/domain"
)

type fakeLeadRepo struct {
	created []*domain.Lead
	all     []domain.Lead
}

func (f *fakeLeadRepo) Create(_ context.Context, l *domain.Lead) error {
	l.ID = int64(len(f.created) + 1)
	f.created = append(f.created, l)
	return nil
}

func (f *fakeLeadRepo) List(_ context.Context, limit, offset int) ([]domain.Lead, error) {
	return f.all, nil
}

func (f *fakeLeadRepo) ListAll(_ context.Context) ([]domain.Lead, error) {
	return f.all, nil
}

func TestCreate_TrimsAndStoresAttribution(t *testing.T) {
	repo := &fakeLeadRepo{}
	svc := NewService(repo, nil)

	l, err := svc.Create(context.Background(), CreateRequest{
		Name:  "  Dana  ",
		Phone: " +7 700 000 11 22 ",
		Attribution: Payload{
			UTMSource:   "instagram",
			UTMCampaign: "summer",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", l.Name)
	assert.Equal(t, "+7 700 000 11 22", l.Phone)
	assert.Equal(t, domain.LeadNew, l.Status)
	assert.Equal(t, "instagram", l.Attribution.UTMSource)
}

func TestCreate_RequiresNameAndPhone(t *testing.T) {
	svc := NewService(&fakeLeadRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "   ", Phone: "123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "Dana"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportCSV_Header(t *testing.T) {
	repo := &fakeLeadRepo{all: []domain.Lead{
		{
			ID:        1,
			Name:      "Dana",
			Phone:     "+77000001122",
			Status:    domain.LeadNew,
			CreatedAt: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			Attribution: domain.Attribution{
				UTMSource: "instagram",
			},
		},
	}}
	svc := NewService(repo, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "utm_source", rows[0][7])
	assert.Equal(t, "02 Jun 2025 09:30", rows[1][1])
	assert.Equal(t, "instagram", rows[1][7])
}

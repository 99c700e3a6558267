package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gymstudio/internal/domain"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	args := m.Called(ctx, a)
	if a != nil && args.Error(0) == nil {
		a.ID = 77 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByDate(ctx context.Context, date string) ([]domain.Appointment, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) TakenSlots(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

// 2025-06-02 is a Monday.
const monday = "2025-06-02"

func validBooking() BookRequest {
	return BookRequest{
		Date:      monday,
		StartTime: "11:20",
		Title:     "Personal training",
		Type:      "training",
	}
}

func TestBook_Success(t *testing.T) {
	appts := new(MockAppointmentRepository)
	clients := new(MockClientRepository)
	appts.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(appts, clients)
	a, err := svc.Book(context.Background(), validBooking())

	require.NoError(t, err)
	assert.Equal(t, int64(77), a.ID)
	assert.Equal(t, "11:40", a.EndTime, "end time must be derived server-side")
	assert.Equal(t, domain.AppointmentTraining, a.Type)
}

func TestBook_OffGridStartTime(t *testing.T) {
	svc := NewService(new(MockAppointmentRepository), new(MockClientRepository))

	req := validBooking()
	req.StartTime = "11:25"
	_, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotInvalid)
}

func TestBook_SundayRegimeApplies(t *testing.T) {
	appts := new(MockAppointmentRepository)
	appts.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(appts, new(MockClientRepository))

	req := validBooking()
	req.Date = "2025-06-08" // Sunday
	req.StartTime = "11:20" // on the Sunday grid too
	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	req.StartTime = "15:00" // weekday-only time
	_, err = svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotInvalid)
}

func TestBook_SlotTaken(t *testing.T) {
	appts := new(MockAppointmentRepository)
	appts.On("Create", mock.Anything, mock.Anything).
		Return(errDoubleBooking{})

	svc := NewService(appts, new(MockClientRepository))
	_, err := svc.Book(context.Background(), validBooking())

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBook_UnknownClient(t *testing.T) {
	appts := new(MockAppointmentRepository)
	clients := new(MockClientRepository)
	clients.On("GetByID", mock.Anything, int64(5)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(appts, clients)

	req := validBooking()
	id := int64(5)
	req.ClientID = &id
	_, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, ErrClientNotFound)
	appts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_BadType(t *testing.T) {
	svc := NewService(new(MockAppointmentRepository), new(MockClientRepository))

	req := validBooking()
	req.Type = "massage"
	_, err := svc.Book(context.Background(), req)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestAvailability_MarksTakenSlots(t *testing.T) {
	appts := new(MockAppointmentRepository)
	appts.On("TakenSlots", mock.Anything, monday).Return([]string{"11:00", "12:20"}, nil)

	svc := NewService(appts, new(MockClientRepository))
	avail, err := svc.Availability(context.Background(), monday)

	require.NoError(t, err)
	assert.Equal(t, monday, avail.Date)
	require.NotEmpty(t, avail.Slots)

	byStart := make(map[string]Slot, len(avail.Slots))
	for _, s := range avail.Slots {
		byStart[s.Start] = s
	}
	assert.False(t, byStart["11:00"].Available)
	assert.False(t, byStart["12:20"].Available)
	assert.True(t, byStart["11:20"].Available)
	assert.Equal(t, "11:20", byStart["11:00"].End)
}

func TestAvailability_BadDate(t *testing.T) {
	svc := NewService(new(MockAppointmentRepository), new(MockClientRepository))
	_, err := svc.Availability(context.Background(), "02-06-2025")
	assert.ErrorIs(t, err, ErrValidation)
}

type errDoubleBooking struct{}

func (errDoubleBooking) Error() string {
	return "UNIQUE constraint failed: appointments.date, appointments.start_time"
}

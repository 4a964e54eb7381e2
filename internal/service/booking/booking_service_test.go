package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var snapshot = domain.FlightSnapshot{
	Name:        "SU100",
	Description: "Moscow - Saint Petersburg",
	Price:       decimal.RequireFromString("5000"),
	Date:        time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e kafka.BookingEvent) bool { return e.Type == eventType })
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockUsers := &MockUserDirectory{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookingRepo,
		WithEvents(mockProducer, "booking_topic"),
		WithNotificationsTopic("notifications"),
		WithUserDirectory(mockUsers),
	)
	ctx := context.Background()

	mockBookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		b.ID = "b1"
		b.Flight = snapshot
	}).Return(nil).Once()
	mockUsers.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "a@x.com"}, nil).Once()
	mockProducer.On("Publish", mock.Anything, "booking_topic", "b1", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.Email == "a@x.com" && e.FlightName == "SU100"
	})).Return(nil).Once()
	mockProducer.On("Publish", mock.Anything, "notifications", "b1", eventOfType(kafka.EventBookingCreated)).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, "u1", "f1")

	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	assert.Equal(t, "u1", booking.UserID)
	assert.Equal(t, "f1", booking.FlightID)
	assert.Equal(t, "SU100", booking.Flight.Name)

	mockBookingRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_FlightNotFound(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, WithEvents(mockProducer, "booking_topic"))
	ctx := context.Background()

	mockBookingRepo.On("Create", ctx, mock.Anything).Return(domain.ErrFlightNotFound).Once()

	booking, err := service.CreateBooking(ctx, "u1", "ghost")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_PublishFailureIsNotFatal(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo,
		WithEvents(mockProducer, "booking_topic"),
		WithNotificationsTopic("notifications"),
	)
	ctx := context.Background()

	mockBookingRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = "b1"
	}).Return(nil).Once()
	mockProducer.On("Publish", mock.Anything, "booking_topic", "b1", mock.Anything).Return(errors.New("kafka down")).Once()

	booking, err := service.CreateBooking(ctx, "u1", "f1")

	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, "notifications", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_WithoutProducer(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := &BookingService{bookings: mockBookingRepo, logger: logging.Nop(), now: time.Now}
	ctx := context.Background()

	mockBookingRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := service.CreateBooking(ctx, "u1", "f1")

	assert.NoError(t, err)
	mockBookingRepo.AssertExpectations(t)
}

func TestBookingService_ListBookings(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := NewBookingService(mockBookingRepo)
	ctx := context.Background()
	bookings := []domain.Booking{{ID: "b1", UserID: "u1"}, {ID: "b2", UserID: "u1"}}

	mockBookingRepo.On("ListByUser", ctx, "u1").Return(bookings, nil).Once()

	result, err := service.ListBookings(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, bookings, result)
	mockBookingRepo.AssertExpectations(t)
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, WithEvents(mockProducer, "booking_topic"))
	ctx := context.Background()
	existing := &domain.Booking{ID: "b1", UserID: "u1", FlightID: "f1", Flight: snapshot}

	mockBookingRepo.On("GetByID", ctx, "b1").Return(existing, nil).Once()
	mockBookingRepo.On("Delete", ctx, "b1").Return(nil).Once()
	mockProducer.On("Publish", mock.Anything, "booking_topic", "b1", eventOfType(kafka.EventBookingCancelled)).Return(nil).Once()

	cancelled, err := service.CancelBooking(ctx, "u1", "b1")

	require.NoError(t, err)
	assert.Equal(t, existing, cancelled)
	assert.Equal(t, "SU100", cancelled.Flight.Name)
	mockBookingRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CancelBooking_NotFound(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := NewBookingService(mockBookingRepo)
	ctx := context.Background()

	mockBookingRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrBookingNotFound).Once()

	_, err := service.CancelBooking(ctx, "u1", "missing")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	mockBookingRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBookingService_CancelBooking_Ownership(t *testing.T) {
	testCases := []struct {
		name        string
		enforce     bool
		expectedErr error
	}{
		{name: "enforced rejects other caller", enforce: true, expectedErr: domain.ErrPermissionDenied},
		{name: "disabled lets any caller cancel", enforce: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockBookingRepo := &MockBookingRepository{}
			service := NewBookingService(mockBookingRepo, WithOwnershipCheck(tc.enforce))
			ctx := context.Background()

			mockBookingRepo.On("GetByID", ctx, "b1").Return(&domain.Booking{ID: "b1", UserID: "owner"}, nil).Once()
			if tc.expectedErr == nil {
				mockBookingRepo.On("Delete", ctx, "b1").Return(nil).Once()
			}

			_, err := service.CancelBooking(ctx, "intruder", "b1")

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				mockBookingRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			mockBookingRepo.AssertExpectations(t)
		})
	}
}

func TestBookingService_CancelBooking_DeleteRace(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, WithEvents(mockProducer, "booking_topic"))
	ctx := context.Background()

	mockBookingRepo.On("GetByID", ctx, "b1").Return(&domain.Booking{ID: "b1", UserID: "u1"}, nil).Once()
	mockBookingRepo.On("Delete", ctx, "b1").Return(domain.ErrBookingNotFound).Once()

	_, err := service.CancelBooking(ctx, "u1", "b1")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_SlowBrokerIsBounded(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo,
		WithEvents(mockProducer, "booking_topic"),
		WithPublishTimeout(20*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockBookingRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = "b1"
	}).Return(nil).Once()

	var publishCtx context.Context
	mockProducer.On("Publish", mock.Anything, "booking_topic", "b1", mock.Anything).Run(func(args mock.Arguments) {
		publishCtx = args.Get(0).(context.Context)
		<-publishCtx.Done()
	}).Return(context.DeadlineExceeded).Once()

	start := time.Now()
	booking, err := service.CreateBooking(ctx, "u1", "f1")

	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, publishCtx)
	assert.ErrorIs(t, publishCtx.Err(), context.DeadlineExceeded)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_PublishSurvivesCallerCancellation(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, WithEvents(mockProducer, "booking_topic"))
	ctx, cancel := context.WithCancel(context.Background())

	mockBookingRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = "b1"
		cancel()
	}).Return(nil).Once()
	mockProducer.On("Publish", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), "booking_topic", "b1", mock.Anything).Return(nil).Once()

	_, err := service.CreateBooking(ctx, "u1", "f1")

	require.NoError(t, err)
	mockProducer.AssertExpectations(t)
}

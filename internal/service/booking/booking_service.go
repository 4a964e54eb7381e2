package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID, flightID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, callerID, bookingID string) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// UserDirectory resolves the recipient address for booking events.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type BookingService struct {
	bookings           repository.BookingRepository
	users              UserDirectory
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	enforceOwnership   bool
	publishTimeout     time.Duration
	logger             logging.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

const DefaultPublishTimeout = 2 * time.Second

// WithEvents publishes booking_created and booking_cancelled to topic.
func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

// WithNotificationsTopic also copies every event to the topic the notification
// worker reads.
func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithUserDirectory(users UserDirectory) BookingServiceOption {
	return func(s *BookingService) {
		s.users = users
	}
}

// WithOwnershipCheck controls whether CancelBooking rejects callers that do
// not own the booking. It is on by default.
func WithOwnershipCheck(enabled bool) BookingServiceOption {
	return func(s *BookingService) {
		s.enforceOwnership = enabled
	}
}

// WithPublishTimeout bounds how long one operation may spend publishing its
// events. Defaults to DefaultPublishTimeout.
func WithPublishTimeout(timeout time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if timeout > 0 {
			s.publishTimeout = timeout
		}
	}
}

func WithLogger(logger logging.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(bookings repository.BookingRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:         bookings,
		enforceOwnership: true,
		publishTimeout:   DefaultPublishTimeout,
		logger:           logging.Nop(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking books flightID for userID. The flight snapshot is captured by
// the repository in the same write that creates the booking.
func (s *BookingService) CreateBooking(ctx context.Context, userID, flightID string) (*domain.Booking, error) {
	booking := &domain.Booking{
		UserID:   userID,
		FlightID: flightID,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "booking created", "booking_id", booking.ID, "user_id", userID, "flight_id", flightID)
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// CancelBooking deletes the booking and returns it as it was before deletion.
// The flight is left untouched.
func (s *BookingService) CancelBooking(ctx context.Context, callerID, bookingID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.enforceOwnership && current.UserID != callerID {
		s.logger.Warn(ctx, "cancel rejected", "booking_id", bookingID, "owner_id", current.UserID, "caller_id", callerID)
		return nil, domain.ErrPermissionDenied
	}

	if err := s.bookings.Delete(ctx, current.ID); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "booking cancelled", "booking_id", current.ID, "caller_id", callerID)
	s.publish(ctx, kafka.EventBookingCancelled, current)
	return current, nil
}

// publish is best effort. A failed publish never fails the booking operation.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event := kafka.NewBookingEvent(eventType, booking, s.recipient(ctx, booking.UserID), s.now())

	// The write is already committed: a caller hanging up must not drop the
	// event, and a dead broker must not hold the response past the timeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.logger.Warn(ctx, "failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.logger.Warn(ctx, "failed to publish notification", "type", eventType, "booking_id", booking.ID, "error", err)
		}
	}
}

func (s *BookingService) recipient(ctx context.Context, userID string) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Debug(ctx, "event recipient lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return user.Email
}

var _ BookingUseCase = (*BookingService)(nil)

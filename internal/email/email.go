package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	kafkago "github.com/segmentio/kafka-go"
)

// Sender turns booking events into customer notifications. Delivery is a log
// line for now.
type Sender struct {
	logger logging.Logger
}

func NewSender(logger logging.Logger) *Sender {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, err := Subject(event)
	if err != nil {
		s.logger.Warn(ctx, "skipping notification", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	if event.Email == "" {
		s.logger.Warn(ctx, "notification has no recipient", "booking_id", event.BookingID)
		return nil
	}

	s.logger.Info(ctx, "send email",
		"to", event.Email,
		"subject", subject,
		"booking_id", event.BookingID,
		"flight_id", event.FlightID,
	)
	return nil
}

func Subject(event kafka.BookingEvent) (string, error) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Your booking for %s is confirmed", event.FlightName), nil
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Your booking for %s was cancelled", event.FlightName), nil
	default:
		return "", fmt.Errorf("unknown event type %q", event.Type)
	}
}

// HandleMessage is the consumer callback for the notifications topic.
// Undecodable messages are logged and skipped so the consumer keeps going.
func (s *Sender) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.DecodeBookingEvent(msg)
	if err != nil {
		s.logger.Error(ctx, "decode booking event", "error", err, "offset", msg.Offset)
		return nil
	}
	return s.Send(ctx, event)
}

// Package operations executes the named API operations. Every transport
// decodes a Request, hands it to the Dispatcher and renders the Response.
package operations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
)

const (
	OpFlights       = "flights"
	OpUsers         = "users"
	OpBookings      = "bookings"
	OpLogin         = "login"
	OpCreateFlight  = "createFlight"
	OpCreateUser    = "createUser"
	OpBookFlight    = "bookFlight"
	OpCancelBooking = "cancelBooking"
)

type Request struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables,omitempty"`
	// Fields selects nested booking fields ("user", "flight").
	Fields []string `json:"fields,omitempty"`
}

type Response struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []Error        `json:"errors,omitempty"`
}

// Observer receives one call per executed operation.
type Observer interface {
	ObserveOperation(operation string, code Kind, elapsed time.Duration)
}

type Services struct {
	Flights  flights.FlightUseCase
	Users    users.UserUseCase
	Bookings booking.BookingUseCase
}

type handler func(ctx context.Context, vars json.RawMessage, sel Selection) (any, error)

type Dispatcher struct {
	svc       Services
	presenter *Presenter
	handlers  map[string]handler
	logger    logging.Logger
	observer  Observer
}

type Option func(*Dispatcher)

func WithLogger(logger logging.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

func NewDispatcher(svc Services, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		svc:       svc,
		presenter: NewPresenter(svc.Users),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[string]handler{
		OpFlights:       d.flights,
		OpUsers:         d.users,
		OpBookings:      d.bookings,
		OpLogin:         d.login,
		OpCreateFlight:  d.createFlight,
		OpCreateUser:    d.createUser,
		OpBookFlight:    d.bookFlight,
		OpCancelBooking: d.cancelBooking,
	}
	return d
}

// Operations lists the registered operation names in sorted order.
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a single operation and returns its result. Failures come back
// as Error values ready to be rendered; internal details are only logged.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (any, *Error) {
	start := time.Now()

	result, err := d.run(ctx, req)

	code := Kind("OK")
	var public *Error
	if err != nil {
		e := Classify(err)
		public, code = &e, e.Code
		if code == KindInternal {
			d.logger.Error(ctx, "operation failed", "operation", req.Operation, "error", err)
		} else {
			d.logger.Debug(ctx, "operation rejected", "operation", req.Operation, "code", code, "error", err)
		}
	}

	if d.observer != nil {
		d.observer.ObserveOperation(req.Operation, code, time.Since(start))
	}
	return result, public
}

// Respond wraps Execute into the {"data": ...} / {"errors": [...]} envelope.
func (d *Dispatcher) Respond(ctx context.Context, req Request) (Response, int) {
	result, failure := d.Execute(ctx, req)
	if failure != nil {
		return Response{Errors: []Error{*failure}}, failure.Code.HTTPStatus()
	}
	return Response{Data: map[string]any{req.Operation: result}}, http.StatusOK
}

func (d *Dispatcher) run(ctx context.Context, req Request) (any, error) {
	h, ok := d.handlers[req.Operation]
	if !ok {
		return nil, Error{Message: fmt.Sprintf("Unknown operation %q.", req.Operation), Code: KindValidation}
	}
	return h(ctx, req.Variables, NewSelection(req.Fields...))
}

// decodeVariables fills dst from the raw variables. Unknown keys are rejected.
// The caller sees a fixed sentence; the decoder detail stays in the wrapped
// error and only reaches the debug log.
func decodeVariables(op string, raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		public := Error{Message: fmt.Sprintf("Invalid variables for %s.", op), Code: KindValidation}
		return fmt.Errorf("%w: %w", public, err)
	}
	return nil
}

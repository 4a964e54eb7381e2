package operations

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateFlightInput struct {
	FlightInput flights.CreateFlightInput `json:"flightInput"`
}

type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserInput struct {
	UserInput UserInput `json:"userInput"`
}

type BookFlightInput struct {
	FlightID string `json:"flightID"`
}

type CancelBookingInput struct {
	BookingID string `json:"bookingID"`
}

func (d *Dispatcher) flights(ctx context.Context, _ json.RawMessage, _ Selection) (any, error) {
	list, err := d.svc.Flights.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]FlightView, 0, len(list))
	for _, f := range list {
		views = append(views, NewFlightView(f))
	}
	return views, nil
}

func (d *Dispatcher) users(ctx context.Context, _ json.RawMessage, _ Selection) (any, error) {
	if _, err := auth.Require(ctx); err != nil {
		return nil, err
	}
	list, err := d.svc.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(list))
	for _, u := range list {
		views = append(views, NewUserView(u))
	}
	return views, nil
}

func (d *Dispatcher) bookings(ctx context.Context, _ json.RawMessage, sel Selection) (any, error) {
	id, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := d.svc.Bookings.ListBookings(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return d.presenter.Bookings(ctx, list, sel)
}

func (d *Dispatcher) login(ctx context.Context, vars json.RawMessage, _ Selection) (any, error) {
	var in LoginInput
	if err := decodeVariables(OpLogin, vars, &in); err != nil {
		return nil, err
	}
	data, err := d.svc.Users.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return NewAuthDataView(data), nil
}

func (d *Dispatcher) createFlight(ctx context.Context, vars json.RawMessage, _ Selection) (any, error) {
	id, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	var in CreateFlightInput
	if err := decodeVariables(OpCreateFlight, vars, &in); err != nil {
		return nil, err
	}
	flight, err := d.svc.Flights.Create(ctx, id.UserID, in.FlightInput)
	if err != nil {
		return nil, err
	}
	return NewFlightView(*flight), nil
}

func (d *Dispatcher) createUser(ctx context.Context, vars json.RawMessage, _ Selection) (any, error) {
	var in CreateUserInput
	if err := decodeVariables(OpCreateUser, vars, &in); err != nil {
		return nil, err
	}
	user, err := d.svc.Users.Register(ctx, in.UserInput.Email, in.UserInput.Password)
	if err != nil {
		return nil, err
	}
	return NewUserView(*user), nil
}

func (d *Dispatcher) bookFlight(ctx context.Context, vars json.RawMessage, sel Selection) (any, error) {
	id, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	var in BookFlightInput
	if err := decodeVariables(OpBookFlight, vars, &in); err != nil {
		return nil, err
	}
	b, err := d.svc.Bookings.CreateBooking(ctx, id.UserID, in.FlightID)
	if err != nil {
		return nil, err
	}
	return d.presenter.Booking(ctx, *b, sel)
}

func (d *Dispatcher) cancelBooking(ctx context.Context, vars json.RawMessage, sel Selection) (any, error) {
	id, err := auth.Require(ctx)
	if err != nil {
		return nil, err
	}
	var in CancelBookingInput
	if err := decodeVariables(OpCancelBooking, vars, &in); err != nil {
		return nil, err
	}
	b, err := d.svc.Bookings.CancelBooking(ctx, id.UserID, in.BookingID)
	if err != nil {
		return nil, err
	}
	return d.presenter.Booking(ctx, *b, sel)
}

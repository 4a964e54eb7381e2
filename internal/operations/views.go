package operations

import (
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/users"
)

type FlightView struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Date        string `json:"date"`
}

// UserView mirrors the public user type. Password is always null.
type UserView struct {
	ID       string  `json:"_id"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

// BookingView carries the nested user and flight only when they were selected.
type BookingView struct {
	ID        string      `json:"_id"`
	User      *UserView   `json:"user,omitempty"`
	Flight    *FlightView `json:"flight,omitempty"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

type AuthDataView struct {
	UserID          string `json:"userId"`
	Token           string `json:"token"`
	TokenExpiration int    `json:"tokenExpiration"`
}

func NewFlightView(f domain.Flight) FlightView {
	return FlightView{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price.String(),
		Date:        domain.FormatTimestamp(f.Date),
	}
}

func NewUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email}
}

func NewAuthDataView(a *users.AuthData) AuthDataView {
	return AuthDataView{UserID: a.UserID, Token: a.Token, TokenExpiration: a.TokenExpiration}
}

func snapshotView(b domain.Booking) *FlightView {
	return &FlightView{
		ID:          b.FlightID,
		Name:        b.Flight.Name,
		Description: b.Flight.Description,
		Price:       b.Flight.Price.String(),
		Date:        domain.FormatTimestamp(b.Flight.Date),
	}
}

package domain

import "time"

type Booking struct {
	ID        string
	UserID    string
	FlightID  string
	Flight    FlightSnapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

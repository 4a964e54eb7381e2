package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Flight struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FlightSnapshot is the part of a flight copied into a booking when it is made.
// Later changes to the flight record never reach existing bookings.
type FlightSnapshot struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Date        time.Time
}

func (f Flight) Snapshot() FlightSnapshot {
	return FlightSnapshot{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Date:        f.Date,
	}
}

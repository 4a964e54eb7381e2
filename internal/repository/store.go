package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store groups the repositories behind one storage driver.
type Store struct {
	Flights  FlightRepository
	Users    UserRepository
	Bookings BookingRepository
}

func NewPostgresStore(db *pgxpool.Pool) *Store {
	return &Store{
		Flights:  NewFlightRepository(db),
		Users:    NewUserRepository(db),
		Bookings: NewBookingRepository(db),
	}
}

// validID reports whether id can name a stored record. Anything else is
// treated as absent rather than as a storage failure.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

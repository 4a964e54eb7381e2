package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
)

// MemoryDB keeps every record in process memory. It backs the "memory"
// storage driver and the HTTP tests.
type MemoryDB struct {
	mu       sync.RWMutex
	now      func() time.Time
	flights  map[string]domain.Flight
	users    map[string]domain.User
	emails   map[string]string
	bookings map[string]domain.Booking
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		flights:  make(map[string]domain.Flight),
		users:    make(map[string]domain.User),
		emails:   make(map[string]string),
		bookings: make(map[string]domain.Booking),
	}
}

func NewMemoryStore() *Store {
	db := NewMemoryDB()
	return &Store{
		Flights:  &memoryFlights{db: db},
		Users:    &memoryUsers{db: db},
		Bookings: &memoryBookings{db: db},
	}
}

type memoryFlights struct{ db *MemoryDB }

func (r *memoryFlights) List(_ context.Context) ([]domain.Flight, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	flights := make([]domain.Flight, 0, len(r.db.flights))
	for _, f := range r.db.flights {
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].Date.Equal(flights[j].Date) {
			return flights[i].Date.Before(flights[j].Date)
		}
		return flights[i].CreatedAt.Before(flights[j].CreatedAt)
	})
	return flights, nil
}

func (r *memoryFlights) GetByID(_ context.Context, id string) (*domain.Flight, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	f, ok := r.db.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (r *memoryFlights) Create(_ context.Context, flight *domain.Flight) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	flight.ID = uuid.NewString()
	flight.Date = flight.Date.UTC()
	flight.CreatedAt, flight.UpdatedAt = now, now
	r.db.flights[flight.ID] = *flight
	return nil
}

type memoryUsers struct{ db *MemoryDB }

func (r *memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, taken := r.db.emails[user.Email]; taken {
		return domain.ErrUserExists
	}
	now := r.db.now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[user.ID] = *user
	r.db.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.db.users[id]
	return &u, nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUsers) List(_ context.Context) ([]domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

type memoryBookings struct{ db *MemoryDB }

func (r *memoryBookings) Create(_ context.Context, booking *domain.Booking) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	flight, ok := r.db.flights[booking.FlightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	if _, ok := r.db.users[booking.UserID]; !ok {
		return domain.ErrUserNotFound
	}

	now := r.db.now()
	booking.ID = uuid.NewString()
	booking.Flight = flight.Snapshot()
	booking.CreatedAt, booking.UpdatedAt = now, now
	r.db.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	b, ok := r.db.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memoryBookings) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range r.db.bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

func (r *memoryBookings) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.db.bookings, id)
	return nil
}

var (
	_ FlightRepository  = (*memoryFlights)(nil)
	_ UserRepository    = (*memoryUsers)(nil)
	_ BookingRepository = (*memoryBookings)(nil)
)

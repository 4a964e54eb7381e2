package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type BookingRepository interface {
	// Create inserts a booking for booking.FlightID and fills in the flight
	// snapshot in the same statement. It returns domain.ErrFlightNotFound when
	// the flight does not exist at that moment.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const (
	pgForeignKeyViolation = "23503"
	bookingsUserFK        = "bookings_user_id_fkey"
)

const bookingColumns = `id::text, user_id::text, flight_id::text, flight_name, flight_description, flight_price::text, flight_date, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if !validID(booking.FlightID) {
		return domain.ErrFlightNotFound
	}
	if !validID(booking.UserID) {
		return domain.ErrUserNotFound
	}

	row := r.db.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, flight_name, flight_description, flight_price, flight_date)
		SELECT $1, f.id, f.name, f.description, f.price, f.date FROM flights f WHERE f.id = $2
		RETURNING `+bookingColumns, booking.UserID, booking.FlightID)

	created, err := scanBooking(row)
	if err != nil {
		return bookingInsertError(err)
	}
	*booking = *created
	return nil
}

// bookingInsertError maps insert failures onto the same errors the memory
// store returns for a missing user or flight.
func bookingInsertError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrFlightNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		if pgErr.ConstraintName == bookingsUserFK {
			return domain.ErrUserNotFound
		}
		return domain.ErrFlightNotFound
	}
	return fmt.Errorf("insert booking: %w", err)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if !validID(id) {
		return nil, domain.ErrBookingNotFound
	}

	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	if !validID(userID) {
		return bookings, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrBookingNotFound
	}

	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b     domain.Booking
		price string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Flight.Name, &b.Flight.Description, &price, &b.Flight.Date, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.Flight.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("booking %s price %q: %w", b.ID, price, err)
	}
	b.Flight.Date = b.Flight.Date.UTC()
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)

package operations

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

const (
	FieldUser   = "user"
	FieldFlight = "flight"
)

// Selection lists the nested booking fields a caller asked for.
type Selection map[string]bool

func NewSelection(fields ...string) Selection {
	sel := make(Selection, len(fields))
	for _, f := range fields {
		sel[f] = true
	}
	return sel
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Presenter is the second phase of a booking result: services return raw
// records and nested fields are fetched here, only when selected.
type Presenter struct {
	users UserLookup
}

func NewPresenter(users UserLookup) *Presenter {
	return &Presenter{users: users}
}

func (p *Presenter) Booking(ctx context.Context, b domain.Booking, sel Selection) (BookingView, error) {
	views, err := p.Bookings(ctx, []domain.Booking{b}, sel)
	if err != nil {
		return BookingView{}, err
	}
	return views[0], nil
}

func (p *Presenter) Bookings(ctx context.Context, bookings []domain.Booking, sel Selection) ([]BookingView, error) {
	owners := make(map[string]*UserView)
	views := make([]BookingView, 0, len(bookings))

	for _, b := range bookings {
		view := BookingView{
			ID:        b.ID,
			CreatedAt: domain.FormatTimestamp(b.CreatedAt),
			UpdatedAt: domain.FormatTimestamp(b.UpdatedAt),
		}
		if sel[FieldFlight] {
			view.Flight = snapshotView(b)
		}
		if sel[FieldUser] {
			owner, ok := owners[b.UserID]
			if !ok {
				u, err := p.users.GetByID(ctx, b.UserID)
				if err != nil {
					return nil, err
				}
				v := NewUserView(*u)
				owner = &v
				owners[b.UserID] = owner
			}
			view.User = owner
		}
		views = append(views, view)
	}
	return views, nil
}

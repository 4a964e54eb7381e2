package flights

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/shopspring/decimal"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Create(ctx context.Context, creatorID string, input CreateFlightInput) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// CreateFlightInput requires every field. Price is nullable so that an
// absent price is told apart from zero.
type CreateFlightInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Date        string              `json:"date"`
}

type FlightService struct {
	repo   repository.FlightRepository
	cache  FlightCache
	logger logging.Logger
}

type FlightServiceOption func(*FlightService)

// WithCache enables the flight list cache.
func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithLogger(logger logging.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.logger = logger
	}
}

func NewFlightService(repo repository.FlightRepository, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.logger.Warn(ctx, "flight cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.Warn(ctx, "flight cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, creatorID string, input CreateFlightInput) (*domain.Flight, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.Invalid("description is required")
	}
	if !input.Price.Valid {
		return nil, domain.Invalid("price is required")
	}
	if input.Price.Decimal.IsNegative() {
		return nil, domain.Invalid("price must not be negative")
	}
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, domain.Invalid("date %q is not a valid date", input.Date)
	}

	flight := &domain.Flight{
		Name:        name,
		Description: description,
		Price:       input.Price.Decimal,
		Date:        date,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.logger.Warn(ctx, "flight cache invalidation failed", "error", err)
		}
	}
	s.logger.Info(ctx, "flight created", "flight_id", flight.ID, "created_by", creatorID)
	return flight, nil
}

var _ FlightUseCase = (*FlightService)(nil)

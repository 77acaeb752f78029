package hotels

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ Service = (*ServiceImpl)(nil)

// Service searches accommodations for a city by name.
type Service interface {
	SearchHotels(ctx context.Context, city, checkIn, checkOut string, numGuests int) ([]types.HotelOffer, error)
}

// Provider is a live hotel search backend such as the Amadeus Hotel Search
// API. It works on IATA city codes.
type Provider interface {
	SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, guests int) ([]types.HotelOffer, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
}

// NewServiceImpl wires a hotel search service. provider may be nil, in which
// case every search is served by the deterministic mock generator.
func NewServiceImpl(provider Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
	}
}

// SearchHotels returns accommodation offers for one city and date range,
// falling back to mock offers when no provider is configured or the provider
// fails.
func (s *ServiceImpl) SearchHotels(ctx context.Context, city, checkIn, checkOut string, numGuests int) ([]types.HotelOffer, error) {
	ctx, span := otel.Tracer("HotelService").Start(ctx, "SearchHotels")
	defer span.End()
	span.SetAttributes(attribute.String("hotels.city", city))

	if s.provider != nil {
		cityCode := CityToCityCode(city)
		offers, err := s.provider.SearchHotels(ctx, cityCode, checkIn, checkOut, numGuests)
		if err != nil {
			s.logger.WarnContext(ctx, "Hotel provider failed, using mock offers",
				slog.String("city", city), slog.Any("error", err))
		} else if len(offers) > 0 {
			return offers, nil
		}
	}

	return generateMockAccommodations(city, checkIn, checkOut, numGuests), nil
}

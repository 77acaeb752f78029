package flights

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ Service = (*ServiceImpl)(nil)

// Service searches flights between two cities by name. IATA code conversion
// is handled internally so callers never deal with airport codes.
type Service interface {
	SearchFlights(ctx context.Context, originCity, destinationCity, departureDate, returnDate string, numTravelers int) ([]types.FlightOffer, error)
}

// Provider is a live flight search backend such as the Amadeus Flight Offers
// Search API. It works on IATA airport codes.
type Provider interface {
	SearchFlights(ctx context.Context, originCode, destinationCode, departureDate, returnDate string, travelers int) ([]types.FlightOffer, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
}

// NewServiceImpl wires a flight search service. provider may be nil, in which
// case every search is served by the deterministic mock generator.
func NewServiceImpl(provider Provider, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
	}
}

// SearchFlights returns flight offers for the trip, falling back to mock
// offers when no provider is configured or the provider fails.
func (s *ServiceImpl) SearchFlights(ctx context.Context, originCity, destinationCity, departureDate, returnDate string, numTravelers int) ([]types.FlightOffer, error) {
	ctx, span := otel.Tracer("FlightService").Start(ctx, "SearchFlights")
	defer span.End()
	span.SetAttributes(
		attribute.String("flights.origin", originCity),
		attribute.String("flights.destination", destinationCity),
	)

	if s.provider != nil {
		originCode := CityToAirportCode(originCity)
		destCode := CityToAirportCode(destinationCity)
		offers, err := s.provider.SearchFlights(ctx, originCode, destCode, departureDate, returnDate, numTravelers)
		if err != nil {
			s.logger.WarnContext(ctx, "Flight provider failed, using mock offers",
				slog.String("origin", originCity),
				slog.String("destination", destinationCity),
				slog.Any("error", err))
		} else if len(offers) > 0 {
			return offers, nil
		}
	}

	return generateMockFlights(originCity, destinationCity, departureDate, returnDate, numTravelers), nil
}

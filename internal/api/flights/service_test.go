package flights

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SearchFlights(ctx context.Context, originCode, destinationCode, departureDate, returnDate string, travelers int) ([]types.FlightOffer, error) {
	args := m.Called(ctx, originCode, destinationCode, departureDate, returnDate, travelers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FlightOffer), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCityToAirportCode(t *testing.T) {
	assert.Equal(t, "JFK", CityToAirportCode("New York"))
	assert.Equal(t, "KIX", CityToAirportCode("Kyoto"))
	assert.Equal(t, "ARN", CityToAirportCode("Stockholm"))
	// Substring match against the airport table
	assert.Equal(t, "NRT", CityToAirportCode("Tokyo Shinjuku"))
	// Unknown city
	assert.Equal(t, "XXX", CityToAirportCode("Atlantis"))
}

func TestSearchFlights_MockRoundTrip(t *testing.T) {
	s := NewServiceImpl(nil, testLogger())

	offers, err := s.SearchFlights(context.Background(), "New York", "Tokyo", "2026-04-01", "2026-04-08", 2)
	require.NoError(t, err)
	require.NotEmpty(t, offers)

	var outbound, returning int
	for _, offer := range offers {
		assert.Equal(t, "USD", offer.Currency)
		assert.Equal(t, "suggested", offer.Status)
		assert.NotEmpty(t, offer.Airline)
		assert.NotEmpty(t, offer.FlightNumber)
		assert.Greater(t, offer.Price, 0.0)
		switch offer.FlightType {
		case "outbound":
			outbound++
			assert.Equal(t, "JFK", offer.FromAirport)
			assert.Equal(t, "NRT", offer.ToAirport)
		case "return":
			returning++
			assert.Equal(t, "NRT", offer.FromAirport)
			assert.Equal(t, "JFK", offer.ToAirport)
		default:
			t.Fatalf("unexpected flight type %q", offer.FlightType)
		}
	}
	assert.GreaterOrEqual(t, outbound, 3)
	assert.LessOrEqual(t, outbound, 5)
	assert.GreaterOrEqual(t, returning, 3)
}

func TestSearchFlights_MockOneWay(t *testing.T) {
	s := NewServiceImpl(nil, testLogger())

	offers, err := s.SearchFlights(context.Background(), "London", "Paris", "2026-05-10", "", 1)
	require.NoError(t, err)
	for _, offer := range offers {
		assert.Equal(t, "outbound", offer.FlightType)
	}
}

func TestSearchFlights_MockIsDeterministic(t *testing.T) {
	s := NewServiceImpl(nil, testLogger())

	first, err := s.SearchFlights(context.Background(), "New York", "Rome", "2026-06-01", "2026-06-10", 1)
	require.NoError(t, err)
	second, err := s.SearchFlights(context.Background(), "New York", "Rome", "2026-06-01", "2026-06-10", 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearchFlights_ProviderResultsPreferred(t *testing.T) {
	provider := new(MockProvider)
	offers := []types.FlightOffer{{ID: "am_1", Airline: "Lufthansa", FlightNumber: "LH410", Price: 540}}
	provider.On("SearchFlights", mock.Anything, "JFK", "CDG", "2026-04-01", "2026-04-08", 1).
		Return(offers, nil)

	s := NewServiceImpl(provider, testLogger())
	got, err := s.SearchFlights(context.Background(), "New York", "Paris", "2026-04-01", "2026-04-08", 1)
	require.NoError(t, err)
	assert.Equal(t, offers, got)
	provider.AssertExpectations(t)
}

func TestSearchFlights_ProviderErrorFallsBackToMock(t *testing.T) {
	provider := new(MockProvider)
	provider.On("SearchFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("amadeus unavailable"))

	s := NewServiceImpl(provider, testLogger())
	got, err := s.SearchFlights(context.Background(), "New York", "Paris", "2026-04-01", "2026-04-08", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Equal(t, "suggested", got[0].Status)
}

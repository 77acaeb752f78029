package flights

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var airlineCodes = []string{
	"AA", "DL", "UA", "LH", "BA", "AF", "KL", "EK",
	"QR", "JL", "SQ", "CX", "AY", "IB", "VS",
}

var airlineNames = map[string]string{
	"AA": "American Airlines",
	"DL": "Delta Air Lines",
	"UA": "United Airlines",
	"LH": "Lufthansa",
	"BA": "British Airways",
	"AF": "Air France",
	"KL": "KLM",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"JL": "Japan Airlines",
	"SQ": "Singapore Airlines",
	"CX": "Cathay Pacific",
	"AY": "Finnair",
	"IB": "Iberia",
	"VS": "Virgin Atlantic",
}

var departureMinutes = []int{0, 15, 30, 45}

func mockSeed(parts ...string) int64 {
	h := md5.Sum([]byte(strings.Join(parts, "|")))
	seed, _ := strconv.ParseInt(hex.EncodeToString(h[:])[:8], 16, 64)
	return seed
}

func mockLeg(rng *rand.Rand, idPrefix, flightType, fromAirport, toAirport, date string, basePrice int) []types.FlightOffer {
	count := 3 + rng.Intn(3)
	offers := make([]types.FlightOffer, 0, count)
	for i := 0; i < count; i++ {
		code := airlineCodes[rng.Intn(len(airlineCodes))]
		airline := airlineNames[code]
		flightNum := fmt.Sprintf("%s%d", code, 100+rng.Intn(900))

		depHour := 6 + rng.Intn(17)
		depMinute := departureMinutes[rng.Intn(len(departureMinutes))]

		durationHours := 1 + rng.Intn(14)
		durationMins := rng.Intn(60)

		dep, _ := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %02d:%02d", date, depHour, depMinute))
		arr := dep.Add(time.Duration(durationHours)*time.Hour + time.Duration(durationMins)*time.Minute)

		priceVariation := 0.7 + rng.Float64()*0.7
		price := math.Round(float64(basePrice) * priceVariation)

		offers = append(offers, types.FlightOffer{
			ID:                fmt.Sprintf("%s%d", idPrefix, i),
			FlightType:        flightType,
			Airline:           airline,
			FlightNumber:      flightNum,
			FromAirport:       fromAirport,
			ToAirport:         toAirport,
			DepartureDateTime: dep.Format("2006-01-02T15:04:05"),
			ArrivalDateTime:   arr.Format("2006-01-02T15:04:05"),
			DurationMinutes:   durationHours*60 + durationMins,
			Price:             price,
			Currency:          "USD",
			BookingURL: fmt.Sprintf("https://www.%s.com/book/%s",
				strings.ReplaceAll(strings.ToLower(airline), " ", ""), flightNum),
			Status: "suggested",
		})
	}
	return offers
}

// generateMockFlights produces outbound (and return, when returnDate is set)
// flight options. Output is deterministic for identical search parameters.
func generateMockFlights(fromCity, toCity, departureDate, returnDate string, numTravelers int) []types.FlightOffer {
	fromAirport := CityToAirportCode(fromCity)
	toAirport := CityToAirportCode(toCity)

	rng := rand.New(rand.NewSource(mockSeed(fromCity, toCity, departureDate, returnDate, strconv.Itoa(numTravelers))))
	basePrice := 200 + rng.Intn(601)

	flights := mockLeg(rng, "flight_out_", "outbound", fromAirport, toAirport, departureDate, basePrice)
	if returnDate != "" {
		flights = append(flights, mockLeg(rng, "flight_ret_", "return", toAirport, fromAirport, returnDate, basePrice)...)
	}
	return flights
}

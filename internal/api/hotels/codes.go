package hotels

import "strings"

// IATA city codes (not airport codes) for the Amadeus hotel search.
var cityToCityCode = map[string]string{
	"New York": "NYC", "London": "LON", "Paris": "PAR", "Tokyo": "TYO",
	"Los Angeles": "LAX", "Chicago": "CHI", "Sydney": "SYD", "Dubai": "DXB",
	"Singapore": "SIN", "Bangkok": "BKK", "Barcelona": "BCN", "Rome": "ROM",
	"Amsterdam": "AMS", "Berlin": "BER", "Prague": "PRG", "Istanbul": "IST",
	"San Francisco": "SFO", "Miami": "MIA", "Boston": "BOS", "Kyoto": "OSA",
	"Osaka": "OSA", "Madrid": "MAD", "Lisbon": "LIS", "Vienna": "VIE",
	"Zurich": "ZRH", "Copenhagen": "CPH", "Stockholm": "STO", "Seoul": "SEL",
}

// CityToCityCode resolves a city name to an IATA city code, defaulting to the
// first three letters uppercased for cities outside the table.
func CityToCityCode(city string) string {
	if code, ok := cityToCityCode[city]; ok {
		return code
	}
	trimmed := strings.TrimSpace(city)
	if len(trimmed) >= 3 {
		return strings.ToUpper(trimmed[:3])
	}
	return strings.ToUpper(trimmed)
}

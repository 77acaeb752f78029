package flights

import "strings"

// Preferred airports for cities the planner sees most often.
var cityToAirport = map[string]string{
	"New York": "JFK", "London": "LHR", "Paris": "CDG", "Tokyo": "NRT",
	"Los Angeles": "LAX", "Chicago": "ORD", "Sydney": "SYD", "Dubai": "DXB",
	"Singapore": "SIN", "Bangkok": "BKK", "Barcelona": "BCN", "Rome": "FCO",
	"Amsterdam": "AMS", "Berlin": "BER", "Prague": "PRG", "Istanbul": "IST",
	"San Francisco": "SFO", "Miami": "MIA", "Boston": "BOS", "Kyoto": "KIX",
	"Osaka": "KIX", "Madrid": "MAD", "Lisbon": "LIS", "Vienna": "VIE",
	"Zurich": "ZRH", "Copenhagen": "CPH", "Stockholm": "ARN", "Seoul": "ICN",
}

// Secondary table including alternate airports, matched by substring so that
// "Tokyo Station area" still resolves to Tokyo.
var cityAirports = map[string][]string{
	"Tokyo":         {"NRT", "HND"},
	"Paris":         {"CDG", "ORY"},
	"London":        {"LHR", "LGW", "STN"},
	"New York":      {"JFK", "LGA", "EWR"},
	"Barcelona":     {"BCN"},
	"Rome":          {"FCO", "CIA"},
	"Bangkok":       {"BKK", "DMK"},
	"Dubai":         {"DXB"},
	"Singapore":     {"SIN"},
	"Sydney":        {"SYD"},
	"Istanbul":      {"IST", "SAW"},
	"Kyoto":         {"KIX", "ITM"},
	"Amsterdam":     {"AMS"},
	"Berlin":        {"BER"},
	"Prague":        {"PRG"},
	"Los Angeles":   {"LAX"},
	"San Francisco": {"SFO"},
	"Chicago":       {"ORD"},
	"Miami":         {"MIA"},
	"Boston":        {"BOS"},
}

// CityToAirportCode resolves a city name to an IATA airport code: exact table
// first, then a substring match over the airport list, then the unknown
// marker.
func CityToAirportCode(city string) string {
	if code, ok := cityToAirport[city]; ok {
		return code
	}
	lower := strings.ToLower(city)
	for name, airports := range cityAirports {
		nameLower := strings.ToLower(name)
		if strings.Contains(lower, nameLower) || strings.Contains(nameLower, lower) {
			return airports[0]
		}
	}
	return "XXX"
}

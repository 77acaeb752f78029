package planner

import "strings"

// Destinations recognized as countries. Country-level trips go through city
// selection; everything else is treated as a single city. Known to be
// incomplete, but load-bearing for the selection branch.
var countries = map[string]bool{
	"Japan": true, "France": true, "Italy": true, "Spain": true,
	"Thailand": true, "Germany": true, "UK": true, "USA": true,
	"Australia": true, "Brazil": true, "India": true, "China": true,
	"Mexico": true, "Greece": true, "Turkey": true, "Vietnam": true,
	"Cambodia": true, "Malaysia": true, "Indonesia": true, "Philippines": true,
	"Netherlands": true, "Portugal": true, "Switzerland": true, "Austria": true,
	"Czech Republic": true, "South Korea": true, "Morocco": true, "Egypt": true,
	"Argentina": true, "Colombia": true, "Peru": true, "New Zealand": true,
	"Ireland": true, "Croatia": true, "Norway": true, "Sweden": true,
	"Denmark": true, "Finland": true, "Belgium": true, "Poland": true,
	"Hungary": true, "Romania": true,
	"United States": true, "United Kingdom": true,
}

// Default city routes used when city selection produces nothing usable.
var defaultCities = map[string][]string{
	"Japan":    {"Tokyo", "Kyoto", "Osaka"},
	"France":   {"Paris", "Nice", "Lyon"},
	"Italy":    {"Rome", "Florence", "Venice"},
	"Spain":    {"Barcelona", "Madrid", "Seville"},
	"Thailand": {"Bangkok", "Chiang Mai", "Phuket"},
	"UK":       {"London", "Edinburgh", "Bath"},
	"USA":      {"New York", "Los Angeles", "San Francisco"},
	"Germany":  {"Berlin", "Munich", "Hamburg"},
}

// IsLikelyCountry reports whether the destination names a country, ignoring
// surrounding whitespace.
func IsLikelyCountry(destination string) bool {
	return countries[strings.TrimSpace(destination)]
}

// FallbackCities returns the default city route for a country, or a single
// synthesized entry for countries without one.
func FallbackCities(destination string) []string {
	dest := strings.TrimSpace(destination)
	if cities, ok := defaultCities[dest]; ok {
		return cities
	}
	return []string{dest + " City"}
}

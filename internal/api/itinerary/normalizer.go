package itinerary

import (
	"fmt"
	"net/url"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// mapsSearchURL builds a deterministic Google Maps search link for a place
// within a city.
func mapsSearchURL(place, city string) string {
	query := place
	if city != "" {
		query = fmt.Sprintf("%s, %s", place, city)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// Normalize fills in the fields itinerary generation routinely omits, in
// place. It never overwrites values that are already set, so applying it
// repeatedly leaves the data unchanged. fallbackCity covers days the generator
// left untagged.
func Normalize(days []types.Day, fallbackCity string) {
	for d := range days {
		day := &days[d]
		city := day.City
		if city == "" {
			city = fallbackCity
		}
		for i := range day.Items {
			item := &day.Items[i]
			if item.ID == "" {
				item.ID = fmt.Sprintf("day%d_item%d", day.DayNumber, i)
			}
			if item.Status == "" {
				item.Status = types.StatusPlanned
			}
			// A user-added item carries an explicit false; only fill the gap.
			if item.IsAISuggested == nil {
				suggested := true
				item.IsAISuggested = &suggested
			}

			// Generators emit either cost_usd or the legacy cost field.
			// Keep both populated, with cost_usd authoritative when present.
			if item.CostUSD == nil {
				cost := item.Cost
				item.CostUSD = &cost
			} else {
				item.Cost = *item.CostUSD
			}
			if item.CostDisplay == "" {
				item.CostDisplay = fmt.Sprintf("$%g", float64(*item.CostUSD))
			}
			if item.Currency == "" {
				item.Currency = "USD"
			}
			if item.GoogleMapsURL == "" {
				if place := item.Place(); place != "" {
					item.GoogleMapsURL = mapsSearchURL(place, city)
				}
			}
		}
	}
}

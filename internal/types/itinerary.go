package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Activity categories.
const (
	ItemTypeAttraction = "attraction"
	ItemTypeMeal       = "meal"
	ItemTypeTransport  = "transport"
	ItemTypeFreeTime   = "free_time"
)

// Item statuses.
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusDelayed   = "delayed"
	StatusSkipped   = "skipped"
)

// Day is one calendar day of a trip. Day numbers are contiguous from 1 and
// every day belongs to exactly one of the cities chosen for the trip.
type Day struct {
	DayNumber int            `json:"day_number"`
	Date      string         `json:"date"` // YYYY-MM-DD
	City      string         `json:"city"`
	Items     []ActivityItem `json:"items"`
}

// CostAmount is a USD amount that tolerates the loose shapes LLM output uses
// for costs: numbers, numeric strings, "free"/empty strings and null all
// decode without error (non-numeric input decodes to 0).
type CostAmount float64

func (c *CostAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*c = 0
			return nil
		}
		*c = CostAmount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*c = 0
		return nil
	}
	*c = CostAmount(f)
	return nil
}

// ActivityItem is a single scheduled activity within a Day.
//
// Cost carries the legacy plain amount and is always mirrored from CostUSD by
// the normalizer for backward compatibility with older clients. TravelInfo is
// nil for the first item of a day and for pairs where no meaningful route
// exists (same location, missing location).
type ActivityItem struct {
	ID              string         `json:"id"`
	StartTime       string         `json:"start_time"` // HH:MM
	DurationMinutes int            `json:"duration_minutes"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	ItemType        string         `json:"item_type"`
	Location        string         `json:"location"`
	Cost            CostAmount     `json:"cost"`
	CostUSD         *CostAmount    `json:"cost_usd,omitempty"`
	CostDisplay     string         `json:"cost_display,omitempty"`
	Currency        string         `json:"currency,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Status          string         `json:"status,omitempty"`
	DelayedToDay    *int           `json:"delayed_to_day"`
	IsAISuggested   *bool          `json:"is_ai_suggested"`
	GoogleMapsURL   string         `json:"google_maps_url,omitempty"`
	TravelInfo      *TravelSegment `json:"travel_info,omitempty"`
}

// Place returns the string used for route lookups: the location, or the title
// when no location is set.
func (a *ActivityItem) Place() string {
	if a.Location != "" {
		return a.Location
	}
	return a.Title
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// TripRequest is the immutable input to one planning run. Destination may be a
// city ("Paris") or a country ("Japan"); the planner decides which via the
// gazetteer and branches into city selection accordingly.
type TripRequest struct {
	Destination         string   `json:"destination"`
	OriginCity          string   `json:"origin_city"`
	StartDate           string   `json:"start_date"` // YYYY-MM-DD
	EndDate             string   `json:"end_date"`   // YYYY-MM-DD
	NumTravelers        int      `json:"num_travelers"`
	Interests           []string `json:"interests"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	BudgetLevel         string   `json:"budget_level"` // budget | mid | luxury, or a numeric total
}

// TripPlan is what a completed planning run hands back to callers: the
// resolved city list, search results, the enriched itinerary and a one-line
// summary. Notes collects non-fatal degradations (e.g. validation skipped).
type TripPlan struct {
	Cities          []string      `json:"cities"`
	Flights         []FlightOffer `json:"flights"`
	Accommodations  []HotelOffer  `json:"accommodations"`
	Itinerary       []Day         `json:"itinerary"`
	IsCountryLevel  bool          `json:"is_country_level"`
	PlanningSummary string        `json:"planning_summary"`
	Notes           []string      `json:"notes,omitempty"`
}

// Trip is the persisted record wrapping a request and, once planned, its plan.
type Trip struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Title               string     `json:"title"`
	Destination         string     `json:"destination"`
	DestinationType     string     `json:"destination_type"` // country | city
	OriginCity          string     `json:"origin_city"`
	StartDate           string     `json:"start_date"`
	EndDate             string     `json:"end_date"`
	NumTravelers        int        `json:"num_travelers"`
	Interests           []string   `json:"interests"`
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	BudgetLevel         string     `json:"budget_level"`
	PlanningStatus      string     `json:"planning_status"` // pending | in_progress | completed | failed
	Plan                *TripPlan  `json:"plan,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

// Request returns the immutable planning input derived from the trip record.
func (t *Trip) Request() TripRequest {
	origin := t.OriginCity
	if origin == "" {
		origin = "New York"
	}
	return TripRequest{
		Destination:         t.Destination,
		OriginCity:          origin,
		StartDate:           t.StartDate,
		EndDate:             t.EndDate,
		NumTravelers:        t.NumTravelers,
		Interests:           t.Interests,
		DietaryRestrictions: t.DietaryRestrictions,
		BudgetLevel:         t.BudgetLevel,
	}
}

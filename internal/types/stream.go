package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StreamEvent represents different types of streaming events
type StreamEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	EventID   string      `json:"event_id"`
	IsFinal   bool        `json:"is_final,omitempty"`
}

// StreamEventType constants
const (
	EventTypeStart     = "start"
	EventTypeProgress  = "progress"
	EventTypeCities    = "cities"
	EventTypeFlights   = "flights"
	EventTypeHotels    = "hotels"
	EventTypeItinerary = "itinerary"
	EventTypeError     = "error"
	EventTypeComplete  = "complete"
)

// Pipeline stage names reported on progress events.
const (
	StageResearch      = "research"
	StageCitySelection = "city_selection"
	StageFlightSearch  = "flight_search"
	StageHotelSearch   = "hotel_search"
	StageItineraryGen  = "itinerary_generation"
	StageValidation    = "validation"
	StageEnrichment    = "route_enrichment"
)

// StageProgress is the Data payload for progress events.
type StageProgress struct {
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Stage statuses carried on progress events.
const (
	StageStatusRunning = "running"
	StageStatusDone    = "done"
	StageStatusError   = "error"
)

// StreamingResponse wraps the streaming channel and metadata
type StreamingResponse struct {
	PlanID uuid.UUID
	Stream <-chan StreamEvent
	Cancel context.CancelFunc
}

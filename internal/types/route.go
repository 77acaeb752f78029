package types

// Travel modes understood by the route resolver and mode selector.
const (
	ModeWalking = "walking"
	ModeTransit = "transit"
)

// RouteEstimate is a single-mode travel estimate between two places.
type RouteEstimate struct {
	DurationText   string `json:"duration_text"`
	DurationSecs   int    `json:"duration_value"` // seconds
	DistanceText   string `json:"distance_text"`
	DistanceMeters int    `json:"distance_value"` // meters
	TransitName    string `json:"transit_name,omitempty"`
}

// Minutes returns the rounded-down duration in whole minutes, never below 1.
func (r RouteEstimate) Minutes() int {
	m := r.DurationSecs / 60
	if m < 1 {
		return 1
	}
	return m
}

// TravelSegment describes how to reach an itinerary item from the previous
// item in the same day: both mode estimates, the recommended mode and a
// display string suitable for rendering as-is.
type TravelSegment struct {
	Walking     RouteEstimate `json:"walking"`
	Transit     RouteEstimate `json:"transit"`
	Recommended string        `json:"recommended"`
	Display     string        `json:"display"`
}

// TravelPreferences are optional per-user mode preferences. Tokens are
// case-insensitive mode names ("walking", "transit"); unknown tokens are
// ignored.
type TravelPreferences struct {
	Avoid  []string `json:"avoid,omitempty"`
	Prefer []string `json:"prefer,omitempty"`
}

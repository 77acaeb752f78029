package planner

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const plannerSystemPrompt = "You are a travel planning assistant. " +
	"Always respond with valid JSON only, no markdown fences or extra text."

func interestsOrDefault(interests []string) string {
	if len(interests) == 0 {
		return "general sightseeing"
	}
	return strings.Join(interests, ", ")
}

func dietaryOrDefault(dietary []string) string {
	if len(dietary) == 0 {
		return "none"
	}
	return strings.Join(dietary, ", ")
}

func getResearchPrompt(destination string, duration int, interests []string, budget string) string {
	return fmt.Sprintf(`Research the travel destination %s for a %d-day trip.

Traveler interests: %s
Budget level: %s

Provide a comprehensive JSON object with:
{
  "overview": "2-3 sentence overview of the destination",
  "best_areas": ["area1", "area2"],
  "top_attractions": ["attraction1", "attraction2"],
  "local_food": ["dish1", "dish2"],
  "transport_tips": "how to get around",
  "safety_notes": "brief safety info",
  "budget_tips": "money-saving tips"
}

Return ONLY valid JSON, no markdown fences or extra text.`,
		destination, duration, interestsOrDefault(interests), budget)
}

func getCitySelectionPrompt(destination string, duration int, interests []string, budget, research string) string {
	return fmt.Sprintf(`Based on this destination research, select the best cities
to visit in %s for a %d-day trip.

Research:
%s

Interests: %s
Budget: %s

Rules:
- Select 2-4 cities (minimum 2 days each)
- Order them in a logical route (minimize backtracking)
- Include the most popular city

Return ONLY a valid JSON array: ["City1", "City2", "City3"]`,
		destination, duration, research, interestsOrDefault(interests), budget)
}

func getItineraryPrompt(req types.TripRequest, duration int, cities []string, research string, flights []types.FlightOffer, hotels []types.HotelOffer) string {
	var flightTimes strings.Builder
	for _, f := range flights {
		fmt.Fprintf(&flightTimes, "- %s %s: %s %s -> %s %s\n",
			f.Airline, f.FlightNumber, f.FromAirport, f.DepartureDateTime, f.ToAirport, f.ArrivalDateTime)
	}
	var hotelAreas strings.Builder
	for _, h := range hotels {
		fmt.Fprintf(&hotelAreas, "- %s (%s): %s\n", h.Name, h.City, h.Address)
	}

	return fmt.Sprintf(`Create a detailed day-by-day itinerary for a %d-day trip.

Trip details:
- Destination: %s
- Dates: %s to %s (%d days)
- Cities to visit in order: %s
- Interests: %s
- Dietary restrictions: %s
- Budget: %s
- Number of travelers: %d

Destination research:
%s

Flight options:
%s
Accommodation options:
%s

For each day, create 5-7 activities. Return a JSON array where each element is:
{
  "day_number": 1,
  "date": "YYYY-MM-DD",
  "city": "CityName",
  "items": [
    {
      "start_time": "09:00",
      "duration_minutes": 120,
      "title": "Activity name",
      "description": "Brief description",
      "item_type": "attraction|meal|transport|free_time",
      "location": "Specific place",
      "cost": 25,
      "notes": "Optional notes"
    }
  ]
}

Rules:
- Include breakfast, lunch, and dinner each day
- Respect dietary restrictions
- Day 1 should include arrival activities
- Last day should include departure activities
- Use realistic timing
- Distribute cities evenly across days

Return ONLY valid JSON array.`,
		duration, req.Destination, req.StartDate, req.EndDate, duration,
		strings.Join(cities, ", "), interestsOrDefault(req.Interests),
		dietaryOrDefault(req.DietaryRestrictions), req.BudgetLevel, req.NumTravelers,
		research, flightTimes.String(), hotelAreas.String())
}

func getValidationPrompt(itineraryJSON string, cities []string) string {
	return fmt.Sprintf(`Review this day-by-day itinerary for geographic and timing problems.

Cities in visiting order: %s

Itinerary:
%s

Fix any issues you find:
- Activities in the wrong city for that day
- Overlapping or impossible timings
- Missing meals

Return the corrected itinerary as a JSON array with the exact same schema.
If the itinerary is already correct, return it unchanged.
Return ONLY valid JSON array.`,
		strings.Join(cities, ", "), itineraryJSON)
}

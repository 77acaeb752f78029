package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// cleanJSONResponse strips markdown code fences from LLM output. The fence
// may appear mid-text when the model prefixes prose.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		cleaned = cleaned[idx+len("```json"):]
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	} else if idx := strings.Index(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[idx+len("```"):]
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	}
	return strings.TrimSpace(cleaned)
}

// parseCityList extracts a JSON string array from LLM output, capped at four
// cities.
func parseCityList(response string) ([]string, error) {
	var cities []string
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &cities); err != nil {
		return nil, fmt.Errorf("failed to parse city list: %w", err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("city list is empty")
	}
	if len(cities) > 4 {
		cities = cities[:4]
	}
	return cities, nil
}

// parseItinerary extracts a JSON day array from LLM output.
func parseItinerary(response string) ([]types.Day, error) {
	var days []types.Day
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &days); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("itinerary is empty")
	}
	return days, nil
}

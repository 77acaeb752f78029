package itinerary

import (
	"fmt"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// AllocateDays splits a trip's total days across cities in input order. The
// first remainder cities get one extra day, so the counts always sum to
// totalDays.
func AllocateDays(cities []string, totalDays int) []int {
	n := len(cities)
	if n == 0 {
		return nil
	}
	base := totalDays / n
	extra := totalDays % n
	counts := make([]int, n)
	for i := range counts {
		counts[i] = base
		if i < extra {
			counts[i]++
		}
	}
	return counts
}

func fallbackDayPlan(city string) []types.ActivityItem {
	return []types.ActivityItem{
		{StartTime: "08:30", DurationMinutes: 60, Title: "Breakfast",
			Description: "Start the day at a local cafe", ItemType: types.ItemTypeMeal,
			Location: fmt.Sprintf("%s Cafe", city), Cost: 15},
		{StartTime: "10:00", DurationMinutes: 150, Title: fmt.Sprintf("Explore %s", city),
			Description: "Walk around the city center", ItemType: types.ItemTypeAttraction,
			Location: fmt.Sprintf("%s City Center", city), Cost: 0},
		{StartTime: "12:30", DurationMinutes: 60, Title: "Lunch",
			Description: "Local restaurant", ItemType: types.ItemTypeMeal,
			Location: fmt.Sprintf("%s Restaurant District", city), Cost: 25},
		{StartTime: "14:00", DurationMinutes: 180, Title: fmt.Sprintf("%s Main Attraction", city),
			Description: "Visit the top attraction", ItemType: types.ItemTypeAttraction,
			Location: fmt.Sprintf("%s Main Attraction", city), Cost: 20},
		{StartTime: "18:00", DurationMinutes: 90, Title: "Dinner",
			Description: "Evening meal", ItemType: types.ItemTypeMeal,
			Location: fmt.Sprintf("%s Dining Area", city), Cost: 35},
	}
}

// BuildFallbackItinerary synthesizes a complete day-by-day plan from a fixed
// activity template, used whenever itinerary generation yields nothing usable.
// Day numbers run contiguously from 1 and dates advance one day at a time from
// startDate.
func BuildFallbackItinerary(cities []string, totalDays int, startDate time.Time) []types.Day {
	counts := AllocateDays(cities, totalDays)

	var days []types.Day
	current := startDate
	for cityIdx, city := range cities {
		for d := 0; d < counts[cityIdx]; d++ {
			dayNumber := len(days) + 1
			items := fallbackDayPlan(city)
			for i := range items {
				suggested := true
				items[i].ID = fmt.Sprintf("day%d_item%d", dayNumber, i)
				items[i].Status = types.StatusPlanned
				items[i].DelayedToDay = nil
				items[i].IsAISuggested = &suggested
			}
			days = append(days, types.Day{
				DayNumber: dayNumber,
				Date:      current.Format("2006-01-02"),
				City:      city,
				Items:     items,
			})
			current = current.AddDate(0, 0, 1)
		}
	}
	return days
}

package routing

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func toModeSet(modes []string) map[string]bool {
	set := make(map[string]bool, len(modes))
	for _, m := range modes {
		set[strings.ToLower(m)] = true
	}
	return set
}

// PickMode chooses the better travel mode between walking and transit and
// builds a user-facing display string. Preferences take priority over the
// duration heuristic: avoided modes are ruled out first, then preferred modes
// win, and otherwise walking is recommended for short hops or whenever it is
// no slower than transit.
func PickMode(walking, transit *types.RouteEstimate, prefs *types.TravelPreferences) (string, string) {
	var avoid, prefer map[string]bool
	if prefs != nil {
		avoid = toModeSet(prefs.Avoid)
		prefer = toModeSet(prefs.Prefer)
	}

	walk := types.RouteEstimate{DurationSecs: 9999}
	if walking != nil {
		walk = *walking
	}
	tr := types.RouteEstimate{DurationSecs: 9999}
	if transit != nil {
		tr = *transit
	}
	walkMins := walk.Minutes()
	transitMins := tr.Minutes()
	transitLabel := "transit"
	if tr.TransitName != "" {
		transitLabel = tr.TransitName
	}

	walkDisplay := fmt.Sprintf("🚶 Walk %d min", walkMins)
	transitDisplay := fmt.Sprintf("🚇 Transit %d min (%s)", transitMins, transitLabel)

	if avoid[types.ModeWalking] && !avoid[types.ModeTransit] {
		return types.ModeTransit, transitDisplay
	}
	if avoid[types.ModeTransit] && !avoid[types.ModeWalking] {
		return types.ModeWalking, walkDisplay
	}
	if prefer[types.ModeWalking] {
		return types.ModeWalking, walkDisplay
	}
	if prefer[types.ModeTransit] {
		return types.ModeTransit, transitDisplay
	}

	if walkMins <= 15 || walk.DurationSecs <= tr.DurationSecs {
		return types.ModeWalking, walkDisplay
	}
	return types.ModeTransit, transitDisplay
}

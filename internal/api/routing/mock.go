package routing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Typical walking speed ~5 km/h, transit average ~25 km/h in cities.
var transitTypes = []string{"metro", "bus", "tram", "subway", "light rail"}

// deterministicSeed produces a stable seed so mock estimates are consistent
// for the same place pair.
func deterministicSeed(origin, destination string) int64 {
	h := md5.Sum([]byte(fmt.Sprintf("%s|%s", origin, destination)))
	seed, _ := strconv.ParseInt(hex.EncodeToString(h[:])[:8], 16, 64)
	return seed
}

// mockRoute generates plausible walking and transit estimates for two places.
func mockRoute(origin, destination string) (*types.RouteEstimate, *types.RouteEstimate) {
	rng := rand.New(rand.NewSource(deterministicSeed(origin, destination)))

	// Straight-line distance 0.3 to 5 km
	distanceKm := math.Round((0.3+rng.Float64()*4.7)*10) / 10
	distanceM := int(distanceKm * 1000)

	// Walking: ~5 km/h, so ~12 min/km
	walkSeconds := int(distanceKm * 12 * 60)
	walkMinutes := walkSeconds / 60
	if walkMinutes < 1 {
		walkMinutes = 1
	}

	// Transit: faster but with wait time
	transitSpeedFactor := 2.0 + rng.Float64()*2.0
	transitSeconds := int(float64(walkSeconds)/transitSpeedFactor) + 120 + rng.Intn(241)
	transitMinutes := transitSeconds / 60
	if transitMinutes < 2 {
		transitMinutes = 2
	}

	transitType := transitTypes[rng.Intn(len(transitTypes))]

	walking := &types.RouteEstimate{
		DurationText:   fmt.Sprintf("%d mins", walkMinutes),
		DurationSecs:   walkSeconds,
		DistanceText:   fmt.Sprintf("%.1f km", distanceKm),
		DistanceMeters: distanceM,
	}
	transit := &types.RouteEstimate{
		DurationText:   fmt.Sprintf("%d mins", transitMinutes),
		DurationSecs:   transitSeconds,
		DistanceText:   fmt.Sprintf("%.1f km", distanceKm),
		DistanceMeters: distanceM,
		TransitName:    transitType,
	}
	return walking, transit
}

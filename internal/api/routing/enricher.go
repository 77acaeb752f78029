package routing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentLookups bounds in-flight route lookups per day to stay kind to
// the upstream API.
const maxConcurrentLookups = 6

var _ Enricher = (*EnricherImpl)(nil)

// Enricher attaches travel segments between consecutive itinerary items.
type Enricher interface {
	EnrichDay(ctx context.Context, items []types.ActivityItem, city string, prefs *types.TravelPreferences) []types.ActivityItem
}

type EnricherImpl struct {
	logger   *slog.Logger
	resolver Resolver
	sem      *semaphore.Weighted
}

func NewEnricherImpl(resolver Resolver, logger *slog.Logger) *EnricherImpl {
	return &EnricherImpl{
		logger:   logger,
		resolver: resolver,
		sem:      semaphore.NewWeighted(maxConcurrentLookups),
	}
}

// EnrichDay fills in TravelInfo for each item after the first, describing how
// to get there from the previous item's place. The first item never carries a
// segment, and pairs with missing or identical places are skipped. Lookups for
// a day run concurrently.
func (e *EnricherImpl) EnrichDay(ctx context.Context, items []types.ActivityItem, city string, prefs *types.TravelPreferences) []types.ActivityItem {
	ctx, span := otel.Tracer("RouteEnricher").Start(ctx, "EnrichDay")
	defer span.End()
	span.SetAttributes(
		attribute.String("enrich.city", city),
		attribute.Int("enrich.items", len(items)),
	)

	if len(items) == 0 {
		return items
	}
	items[0].TravelInfo = nil

	var wg sync.WaitGroup
	for i := 1; i < len(items); i++ {
		origin := items[i-1].Place()
		destination := items[i].Place()
		if origin == "" || destination == "" || origin == destination {
			items[i].TravelInfo = nil
			continue
		}

		wg.Add(1)
		go func(idx int, origin, destination string) {
			defer wg.Done()
			if err := e.sem.Acquire(ctx, 1); err != nil {
				items[idx].TravelInfo = nil
				return
			}
			defer e.sem.Release(1)

			segment, err := e.resolver.GetRoute(ctx, origin, destination, city, prefs)
			if err != nil {
				e.logger.WarnContext(ctx, "Route lookup failed, skipping item",
					slog.Int("item", idx), slog.Any("error", err))
				items[idx].TravelInfo = nil
				return
			}
			items[idx].TravelInfo = segment
		}(i, origin, destination)
	}
	wg.Wait()

	return items
}

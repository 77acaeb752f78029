package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ Resolver = (*ResolverImpl)(nil)

// Resolver computes walking and transit travel estimates between two places.
type Resolver interface {
	GetRoute(ctx context.Context, origin, destination, city string, prefs *types.TravelPreferences) (*types.TravelSegment, error)
}

// DistanceMatrixClient looks up a single origin to destination estimate for
// one travel mode. Implementations return (nil, nil) when the provider has no
// route for the pair.
type DistanceMatrixClient interface {
	Lookup(ctx context.Context, origin, destination, mode string) (*types.RouteEstimate, error)
}

// ResolverImpl resolves routes through a distance matrix provider and falls
// back to deterministic mock estimates when the provider is unavailable.
// Provider results are cached for the lifetime of the process.
type ResolverImpl struct {
	logger *slog.Logger
	client DistanceMatrixClient
	cache  *cache.Cache
}

func NewResolverImpl(client DistanceMatrixClient, logger *slog.Logger) *ResolverImpl {
	return &ResolverImpl{
		logger: logger,
		client: client,
		cache:  cache.New(24*time.Hour, 1*time.Hour),
	}
}

// qualify appends the city for disambiguation when the place does not already
// mention it.
func qualify(place, city string) string {
	if city != "" && !strings.Contains(strings.ToLower(place), strings.ToLower(city)) {
		return fmt.Sprintf("%s, %s", place, city)
	}
	return place
}

func (r *ResolverImpl) lookupMode(ctx context.Context, originQ, destQ, mode string) *types.RouteEstimate {
	if r.client == nil {
		return nil
	}
	cacheKey := fmt.Sprintf("%s|%s|%s", originQ, destQ, mode)
	if cached, found := r.cache.Get(cacheKey); found {
		if est, ok := cached.(*types.RouteEstimate); ok {
			return est
		}
	}
	est, err := r.client.Lookup(ctx, originQ, destQ, mode)
	if err != nil {
		r.logger.WarnContext(ctx, "Distance matrix lookup failed",
			slog.String("mode", mode), slog.Any("error", err))
		return nil
	}
	if est == nil {
		return nil
	}
	r.cache.Set(cacheKey, est, cache.DefaultExpiration)
	return est
}

// GetRoute fetches walking and transit estimates between two places, filling
// gaps with mock data, and picks a recommended mode.
func (r *ResolverImpl) GetRoute(ctx context.Context, origin, destination, city string, prefs *types.TravelPreferences) (*types.TravelSegment, error) {
	ctx, span := otel.Tracer("RouteResolver").Start(ctx, "GetRoute")
	defer span.End()
	span.SetAttributes(
		attribute.String("route.origin", origin),
		attribute.String("route.destination", destination),
	)
	metrics.Get().RouteLookupsTotal.Add(ctx, 1)

	originQ := qualify(origin, city)
	destQ := qualify(destination, city)

	// Walking and transit lookups run concurrently.
	var wg sync.WaitGroup
	var walking, transit *types.RouteEstimate
	wg.Add(2)
	go func() {
		defer wg.Done()
		walking = r.lookupMode(ctx, originQ, destQ, types.ModeWalking)
	}()
	go func() {
		defer wg.Done()
		transit = r.lookupMode(ctx, originQ, destQ, types.ModeTransit)
	}()
	wg.Wait()

	if walking == nil || transit == nil {
		mockWalking, mockTransit := mockRoute(origin, destination)
		if walking == nil {
			r.logger.DebugContext(ctx, "Walking lookup miss, using mock",
				slog.String("origin", origin), slog.String("destination", destination))
			walking = mockWalking
		}
		if transit == nil {
			r.logger.DebugContext(ctx, "Transit lookup miss, using mock",
				slog.String("origin", origin), slog.String("destination", destination))
			transit = mockTransit
		}
	}

	recommended, display := PickMode(walking, transit, prefs)
	return &types.TravelSegment{
		Walking:     *walking,
		Transit:     *transit,
		Recommended: recommended,
		Display:     display,
	}, nil
}

const distanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

var _ DistanceMatrixClient = (*GoogleDistanceMatrixClient)(nil)

// GoogleDistanceMatrixClient calls the Google Distance Matrix API.
type GoogleDistanceMatrixClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewGoogleDistanceMatrixClient(apiKey string) *GoogleDistanceMatrixClient {
	return &GoogleDistanceMatrixClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			TransitDetails struct {
				Line struct {
					ShortName string `json:"short_name"`
				} `json:"line"`
			} `json:"transit_details"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *GoogleDistanceMatrixClient) Lookup(ctx context.Context, origin, destination, mode string) (*types.RouteEstimate, error) {
	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", mode)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, distanceMatrixURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance matrix request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var data distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if data.Status != "OK" || len(data.Rows) == 0 || len(data.Rows[0].Elements) == 0 {
		return nil, nil
	}
	element := data.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, nil
	}

	est := &types.RouteEstimate{
		DurationText:   element.Duration.Text,
		DurationSecs:   element.Duration.Value,
		DistanceText:   element.Distance.Text,
		DistanceMeters: element.Distance.Value,
	}
	if mode == types.ModeTransit {
		est.TransitName = element.TransitDetails.Line.ShortName
	}
	return est, nil
}

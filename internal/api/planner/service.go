package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/api/flights"
	"github.com/FACorreiaa/go-trip-planner/internal/api/hotels"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CompletionClient is the LLM collaborator the pipeline drives. Satisfied by
// generativeAI.AIClient.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service runs the full planning pipeline for one trip request.
type Service interface {
	PlanTrip(ctx context.Context, req types.TripRequest) (*types.TripPlan, error)
	PlanTripStream(ctx context.Context, req types.TripRequest) *types.StreamingResponse
}

type ServiceImpl struct {
	logger        *slog.Logger
	ai            CompletionClient
	flightService flights.Service
	hotelService  hotels.Service
	enricher      routing.Enricher
}

func NewServiceImpl(ai CompletionClient, flightService flights.Service, hotelService hotels.Service, enricher routing.Enricher, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		ai:            ai,
		flightService: flightService,
		hotelService:  hotelService,
		enricher:      enricher,
	}
}

func calcDuration(start, end string) (time.Time, int, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		return time.Time{}, 0, fmt.Errorf("end date %q precedes start date %q", end, start)
	}
	return s, days, nil
}

// emitFunc delivers one progress event; it reports false when the consumer is
// gone and no further events should be produced.
type emitFunc func(event types.StreamEvent) bool

func (s *ServiceImpl) progress(emit emitFunc, stage, status, message string) {
	if emit == nil {
		return
	}
	emit(types.StreamEvent{
		Type: types.EventTypeProgress,
		Data: types.StageProgress{Stage: stage, Status: status, Message: message},
	})
}

// emitData sends a stage's intermediate result so streaming consumers can
// render it before the plan completes.
func (s *ServiceImpl) emitData(emit emitFunc, eventType string, payload interface{}) {
	if emit == nil {
		return
	}
	emit(types.StreamEvent{Type: eventType, Data: payload})
}

// PlanTrip runs the pipeline synchronously and returns the finished plan.
func (s *ServiceImpl) PlanTrip(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("PlanningOrchestrator").Start(ctx, "PlanTrip")
	defer span.End()
	span.SetAttributes(attribute.String("trip.destination", req.Destination))

	plan, err := s.runPipeline(ctx, req, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "planning failed")
		return nil, err
	}
	return plan, nil
}

// runPipeline drives research, city selection, concurrent flight and hotel
// search, itinerary generation, validation and route enrichment. Collaborator
// failures degrade to fallbacks and are recorded as plan notes; only broken
// input or a cancelled context abort the run. Both entry points share this
// path so streaming and synchronous plans come out identical.
func (s *ServiceImpl) runPipeline(ctx context.Context, req types.TripRequest, emit emitFunc) (*types.TripPlan, error) {
	startDate, duration, err := calcDuration(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	origin := req.OriginCity
	if origin == "" {
		origin = "New York"
	}

	var notes []string

	// Research
	s.progress(emit, types.StageResearch, types.StageStatusRunning,
		fmt.Sprintf("Researching %s...", req.Destination))
	research, err := s.ai.Complete(ctx, plannerSystemPrompt,
		getResearchPrompt(req.Destination, duration, req.Interests, req.BudgetLevel), 0.7)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WarnContext(ctx, "Destination research failed, continuing without it",
			slog.Any("error", err))
		notes = append(notes, "destination research unavailable")
		research = ""
	}
	s.progress(emit, types.StageResearch, types.StageStatusDone,
		fmt.Sprintf("Research on %s complete", req.Destination))

	// City selection
	s.progress(emit, types.StageCitySelection, types.StageStatusRunning,
		fmt.Sprintf("Selecting cities in %s...", req.Destination))
	isCountry := IsLikelyCountry(req.Destination)
	cities := []string{strings.TrimSpace(req.Destination)}
	if isCountry {
		response, err := s.ai.Complete(ctx, plannerSystemPrompt,
			getCitySelectionPrompt(req.Destination, duration, req.Interests, req.BudgetLevel, research), 0.5)
		if err == nil {
			if parsed, perr := parseCityList(response); perr == nil {
				cities = parsed
			} else {
				s.logger.WarnContext(ctx, "City selection output unusable, using defaults",
					slog.Any("error", perr))
				cities = FallbackCities(req.Destination)
			}
		} else {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.WarnContext(ctx, "City selection call failed, using defaults",
				slog.Any("error", err))
			cities = FallbackCities(req.Destination)
		}
	}
	s.progress(emit, types.StageCitySelection, types.StageStatusDone,
		fmt.Sprintf("Cities selected: %s", strings.Join(cities, ", ")))
	s.emitData(emit, types.EventTypeCities, cities)

	// Flight and hotel search run concurrently. The cache lives for this run
	// only, so repeated identical queries inside one plan are served locally.
	searchCache := cache.New(cache.NoExpiration, 0)

	var (
		wg           sync.WaitGroup
		flightOffers []types.FlightOffer
		hotelOffers  []types.HotelOffer
		flightErr    error
		hotelErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.progress(emit, types.StageFlightSearch, types.StageStatusRunning, "Searching for flights...")
		flightOffers, flightErr = s.searchFlightsCached(ctx, searchCache, origin, cities[0], req.StartDate, req.EndDate, req.NumTravelers)
		if flightErr != nil {
			s.progress(emit, types.StageFlightSearch, types.StageStatusError, "Flight search unavailable")
			return
		}
		s.progress(emit, types.StageFlightSearch, types.StageStatusDone, "Flight search complete")
		s.emitData(emit, types.EventTypeFlights, flightOffers)
	}()
	go func() {
		defer wg.Done()
		s.progress(emit, types.StageHotelSearch, types.StageStatusRunning, "Finding accommodations...")
		hotelOffers, hotelErr = s.searchHotelsCached(ctx, searchCache, cities, req.StartDate, req.EndDate, req.NumTravelers)
		if hotelErr != nil {
			s.progress(emit, types.StageHotelSearch, types.StageStatusError, "Accommodation search unavailable")
			return
		}
		s.progress(emit, types.StageHotelSearch, types.StageStatusDone, "Accommodation search complete")
		s.emitData(emit, types.EventTypeHotels, hotelOffers)
	}()
	wg.Wait()

	if flightErr != nil {
		s.logger.WarnContext(ctx, "Flight search failed", slog.Any("error", flightErr))
		notes = append(notes, "flight search unavailable")
	}
	if hotelErr != nil {
		s.logger.WarnContext(ctx, "Hotel search failed", slog.Any("error", hotelErr))
		notes = append(notes, "hotel search unavailable")
	}

	// Itinerary generation
	s.progress(emit, types.StageItineraryGen, types.StageStatusRunning, "Building your day-by-day itinerary...")
	var days []types.Day
	response, err := s.ai.Complete(ctx, plannerSystemPrompt,
		getItineraryPrompt(req, duration, cities, research, flightOffers, hotelOffers), 0.7)
	if err == nil {
		if parsed, perr := parseItinerary(response); perr == nil {
			days = parsed
		} else {
			s.logger.WarnContext(ctx, "Itinerary output unusable, building fallback",
				slog.Any("error", perr))
		}
	} else {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.WarnContext(ctx, "Itinerary generation call failed, building fallback",
			slog.Any("error", err))
	}
	if len(days) == 0 {
		days = itinerary.BuildFallbackItinerary(cities, duration, startDate)
		notes = append(notes, "itinerary generated from fallback template")
	}
	itinerary.Normalize(days, cities[0])
	s.progress(emit, types.StageItineraryGen, types.StageStatusDone, "Itinerary planning complete")
	s.emitData(emit, types.EventTypeItinerary, days)

	// Validation may rewrite the itinerary; on any failure the unvalidated
	// version passes through and the failure becomes a note.
	s.progress(emit, types.StageValidation, types.StageStatusRunning, "Validating itinerary...")
	days, notes = s.validateItinerary(ctx, days, cities, notes)
	s.progress(emit, types.StageValidation, types.StageStatusDone, "Validation complete")

	// Route enrichment
	s.progress(emit, types.StageEnrichment, types.StageStatusRunning, "Computing travel routes...")
	for i := range days {
		days[i].Items = s.enricher.EnrichDay(ctx, days[i].Items, days[i].City, nil)
	}
	s.progress(emit, types.StageEnrichment, types.StageStatusDone, "Route enrichment complete")

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &types.TripPlan{
		Cities:          cities,
		Flights:         flightOffers,
		Accommodations:  hotelOffers,
		Itinerary:       days,
		IsCountryLevel:  isCountry,
		PlanningSummary: fmt.Sprintf("Planned %d days across %s", duration, strings.Join(cities, ", ")),
		Notes:           notes,
	}, nil
}

func (s *ServiceImpl) searchFlightsCached(ctx context.Context, searchCache *cache.Cache, origin, destination, departureDate, returnDate string, travelers int) ([]types.FlightOffer, error) {
	key := fmt.Sprintf("flights|%s|%s|%s|%s|%d", origin, destination, departureDate, returnDate, travelers)
	if cached, found := searchCache.Get(key); found {
		return cached.([]types.FlightOffer), nil
	}
	offers, err := s.flightService.SearchFlights(ctx, origin, destination, departureDate, returnDate, travelers)
	if err != nil {
		return nil, err
	}
	searchCache.Set(key, offers, cache.NoExpiration)
	return offers, nil
}

// searchHotelsCached fans out one search per city and keeps up to three
// offers per city, in city order.
func (s *ServiceImpl) searchHotelsCached(ctx context.Context, searchCache *cache.Cache, cities []string, checkIn, checkOut string, guests int) ([]types.HotelOffer, error) {
	hotelKey := func(city string) string {
		return fmt.Sprintf("hotels|%s|%s|%s|%d", city, checkIn, checkOut, guests)
	}

	// One search per distinct city; repeats and already-cached queries are
	// served from the run cache.
	var wg sync.WaitGroup
	var mu sync.Mutex
	var searchErr error
	scheduled := make(map[string]bool)
	for _, city := range cities {
		key := hotelKey(city)
		if scheduled[key] {
			continue
		}
		scheduled[key] = true
		if _, found := searchCache.Get(key); found {
			continue
		}
		wg.Add(1)
		go func(city, key string) {
			defer wg.Done()
			offers, err := s.hotelService.SearchHotels(ctx, city, checkIn, checkOut, guests)
			if err != nil {
				mu.Lock()
				searchErr = err
				mu.Unlock()
				return
			}
			if len(offers) > 3 {
				offers = offers[:3]
			}
			searchCache.Set(key, offers, cache.NoExpiration)
		}(city, key)
	}
	wg.Wait()

	var all []types.HotelOffer
	for _, city := range cities {
		if cached, found := searchCache.Get(hotelKey(city)); found {
			all = append(all, cached.([]types.HotelOffer)...)
		}
	}
	return all, searchErr
}

func (s *ServiceImpl) validateItinerary(ctx context.Context, days []types.Day, cities []string, notes []string) ([]types.Day, []string) {
	raw, err := json.Marshal(days)
	if err != nil {
		return days, append(notes, "validation skipped: itinerary not serializable")
	}
	response, err := s.ai.Complete(ctx, plannerSystemPrompt, getValidationPrompt(string(raw), cities), 0.2)
	if err != nil {
		s.logger.WarnContext(ctx, "Validation call failed, keeping unvalidated itinerary",
			slog.Any("error", err))
		return days, append(notes, "validation skipped: "+err.Error())
	}
	validated, err := parseItinerary(response)
	if err != nil {
		s.logger.WarnContext(ctx, "Validation output unusable, keeping unvalidated itinerary",
			slog.Any("error", err))
		return days, append(notes, "validation skipped: unusable output")
	}
	itinerary.Normalize(validated, cities[0])
	return validated, notes
}

package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Planning statuses on the trip record.
const (
	PlanningPending    = "pending"
	PlanningInProgress = "in_progress"
	PlanningCompleted  = "completed"
	PlanningFailed     = "failed"
)

// CreateTripRequest is the payload for creating a trip record.
type CreateTripRequest struct {
	Title               string   `json:"title"`
	Destination         string   `json:"destination"`
	OriginCity          string   `json:"origin_city"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	NumTravelers        int      `json:"num_travelers"`
	Interests           []string `json:"interests"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	BudgetLevel         string   `json:"budget_level"`
}

// PlanStatus reports where a trip's planning run stands.
type PlanStatus struct {
	TripID uuid.UUID       `json:"trip_id"`
	Status string          `json:"status"`
	Plan   *types.TripPlan `json:"plan,omitempty"`
}

var _ Service = (*ServiceImpl)(nil)

// Service manages trip records and drives planning runs against them.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.Trip, error)
	GetTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error
	// StartPlanning runs the planner synchronously and persists the result.
	StartPlanning(ctx context.Context, tripID, userID uuid.UUID) (*types.TripPlan, error)
	// StreamPlanning runs the planner and forwards its progress events. The
	// plan is persisted when the terminal complete event arrives.
	StreamPlanning(ctx context.Context, tripID, userID uuid.UUID) (*types.StreamingResponse, error)
	GetPlanStatus(ctx context.Context, tripID, userID uuid.UUID) (*PlanStatus, error)
	GetItinerary(ctx context.Context, tripID, userID uuid.UUID) ([]types.Day, error)
	UpdateItemStatus(ctx context.Context, tripID, userID uuid.UUID, itemID, status string, delayedToDay *int) error
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	planner planner.Service
}

func NewServiceImpl(repo Repository, plannerService planner.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		planner: plannerService,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req CreateTripRequest) (*types.Trip, error) {
	if req.Destination == "" {
		return nil, errors.New("destination is required")
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return nil, fmt.Errorf("invalid start date %q", req.StartDate)
	}
	if _, err := time.Parse("2006-01-02", req.EndDate); err != nil {
		return nil, fmt.Errorf("invalid end date %q", req.EndDate)
	}

	destinationType := "city"
	if planner.IsLikelyCountry(req.Destination) {
		destinationType = "country"
	}
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Trip to %s", req.Destination)
	}
	numTravelers := req.NumTravelers
	if numTravelers < 1 {
		numTravelers = 1
	}

	trip := &types.Trip{
		ID:                  uuid.New(),
		UserID:              userID,
		Title:               title,
		Destination:         req.Destination,
		DestinationType:     destinationType,
		OriginCity:          req.OriginCity,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		NumTravelers:        numTravelers,
		Interests:           req.Interests,
		DietaryRestrictions: req.DietaryRestrictions,
		BudgetLevel:         req.BudgetLevel,
		PlanningStatus:      PlanningPending,
		CreatedAt:           time.Now(),
	}
	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.Trip, error) {
	return s.repo.GetTrip(ctx, tripID, userID)
}

func (s *ServiceImpl) GetTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	return s.repo.GetTrips(ctx, userID)
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error {
	return s.repo.DeleteTrip(ctx, tripID, userID)
}

func (s *ServiceImpl) StartPlanning(ctx context.Context, tripID, userID uuid.UUID) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "StartPlanning", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlanningStatus(ctx, tripID, PlanningInProgress); err != nil {
		return nil, err
	}

	m := metrics.Get()
	m.PlanRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", "sync")))
	started := time.Now()

	plan, err := s.planner.PlanTrip(ctx, trip.Request())
	m.PlanDurationSeconds.Record(ctx, time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "planning failed")
		if statusErr := s.repo.UpdatePlanningStatus(ctx, tripID, PlanningFailed); statusErr != nil {
			s.logger.ErrorContext(ctx, "Failed to mark trip as failed",
				slog.String("trip_id", tripID.String()), slog.Any("error", statusErr))
		}
		return nil, err
	}

	if err := s.repo.SavePlan(ctx, tripID, plan); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return plan, nil
}

func (s *ServiceImpl) StreamPlanning(ctx context.Context, tripID, userID uuid.UUID) (*types.StreamingResponse, error) {
	trip, err := s.repo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlanningStatus(ctx, tripID, PlanningInProgress); err != nil {
		return nil, err
	}

	metrics.Get().PlanRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", "stream")))

	inner := s.planner.PlanTripStream(ctx, trip.Request())
	out := make(chan types.StreamEvent, cap(inner.Stream))

	go func() {
		defer close(out)
		for event := range inner.Stream {
			switch event.Type {
			case types.EventTypeComplete:
				if plan, ok := event.Data.(*types.TripPlan); ok {
					// Persist with a fresh context so a client disconnect
					// after completion does not lose the plan.
					saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
					if err := s.repo.SavePlan(saveCtx, tripID, plan); err != nil {
						s.logger.ErrorContext(saveCtx, "Failed to persist streamed plan",
							slog.String("trip_id", tripID.String()), slog.Any("error", err))
					}
					cancel()
				}
			case types.EventTypeError:
				if err := s.repo.UpdatePlanningStatus(context.WithoutCancel(ctx), tripID, PlanningFailed); err != nil {
					s.logger.ErrorContext(ctx, "Failed to mark trip as failed",
						slog.String("trip_id", tripID.String()), slog.Any("error", err))
				}
			}
			out <- event
		}
	}()

	return &types.StreamingResponse{
		PlanID: inner.PlanID,
		Stream: out,
		Cancel: inner.Cancel,
	}, nil
}

func (s *ServiceImpl) GetPlanStatus(ctx context.Context, tripID, userID uuid.UUID) (*PlanStatus, error) {
	trip, err := s.repo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	status := &PlanStatus{TripID: trip.ID, Status: trip.PlanningStatus}
	if trip.PlanningStatus == PlanningCompleted {
		status.Plan = trip.Plan
	}
	return status, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, tripID, userID uuid.UUID) ([]types.Day, error) {
	return s.repo.GetItinerary(ctx, tripID, userID)
}

func (s *ServiceImpl) UpdateItemStatus(ctx context.Context, tripID, userID uuid.UUID, itemID, status string, delayedToDay *int) error {
	switch status {
	case types.StatusPlanned, types.StatusCompleted, types.StatusSkipped:
	case types.StatusDelayed:
		if delayedToDay == nil {
			return errors.New("delayed status requires delayed_to_day")
		}
	default:
		return fmt.Errorf("unknown item status %q", status)
	}
	if status != types.StatusDelayed {
		delayedToDay = nil
	}

	// Ownership check before touching the item.
	if _, err := s.repo.GetTrip(ctx, tripID, userID); err != nil {
		return err
	}
	return s.repo.UpdateItemStatus(ctx, tripID, itemID, status, delayedToDay)
}

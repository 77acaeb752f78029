package trip

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrip(ctx context.Context, trip *types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, tripID, userID)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error {
	args := m.Called(ctx, tripID, userID)
	return args.Error(0)
}

func (m *MockRepository) UpdatePlanningStatus(ctx context.Context, tripID uuid.UUID, status string) error {
	args := m.Called(ctx, tripID, status)
	return args.Error(0)
}

func (m *MockRepository) SavePlan(ctx context.Context, tripID uuid.UUID, plan *types.TripPlan) error {
	args := m.Called(ctx, tripID, plan)
	return args.Error(0)
}

func (m *MockRepository) GetItinerary(ctx context.Context, tripID, userID uuid.UUID) ([]types.Day, error) {
	args := m.Called(ctx, tripID, userID)
	if d := args.Get(0); d != nil {
		return d.([]types.Day), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateItemStatus(ctx context.Context, tripID uuid.UUID, itemID, status string, delayedToDay *int) error {
	args := m.Called(ctx, tripID, itemID, status, delayedToDay)
	return args.Error(0)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) PlanTrip(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*types.TripPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanner) PlanTripStream(ctx context.Context, req types.TripRequest) *types.StreamingResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(*types.StreamingResponse)
}

func storedTrip(tripID, userID uuid.UUID) *types.Trip {
	return &types.Trip{
		ID:              tripID,
		UserID:          userID,
		Title:           "Trip to Japan",
		Destination:     "Japan",
		DestinationType: "country",
		StartDate:       "2026-04-01",
		EndDate:         "2026-04-10",
		NumTravelers:    2,
		PlanningStatus:  PlanningPending,
		CreatedAt:       time.Now(),
	}
}

func TestCreateTrip_Defaults(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, nil, slog.Default())
	userID := uuid.New()

	var created *types.Trip
	repo.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.Trip")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*types.Trip) }).
		Return(nil).Once()

	trip, err := svc.CreateTrip(context.Background(), userID, CreateTripRequest{
		Destination: "Japan",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-10",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, trip, created)
	assert.Equal(t, "country", trip.DestinationType)
	assert.Equal(t, "Trip to Japan", trip.Title)
	assert.Equal(t, 1, trip.NumTravelers)
	assert.Equal(t, PlanningPending, trip.PlanningStatus)
	assert.Equal(t, userID, trip.UserID)
	repo.AssertExpectations(t)
}

func TestCreateTrip_CityDestination(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, nil, slog.Default())
	repo.On("CreateTrip", mock.Anything, mock.Anything).Return(nil).Once()

	trip, err := svc.CreateTrip(context.Background(), uuid.New(), CreateTripRequest{
		Destination:  "Paris",
		StartDate:    "2026-04-01",
		EndDate:      "2026-04-03",
		NumTravelers: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "city", trip.DestinationType)
	assert.Equal(t, 3, trip.NumTravelers)
}

func TestCreateTrip_RejectsBadDates(t *testing.T) {
	svc := NewServiceImpl(new(MockRepository), nil, slog.Default())

	_, err := svc.CreateTrip(context.Background(), uuid.New(), CreateTripRequest{
		Destination: "Japan",
		StartDate:   "April 1st",
		EndDate:     "2026-04-10",
	})
	assert.Error(t, err)
}

func TestStartPlanning_PersistsPlan(t *testing.T) {
	repo := new(MockRepository)
	plannerSvc := new(MockPlanner)
	svc := NewServiceImpl(repo, plannerSvc, slog.Default())
	tripID, userID := uuid.New(), uuid.New()
	plan := &types.TripPlan{Cities: []string{"Tokyo"}}

	repo.On("GetTrip", mock.Anything, tripID, userID).Return(storedTrip(tripID, userID), nil).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningInProgress).Return(nil).Once()
	plannerSvc.On("PlanTrip", mock.Anything, mock.MatchedBy(func(req types.TripRequest) bool {
		return req.Destination == "Japan" && req.OriginCity == "New York"
	})).Return(plan, nil).Once()
	repo.On("SavePlan", mock.Anything, tripID, plan).Return(nil).Once()

	got, err := svc.StartPlanning(context.Background(), tripID, userID)
	require.NoError(t, err)
	assert.Equal(t, plan, got)
	repo.AssertExpectations(t)
	plannerSvc.AssertExpectations(t)
}

func TestStartPlanning_MarksFailedOnPlannerError(t *testing.T) {
	repo := new(MockRepository)
	plannerSvc := new(MockPlanner)
	svc := NewServiceImpl(repo, plannerSvc, slog.Default())
	tripID, userID := uuid.New(), uuid.New()

	repo.On("GetTrip", mock.Anything, tripID, userID).Return(storedTrip(tripID, userID), nil).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningInProgress).Return(nil).Once()
	plannerSvc.On("PlanTrip", mock.Anything, mock.Anything).
		Return(nil, errors.New("end date precedes start date")).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningFailed).Return(nil).Once()

	_, err := svc.StartPlanning(context.Background(), tripID, userID)
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestStreamPlanning_PersistsOnComplete(t *testing.T) {
	repo := new(MockRepository)
	plannerSvc := new(MockPlanner)
	svc := NewServiceImpl(repo, plannerSvc, slog.Default())
	tripID, userID := uuid.New(), uuid.New()
	plan := &types.TripPlan{Cities: []string{"Tokyo"}, PlanningSummary: "Planned 10 days across Tokyo"}

	inner := make(chan types.StreamEvent, 4)
	inner <- types.StreamEvent{Type: types.EventTypeStart}
	inner <- types.StreamEvent{Type: types.EventTypeProgress, Data: types.StageProgress{Stage: types.StageResearch, Status: types.StageStatusDone}}
	inner <- types.StreamEvent{Type: types.EventTypeComplete, Data: plan, IsFinal: true}
	close(inner)

	repo.On("GetTrip", mock.Anything, tripID, userID).Return(storedTrip(tripID, userID), nil).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningInProgress).Return(nil).Once()
	plannerSvc.On("PlanTripStream", mock.Anything, mock.Anything).Return(&types.StreamingResponse{
		PlanID: uuid.New(),
		Stream: inner,
		Cancel: func() {},
	}).Once()
	repo.On("SavePlan", mock.Anything, tripID, plan).Return(nil).Once()

	stream, err := svc.StreamPlanning(context.Background(), tripID, userID)
	require.NoError(t, err)

	var events []types.StreamEvent
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, open := <-stream.Stream:
			if !open {
				goto drained
			}
			events = append(events, event)
		case <-deadline:
			t.Fatal("stream did not close in time")
		}
	}
drained:
	require.Len(t, events, 3)
	assert.Equal(t, types.EventTypeComplete, events[2].Type)
	repo.AssertExpectations(t)
}

func TestStreamPlanning_MarksFailedOnErrorEvent(t *testing.T) {
	repo := new(MockRepository)
	plannerSvc := new(MockPlanner)
	svc := NewServiceImpl(repo, plannerSvc, slog.Default())
	tripID, userID := uuid.New(), uuid.New()

	inner := make(chan types.StreamEvent, 2)
	inner <- types.StreamEvent{Type: types.EventTypeError, Error: "invalid start date", IsFinal: true}
	close(inner)

	repo.On("GetTrip", mock.Anything, tripID, userID).Return(storedTrip(tripID, userID), nil).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningInProgress).Return(nil).Once()
	plannerSvc.On("PlanTripStream", mock.Anything, mock.Anything).Return(&types.StreamingResponse{
		PlanID: uuid.New(),
		Stream: inner,
		Cancel: func() {},
	}).Once()
	repo.On("UpdatePlanningStatus", mock.Anything, tripID, PlanningFailed).Return(nil).Once()

	stream, err := svc.StreamPlanning(context.Background(), tripID, userID)
	require.NoError(t, err)

	event := <-stream.Stream
	assert.Equal(t, types.EventTypeError, event.Type)
	_, open := <-stream.Stream
	assert.False(t, open)
	repo.AssertExpectations(t)
}

func TestGetPlanStatus_OnlyExposesCompletedPlan(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, nil, slog.Default())
	tripID, userID := uuid.New(), uuid.New()

	trip := storedTrip(tripID, userID)
	trip.PlanningStatus = PlanningInProgress
	trip.Plan = &types.TripPlan{Cities: []string{"Tokyo"}}
	repo.On("GetTrip", mock.Anything, tripID, userID).Return(trip, nil).Once()

	status, err := svc.GetPlanStatus(context.Background(), tripID, userID)
	require.NoError(t, err)
	assert.Equal(t, PlanningInProgress, status.Status)
	assert.Nil(t, status.Plan)
}

func TestUpdateItemStatus_Validation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, nil, slog.Default())
	tripID, userID := uuid.New(), uuid.New()

	err := svc.UpdateItemStatus(context.Background(), tripID, userID, "day1_item0", types.StatusDelayed, nil)
	assert.ErrorContains(t, err, "delayed_to_day")

	err = svc.UpdateItemStatus(context.Background(), tripID, userID, "day1_item0", "postponed", nil)
	assert.ErrorContains(t, err, "unknown item status")
}

func TestUpdateItemStatus_ClearsDelayedDayForCompleted(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, nil, slog.Default())
	tripID, userID := uuid.New(), uuid.New()

	day := 3
	repo.On("GetTrip", mock.Anything, tripID, userID).Return(storedTrip(tripID, userID), nil).Once()
	repo.On("UpdateItemStatus", mock.Anything, tripID, "day1_item0", types.StatusCompleted, (*int)(nil)).
		Return(nil).Once()

	err := svc.UpdateItemStatus(context.Background(), tripID, userID, "day1_item0", types.StatusCompleted, &day)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

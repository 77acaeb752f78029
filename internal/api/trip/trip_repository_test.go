package trip

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepo(mock, slog.Default()), mock
}

func TestCreateTrip(t *testing.T) {
	repo, mock := newMockRepo(t)

	trip := &types.Trip{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Title:           "Trip to Japan",
		Destination:     "Japan",
		DestinationType: "country",
		OriginCity:      "New York",
		StartDate:       "2026-04-01",
		EndDate:         "2026-04-10",
		NumTravelers:    2,
		Interests:       []string{"food", "temples"},
		PlanningStatus:  PlanningPending,
		CreatedAt:       time.Now(),
	}

	mock.ExpectExec("INSERT INTO trips").
		WithArgs(trip.ID, trip.UserID, trip.Title, trip.Destination, trip.DestinationType,
			trip.OriginCity, trip.StartDate, trip.EndDate, trip.NumTravelers, trip.Interests,
			trip.DietaryRestrictions, trip.BudgetLevel, trip.PlanningStatus, trip.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.CreateTrip(context.Background(), trip)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func tripRow(trip *types.Trip, planData []byte) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "title", "destination", "destination_type", "origin_city",
		"start_date", "end_date", "num_travelers", "interests", "dietary_restrictions",
		"budget_level", "planning_status", "plan_data", "created_at", "updated_at",
	}).AddRow(
		trip.ID, trip.UserID, trip.Title, trip.Destination, trip.DestinationType, trip.OriginCity,
		trip.StartDate, trip.EndDate, trip.NumTravelers, trip.Interests, trip.DietaryRestrictions,
		trip.BudgetLevel, trip.PlanningStatus, planData, trip.CreatedAt, trip.UpdatedAt,
	)
}

func TestGetTrip_DecodesStoredPlan(t *testing.T) {
	repo, mock := newMockRepo(t)

	trip := &types.Trip{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Title:           "Trip to Japan",
		Destination:     "Japan",
		DestinationType: "country",
		StartDate:       "2026-04-01",
		EndDate:         "2026-04-10",
		NumTravelers:    2,
		PlanningStatus:  PlanningCompleted,
		CreatedAt:       time.Now(),
	}
	planData, err := json.Marshal(&types.TripPlan{
		Cities:          []string{"Tokyo", "Kyoto"},
		IsCountryLevel:  true,
		PlanningSummary: "Planned 10 days across Tokyo, Kyoto",
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").
		WithArgs(trip.ID, trip.UserID).
		WillReturnRows(tripRow(trip, planData))

	got, err := repo.GetTrip(context.Background(), trip.ID, trip.UserID)
	require.NoError(t, err)
	assert.Equal(t, trip.Title, got.Title)
	require.NotNil(t, got.Plan)
	assert.Equal(t, []string{"Tokyo", "Kyoto"}, got.Plan.Cities)
	assert.True(t, got.Plan.IsCountryLevel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTrip_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID, userID := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").
		WithArgs(tripID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetTrip(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTrip(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID, userID := uuid.New(), uuid.New()
	mock.ExpectExec("DELETE FROM trips WHERE id").
		WithArgs(tripID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteTrip(context.Background(), tripID, userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTrip_WrongOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID, userID := uuid.New(), uuid.New()
	mock.ExpectExec("DELETE FROM trips WHERE id").
		WithArgs(tripID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteTrip(context.Background(), tripID, userID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePlanningStatus_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID := uuid.New()
	mock.ExpectExec("UPDATE trips SET planning_status").
		WithArgs(PlanningFailed, pgxmock.AnyArg(), tripID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePlanningStatus(context.Background(), tripID, PlanningFailed)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_ReplacesChildRowsInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID := uuid.New()
	cost := types.CostAmount(15)
	userAdded := false
	plan := &types.TripPlan{
		Cities: []string{"Tokyo"},
		Flights: []types.FlightOffer{{
			ID: "mock_flight_out_0", FlightType: "outbound", Airline: "Japan Airlines",
			FromAirport: "JFK", ToAirport: "NRT", Price: 640, Currency: "USD",
		}},
		Accommodations: []types.HotelOffer{{
			ID: "mock_hotel_tokyo_0", Name: "Tokyo Grand Hotel", Type: "hotel", City: "Tokyo",
			PricePerNight: 180, TotalPrice: 720, Currency: "USD", Rating: 4.5,
		}},
		Itinerary: []types.Day{{
			DayNumber: 1,
			Date:      "2026-04-01",
			City:      "Tokyo",
			Items: []types.ActivityItem{
				{ID: "day1_item0", StartTime: "08:30", Title: "Breakfast", ItemType: types.ItemTypeMeal, Cost: cost, CostUSD: &cost, IsAISuggested: &userAdded},
				{ID: "day1_item1", StartTime: "10:00", Title: "Explore Tokyo", ItemType: types.ItemTypeAttraction, TravelInfo: &types.TravelSegment{Recommended: types.ModeWalking}},
			},
		}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET plan_data").
		WithArgs(pgxmock.AnyArg(), "completed", pgxmock.AnyArg(), tripID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM flights").WithArgs(tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM accommodations").WithArgs(tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM itinerary_items").WithArgs(tripID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO flights").
		WithArgs("mock_flight_out_0", tripID, "outbound", "Japan Airlines", "",
			"JFK", "NRT", "", "", 0, 640.0, "USD", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO accommodations").
		WithArgs("mock_hotel_tokyo_0", tripID, "Tokyo Grand Hotel", "hotel", "", "Tokyo",
			"", "", 180.0, 720.0, "USD", 4.5, []string(nil), "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO itinerary_items").
		WithArgs("day1_item0", tripID, 1, "2026-04-01", "Tokyo",
			"08:30", 0, "Breakfast", "", types.ItemTypeMeal,
			"", 15.0, "", "", "", (*int)(nil), false, "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO itinerary_items").
		WithArgs("day1_item1", tripID, 1, "2026-04-01", "Tokyo",
			"10:00", 0, "Explore Tokyo", "", types.ItemTypeAttraction,
			"", 0.0, "", "", "", (*int)(nil), true, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := repo.SavePlan(context.Background(), tripID, plan)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_MissingTrip(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET plan_data").
		WithArgs(pgxmock.AnyArg(), "completed", pgxmock.AnyArg(), tripID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.SavePlan(context.Background(), tripID, &types.TripPlan{})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItinerary_GroupsItemsByDay(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID, userID := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT user_id FROM trips").
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(userID))

	rows := pgxmock.NewRows([]string{
		"id", "day_number", "date", "city", "start_time", "duration_minutes", "title",
		"description", "item_type", "location", "cost_usd", "currency", "notes", "status",
		"delayed_to_day", "is_ai_suggested", "google_maps_url", "travel_info",
	}).
		AddRow("day1_item0", 1, "2026-04-01", "Tokyo", "08:30", 60, "Breakfast",
			"", types.ItemTypeMeal, "Tokyo Cafe", 15.0, "USD", "", types.StatusPlanned,
			(*int)(nil), true, "", []byte(nil)).
		AddRow("day1_item1", 1, "2026-04-01", "Tokyo", "10:00", 150, "Explore Tokyo",
			"", types.ItemTypeAttraction, "Tokyo City Center", 0.0, "USD", "", types.StatusPlanned,
			(*int)(nil), true, "", []byte(`{"recommended":"walking","display":"🚶 Walk 18 min","walking":{},"transit":{}}`)).
		AddRow("day2_item0", 2, "2026-04-02", "Tokyo", "08:30", 60, "Breakfast",
			"", types.ItemTypeMeal, "Tokyo Cafe", 15.0, "USD", "", types.StatusPlanned,
			(*int)(nil), true, "", []byte(nil))
	mock.ExpectQuery("SELECT (.+) FROM itinerary_items").
		WithArgs(tripID).
		WillReturnRows(rows)

	days, err := repo.GetItinerary(context.Background(), tripID, userID)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].DayNumber)
	require.Len(t, days[0].Items, 2)
	require.Len(t, days[1].Items, 1)

	// cost_usd mirrors into both cost fields
	first := days[0].Items[0]
	assert.Equal(t, types.CostAmount(15), first.Cost)
	require.NotNil(t, first.CostUSD)
	assert.Equal(t, types.CostAmount(15), *first.CostUSD)

	second := days[0].Items[1]
	require.NotNil(t, second.TravelInfo)
	assert.Equal(t, types.ModeWalking, second.TravelInfo.Recommended)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItinerary_WrongOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID := uuid.New()
	mock.ExpectQuery("SELECT user_id FROM trips").
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uuid.New()))

	_, err := repo.GetItinerary(context.Background(), tripID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	tripID := uuid.New()
	delayed := 3
	mock.ExpectExec("UPDATE itinerary_items SET status").
		WithArgs(types.StatusDelayed, &delayed, tripID, "day1_item2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateItemStatus(context.Background(), tripID, "day1_item2", types.StatusDelayed, &delayed)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

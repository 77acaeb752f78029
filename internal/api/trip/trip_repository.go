package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ErrNotFound is returned when a trip does not exist or belongs to another user.
var ErrNotFound = errors.New("trip not found")

var _ Repository = (*PostgresRepo)(nil)

// Repository defines the contract for trip persistence.
type Repository interface {
	CreateTrip(ctx context.Context, trip *types.Trip) error
	GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.Trip, error)
	GetTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error
	UpdatePlanningStatus(ctx context.Context, tripID uuid.UUID, status string) error
	// SavePlan stores the finished plan and replaces the trip's flight,
	// accommodation and itinerary rows in a single transaction.
	SavePlan(ctx context.Context, tripID uuid.UUID, plan *types.TripPlan) error
	GetItinerary(ctx context.Context, tripID, userID uuid.UUID) ([]types.Day, error)
	UpdateItemStatus(ctx context.Context, tripID uuid.UUID, itemID, status string, delayedToDay *int) error
}

type PostgresRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewPostgresRepo(pgpool api.PGXPool, logger *slog.Logger) *PostgresRepo {
	return &PostgresRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepo) CreateTrip(ctx context.Context, trip *types.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, title, destination, destination_type, origin_city,
		                   start_date, end_date, num_travelers, interests,
		                   dietary_restrictions, budget_level, planning_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pgpool.Exec(ctx, query,
		trip.ID, trip.UserID, trip.Title, trip.Destination, trip.DestinationType, trip.OriginCity,
		trip.StartDate, trip.EndDate, trip.NumTravelers, trip.Interests,
		trip.DietaryRestrictions, trip.BudgetLevel, trip.PlanningStatus, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

const tripColumns = `id, user_id, title, destination, destination_type, origin_city,
	start_date, end_date, num_travelers, interests, dietary_restrictions,
	budget_level, planning_status, plan_data, created_at, updated_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var t types.Trip
	var planData []byte
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Destination, &t.DestinationType, &t.OriginCity,
		&t.StartDate, &t.EndDate, &t.NumTravelers, &t.Interests, &t.DietaryRestrictions,
		&t.BudgetLevel, &t.PlanningStatus, &planData, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(planData) > 0 {
		var plan types.TripPlan
		if err := json.Unmarshal(planData, &plan); err != nil {
			return nil, fmt.Errorf("failed to decode stored plan: %w", err)
		}
		t.Plan = &plan
	}
	return &t, nil
}

func (r *PostgresRepo) GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1 AND user_id = $2", tripColumns)
	t, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	return t, nil
}

func (r *PostgresRepo) GetTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE user_id = $1 ORDER BY created_at DESC", tripColumns)
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []types.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading trips: %w", err)
	}
	return trips, nil
}

// DeleteTrip removes a trip. Flight, accommodation and itinerary rows go with
// it through the cascading foreign keys.
func (r *PostgresRepo) DeleteTrip(ctx context.Context, tripID, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM trips WHERE id = $1 AND user_id = $2", tripID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpdatePlanningStatus(ctx context.Context, tripID uuid.UUID, status string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE trips SET planning_status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to update planning status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SavePlan(ctx context.Context, tripID uuid.UUID, plan *types.TripPlan) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "SavePlan", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	planData, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		"UPDATE trips SET plan_data = $1, planning_status = $2, updated_at = $3 WHERE id = $4",
		planData, "completed", time.Now(), tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to store plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	for _, table := range []string{"flights", "accommodations", "itinerary_items"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE trip_id = $1", table), tripID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, f := range plan.Flights {
		_, err := tx.Exec(ctx, `
			INSERT INTO flights (id, trip_id, flight_type, airline, flight_number,
			                     from_airport, to_airport, departure_datetime, arrival_datetime,
			                     duration_minutes, price, currency, booking_url, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			f.ID, tripID, f.FlightType, f.Airline, f.FlightNumber,
			f.FromAirport, f.ToAirport, f.DepartureDateTime, f.ArrivalDateTime,
			f.DurationMinutes, f.Price, f.Currency, f.BookingURL, f.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert flight %s: %w", f.ID, err)
		}
	}

	for _, h := range plan.Accommodations {
		_, err := tx.Exec(ctx, `
			INSERT INTO accommodations (id, trip_id, name, type, address, city,
			                            check_in_date, check_out_date, price_per_night, total_price,
			                            currency, rating, amenities, booking_url, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			h.ID, tripID, h.Name, h.Type, h.Address, h.City,
			h.CheckInDate, h.CheckOutDate, h.PricePerNight, h.TotalPrice,
			h.Currency, h.Rating, h.Amenities, h.BookingURL, h.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert accommodation %s: %w", h.ID, err)
		}
	}

	for _, day := range plan.Itinerary {
		for _, item := range day.Items {
			var travelInfo []byte
			if item.TravelInfo != nil {
				travelInfo, err = json.Marshal(item.TravelInfo)
				if err != nil {
					return fmt.Errorf("failed to encode travel info for %s: %w", item.ID, err)
				}
			}
			var costUSD float64
			if item.CostUSD != nil {
				costUSD = float64(*item.CostUSD)
			} else {
				costUSD = float64(item.Cost)
			}
			aiSuggested := true
			if item.IsAISuggested != nil {
				aiSuggested = *item.IsAISuggested
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO itinerary_items (id, trip_id, day_number, date, city,
				                             start_time, duration_minutes, title, description, item_type,
				                             location, cost_usd, currency, notes, status,
				                             delayed_to_day, is_ai_suggested, google_maps_url, travel_info)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
				item.ID, tripID, day.DayNumber, day.Date, day.City,
				item.StartTime, item.DurationMinutes, item.Title, item.Description, item.ItemType,
				item.Location, costUSD, item.Currency, item.Notes, item.Status,
				item.DelayedToDay, aiSuggested, item.GoogleMapsURL, travelInfo,
			)
			if err != nil {
				return fmt.Errorf("failed to insert itinerary item %s: %w", item.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetItinerary(ctx context.Context, tripID, userID uuid.UUID) ([]types.Day, error) {
	var owner uuid.UUID
	err := r.pgpool.QueryRow(ctx, "SELECT user_id FROM trips WHERE id = $1", tripID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch trip owner: %w", err)
	}
	if owner != userID {
		return nil, ErrNotFound
	}

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, day_number, date, city, start_time, duration_minutes, title,
		       description, item_type, location, cost_usd, currency, notes, status,
		       delayed_to_day, is_ai_suggested, google_maps_url, travel_info
		FROM itinerary_items WHERE trip_id = $1
		ORDER BY day_number, start_time`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch itinerary: %w", err)
	}
	defer rows.Close()

	var days []types.Day
	for rows.Next() {
		var item types.ActivityItem
		var dayNumber int
		var date, city string
		var costUSD float64
		var aiSuggested bool
		var travelInfo []byte
		err := rows.Scan(
			&item.ID, &dayNumber, &date, &city, &item.StartTime, &item.DurationMinutes, &item.Title,
			&item.Description, &item.ItemType, &item.Location, &costUSD, &item.Currency, &item.Notes, &item.Status,
			&item.DelayedToDay, &aiSuggested, &item.GoogleMapsURL, &travelInfo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan itinerary item: %w", err)
		}
		cost := types.CostAmount(costUSD)
		item.Cost = cost
		item.CostUSD = &cost
		item.IsAISuggested = &aiSuggested
		if len(travelInfo) > 0 {
			var seg types.TravelSegment
			if err := json.Unmarshal(travelInfo, &seg); err != nil {
				return nil, fmt.Errorf("failed to decode travel info for %s: %w", item.ID, err)
			}
			item.TravelInfo = &seg
		}
		if len(days) == 0 || days[len(days)-1].DayNumber != dayNumber {
			days = append(days, types.Day{DayNumber: dayNumber, Date: date, City: city})
		}
		last := &days[len(days)-1]
		last.Items = append(last.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading itinerary: %w", err)
	}
	return days, nil
}

func (r *PostgresRepo) UpdateItemStatus(ctx context.Context, tripID uuid.UUID, itemID, status string, delayedToDay *int) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE itinerary_items SET status = $1, delayed_to_day = $2 WHERE trip_id = $3 AND id = $4",
		status, delayedToDay, tripID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

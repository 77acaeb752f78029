package trip

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateTrip(w http.ResponseWriter, r *http.Request)
	GetTrips(w http.ResponseWriter, r *http.Request)
	GetTrip(w http.ResponseWriter, r *http.Request)
	DeleteTrip(w http.ResponseWriter, r *http.Request)
	StartPlanning(w http.ResponseWriter, r *http.Request)
	StreamPlanning(w http.ResponseWriter, r *http.Request)
	GetPlanStatus(w http.ResponseWriter, r *http.Request)
	GetItinerary(w http.ResponseWriter, r *http.Request)
	UpdateItemStatus(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	tripService Service
	logger      *slog.Logger
}

func NewHandlerImpl(tripService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		tripService: tripService,
		logger:      logger,
	}
}

// requestIDs pulls the authenticated user and the trip ID out of the request.
func requestIDs(w http.ResponseWriter, r *http.Request) (tripID, userID uuid.UUID, ok bool) {
	userIDStr, found := auth.GetUserIDFromContext(r.Context())
	if !found || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err = uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tripID, userID, true
}

func (h *HandlerImpl) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, userID, req)
	if err != nil {
		l.WarnContext(ctx, "Failed to create trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

func (h *HandlerImpl) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTrips"))

	userIDStr, ok := auth.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	trips, err := h.tripService.GetTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}
	if trips == nil {
		trips = []types.Trip{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTrip"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *HandlerImpl) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteTrip"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.tripService.DeleteTrip(ctx, tripID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) StartPlanning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "StartPlanning"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	plan, err := h.tripService.StartPlanning(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Planning failed", slog.String("trip_id", tripID.String()), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Planning failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// StreamPlanning runs the planner and relays its events as Server-Sent Events,
// one JSON event per "data:" line.
func (h *HandlerImpl) StreamPlanning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "StreamPlanning"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	stream, err := h.tripService.StreamPlanning(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to start planning stream", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to start planning")
		return
	}
	defer stream.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-stream.Stream:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				l.ErrorContext(ctx, "Failed to encode stream event", slog.Any("error", err))
				continue
			}
			if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
			if event.IsFinal {
				return
			}
		}
	}
}

func (h *HandlerImpl) GetPlanStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPlanStatus"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	status, err := h.tripService.GetPlanStatus(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch plan status", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch plan status")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, status)
}

func (h *HandlerImpl) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetItinerary"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}

	days, err := h.tripService.GetItinerary(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch itinerary")
		return
	}
	if days == nil {
		days = []types.Day{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"trip_id":   tripID,
		"itinerary": days,
	})
}

// UpdateItemStatusRequest is the payload for marking an itinerary item.
type UpdateItemStatusRequest struct {
	Status       string `json:"status"`
	DelayedToDay *int   `json:"delayed_to_day,omitempty"`
}

func (h *HandlerImpl) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateItemStatus"))

	tripID, userID, ok := requestIDs(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Item ID required")
		return
	}

	var req UpdateItemStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.tripService.UpdateItemStatus(ctx, tripID, userID, itemID, req.Status, req.DelayedToDay)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip or item not found")
			return
		}
		l.WarnContext(ctx, "Failed to update item status", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

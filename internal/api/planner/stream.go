package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"

	"github.com/google/uuid"
)

// streamBufferSize absorbs bursts from the pipeline while the consumer
// drains. Sends block once full rather than dropping events.
const streamBufferSize = 100

func (s *ServiceImpl) sendEvent(ctx context.Context, ch chan<- types.StreamEvent, event types.StreamEvent) (sent bool) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Context cancelled, not sending stream event",
			slog.String("eventType", event.Type))
		return false
	case ch <- event:
		return true
	}
}

// PlanTripStream runs the pipeline in the background and streams progress
// events. The final event is either a complete event carrying the plan or an
// error event; the channel closes after it. Cancel stops event delivery while
// in-flight work runs to completion.
func (s *ServiceImpl) PlanTripStream(ctx context.Context, req types.TripRequest) *types.StreamingResponse {
	ctx, cancel := context.WithCancel(ctx)
	eventCh := make(chan types.StreamEvent, streamBufferSize)
	planID := uuid.New()

	go func() {
		defer close(eventCh)

		s.sendEvent(ctx, eventCh, types.StreamEvent{
			Type: types.EventTypeStart,
			Data: map[string]string{"destination": req.Destination},
		})

		emit := func(event types.StreamEvent) bool {
			return s.sendEvent(ctx, eventCh, event)
		}

		plan, err := s.runPipeline(ctx, req, emit)
		if err != nil {
			s.logger.ErrorContext(ctx, "Planning pipeline failed",
				slog.String("destination", req.Destination), slog.Any("error", err))
			s.sendEvent(ctx, eventCh, types.StreamEvent{
				Type:    types.EventTypeError,
				Error:   err.Error(),
				IsFinal: true,
			})
			return
		}

		s.sendEvent(ctx, eventCh, types.StreamEvent{
			Type:    types.EventTypeComplete,
			Data:    plan,
			IsFinal: true,
		})
	}()

	return &types.StreamingResponse{
		PlanID: planID,
		Stream: eventCh,
		Cancel: cancel,
	}
}

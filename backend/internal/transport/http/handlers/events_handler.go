package handlers

import (
	"errors"
	"net/http"

	analyticsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	userssvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/users"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type EventsHandler struct {
	service *analyticsvc.Service
	users   *userssvc.Service
}

func NewEventsHandler(service *analyticsvc.Service, users *userssvc.Service) *EventsHandler {
	return &EventsHandler{service: service, users: users}
}

func (h *EventsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil || h.users == nil {
		writeInternal(w, "EVENTS_SERVICE_UNAVAILABLE", "events service is unavailable")
		return
	}

	var req dto.EventsBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	current, err := h.users.Resolve(r.Context(), identity)
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to resolve caller")
		return
	}

	input := make([]analyticsvc.BatchEvent, 0, len(req))
	for _, item := range req {
		input = append(input, analyticsvc.BatchEvent{
			Name:  item.Name,
			TS:    item.TS,
			Props: item.Props,
		})
	}

	if err := h.service.IngestBatch(r.Context(), current.ID, input); err != nil {
		switch {
		case errors.Is(err, analyticsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid events batch: max 100 events, each with non-empty name")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to ingest events")
		}
		return
	}

	httperrors.Write(w, http.StatusAccepted, dto.EventsBatchResponse{
		OK:       true,
		Accepted: len(input),
	})
}

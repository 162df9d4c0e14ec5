package handlers

import (
	"errors"
	"net/http"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	connsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/connections"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type ConnectionsHandler struct {
	service *connsvc.Service
}

func NewConnectionsHandler(service *connsvc.Service) *ConnectionsHandler {
	return &ConnectionsHandler{service: service}
}

func (h *ConnectionsHandler) Request(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	var req dto.ConnectionRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	conn, err := h.service.Request(r.Context(), identity, req.UserID)
	if err != nil {
		handleConnectionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, conn)
}

func (h *ConnectionsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "id must be a positive integer")
		return
	}

	conn, err := h.service.Accept(r.Context(), identity, id)
	if err != nil {
		handleConnectionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, conn)
}

func (h *ConnectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTION_SERVICE_UNAVAILABLE", "connection service is unavailable")
		return
	}

	items, err := h.service.ListAccepted(r.Context(), identity)
	if err != nil {
		handleConnectionError(w, err)
		return
	}
	if items == nil {
		items = make([]model.Connection, 0)
	}

	httperrors.Write(w, http.StatusOK, dto.ConnectionsListResponse{Items: items})
}

func handleConnectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, connsvc.ErrSelfConnection):
		writeBadRequest(w, "SELF_CONNECTION", "cannot connect to yourself")
	case errors.Is(err, connsvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, connsvc.ErrNotFound):
		writeNotFound(w, "CONNECTION_NOT_FOUND", "pending connection not found")
	case errors.Is(err, connsvc.ErrAlreadyExists):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "CONNECTION_EXISTS",
			Message: "connection already exists",
		})
	case writeServiceError(w, err):
	default:
		writeInternal(w, "INTERNAL_ERROR", "connection operation failed")
	}
}

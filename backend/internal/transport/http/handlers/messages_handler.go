package handlers

import (
	"errors"
	"net/http"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	messagesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/messages"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagesvc.Service
}

func NewMessagesHandler(service *messagesvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), identity, req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, messagesvc.ErrReceiverNotFound):
			writeNotFound(w, "RECEIVER_NOT_FOUND", "receiver not found")
		case writeServiceError(w, err):
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to send message")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, msg)
}

func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return
	}

	otherID, ok := parseIDParam(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	items, err := h.service.Conversation(r.Context(), identity, otherID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load conversation")
		return
	}
	if items == nil {
		items = make([]model.Message, 0)
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationResponse{Items: items})
}

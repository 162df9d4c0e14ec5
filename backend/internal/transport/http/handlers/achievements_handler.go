package handlers

import (
	"errors"
	"net/http"

	achievementsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/achievements"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type AchievementsHandler struct {
	service *achievementsvc.Service
}

func NewAchievementsHandler(service *achievementsvc.Service) *AchievementsHandler {
	return &AchievementsHandler{service: service}
}

func (h *AchievementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ACHIEVEMENT_SERVICE_UNAVAILABLE", "achievement service is unavailable")
		return
	}

	var req dto.CreateAchievementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), identity, achievementsvc.CreateInput{
		Title: req.Title,
		Date:  req.Date,
		Icon:  req.Icon,
	})
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create achievement")
		return
	}

	httperrors.Write(w, http.StatusCreated, item)
}

func (h *AchievementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ACHIEVEMENT_SERVICE_UNAVAILABLE", "achievement service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "id must be a positive integer")
		return
	}

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, achievementsvc.ErrNotFound):
			writeNotFound(w, "ACHIEVEMENT_NOT_FOUND", "achievement not found")
		case writeServiceError(w, err):
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete achievement")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	extrasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/extracurriculars"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type ExtracurricularsHandler struct {
	service *extrasvc.Service
}

func NewExtracurricularsHandler(service *extrasvc.Service) *ExtracurricularsHandler {
	return &ExtracurricularsHandler{service: service}
}

func (h *ExtracurricularsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "EXTRACURRICULAR_SERVICE_UNAVAILABLE", "extracurricular service is unavailable")
		return
	}

	var req dto.CreateExtracurricularRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	item, err := h.service.Create(r.Context(), identity, extrasvc.CreateInput{
		Title:        req.Title,
		Organization: req.Organization,
		Type:         req.Type,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Description:  req.Description,
		Logo:         req.Logo,
	})
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to create extracurricular")
		return
	}

	httperrors.Write(w, http.StatusCreated, item)
}

func (h *ExtracurricularsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "EXTRACURRICULAR_SERVICE_UNAVAILABLE", "extracurricular service is unavailable")
		return
	}

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "id must be a positive integer")
		return
	}

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, extrasvc.ErrNotFound):
			writeNotFound(w, "EXTRACURRICULAR_NOT_FOUND", "extracurricular not found")
		case writeServiceError(w, err):
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete extracurricular")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

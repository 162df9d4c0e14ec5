package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	profilesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/profiles"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	targetID, ok := parseIDParam(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	bundle, err := h.service.GetProfileByUserID(r.Context(), identity, targetID, clientIP(r))
	if err != nil {
		if errors.Is(err, authsvc.ErrUnauthorized) {
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", err.Error())
		return
	}
	if bundle == nil {
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		return
	}

	httperrors.Write(w, http.StatusOK, bundle)
}

func (h *ProfileHandler) Strength(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	userID, ok := parseIDParam(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	score, err := h.service.CalculateProfileStrength(r.Context(), userID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to calculate profile strength")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileStrengthResponse{UserID: userID, Score: score})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity, toProfileUpdate(req))
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to update profile")
		return
	}

	httperrors.Write(w, http.StatusOK, user)
}

func (h *ProfileHandler) Completeness(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	score, complete, err := h.service.UpdateProfileCompleteness(r.Context(), identity)
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to update profile completeness")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileCompletenessResponse{
		Score:           score,
		ProfileComplete: complete,
	})
}

func toProfileUpdate(req dto.UpdateProfileRequest) profilesvc.ProfileUpdate {
	in := profilesvc.ProfileUpdate{
		Name:           req.Name,
		Headline:       req.Headline,
		Bio:            req.Bio,
		Location:       req.Location,
		University:     req.University,
		GraduationYear: req.GraduationYear,
		Visibility:     req.Visibility,
		LinkedinURL:    req.LinkedinURL,
		GithubURL:      req.GithubURL,
		PortfolioURL:   req.PortfolioURL,
	}
	if req.Skills != nil {
		in.Skills = *req.Skills
		in.SkillsSet = true
	}
	if req.Interests != nil {
		in.Interests = *req.Interests
		in.InterestsSet = true
	}
	return in
}

package handlers

import (
	"net/http"

	mediasvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/media"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/dto"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

// multipart framing on top of the image itself
const maxAvatarRequestSize = mediasvc.MaxAvatarBytes + 1<<20

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) AvatarUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestSize)
	if err := r.ParseMultipartForm(maxAvatarRequestSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	avatar, err := h.service.UploadAvatar(r.Context(), identity, header.Filename, contentType, file, header.Size)
	if err != nil {
		if writeServiceError(w, err) {
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to upload avatar")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AvatarResponse{URL: avatar.URL})
}

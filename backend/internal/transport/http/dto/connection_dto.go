package dto

import "github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"

type ConnectionRequest struct {
	UserID int64 `json:"user_id"`
}

type ConnectionsListResponse struct {
	Items []model.Connection `json:"items"`
}

package dto

import "github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	Content    string `json:"content"`
}

type ConversationResponse struct {
	Items []model.Message `json:"items"`
}

package model

import (
	"time"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
)

type Connection struct {
	ID          int64                  `json:"id"`
	RequesterID int64                  `json:"requester_id"`
	ReceiverID  int64                  `json:"receiver_id"`
	Status      enums.ConnectionStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

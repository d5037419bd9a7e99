package dto

import (
	"time"

	"go-therapy-platform/internal/domain/entity"
)

type AuditLogListQuery struct {
	Action string
	PageQuery
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64        `json:"id"`
	User      *UserSummary `json:"user,omitempty"`
	Action    string       `json:"action"`
	Metadata  entity.JSON  `json:"metadata"`
	CreatedAt time.Time    `json:"created_at"`
}

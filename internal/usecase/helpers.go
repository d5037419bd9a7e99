package usecase

import (
	"strings"
	"time"

	"go-therapy-platform/internal/delivery/dto"
	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// sessionTimeLayout renders times in notification text, e.g. "05/03/2025 às 14:30".
const sessionTimeLayout = "02/01/2006 às 15:04"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toPage(q dto.PageQuery) entity.Page {
	q = q.Normalize()
	return entity.Page{Offset: q.Offset(), Limit: q.Limit}
}

func newList[T any](items []T, total int64, q dto.PageQuery) *dto.ListResponse[T] {
	return &dto.ListResponse[T]{Items: items, Total: total, Page: q.Normalize()}
}

// parseID parses a required identifier from a request body.
func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, newValidationError(field, field+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, newValidationError(field, field+" must be a valid UUID")
	}
	return id, nil
}

// parseDate parses an optional YYYY-MM-DD value; blank clears it.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, newValidationError(field, field+" must match the format "+dateLayout)
	}
	return &t, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

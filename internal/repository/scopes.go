package repository

import (
	"strings"

	"go-therapy-platform/internal/domain/entity"

	"gorm.io/gorm"
)

// paginate applies offset/limit; a zero limit leaves the query unbounded.
func paginate(p entity.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Offset > 0 {
			db = db.Offset(p.Offset)
		}
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		return db
	}
}

// likePattern builds a lower-cased contains pattern. Used with LOWER(col) LIKE ?
// so it behaves the same on postgres and sqlite.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

package dto

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageQuery is the page/limit pair accepted by every list endpoint.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize applies defaults and clamps limit to MaxLimit.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q PageQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Limit
}

// ListResponse is a page of items plus the unpaginated total.
type ListResponse[T any] struct {
	Items []T
	Total int64
	Page  PageQuery
}

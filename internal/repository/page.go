package repository

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest selects a zero-based page of records ordered by id.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request into a valid range.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// MapPage converts the items of a page, keeping its position.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[R]{Items: items, Page: p.Page, Size: p.Size, Total: p.Total}
}

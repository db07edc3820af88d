package pagination

import "math"

const (
	// DefaultSize is applied when a request omits or zeroes the page size.
	DefaultSize = 10
	// MaxSize caps a single page.
	MaxSize = 100
	// MaxPage keeps Page*Size within int.
	MaxPage = math.MaxInt / MaxSize
)

// Pageable is a zero-based offset page request.
type Pageable struct {
	Page int
	Size int
}

// Normalize clamps the request to sane bounds.
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Pageable) Offset() int {
	p = p.Normalize()
	return p.Page * p.Size
}

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	TotalItems  int64
	TotalPages  int
}

// NewPage assembles a page and derives the page count.
func NewPage[T any](items []T, req Pageable, total int64) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return Page[T]{Items: items, CurrentPage: req.Page, TotalItems: total, TotalPages: pages}
}

// Slice pages an in-memory ordered slice.
func Slice[T any](all []T, req Pageable) Page[T] {
	req = req.Normalize()
	total := int64(len(all))
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPage(items, req, total)
}

package pagination

import (
	"errors"
	"fmt"
)

// Request sizing defaults and limits.
const (
	DefaultPageSize     = 20
	DefaultLoadMoreSize = 10
	MinPageSize         = 1
	MaxPageSize         = 999
	DefaultPage         = 0
)

// Common validation errors.
var (
	ErrInvalidPageSize     = errors.New("page size must be between 1 and 999")
	ErrInvalidPage         = errors.New("page must be non-negative")
	ErrInvalidLoadMoreSize = errors.New("load-more size must be between 1 and 999")
	ErrUnalignedPageSize   = errors.New("page size must be a multiple of the load-more size")
)

// Params is a single count/page request window.
type Params struct {
	// Count is the number of items requested (the c parameter).
	Count int

	// Page is the zero-based page index in units of Count (the p parameter).
	Page int
}

// NewParams returns the first window for the given page size.
func NewParams(pageSize int) Params {
	return Params{Count: pageSize, Page: DefaultPage}
}

// Validate checks the request window bounds.
func (p Params) Validate() error {
	if p.Count < MinPageSize || p.Count > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.Count)
	}
	if p.Page < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	return nil
}

// Offset returns the index of the first item covered by the window.
func (p Params) Offset() int {
	return p.Page * p.Count
}

// Policy describes how a list grows with "load more".
//
// The first request asks for PageSize items at page 0. Every continuation asks for
// LoadMoreSize items; its page index is counted in LoadMoreSize units, so a first page
// of 20 followed by continuations of 10 requests pages 2, 3, 4 and so on.
type Policy struct {
	PageSize     int
	LoadMoreSize int

	// StopOnShortPage ends the list as soon as a page returns fewer items than
	// requested. When false only an empty page ends it.
	StopOnShortPage bool
}

// DefaultPolicy returns the 20 then 10 policy used by the console.
func DefaultPolicy() Policy {
	return Policy{
		PageSize:        DefaultPageSize,
		LoadMoreSize:    DefaultLoadMoreSize,
		StopOnShortPage: true,
	}
}

// Validate checks sizes and their alignment.
func (p Policy) Validate() error {
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.LoadMoreSize < MinPageSize || p.LoadMoreSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidLoadMoreSize, p.LoadMoreSize)
	}
	if p.PageSize%p.LoadMoreSize != 0 {
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrUnalignedPageSize, p.PageSize, p.LoadMoreSize)
	}
	return nil
}

// First returns the window of the initial request.
func (p Policy) First() Params {
	return NewParams(p.PageSize)
}

// Continuation returns the window of the n-th load-more request (n starts at 1).
func (p Policy) Continuation(n int) Params {
	return Params{
		Count: p.LoadMoreSize,
		Page:  p.PageSize/p.LoadMoreSize + n - 1,
	}
}

// Exhausted reports whether a page with got items, answering a request for
// requested items, ends the list.
func (p Policy) Exhausted(requested, got int) bool {
	if got == 0 {
		return true
	}
	return p.StopOnShortPage && got < requested
}

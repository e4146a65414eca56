package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// =============================================================================
// PAGINATION STRATEGIES
// =============================================================================

// Paginator handles API pagination.
type Paginator interface {
	// NextPage returns the request for the next page, or nil if done.
	NextPage(ctx context.Context, resp *Response) (*Request, error)
}

// =============================================================================
// ODATA NEXT-LINK PAGINATION
// =============================================================================

// NextLinkPaginator follows the "__next" link of OData verbose collections:
//
//	{"d": {"results": [...], "__next": "https://.../items?$skiptoken=..."}}
type NextLinkPaginator struct{}

// NextPage returns a GET for the __next link, or nil on the last page.
func (NextLinkPaginator) NextPage(ctx context.Context, resp *Response) (*Request, error) {
	var envelope struct {
		D struct {
			Next string `json:"__next"`
		} `json:"d"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, err
	}
	if envelope.D.Next == "" {
		return nil, nil
	}
	return &Request{Method: http.MethodGet, Path: envelope.D.Next}, nil
}

// =============================================================================
// PAGINATED ITERATOR
// =============================================================================

// PaginatedIterator fetches all pages from an API.
type PaginatedIterator[T any] struct {
	ctx          context.Context
	client       *Client
	paginator    Paginator
	parseResults func(resp *Response) ([]T, error)

	current     []T
	currentIdx  int
	value       T
	nextRequest *Request
	done        bool
	err         error
}

// NewPaginatedIterator creates a paginated iterator.
func NewPaginatedIterator[T any](
	ctx context.Context,
	client *Client,
	firstRequest *Request,
	paginator Paginator,
	parseResults func(resp *Response) ([]T, error),
) *PaginatedIterator[T] {
	return &PaginatedIterator[T]{
		ctx:          ctx,
		client:       client,
		paginator:    paginator,
		parseResults: parseResults,
		nextRequest:  firstRequest,
	}
}

// Next advances to the next item.
func (it *PaginatedIterator[T]) Next() bool {
	for {
		if it.currentIdx < len(it.current) {
			it.value = it.current[it.currentIdx]
			it.currentIdx++
			return true
		}

		if it.done || it.err != nil || it.nextRequest == nil {
			return false
		}

		resp, err := it.client.Do(it.ctx, it.nextRequest)
		if err != nil {
			it.err = err
			return false
		}

		results, err := it.parseResults(resp)
		if err != nil {
			it.err = err
			return false
		}

		nextReq, err := it.paginator.NextPage(it.ctx, resp)
		if err != nil {
			it.err = err
			return false
		}

		it.current = results
		it.currentIdx = 0
		it.nextRequest = nextReq
		it.done = nextReq == nil
	}
}

// Value returns the current item.
func (it *PaginatedIterator[T]) Value() T {
	return it.value
}

// Err returns any error encountered.
func (it *PaginatedIterator[T]) Err() error {
	return it.err
}

// Close releases resources.
func (it *PaginatedIterator[T]) Close() error {
	it.done = true
	return nil
}

// Collect drains the iterator.
func (it *PaginatedIterator[T]) Collect() ([]T, error) {
	var all []T
	for it.Next() {
		all = append(all, it.Value())
	}
	return all, it.Err()
}

package sdk

import (
	"context"
	"strconv"

	"github.com/BishopFox/cloudcensus/internal"
)

var sharedLogger = internal.TxtLog

// TokenPager walks a NextToken style listing one page at a time. It stops
// after the last page, after an error, or when the service hands back the
// token it was just given.
type TokenPager[T any] struct {
	fetch func(ctx context.Context, token *string) ([]T, *string, error)
	token *string
	done  bool
}

func NewTokenPager[T any](fetch func(ctx context.Context, token *string) ([]T, *string, error)) *TokenPager[T] {
	return &TokenPager[T]{fetch: fetch}
}

func (p *TokenPager[T]) HasMorePages() bool {
	return !p.done
}

func (p *TokenPager[T]) NextPage(ctx context.Context) ([]T, error) {
	items, next, err := p.fetch(ctx, p.token)
	if err != nil {
		p.done = true
		return nil, err
	}
	//pagination
	if next == nil || *next == "" || (p.token != nil && *next == *p.token) {
		p.done = true
	}
	p.token = next
	return items, nil
}

// mockPageIndex and mockNextToken encode page numbers as tokens for the
// mocked clients.
func mockPageIndex(token *string) int {
	if token == nil {
		return 0
	}
	i, err := strconv.Atoi(*token)
	if err != nil {
		return 0
	}
	return i
}

func mockNextToken(i int, pages int) *string {
	if i+1 >= pages {
		return nil
	}
	next := strconv.Itoa(i + 1)
	return &next
}

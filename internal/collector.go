package internal

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Pager is a finite, forward-only sequence of record pages.
type Pager interface {
	HasMorePages() bool
	NextPage(ctx context.Context) ([]*Record, error)
}

// Source knows how to list one resource kind inside a cell.
type Source interface {
	Kind() string
	// Service is the endpoint name used for region support checks.
	Service() string
	Open(ctx context.Context, cell Cell, accountID string) (Pager, error)
}

type pager[T any] struct {
	more    func() bool
	next    func(ctx context.Context) (T, error)
	convert func(T) []*Record
}

// NewPager adapts an SDK style paginator into a Pager.
func NewPager[T any](more func() bool, next func(ctx context.Context) (T, error), convert func(T) []*Record) Pager {
	return &pager[T]{more: more, next: next, convert: convert}
}

func (p *pager[T]) HasMorePages() bool {
	return p.more()
}

func (p *pager[T]) NextPage(ctx context.Context) ([]*Record, error) {
	page, err := p.next(ctx)
	if err != nil {
		return nil, err
	}
	return p.convert(page), nil
}

// Collect runs one cell. Records are handed to sink page by page, so an
// error on a later page keeps what earlier pages produced.
func Collect(ctx context.Context, cell Cell, source Source, sink Sink) CellOutcome {
	outcome := CellOutcome{
		Profile: cell.Context.Profile,
		Region:  cell.Region,
	}
	cellLog := TxtLog.WithFields(logrus.Fields{
		"module":  source.Kind(),
		"profile": cell.Context.Profile,
		"region":  cell.Region,
	})

	accountID, err := cell.Context.AccountID(ctx)
	if err != nil {
		cellLog.Errorf("Could not resolve account id, skipping cell: %s", err)
		return failed(outcome, StageIdentity, err)
	}

	p, err := source.Open(ctx, cell, accountID)
	if err != nil {
		cellLog.Errorf("Could not start listing: %s", err)
		return failed(outcome, StageClient, err)
	}

	pages := 0
	for p.HasMorePages() {
		records, err := p.NextPage(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				cellLog.Errorf("Cell timed out after %d page(s)", pages)
			} else {
				cellLog.Errorf("Listing failed after %d page(s): %s", pages, err)
			}
			outcome = failed(outcome, StagePage, err)
			if pages > 0 {
				outcome.Status = OutcomePartial
			}
			return outcome
		}
		for _, r := range records {
			sink.Put(r)
			outcome.Records++
		}
		pages++
	}

	cellLog.Debugf("Collected %d record(s) from %d page(s)", outcome.Records, pages)
	outcome.Status = OutcomeSucceeded
	return outcome
}

func failed(o CellOutcome, stage string, err error) CellOutcome {
	o.Status = OutcomeFailed
	o.Stage = stage
	o.Err = err
	return o
}

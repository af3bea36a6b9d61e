package internal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BishopFox/cloudcensus/console"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type GridOptions struct {
	// Concurrency is the number of cells in flight. Values below 1 mean 1,
	// which runs cells strictly in grid order.
	Concurrency int
	// CellTimeout bounds each cell. Zero disables it.
	CellTimeout time.Duration
	// Progress, when set, is drawn to this writer while cells run.
	Progress io.Writer
}

// Grid builds the work grid: contexts outer, regions inner, both in the
// order given.
func Grid(contexts []Context, regions []string) []Cell {
	cells := make([]Cell, 0, len(contexts)*len(regions))
	for _, c := range contexts {
		for _, r := range regions {
			cells = append(cells, Cell{Context: c, Region: r})
		}
	}
	return cells
}

// ForEach runs fn for every unit and returns the results indexed like
// units. A failing or panicking unit never stops its siblings, and the call
// returns only once every unit has finished. onPanic turns a recovered
// panic into a result; failed tells the progress display which results
// count as errors.
func ForEach[T any, R any](ctx context.Context, module string, units []T, opts GridOptions,
	fn func(ctx context.Context, unit T) R, onPanic func(unit T, err error) R, failed func(R) bool) []R {
	results := make([]R, len(units))
	progress := console.NewProgress(len(units))

	var done chan struct{}
	spinnerExited := make(chan struct{})
	if opts.Progress != nil {
		done = make(chan struct{})
		go func() {
			console.SpinUntil(opts.Progress, module, progress, done, "tasks")
			close(spinnerExited)
		}()
	} else {
		close(spinnerExited)
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	// A plain Group, not WithContext: one unit's error must not cancel the rest.
	var g errgroup.Group
	g.SetLimit(limit)

	for i, unit := range units {
		g.Go(func() error {
			progress.Start()
			results[i] = runUnit(ctx, unit, opts.CellTimeout, fn, onPanic)
			progress.Finish(failed(results[i]))
			return nil
		})
	}
	_ = g.Wait()

	if done != nil {
		close(done)
	}
	<-spinnerExited
	return results
}

func runUnit[T any, R any](ctx context.Context, unit T, timeout time.Duration,
	fn func(ctx context.Context, unit T) R, onPanic func(unit T, err error) R) (result R) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			TxtLog.Error(err)
			result = onPanic(unit, err)
		}
	}()
	return fn(ctx, unit)
}

// ForEachCell is ForEach over (context, region) cells.
func ForEachCell(ctx context.Context, module string, cells []Cell, opts GridOptions, fn func(ctx context.Context, cell Cell) CellOutcome) []CellOutcome {
	return ForEach(ctx, module, cells, opts, fn,
		func(cell Cell, err error) CellOutcome {
			return CellOutcome{
				Profile: cell.Context.Profile,
				Region:  cell.Region,
				Status:  OutcomeFailed,
				Err:     err,
			}
		},
		func(o CellOutcome) bool { return o.Status == OutcomeFailed },
	)
}

// RunConfig carries everything a collection run needs. Nothing here is read
// from package globals.
type RunConfig struct {
	Profiles      []string
	Regions       []string
	Resolver      Resolver
	Source        Source
	RegionSupport RegionSupport
	Grid          GridOptions
}

// Run resolves contexts, walks the grid and returns the merged collection
// together with one outcome per cell.
func Run(ctx context.Context, cfg RunConfig) (*Collection, []CellOutcome) {
	kind := cfg.Source.Kind()
	modLog := TxtLog.WithFields(logrus.Fields{"module": kind})
	collection := NewCollection(kind)

	contexts := cfg.Resolver.Resolve(ctx, cfg.Profiles)
	if len(contexts) == 0 {
		modLog.Warn("No usable profiles were resolved.")
		return collection, nil
	}

	cells := Grid(contexts, cfg.Regions)
	outcomes := ForEachCell(ctx, kind, cells, cfg.Grid, func(ctx context.Context, cell Cell) CellOutcome {
		if cfg.RegionSupport != nil {
			supported, err := cfg.RegionSupport.IsServiceInRegion(cfg.Source.Service(), cell.Region)
			if err != nil {
				modLog.WithField("region", cell.Region).Debugf("region support lookup failed, trying anyway: %s", err)
			} else if !supported {
				modLog.WithField("region", cell.Region).Infof("%s is not available in %s, skipping", cfg.Source.Service(), cell.Region)
				return CellOutcome{Profile: cell.Context.Profile, Region: cell.Region, Status: OutcomeSkipped, Stage: StageRegion}
			}
		}
		return Collect(ctx, cell, cfg.Source, collection)
	})

	counter := Summarize(outcomes)
	modLog.Infof("Finished %d cell(s): %d complete (%d partial), %d failed, %d skipped",
		counter.Total, counter.Complete, counter.Partial, counter.Error, counter.Skipped)
	for _, o := range outcomes {
		if o.Status == OutcomeFailed || o.Status == OutcomePartial {
			modLog.Debug(o.String())
		}
	}
	return collection, outcomes
}

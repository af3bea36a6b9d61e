package internal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	contexts []Context
	names    []string
}

func (r *fakeResolver) Resolve(ctx context.Context, names []string) []Context {
	r.names = names
	return r.contexts
}

type fakeRegionSupport map[string]bool

func (f fakeRegionSupport) IsServiceInRegion(service string, region string) (bool, error) {
	supported, ok := f[region]
	if !ok {
		return false, errors.New("unknown region")
	}
	return supported, nil
}

func TestRunIsolatesFailures(t *testing.T) {
	resolver := &fakeResolver{contexts: []Context{
		testContext("alpha", "111111111111", nil),
		testContext("beta", "222222222222", nil),
	}}
	regions := []string{"us-east-1", "us-west-2", "eu-west-1"}
	source := &fakeSource{
		pages:   2,
		pageErr: map[string]error{"us-west-2": errors.New("AccessDenied")},
		panicIn: "eu-west-1",
	}

	for _, concurrency := range []int{1, 4} {
		collection, outcomes := Run(context.Background(), RunConfig{
			Regions:  regions,
			Resolver: resolver,
			Source:   source,
			Grid:     GridOptions{Concurrency: concurrency},
		})

		require.Len(t, outcomes, 6)
		// Outcomes follow grid order regardless of concurrency.
		i := 0
		for _, profile := range []string{"alpha", "beta"} {
			for _, region := range regions {
				assert.Equal(t, profile, outcomes[i].Profile)
				assert.Equal(t, region, outcomes[i].Region)
				i++
			}
		}

		counter := Summarize(outcomes)
		assert.Equal(t, 2, counter.Complete)
		assert.Equal(t, 4, counter.Error)
		assert.Equal(t, 4, collection.Len())
	}
}

func TestRunRegionSupport(t *testing.T) {
	resolver := &fakeResolver{contexts: []Context{testContext("alpha", "111111111111", nil)}}
	collection, outcomes := Run(context.Background(), RunConfig{
		Regions:       []string{"us-east-1", "ca-central-1", "xx-1"},
		Resolver:      resolver,
		Source:        &fakeSource{pages: 1},
		RegionSupport: fakeRegionSupport{"us-east-1": true, "ca-central-1": false},
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, OutcomeSucceeded, outcomes[0].Status)
	assert.Equal(t, OutcomeSkipped, outcomes[1].Status)
	assert.Equal(t, StageRegion, outcomes[1].Stage)
	// A failed lookup does not block the cell.
	assert.Equal(t, OutcomeSucceeded, outcomes[2].Status)
	assert.Equal(t, 2, collection.Len())
}

func TestRunCellTimeout(t *testing.T) {
	resolver := &fakeResolver{contexts: []Context{testContext("alpha", "111111111111", nil)}}
	start := time.Now()
	_, outcomes := Run(context.Background(), RunConfig{
		Regions:  []string{"us-east-1", "us-west-2"},
		Resolver: resolver,
		Source:   &fakeSource{pages: 1, block: "us-west-2"},
		Grid:     GridOptions{Concurrency: 2, CellTimeout: 50 * time.Millisecond},
	})

	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, outcomes, 2)
	assert.Equal(t, OutcomeSucceeded, outcomes[0].Status)
	assert.Equal(t, OutcomeFailed, outcomes[1].Status)
	assert.True(t, errors.Is(outcomes[1].Err, context.DeadlineExceeded))
}

func TestRunWithoutContexts(t *testing.T) {
	resolver := &fakeResolver{}
	collection, outcomes := Run(context.Background(), RunConfig{
		Profiles: []string{"gone"},
		Regions:  []string{"us-east-1"},
		Resolver: resolver,
		Source:   &fakeSource{pages: 1},
	})
	assert.Equal(t, []string{"gone"}, resolver.names)
	assert.Equal(t, 0, collection.Len())
	assert.Empty(t, outcomes)
}

func TestForEachConcurrencyLimit(t *testing.T) {
	var running, peak int32
	units := make([]int, 20)
	for i := range units {
		units[i] = i
	}

	results := ForEach(context.Background(), "test", units, GridOptions{Concurrency: 3},
		func(ctx context.Context, unit int) int {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return unit * 2
		},
		func(unit int, err error) int { return -1 },
		func(r int) bool { return r < 0 },
	)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	for i, r := range results {
		assert.Equal(t, i*2, r)
	}
}

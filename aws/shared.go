package aws

import (
	"context"
	"fmt"

	"github.com/BishopFox/cloudcensus/internal"
	"github.com/fatih/color"
)

var cyan = color.New(color.FgCyan).SprintFunc()
var red = color.New(color.FgRed).SprintFunc()

// CollectorModule is a resource kind that can be listed and rendered.
type CollectorModule interface {
	internal.Source
	Layout() internal.Layout
}

// CollectorOptions is the full configuration of one listing run.
type CollectorOptions struct {
	Profiles      []string
	Regions       []string
	Resolver      internal.Resolver
	RegionSupport internal.RegionSupport
	Grid          internal.GridOptions
	Output        internal.OutputConfig
}

// RunCollector lists module across the grid and delivers the result. The
// returned error is only set when the artifact could not be written.
func RunCollector(ctx context.Context, module CollectorModule, opts CollectorOptions) (*internal.Collection, error) {
	logger := internal.NewLogger()
	logger.InfoM(fmt.Sprintf("Enumerating %s through %d regional endpoint(s).", module.Layout().Noun, len(opts.Regions)), module.Kind())

	collection, outcomes := internal.Run(ctx, internal.RunConfig{
		Profiles:      opts.Profiles,
		Regions:       opts.Regions,
		Resolver:      opts.Resolver,
		Source:        module,
		RegionSupport: opts.RegionSupport,
		Grid:          opts.Grid,
	})

	err := internal.Deliver(collection, outcomes, module.Layout(), opts.Output)
	return collection, err
}

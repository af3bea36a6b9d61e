package internal

import (
	"fmt"

	"github.com/BishopFox/cloudcensus/console"
)

type OutcomeStatus int

const (
	OutcomeSucceeded OutcomeStatus = iota
	OutcomePartial
	OutcomeFailed
	OutcomeSkipped
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	}
	return fmt.Sprintf("OutcomeStatus(%d)", int(s))
}

// Stages at which a cell can stop early.
const (
	StageIdentity = "identity"
	StageClient   = "client"
	StagePage     = "page"
	StageRegion   = "region"
)

// Cell is one (context, region) unit of work.
type Cell struct {
	Context Context
	Region  string
}

// CellOutcome is the terminal state of one cell. It is diagnostic only.
type CellOutcome struct {
	Profile string
	Region  string
	Status  OutcomeStatus
	Stage   string
	Records int
	Err     error
}

func (o CellOutcome) String() string {
	s := fmt.Sprintf("%s/%s: %s (%d records)", o.Profile, o.Region, o.Status, o.Records)
	if o.Err != nil {
		s += fmt.Sprintf(" at %s: %s", o.Stage, o.Err)
	}
	return s
}

// Summarize folds outcomes into the console counter shape.
func Summarize(outcomes []CellOutcome) console.CommandCounter {
	var counter console.CommandCounter
	counter.Total = len(outcomes)
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeSucceeded:
			counter.Complete++
		case OutcomePartial:
			counter.Complete++
			counter.Partial++
		case OutcomeFailed:
			counter.Error++
		case OutcomeSkipped:
			counter.Skipped++
		}
	}
	return counter
}

// AllFailed is true when no cell produced anything and at least one failed.
func AllFailed(outcomes []CellOutcome) bool {
	failed := 0
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeSucceeded, OutcomePartial:
			return false
		case OutcomeFailed:
			failed++
		}
	}
	return failed > 0
}

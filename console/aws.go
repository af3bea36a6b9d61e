package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

const clearln = "\r\x1b[2K"

var (
	cyan = color.New(color.FgCyan).SprintFunc()
)

type CommandCounter struct {
	Total     int
	Pending   int
	Complete  int
	Partial   int
	Skipped   int
	Error     int
	Executing int
}

// Progress is a CommandCounter shared between workers.
type Progress struct {
	mu      sync.Mutex
	counter CommandCounter
}

func NewProgress(total int) *Progress {
	return &Progress{counter: CommandCounter{Total: total, Pending: total}}
}

func (p *Progress) Start() {
	p.mu.Lock()
	p.counter.Pending--
	p.counter.Executing++
	p.mu.Unlock()
}

func (p *Progress) Finish(failed bool) {
	p.mu.Lock()
	p.counter.Executing--
	if failed {
		p.counter.Error++
	} else {
		p.counter.Complete++
	}
	p.mu.Unlock()
}

func (p *Progress) Snapshot() CommandCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counter
}

// SpinUntil redraws a one-line status every second until done is closed.
func SpinUntil(out io.Writer, callingModuleName string, progress *Progress, done <-chan struct{}, spinType string) {
	for {
		select {
		case <-time.After(1 * time.Second):
			c := progress.Snapshot()
			fmt.Fprintf(out, clearln+"[%s] Status: %d/%d %s complete (%d errors)", cyan(callingModuleName), c.Complete+c.Error, c.Total, spinType, c.Error)
		case <-done:
			c := progress.Snapshot()
			fmt.Fprintf(out, clearln+"[%s] Status: %d/%d %s complete (%d errors)\n", cyan(callingModuleName), c.Complete+c.Error, c.Total, spinType, c.Error)
			return
		}
	}
}

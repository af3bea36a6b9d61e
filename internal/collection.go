package internal

import (
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink receives normalized records as pages arrive.
type Sink interface {
	Put(record *Record) bool
}

// Collection is the merged result of a run, keyed by Key. Safe for
// concurrent Put from several cells.
type Collection struct {
	Kind string

	mu      sync.Mutex
	records map[Key]*Record
	modLog  *logrus.Entry
}

func NewCollection(kind string) *Collection {
	return &Collection{
		Kind:    kind,
		records: make(map[Key]*Record),
		modLog:  TxtLog.WithFields(logrus.Fields{"module": kind}),
	}
}

// Put stores record under its key and reports whether an earlier record
// with the same key was replaced. The later record always wins.
func (c *Collection) Put(record *Record) bool {
	c.mu.Lock()
	_, exists := c.records[record.Key]
	c.records[record.Key] = record
	c.mu.Unlock()

	if exists {
		c.modLog.WithField("key", record.Key.String()).Warn("duplicate resource key within a run, keeping the latest record")
	}
	return exists
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Collection) Get(key Key) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.records[key]
	return r, ok
}

// Records returns every record ordered by the string form of its key.
func (c *Collection) Records() []*Record {
	return c.Sorted(func(a, b *Record) int {
		if a.Key.Less(b.Key) {
			return -1
		}
		if b.Key.Less(a.Key) {
			return 1
		}
		return 0
	})
}

// Sorted returns every record ordered by cmp, ties broken by key.
func (c *Collection) Sorted(cmp func(a, b *Record) int) []*Record {
	c.mu.Lock()
	out := make([]*Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b *Record) int {
		if n := cmp(a, b); n != 0 {
			return n
		}
		if a.Key.Less(b.Key) {
			return -1
		}
		if b.Key.Less(a.Key) {
			return 1
		}
		return 0
	})
	return out
}

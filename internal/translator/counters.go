package translator

import (
	"sync/atomic"
)

// Stats is a point-in-time copy of Counters.
type Stats struct {
	RecordsSeen  uint64
	DirtyRecords uint64
}

// Counters track processed and dirty records for one translator. They are written by the
// goroutine driving the translator and may be read from any goroutine.
type Counters struct {
	recordsSeen  atomic.Uint64
	dirtyRecords atomic.Uint64
}

// IncRecords counts a record that reached the store and returns the new total.
func (c *Counters) IncRecords() uint64 {
	return c.recordsSeen.Add(1)
}

// IncDirty counts a dropped record and returns the new total.
func (c *Counters) IncDirty() uint64 {
	return c.dirtyRecords.Add(1)
}

// Reset zeroes the counters. It is only called when the owning sink opens.
func (c *Counters) Reset() {
	c.recordsSeen.Store(0)
	c.dirtyRecords.Store(0)
}

func (c *Counters) Stats() Stats {
	return Stats{
		RecordsSeen:  c.recordsSeen.Load(),
		DirtyRecords: c.dirtyRecords.Load(),
	}
}

// Package uid generates globally-distinguishable, time-ordered identifiers.
package uid

import (
	"fmt"
	"time"
)

// Generator derives identifiers from wall-clock seconds, the destination
// node id and the caller's counter, as "{seconds}_{dest}_{counter}".
//
// The leading timestamp makes ids sortable by generation time. Within one
// second, ids from the same node differ only in the counter component, and
// ids from different nodes differ in the destination component. Known
// limitation kept for compatibility with existing consumers of the textual
// shape: neither component is zero-padded or fixed-width, so the format is
// ambiguous under concatenation (a destination containing underscores can
// make two distinct inputs render identically) and the one-second clock
// resolution narrows uniqueness to the counter and destination alone.
type Generator struct {
	now func() time.Time
}

// New returns a Generator on the system clock.
func New() *Generator {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Generator using the given clock. Tests use this to
// pin the timestamp component.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate produces an identifier for the given counter value and
// destination node id.
func (g *Generator) Generate(counter uint64, dest string) string {
	return fmt.Sprintf("%d_%s_%d", g.now().Unix(), dest, counter)
}

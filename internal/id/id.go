// Package id issues time-sortable ULID identifiers for trades and scan
// runs, so journal files and SQLite indexes stay naturally ordered.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// generator serializes ULID creation; ids issued within the same
// millisecond still increase monotonically.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var def = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}

// New returns a fresh ULID string.
func New() string {
	def.mu.Lock()
	defer def.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), def.entropy).String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"math/rand"
	"time"
)

// Chooser picks an index in [0, n). Implementations need not be safe for
// concurrent use.
type Chooser interface {
	Intn(n int) int
}

// NewRandomChooser returns a pseudo-random Chooser. A zero seed picks a
// time-based seed.
func NewRandomChooser(seed int64) Chooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RotatingChooser cycles through indexes in order, one step per call.
type RotatingChooser struct {
	next int
}

// NewRotatingChooser returns a Chooser that starts at index 0.
func NewRotatingChooser() *RotatingChooser {
	return &RotatingChooser{}
}

// Intn implements Chooser.
func (c *RotatingChooser) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := c.next % n
	c.next++
	return i
}

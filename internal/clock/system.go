package clock

import (
	"context"
	"time"
)

type SystemClock struct{}

func (SystemClock) Now(_ context.Context) time.Time {
	return time.Now().UTC()
}

// Fixed is a test clock pinned to one instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now(_ context.Context) time.Time { return f.T }

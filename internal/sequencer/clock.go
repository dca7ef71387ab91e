package sequencer

import (
	"context"
	"sync"
	"time"
)

// Clock is the engine's source of wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FrameHandle identifies a requested frame callback.
type FrameHandle uint64

// FrameScheduler delivers one callback at the next display-refresh
// opportunity, in the manner of requestAnimationFrame.
type FrameScheduler interface {
	RequestFrame(cb func(now time.Time)) FrameHandle
	CancelFrame(h FrameHandle)
}

// FrameQueue is a FrameScheduler drained by whoever owns the refresh loop:
// an ebiten Update, a bubbletea tick or RunFrames. Callbacks requested while
// a frame runs are deferred to the next frame.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameHandle
	pending []frameRequest
}

type frameRequest struct {
	handle FrameHandle
	cb     func(now time.Time)
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) RequestFrame(cb func(now time.Time)) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, frameRequest{handle: q.next, cb: cb})
	return q.next
}

func (q *FrameQueue) CancelFrame(h FrameHandle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of callbacks waiting for a frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// RunFrame runs every callback queued before the call and returns how many
// ran.
func (q *FrameQueue) RunFrame(now time.Time) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, r := range batch {
		r.cb(now)
	}
	return len(batch)
}

// RunFrames drains q at the given interval until ctx is done. It stands in
// for a display refresh loop when no window is open.
func RunFrames(ctx context.Context, q *FrameQueue, clock Clock, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			q.RunFrame(clock.Now())
		}
	}
}

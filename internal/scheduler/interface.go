package scheduler

import (
	"context"

	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/session"
)

// Scheduler applies events to one session strictly in arrival order.
type Scheduler interface {
	// Submit queues ev and waits for its result. ctx only bounds the wait
	// for the queue; a handed-off event always reports its real outcome.
	Submit(ctx context.Context, ev event.Event) (*session.Snapshot, error)
	// Run processes queued events until ctx is done or Stop is called.
	Run(ctx context.Context) error
	// Stop ends Run. Pending and later Submits fail with ErrStopped.
	Stop()
}

package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/session"
)

// ErrStopped is returned by Submit once the scheduler has stopped.
var ErrStopped = errors.New("scheduler stopped")

type request struct {
	ctx   context.Context
	ev    event.Event
	reply chan result
}

type result struct {
	snap *session.Snapshot
	err  error
}

// DefaultScheduler is the channel based implementation of Scheduler.
type DefaultScheduler struct {
	session  session.Session
	requests chan request
	done     chan struct{}
	stopOnce sync.Once
}

var _ Scheduler = (*DefaultScheduler)(nil)

// New creates a scheduler over s. Run must be started for Submit to
// make progress.
func New(s session.Session) *DefaultScheduler {
	return &DefaultScheduler{
		session:  s,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// Submit implements the Scheduler interface.
func (d *DefaultScheduler) Submit(ctx context.Context, ev event.Event) (*session.Snapshot, error) {
	if d.stopped() {
		return nil, ErrStopped
	}

	req := request{ctx: ctx, ev: ev, reply: make(chan result, 1)}
	select {
	case d.requests <- req:
	case <-d.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Run replies to every request it receives, and the session may already
	// have applied the event, so the outcome is reported even if ctx ends.
	res := <-req.reply
	return res.snap, res.err
}

// Run implements the Scheduler interface.
func (d *DefaultScheduler) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scheduler loop started.")
	defer logger.Debug("Scheduler loop finished.")

	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-d.done:
			return nil
		case req := <-d.requests:
			if d.stopped() {
				req.reply <- result{err: ErrStopped}
				return nil
			}
			snap, err := d.session.Handle(req.ctx, req.ev)
			req.reply <- result{snap: snap, err: err}
		}
	}
}

// Stop implements the Scheduler interface. It is safe to call more than once.
func (d *DefaultScheduler) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

func (d *DefaultScheduler) stopped() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

package syncqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hisab-app/hisab/internal/errs"
)

// Applier translates a queued operation into the corresponding ledger
// store write. The service layer implements it; keeping it an interface
// here means the queue package never imports storage.
type Applier interface {
	Apply(ctx context.Context, op Operation) error
}

// Metrics receives drain outcomes. Implementations must be safe for
// concurrent use; a nil Metrics disables reporting.
type Metrics interface {
	ItemCompleted()
	ItemRequeued()
	ItemFailed()
}

const (
	defaultMaxRetries  = 3
	defaultItemTimeout = 15 * time.Second
)

// Processor drains the offline queue against the ledger store.
//
// A single logical worker per queue: Drain serializes itself with a
// mutex, so two drains of the same device queue never run concurrently
// and causal order (create before update of the same synthetic ID) is
// preserved.
type Processor struct {
	queue       *Queue
	applier     Applier
	maxRetries  int
	itemTimeout time.Duration
	metrics     Metrics

	mu sync.Mutex
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMaxRetries sets the transient-failure retry ceiling per item.
func WithMaxRetries(n int) ProcessorOption {
	return func(p *Processor) { p.maxRetries = n }
}

// WithItemTimeout bounds each single replay attempt. The timeout is per
// item, not per drain.
func WithItemTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) { p.itemTimeout = d }
}

// WithMetrics wires drain counters.
func WithMetrics(m Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor creates a processor draining queue through applier.
func NewProcessor(queue *Queue, applier Applier, opts ...ProcessorOption) *Processor {
	p := &Processor{
		queue:       queue,
		applier:     applier,
		maxRetries:  defaultMaxRetries,
		itemTimeout: defaultItemTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DrainResult summarizes one drain pass.
type DrainResult struct {
	// Completed is the number of items applied and removed.
	Completed int
	// Failed is the number of items that became terminally failed
	// during this pass. Items returned to pending for a later pass are
	// counted in neither field.
	Failed int
}

// Drain replays pending items in FIFO order, one at a time.
//
// Items stranded in syncing by a previously interrupted drain are
// reconciled to pending first. Per item: claim it, apply it under the
// per-item timeout, then classify the outcome. A duplicate means the
// write already landed in a previous attempt and counts as success; a
// transient I/O failure re-queues the item until the retry ceiling,
// after which it fails; anything else (validation, missing group) fails
// immediately. Failed items stay visible for manual retry.
//
// Cancellation of ctx stops the drain between items; the item being
// processed at interruption time is left syncing and is reconciled on
// the next drain.
func (p *Processor) Drain(ctx context.Context) (DrainResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result DrainResult

	if n, err := p.queue.resetStaleSyncing(ctx); err != nil {
		return result, err
	} else if n > 0 {
		slog.Info("Reconciled interrupted sync items", "count", n)
	}

	items, err := p.queue.ListPending(ctx)
	if err != nil {
		return result, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		op, err := item.Operation()
		if err != nil {
			// Undecodable payloads can never succeed.
			slog.Error("Sync item payload is invalid", "item_id", item.ID, "kind", item.Kind, "error", err)
			if err := p.queue.fail(ctx, item.ID, err); err != nil {
				return result, err
			}
			result.Failed++
			p.reportFailed()
			continue
		}

		if err := p.queue.markSyncing(ctx, item.ID); err != nil {
			return result, err
		}

		applyErr := p.applyOne(ctx, op)
		if ctx.Err() != nil {
			// Connectivity lost mid-item: leave it syncing, the next
			// drain reconciles it back to pending.
			return result, ctx.Err()
		}

		switch {
		case applyErr == nil || errs.IsDuplicate(applyErr):
			if err := p.queue.complete(ctx, item.ID); err != nil {
				return result, err
			}
			result.Completed++
			if p.metrics != nil {
				p.metrics.ItemCompleted()
			}

		case isRetryable(applyErr):
			if item.RetryCount+1 >= p.maxRetries {
				slog.Warn("Sync item exhausted retries", "item_id", item.ID, "kind", item.Kind, "error", applyErr)
				if err := p.queue.fail(ctx, item.ID, applyErr); err != nil {
					return result, err
				}
				result.Failed++
				p.reportFailed()
			} else {
				slog.Info("Sync item hit transient error, will retry",
					"item_id", item.ID, "kind", item.Kind, "retry", item.RetryCount+1, "error", applyErr)
				if err := p.queue.requeue(ctx, item.ID, applyErr); err != nil {
					return result, err
				}
				if p.metrics != nil {
					p.metrics.ItemRequeued()
				}
			}

		default:
			slog.Warn("Sync item rejected", "item_id", item.ID, "kind", item.Kind, "error", applyErr)
			if err := p.queue.fail(ctx, item.ID, applyErr); err != nil {
				return result, err
			}
			result.Failed++
			p.reportFailed()
		}
	}

	return result, nil
}

func (p *Processor) applyOne(ctx context.Context, op Operation) error {
	itemCtx, cancel := context.WithTimeout(ctx, p.itemTimeout)
	defer cancel()

	if err := p.applier.Apply(itemCtx, op); err != nil {
		return fmt.Errorf("apply %s: %w", op.OpKind(), err)
	}
	return nil
}

func (p *Processor) reportFailed() {
	if p.metrics != nil {
		p.metrics.ItemFailed()
	}
}

// isRetryable reports whether the failure may clear on its own. A
// per-item timeout counts as transient; validation and consistency
// errors never do.
func isRetryable(err error) bool {
	return errs.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}

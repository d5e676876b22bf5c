// Package runner implements the transaction runner (C9): a single-flight
// retry loop that reserves a sequence number from a store, attempts
// submission, and maps the RPC error taxonomy onto store transitions and
// structured outcomes.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/noncestore"
	"github.com/go-evmkit/evmkit/rpc"
)

// Submitter submits a transaction built for the reserved sequence number
// n and returns the resulting receipt or a classified/transport error.
// Implementations build, sign, and dispatch the transaction; the runner
// does not know how to construct one.
type Submitter func(ctx context.Context, n uint64) (*rpc.Receipt, error)

// OutOfGas is a runner-level outcome: the submission ran out of gas.
// The store retains the reservation on out-of-gas, so Submit never
// releases it and leaves GapCreated false.
type OutOfGas struct {
	Nonce      uint64
	GapCreated bool
	Cause      error
}

func (e *OutOfGas) Error() string { return "runner: out of gas" }
func (e *OutOfGas) Unwrap() error { return e.Cause }

// Reverted is a runner-level outcome: the submission reverted on-chain.
type Reverted struct {
	Nonce      uint64
	GapCreated bool
	Cause      error
}

func (e *Reverted) Error() string { return "runner: reverted" }
func (e *Reverted) Unwrap() error { return e.Cause }

// SubmitFailed is a runner-level outcome for transport failures, deadline
// expiry, or unexpected store state. It always carries the reservation
// number and the underlying cause.
type SubmitFailed struct {
	Nonce           uint64
	Gap             bool
	Deadline        bool
	UnexpectedStore bool
	Cause           error
}

func (e *SubmitFailed) Error() string {
	switch {
	case e.Deadline:
		return "runner: submit failed: deadline exceeded"
	case e.UnexpectedStore:
		return "runner: submit failed: unexpected store state"
	case e.Gap:
		return "runner: submit failed: gap created"
	default:
		return "runner: submit failed"
	}
}

func (e *SubmitFailed) Unwrap() error { return e.Cause }

// Runner drives a single sender's submission loop, serialized by a
// per-runner mutex to reduce contention on the store. The store itself
// must be independently correct under concurrent access, since multiple
// runners may share it.
type Runner struct {
	mu        sync.Mutex
	store     *noncestore.Store
	deadline  time.Duration
	retryWait time.Duration
	log       *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDeadline overrides the default 60 second submission deadline.
func WithDeadline(d time.Duration) Option {
	return func(r *Runner) { r.deadline = d }
}

// WithRetryWait overrides the default 3 second wait between
// transport-failure retries.
func WithRetryWait(d time.Duration) Option {
	return func(r *Runner) { r.retryWait = d }
}

// WithLogger overrides the logger used for outcome events. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New returns a Runner backed by store.
func New(store *noncestore.Store, opts ...Option) *Runner {
	r := &Runner{
		store:     store,
		deadline:  60 * time.Second,
		retryWait: 3 * time.Second,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Submit reserves a sequence number for sender and drives submit through
// the retry loop until success or a structured failure. It is
// serialized: concurrent Submit calls on the same Runner block on each
// other to reduce store contention.
func (r *Runner) Submit(ctx context.Context, sender evmkit.Address, submit Submitter) (*rpc.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := time.Now().Add(r.deadline)
	n := r.store.Reserve(sender)
	var lastErr error

	for {
		if time.Now().After(deadline) {
			cause := lastErr
			if cause == nil {
				cause = context.DeadlineExceeded
			}
			return nil, &SubmitFailed{Nonce: n, Deadline: true, Cause: cause}
		}

		attemptCtx, cancel := context.WithDeadline(ctx, deadline)
		receipt, err := submit(attemptCtx, n)
		cancel()

		if err == nil {
			r.store.OnSuccess(sender, n)
			return receipt, nil
		}
		lastErr = err

		var nonceTooLow *rpc.NonceTooLow
		var outOfGas *rpc.OutOfGas
		var reverted *rpc.Reverted

		switch {
		case errors.As(err, &nonceTooLow):
			n = r.store.OnNonceTooLow(sender, n)
			continue

		case errors.As(err, &outOfGas):
			r.store.OnOutOfGas(sender, n)
			return nil, &OutOfGas{Nonce: n, Cause: err}

		case errors.As(err, &reverted):
			r.store.OnRevert(sender, n)
			return nil, &Reverted{Nonce: n, Cause: err}

		default:
			outcome := r.store.OnSubmissionFailure(ctx, sender, n)
			switch outcome {
			case noncestore.RetryWithSame:
				r.log.LogAttrs(ctx, slog.LevelDebug, "runner retrying submission",
					slog.String("sender", sender.String()), slog.Uint64("nonce", n))
				select {
				case <-ctx.Done():
					return nil, &SubmitFailed{Nonce: n, Cause: ctx.Err()}
				case <-time.After(r.retryWait):
				}
				continue
			case noncestore.RemovedOk:
				return nil, &SubmitFailed{Nonce: n, Cause: err}
			case noncestore.RemovedGapDetected:
				return nil, &SubmitFailed{Nonce: n, Gap: true, Cause: err}
			default:
				return nil, &SubmitFailed{Nonce: n, UnexpectedStore: true, Cause: err}
			}
		}
	}
}

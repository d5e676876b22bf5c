// Package noncestore implements the sequence-number (nonce) reservation
// store (C8): a concurrent per-sender mapping of reserved numbers to
// their failure history, with transitions that decide whether a failed
// reservation is retried, released, or retained.
package noncestore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-evmkit/evmkit"
)

// SubmissionOutcome is the result of on_submission_failure.
type SubmissionOutcome int

const (
	// RetryWithSame means the caller should retry submission with the
	// same reserved number.
	RetryWithSame SubmissionOutcome = iota
	// RemovedOk means the number was released and no gap was created.
	RemovedOk
	// RemovedGapDetected means the number was released but a reservation
	// strictly greater than it still exists, creating a gap below the
	// committed frontier.
	RemovedGapDetected
)

func (o SubmissionOutcome) String() string {
	switch o {
	case RetryWithSame:
		return "retry_with_same"
	case RemovedOk:
		return "removed_ok"
	case RemovedGapDetected:
		return "removed_gap_detected"
	default:
		return "unknown"
	}
}

type reservation struct {
	lastFailure time.Time
	hasFailure  bool
}

type senderState struct {
	reserved map[uint64]*reservation
}

// Store is a concurrent sequence-number reservation store, keyed by
// sender address. Its critical section is a single coarse lock per
// operation, sufficient for the in-memory reference implementation; a
// networked implementation would use a compare-and-swap primitive on its
// backing store instead.
type Store struct {
	mu       sync.Mutex
	senders  map[evmkit.Address]*senderState
	cooldown time.Duration
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCooldown overrides the default 10 second cool-down window within
// which a repeated submission failure for the same number still returns
// RetryWithSame instead of being released.
func WithCooldown(d time.Duration) Option {
	return func(s *Store) { s.cooldown = d }
}

// WithLogger overrides the logger used for gap events. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		senders:  make(map[evmkit.Address]*senderState),
		cooldown: 10 * time.Second,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) stateFor(sender evmkit.Address) *senderState {
	st, ok := s.senders[sender]
	if !ok {
		st = &senderState{reserved: make(map[uint64]*reservation)}
		s.senders[sender] = st
	}
	return st
}

// Reserve returns the smallest non-negative integer not currently
// reserved for sender. Two concurrent callers never receive the same
// number.
func (s *Store) Reserve(sender evmkit.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(sender)
	var n uint64
	for {
		if _, taken := st.reserved[n]; !taken {
			break
		}
		n++
	}
	st.reserved[n] = &reservation{}
	return n
}

// OnSuccess clears any failure record for n; the reservation is retained
// as committed to the chain.
func (s *Store) OnSuccess(sender evmkit.Address, n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(sender)
	if r, ok := st.reserved[n]; ok {
		r.hasFailure = false
	}
}

// OnSubmissionFailure records a transport/unknown failure for n and
// decides whether to retry, release cleanly, or release with a detected
// gap.
func (s *Store) OnSubmissionFailure(ctx context.Context, sender evmkit.Address, n uint64) SubmissionOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(sender)
	r, ok := st.reserved[n]
	if !ok {
		return RemovedOk
	}

	now := time.Now()
	if !r.hasFailure || now.Sub(r.lastFailure) < s.cooldown {
		r.hasFailure = true
		r.lastFailure = now
		return RetryWithSame
	}

	delete(st.reserved, n)
	gap := s.hasReservationAbove(st, n)
	if gap {
		s.log.LogAttrs(ctx, slog.LevelWarn, "nonce gap detected on release",
			slog.String("sender", sender.String()),
			slog.Uint64("released_nonce", n),
		)
		return RemovedGapDetected
	}
	return RemovedOk
}

func (s *Store) hasReservationAbove(st *senderState, n uint64) bool {
	for reserved := range st.reserved {
		if reserved > n {
			return true
		}
	}
	return false
}

// OnNonceTooLow returns the smallest reserved-able number strictly
// greater than n, reserving it for sender.
func (s *Store) OnNonceTooLow(sender evmkit.Address, n uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(sender)
	next := n + 1
	for {
		if _, taken := st.reserved[next]; !taken {
			break
		}
		next++
	}
	st.reserved[next] = &reservation{}
	delete(st.reserved, n)
	return next
}

// NotRemovedGasSpent is the outcome of OnRevert and OnOutOfGas: the
// reservation is retained because chain work occurred.
type NotRemovedGasSpent struct{}

// OnRevert retains n's reservation: gas was spent on-chain even though
// the call reverted.
func (s *Store) OnRevert(sender evmkit.Address, n uint64) NotRemovedGasSpent {
	return NotRemovedGasSpent{}
}

// OnOutOfGas retains n's reservation: gas was spent on-chain even though
// execution ran out of gas.
func (s *Store) OnOutOfGas(sender evmkit.Address, n uint64) NotRemovedGasSpent {
	return NotRemovedGasSpent{}
}

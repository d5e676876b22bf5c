package noncestore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-evmkit/evmkit"
	"github.com/go-evmkit/evmkit/noncestore"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func testSender() evmkit.Address {
	return must(evmkit.ParseAddress("0x43badf0e63ac147ace611dc1113afe0ea3f86918"))
}

func TestReserveReturnsSmallestFree(t *testing.T) {
	s := noncestore.New()
	sender := testSender()
	if n := s.Reserve(sender); n != 0 {
		t.Fatalf("first reserve = %d, want 0", n)
	}
	if n := s.Reserve(sender); n != 1 {
		t.Fatalf("second reserve = %d, want 1", n)
	}
}

func TestReserveConcurrentCallersGetDistinctNumbers(t *testing.T) {
	s := noncestore.New()
	sender := testSender()
	const n = 100
	seen := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Reserve(sender)
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for v := range seen {
		if unique[v] {
			t.Fatalf("duplicate reservation %d handed out under concurrency", v)
		}
		unique[v] = true
	}
	if len(unique) != n {
		t.Fatalf("got %d unique reservations, want %d", len(unique), n)
	}
}

func TestOnSubmissionFailureRetriesWithinCooldown(t *testing.T) {
	s := noncestore.New(noncestore.WithCooldown(time.Hour))
	sender := testSender()
	n := s.Reserve(sender)

	ctx := context.Background()
	if out := s.OnSubmissionFailure(ctx, sender, n); out != noncestore.RetryWithSame {
		t.Fatalf("first failure = %v, want RetryWithSame", out)
	}
	if out := s.OnSubmissionFailure(ctx, sender, n); out != noncestore.RetryWithSame {
		t.Fatalf("second failure within cooldown = %v, want RetryWithSame", out)
	}
}

func TestOnSubmissionFailureReleasesAfterCooldown(t *testing.T) {
	s := noncestore.New(noncestore.WithCooldown(0))
	sender := testSender()
	n := s.Reserve(sender)
	ctx := context.Background()

	first := s.OnSubmissionFailure(ctx, sender, n)
	if first != noncestore.RetryWithSame {
		t.Fatalf("first failure = %v, want RetryWithSame", first)
	}

	second := s.OnSubmissionFailure(ctx, sender, n)
	if second != noncestore.RemovedOk {
		t.Fatalf("second failure past cooldown = %v, want RemovedOk", second)
	}
}

func TestOnSubmissionFailureDetectsGap(t *testing.T) {
	s := noncestore.New(noncestore.WithCooldown(0))
	sender := testSender()
	ctx := context.Background()

	n0 := s.Reserve(sender)
	_ = s.Reserve(sender) // n1, stays reserved

	s.OnSubmissionFailure(ctx, sender, n0) // first failure: RetryWithSame
	out := s.OnSubmissionFailure(ctx, sender, n0)
	if out != noncestore.RemovedGapDetected {
		t.Fatalf("releasing n0 under a still-reserved n1 = %v, want RemovedGapDetected", out)
	}
}

func TestOnNonceTooLowSkipsReserved(t *testing.T) {
	s := noncestore.New()
	sender := testSender()

	n0 := s.Reserve(sender)
	n1 := s.Reserve(sender)
	_ = n1

	next := s.OnNonceTooLow(sender, n0)
	if next <= n0 {
		t.Fatalf("OnNonceTooLow returned %d, want strictly greater than %d", next, n0)
	}
}

func TestOnRevertAndOnOutOfGasRetainReservation(t *testing.T) {
	s := noncestore.New()
	sender := testSender()
	n := s.Reserve(sender)

	s.OnRevert(sender, n)
	s.OnOutOfGas(sender, n)

	// A subsequent reserve must not hand out n again.
	if got := s.Reserve(sender); got == n {
		t.Fatalf("reserved %d again after revert/out-of-gas retained it", got)
	}
}

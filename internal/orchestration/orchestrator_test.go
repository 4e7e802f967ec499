package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/signal"
	"github.com/agbru/fourierbench/internal/testutil"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/internal/transform/mocks"
)

func seed(v int64) *int64 { return &v }

// TestRunValidateIdentity runs two identity implementations in validate mode
// and expects one timing per size and a zero error at every size.
func TestRunValidateIdentity(t *testing.T) {
	t.Parallel()
	impls := []transform.Implementation{testutil.Identity("a"), testutil.Identity("b")}
	cfg := RunConfig{
		Sizes:       []int{2, 4},
		Repetitions: 1,
		Mode:        ModeValidate,
		Seed:        seed(0),
		Reference:   [2]string{"a", "b"},
	}

	res, err := Run(context.Background(), impls, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, label := range []string{"a", "b"} {
		if got := len(res.Timing(label)); got != 2 {
			t.Errorf("%s: expected 2 timings, got %d", label, got)
		}
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(res.Errors))
	}
	for i, e := range res.Errors {
		if e != 0 {
			t.Errorf("size %d: expected MSE 0, got %g", res.Sizes[i], e)
		}
	}
	if res.Reference != cfg.Reference {
		t.Errorf("expected reference %v, got %v", cfg.Reference, res.Reference)
	}
}

// TestRunConcurrentIdentity runs three identity implementations concurrently
// and checks the batch size and the shape of the result.
func TestRunConcurrentIdentity(t *testing.T) {
	t.Parallel()
	counters := []*testutil.Counting{
		testutil.NewCounting(testutil.Identity("a")),
		testutil.NewCounting(testutil.Identity("b")),
		testutil.NewCounting(testutil.Identity("c")),
	}
	impls := make([]transform.Implementation, len(counters))
	for i, c := range counters {
		impls[i] = c
	}

	res, err := Run(context.Background(), impls, RunConfig{Sizes: []int{8}, Repetitions: 5, Mode: ModeConcurrent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Labels) != 3 || len(res.Timings) != 3 {
		t.Fatalf("expected 3 labels, got %v", res.Labels)
	}
	for _, label := range res.Labels {
		if got := len(res.Timing(label)); got != 1 {
			t.Errorf("%s: expected 1 timing, got %d", label, got)
		}
	}
	if res.Errors != nil {
		t.Errorf("concurrent mode should not record errors, got %v", res.Errors)
	}
	for i, c := range counters {
		if c.Calls() != 5 {
			t.Errorf("implementation %d: expected 5 calls, got %d", i, c.Calls())
		}
	}
}

func TestRunValidatePinsRepetitions(t *testing.T) {
	t.Parallel()
	a := testutil.NewCounting(testutil.Identity("a"))
	b := testutil.NewCounting(testutil.Identity("b"))
	cfg := RunConfig{Sizes: []int{4, 8, 16}, Repetitions: 10, Mode: ModeValidate, Reference: [2]string{"a", "b"}}

	res, err := Run(context.Background(), []transform.Implementation{a, b}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Repetitions != 1 {
		t.Errorf("expected 1 repetition, got %d", res.Repetitions)
	}
	if a.Calls() != 3 || b.Calls() != 3 {
		t.Errorf("expected one call per size, got %d and %d", a.Calls(), b.Calls())
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	t.Parallel()
	id := testutil.Identity("a")
	tests := []struct {
		name  string
		impls []transform.Implementation
		cfg   RunConfig
	}{
		{"empty sizes", []transform.Implementation{id}, RunConfig{Sizes: []int{}, Repetitions: 1, Mode: ModeConcurrent}},
		{"no implementations", nil, RunConfig{Sizes: []int{4}, Repetitions: 1, Mode: ModeConcurrent}},
		{"zero repetitions", []transform.Implementation{id}, RunConfig{Sizes: []int{4}, Mode: ModeConcurrent}},
		{"validate without reference", []transform.Implementation{id, testutil.Identity("b")}, RunConfig{Sizes: []int{4}, Repetitions: 1, Mode: ModeValidate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Run(context.Background(), tt.impls, tt.cfg)
			if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
				t.Fatalf("expected invalid configuration, got %v", err)
			}
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
		})
	}
}

// TestRunAbortsOnError checks that the first implementation failure aborts
// the run and stays reachable through the RunError wrapper.
func TestRunAbortsOnError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	for _, mode := range []Mode{ModeConcurrent, ModeValidate} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()
			later := testutil.NewCounting(testutil.Identity("ok"))
			impls := []transform.Implementation{testutil.Failing("bad", boom), later}
			cfg := RunConfig{Sizes: []int{4, 8}, Repetitions: 2, Mode: mode, Reference: [2]string{"bad", "ok"}}

			res, err := Run(context.Background(), impls, cfg)
			if !errors.Is(err, boom) {
				t.Fatalf("expected wrapped boom, got %v", err)
			}
			var runErr apperrors.RunError
			if !errors.As(err, &runErr) {
				t.Fatalf("expected RunError, got %T", err)
			}
			if runErr.Implementation != "bad" || runErr.Size != 4 {
				t.Errorf("unexpected RunError: %+v", runErr)
			}
			if res != nil {
				t.Error("expected nil result on failure")
			}
			if mode == ModeValidate && later.Calls() != 0 {
				t.Errorf("validate mode should stop at the first failure, got %d later calls", later.Calls())
			}
		})
	}
}

func TestRunValidateShapeMismatch(t *testing.T) {
	t.Parallel()
	short := transform.Func("short", func(in []complex128) ([]complex128, error) {
		return in[:len(in)-1], nil
	})
	cfg := RunConfig{Sizes: []int{4}, Repetitions: 1, Mode: ModeValidate, Reference: [2]string{"id", "short"}}

	_, err := Run(context.Background(), []transform.Implementation{testutil.Identity("id"), short}, cfg)
	if !errors.Is(err, apperrors.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testutil.NewCounting(testutil.Identity("a"))

	_, err := Run(ctx, []transform.Implementation{c}, RunConfig{Sizes: []int{4}, Repetitions: 1, Mode: ModeConcurrent})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.Calls() != 0 {
		t.Errorf("no call expected after cancellation, got %d", c.Calls())
	}
}

// TestRunCancelBetweenRepetitions cancels from inside the first call; that
// call completes and the batch stops before its next repetition.
func TestRunCancelBetweenRepetitions(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int64
	impl := transform.Func("a", func(in []complex128) ([]complex128, error) {
		calls.Add(1)
		cancel()
		return in, nil
	})

	res, err := Run(ctx, []transform.Implementation{impl}, RunConfig{Sizes: []int{4, 8}, Repetitions: 3, Mode: ModeConcurrent})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Error("expected nil result on cancellation")
	}
	if calls.Load() != 1 {
		t.Errorf("expected the in-flight call to complete and no further call, got %d calls", calls.Load())
	}
}

func TestRunValidateCancelBetweenCalls(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := transform.Func("a", func(in []complex128) ([]complex128, error) {
		cancel()
		return in, nil
	})
	second := testutil.NewCounting(testutil.Identity("b"))
	cfg := RunConfig{Sizes: []int{4}, Repetitions: 1, Mode: ModeValidate, Reference: [2]string{"a", "b"}}

	_, err := Run(ctx, []transform.Implementation{first, second}, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if second.Calls() != 0 {
		t.Errorf("expected no call after cancellation, got %d", second.Calls())
	}
}

// TestRunDeadlineStopsLongBatch checks that a deadline shorter than one batch
// ends the run long before the batch would have finished.
func TestRunDeadlineStopsLongBatch(t *testing.T) {
	t.Parallel()
	slow := testutil.NewCounting(transform.Func("slow", func(in []complex128) ([]complex128, error) {
		time.Sleep(10 * time.Millisecond)
		return in, nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Run(ctx, []transform.Implementation{slow}, RunConfig{Sizes: []int{8}, Repetitions: 200, Mode: ModeConcurrent})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("run took %v after a 50ms deadline", elapsed)
	}
	if slow.Calls() >= 200 {
		t.Errorf("expected the batch to stop early, got %d calls", slow.Calls())
	}
}

// TestRunConcurrentOverlaps blocks every implementation until all of them
// have entered their first call, which only succeeds if they run at the same
// time.
func TestRunConcurrentOverlaps(t *testing.T) {
	t.Parallel()
	const n = 4
	var entered sync.WaitGroup
	entered.Add(n)
	allIn := make(chan struct{})
	go func() {
		entered.Wait()
		close(allIn)
	}()

	impls := make([]transform.Implementation, n)
	for i := range n {
		impls[i] = transform.Func(fmt.Sprintf("impl%d", i), func(in []complex128) ([]complex128, error) {
			entered.Done()
			select {
			case <-allIn:
				return in, nil
			case <-time.After(5 * time.Second):
				return nil, errors.New("implementations did not run concurrently")
			}
		})
	}

	if _, err := Run(context.Background(), impls, RunConfig{Sizes: []int{8}, Repetitions: 1, Mode: ModeConcurrent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRunConcurrentBarrier records call boundaries and checks that no call
// for a size starts before every call of the previous size has returned.
func TestRunConcurrentBarrier(t *testing.T) {
	t.Parallel()
	type event struct {
		size  int
		enter bool
	}
	var mu sync.Mutex
	var events []event
	record := func(size int, enter bool) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event{size, enter})
	}
	recording := func(name string, delay time.Duration) transform.Implementation {
		return transform.Func(name, func(in []complex128) ([]complex128, error) {
			record(len(in), true)
			time.Sleep(delay)
			record(len(in), false)
			return in, nil
		})
	}
	impls := []transform.Implementation{
		recording("fast", 0),
		recording("slow", 5*time.Millisecond),
	}
	sizes := []int{4, 8, 16}

	if _, err := Run(context.Background(), impls, RunConfig{Sizes: sizes, Repetitions: 2, Mode: ModeConcurrent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lastExit := map[int]int{}
	firstEnter := map[int]int{}
	for i, ev := range events {
		if ev.enter {
			if _, seen := firstEnter[ev.size]; !seen {
				firstEnter[ev.size] = i
			}
		} else {
			lastExit[ev.size] = i
		}
	}
	if len(events) != len(sizes)*len(impls)*2*2 {
		t.Fatalf("expected %d events, got %d", len(sizes)*len(impls)*4, len(events))
	}
	for k := 1; k < len(sizes); k++ {
		if firstEnter[sizes[k]] < lastExit[sizes[k-1]] {
			t.Errorf("size %d started before size %d finished", sizes[k], sizes[k-1])
		}
	}
}

// TestRunValidateIsSequential checks that validate mode never has two calls
// in flight at once.
func TestRunValidateIsSequential(t *testing.T) {
	t.Parallel()
	var inFlight, peak atomic.Int32
	tracked := func(name string) transform.Implementation {
		return transform.Func(name, func(in []complex128) ([]complex128, error) {
			cur := inFlight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return in, nil
		})
	}
	impls := []transform.Implementation{tracked("a"), tracked("b"), tracked("c")}
	cfg := RunConfig{Sizes: []int{4, 8}, Repetitions: 5, Mode: ModeValidate, Reference: [2]string{"a", "b"}}

	if _, err := Run(context.Background(), impls, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak.Load() != 1 {
		t.Errorf("expected at most one call in flight, saw %d", peak.Load())
	}
}

func TestRunWithMockImplementation(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockImplementation(ctrl)
	m.EXPECT().Name().Return("mock").AnyTimes()
	m.EXPECT().Transform(gomock.Len(16)).DoAndReturn(func(in []complex128) ([]complex128, error) {
		return in, nil
	}).Times(4)

	res, err := Run(context.Background(), []transform.Implementation{m}, RunConfig{Sizes: []int{16}, Repetitions: 4, Mode: ModeConcurrent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Timing("mock")) != 1 {
		t.Errorf("expected one timing, got %v", res.Timing("mock"))
	}
}

// TestRunSharesSeededInput checks that every implementation sees the same
// input and that a seeded run reproduces signal.Generate for each size.
func TestRunSharesSeededInput(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	seen := map[string][][]complex128{}
	capture := func(name string) transform.Implementation {
		return transform.Func(name, func(in []complex128) ([]complex128, error) {
			mu.Lock()
			defer mu.Unlock()
			seen[name] = append(seen[name], append([]complex128(nil), in...))
			return in, nil
		})
	}
	sizes := []int{4, 8}
	cfg := RunConfig{Sizes: sizes, Repetitions: 1, Mode: ModeValidate, Seed: seed(7), Reference: [2]string{"x", "y"}}

	if _, err := Run(context.Background(), []transform.Implementation{capture("x"), capture("y")}, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, size := range sizes {
		want := signal.Generate(size, seed(7))
		for _, name := range []string{"x", "y"} {
			got := seen[name][i]
			if len(got) != size {
				t.Fatalf("%s: expected length %d, got %d", name, size, len(got))
			}
			for j := range want {
				if got[j] != want[j] {
					t.Fatalf("%s size %d: input differs at %d", name, size, j)
				}
			}
		}
	}
}

func TestRunWithGeneratorAndProgress(t *testing.T) {
	t.Parallel()
	impls := []transform.Implementation{testutil.Identity("a"), testutil.Identity("b")}
	cfg := RunConfig{Sizes: []int{2, 4, 8}, Repetitions: 2, Mode: ModeConcurrent}

	res, err := Run(context.Background(), impls, cfg,
		WithGenerator(signal.NewGenerator(1)),
		WithProgress(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Timing("a")) != 3 || len(res.Timing("b")) != 3 {
		t.Errorf("expected 3 timings per label, got %v", res.Timings)
	}
	if res.Timing("missing") != nil {
		t.Error("expected nil timings for an unknown label")
	}
}

package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewGate_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		rps    int
		burst  int
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			rps:    0,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			rps:    -5,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			rps:    10,
			burst:  0,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (negative)",
			rps:    10,
			burst:  -5,
			expErr: ErrMustNotBeZero,
		},
		{
			name:  "Valid input",
			rps:   10,
			burst: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gate, err := NewGate(tc.rps, tc.burst, func() *slog.Logger { return nil })

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
			} else {
				if err != nil {
					t.Errorf("exp nil err, got: %v", err)
				}

				if gate == nil {
					t.Error("exp non-nil Gate")
				}
			}
		})
	}
}

func TestGateWait_WithinBurst(t *testing.T) {
	gate, err := NewGate(5, 5, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := gate.Wait(context.Background(), "test"); err != nil {
			t.Fatalf("Wait() = %v, want nil", err)
		}
	}

	if waited := time.Since(start); waited > 100*time.Millisecond {
		t.Errorf("5 calls within burst took %v, want < 100ms", waited)
	}
}

func TestGateWait_SlowsDownPastBurst(t *testing.T) {
	gate, err := NewGate(10, 5, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	for i := 0; i < 8; i++ {
		if err := gate.Wait(context.Background(), "test"); err != nil {
			t.Fatalf("Wait() = %v, want nil", err)
		}
	}

	// (8-5 calls) / 10 RPS = 0.3 seconds of enforced waiting.
	minDuration := time.Duration(float64(time.Second) * float64(8-5) / float64(10))
	if waited := time.Since(start); waited < minDuration {
		t.Errorf("8 calls past burst took %v, want >= %v", waited, minDuration)
	}
}

func TestGateWait_PreCancelledContext(t *testing.T) {
	gate, err := NewGate(10, 5, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = gate.Wait(ctx, "test")
	if !errors.Is(err, ErrContextEnded) {
		t.Errorf("Wait() = %v, want ErrContextEnded", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want wrapped context.Canceled", err)
	}
}

func TestGateWait_TimeoutWhileWaiting(t *testing.T) {
	gate, err := NewGate(1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Drain the bucket so the next call must wait a full second.
	if err := gate.Wait(context.Background(), "drain"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = gate.Wait(ctx, "test")
	if !errors.Is(err, ErrWaitingFailed) {
		t.Errorf("Wait() = %v, want ErrWaitingFailed", err)
	}
}

func TestGateWait_NilGate(t *testing.T) {
	var gate *Gate
	if err := gate.Wait(context.Background(), "test"); err != nil {
		t.Errorf("nil gate Wait() = %v, want nil", err)
	}
}

func TestRoundTripper_ThrottlesConcurrentLoad(t *testing.T) {
	var callCount int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&callCount, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(10, 5, func() *slog.Logger { return nil }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}

	client := &http.Client{Transport: rt}

	const numRequests = 8
	errs := make([]error, numRequests)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
			if reqErr != nil {
				errs[idx] = reqErr
				return
			}

			resp, doErr := client.Do(req)
			errs[idx] = doErr
			if doErr == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&callCount); got != numRequests {
		t.Errorf("server calls = %d, want %d", got, numRequests)
	}

	// (8-5 calls) / 10 RPS = 0.3 seconds of enforced waiting.
	minDuration := time.Duration(float64(time.Second) * float64(numRequests-5) / float64(10))
	if duration < minDuration {
		t.Errorf("throttled load took %v, want >= %v", duration, minDuration)
	}
}

func TestRoundTripper_RequestTimeoutWhileThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(1, 1, func() *slog.Logger { return nil }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}

	client := &http.Client{Transport: rt}

	// First request drains the bucket.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.Do(req); !errors.Is(err, ErrWaitingFailed) {
		t.Errorf("throttled request = %v, want ErrWaitingFailed", err)
	}
}

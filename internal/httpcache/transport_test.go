package httpcache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/debemdeboas/recipe-archive/internal/util/compression"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// countingUpstream answers every request with status and body and counts calls.
func countingUpstream(status int, body string, calls *int32) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(calls, 1)
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

func get(t *testing.T, rt http.RoundTripper, ctx context.Context, url string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestTransport_CachesWithinMaxAge(t *testing.T) {
	testCases := []struct {
		name       string
		compressor compression.Compressor
	}{
		{name: "zstd", compressor: compression.ZstdCompressor{}},
		{name: "gzip", compressor: compression.GzipCompressor{}},
		{name: "none", compressor: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			tr := NewTransport(countingUpstream(http.StatusOK, `[{"id":1}]`, &calls), tc.compressor)
			ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Hour})

			resp1, body1 := get(t, tr, ctx, "https://wp.test/posts?_embed&per_page=12")
			resp2, body2 := get(t, tr, ctx, "https://wp.test/posts?_embed&per_page=12")

			if calls != 1 {
				t.Errorf("Expected 1 upstream call, got %d", calls)
			}
			if body1 != `[{"id":1}]` || body2 != body1 {
				t.Errorf("Expected identical bodies, got %q and %q", body1, body2)
			}
			if resp1.Header.Get(HeaderCache) != CacheMiss {
				t.Errorf("Expected first response to be a %s, got %q", CacheMiss, resp1.Header.Get(HeaderCache))
			}
			if resp2.Header.Get(HeaderCache) != CacheHit {
				t.Errorf("Expected second response to be a %s, got %q", CacheHit, resp2.Header.Get(HeaderCache))
			}
			if resp2.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Expected cached headers to be kept, got %q", resp2.Header.Get("Content-Type"))
			}
			if resp2.StatusCode != http.StatusOK {
				t.Errorf("Expected status 200, got %d", resp2.StatusCode)
			}
		})
	}
}

func TestTransport_Bypass(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		ctx    context.Context
	}{
		{name: "No policy", method: http.MethodGet, ctx: context.Background()},
		{name: "Zero max age", method: http.MethodGet, ctx: WithPolicy(context.Background(), Policy{})},
		{name: "Non-GET", method: http.MethodHead, ctx: WithPolicy(context.Background(), Policy{MaxAge: time.Hour})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			tr := NewTransport(countingUpstream(http.StatusOK, "ok", &calls), nil)

			for i := 0; i < 2; i++ {
				req, _ := http.NewRequestWithContext(tc.ctx, tc.method, "https://wp.test/pages", nil)
				resp, err := tr.RoundTrip(req)
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				resp.Body.Close()
				if resp.Header.Get(HeaderCache) != "" {
					t.Errorf("Expected no %s header on bypassed request", HeaderCache)
				}
			}

			if calls != 2 {
				t.Errorf("Expected 2 upstream calls, got %d", calls)
			}
			if tr.Len() != 0 {
				t.Errorf("Expected nothing stored, got %d entries", tr.Len())
			}
		})
	}
}

func TestTransport_DoesNotStoreFailures(t *testing.T) {
	var calls int32
	tr := NewTransport(countingUpstream(http.StatusServiceUnavailable, "down", &calls), compression.ZstdCompressor{})
	ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Hour})

	resp, body := get(t, tr, ctx, "https://wp.test/categories")
	get(t, tr, ctx, "https://wp.test/categories")

	if resp.StatusCode != http.StatusServiceUnavailable || body != "down" {
		t.Errorf("Expected upstream failure to pass through, got %d %q", resp.StatusCode, body)
	}
	if calls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", calls)
	}
	if tr.Len() != 0 {
		t.Errorf("Expected failed response not to be stored, got %d entries", tr.Len())
	}
}

func TestTransport_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	tr := NewTransport(roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, boom }), nil)

	req, _ := http.NewRequestWithContext(
		WithPolicy(context.Background(), Policy{MaxAge: time.Hour}), http.MethodGet, "https://wp.test/posts", nil)
	_, err := tr.RoundTrip(req)
	if !errors.Is(err, boom) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestTransport_DistinctURLs(t *testing.T) {
	var calls int32
	tr := NewTransport(countingUpstream(http.StatusOK, "[]", &calls), nil)
	ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Minute})

	get(t, tr, ctx, "https://wp.test/posts?search=tofu&_embed")
	get(t, tr, ctx, "https://wp.test/posts?search=noodles&_embed")
	get(t, tr, ctx, "https://wp.test/posts?search=tofu&_embed")

	if calls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", calls)
	}
}

func TestTransport_Expiry(t *testing.T) {
	var calls int32
	tr := NewTransport(countingUpstream(http.StatusOK, "[]", &calls), nil)
	ctx := WithPolicy(context.Background(), Policy{MaxAge: 20 * time.Millisecond})

	get(t, tr, ctx, "https://wp.test/posts")
	time.Sleep(40 * time.Millisecond)
	resp, _ := get(t, tr, ctx, "https://wp.test/posts")

	if calls != 2 {
		t.Errorf("Expected a fresh fetch after max age, got %d upstream calls", calls)
	}
	if resp.Header.Get(HeaderCache) != CacheMiss {
		t.Errorf("Expected %s after expiry, got %q", CacheMiss, resp.Header.Get(HeaderCache))
	}

	time.Sleep(40 * time.Millisecond)
	if n := tr.Purge(); n != 1 {
		t.Errorf("Expected 1 purged entry, got %d", n)
	}
}

func TestTransport_CoalescesConcurrentMisses(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	upstream := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("[]")),
		}, nil
	})
	tr := NewTransport(upstream, nil)
	ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Hour})

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://wp.test/posts", nil)
			resp, err := tr.RoundTrip(req)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Expected no error, got %v", err)
	}
	if calls < 1 || calls > n {
		t.Fatalf("Unexpected upstream call count %d", calls)
	}
	if calls == n {
		t.Errorf("Expected concurrent misses to share upstream requests, got %d calls for %d requests", calls, n)
	}
}

func TestTransport_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	upstreamErr := make(chan error, 1)
	upstream := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		upstreamErr <- r.Context().Err()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`[{"id":1}]`)),
		}, nil
	})
	tr := NewTransport(upstream, nil)
	policy := Policy{MaxAge: time.Hour}

	firstCtx, cancelFirst := context.WithCancel(WithPolicy(context.Background(), policy))
	defer cancelFirst()
	firstErr := make(chan error, 1)
	go func() {
		req, _ := http.NewRequestWithContext(firstCtx, http.MethodGet, "https://wp.test/posts", nil)
		resp, err := tr.RoundTrip(req)
		if err == nil {
			resp.Body.Close()
		}
		firstErr <- err
	}()
	<-started

	type result struct {
		status int
		body   string
		err    error
	}
	second := make(chan result, 1)
	go func() {
		req, _ := http.NewRequestWithContext(WithPolicy(context.Background(), policy), http.MethodGet, "https://wp.test/posts", nil)
		resp, err := tr.RoundTrip(req)
		if err != nil {
			second <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		second <- result{status: resp.StatusCode, body: string(body)}
	}()

	// Let the second caller join the in-flight request before the first gives up.
	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled for the cancelled caller, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected the cancelled caller to return without waiting for upstream")
	}

	close(release)

	select {
	case res := <-second:
		if res.err != nil {
			t.Fatalf("Expected no error for the second caller, got %v", res.err)
		}
		if res.status != http.StatusOK || res.body != `[{"id":1}]` {
			t.Errorf("Expected 200 with body, got %d %q", res.status, res.body)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected the second caller to receive the shared response")
	}

	if err := <-upstreamErr; err != nil {
		t.Errorf("Expected upstream request context to outlive the cancelled caller, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", calls)
	}
	if tr.Len() != 1 {
		t.Errorf("Expected the shared response to be stored, got %d entries", tr.Len())
	}
}

func TestTransport_FetchTimeout(t *testing.T) {
	upstream := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})
	tr := NewTransport(upstream, nil)
	tr.FetchTimeout = 10 * time.Millisecond

	ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Hour})
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://wp.test/posts", nil)
	_, err := tr.RoundTrip(req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if tr.Len() != 0 {
		t.Errorf("Expected nothing stored, got %d entries", tr.Len())
	}
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	tr := NewTransport(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected janitor to stop after cancel")
	}
}

func TestPolicyFrom(t *testing.T) {
	if _, ok := PolicyFrom(context.Background()); ok {
		t.Error("Expected no policy on a bare context")
	}

	ctx := WithPolicy(context.Background(), Policy{MaxAge: time.Minute})
	p, ok := PolicyFrom(ctx)
	if !ok || p.MaxAge != time.Minute {
		t.Errorf("Expected 1m policy, got %+v (ok=%v)", p, ok)
	}
	if !p.Cacheable() {
		t.Error("Expected positive max age to be cacheable")
	}
	if (Policy{}).Cacheable() {
		t.Error("Expected zero policy not to be cacheable")
	}
}

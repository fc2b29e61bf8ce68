package httpcache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/debemdeboas/recipe-archive/internal/cache"
	"github.com/debemdeboas/recipe-archive/internal/util/compression"
)

const (
	HeaderCache = "X-Cache"
	CacheHit    = "HIT"
	CacheMiss   = "MISS"
)

// DefaultFetchTimeout bounds a shared upstream request when Transport.FetchTimeout is zero.
const DefaultFetchTimeout = 30 * time.Second

// snapshot is a fully buffered response. Stored snapshots hold a compressed body.
type snapshot struct {
	status int
	header http.Header
	body   []byte
}

func (s *snapshot) response(req *http.Request, cacheStatus string) *http.Response {
	header := s.header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set(HeaderCache, cacheStatus)

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", s.status, http.StatusText(s.status)),
		StatusCode:    s.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(s.body)),
		ContentLength: int64(len(s.body)),
		Request:       req,
	}
}

// Transport serves GET requests carrying a cacheable Policy from memory while
// the stored response is younger than Policy.MaxAge. Only 2xx responses are
// stored. Concurrent misses for the same URL share one upstream request,
// which runs detached from any single caller's context. A caller whose
// context ends stops waiting without failing the others.
type Transport struct {
	// Base is used for upstream requests. http.DefaultTransport when nil.
	Base http.RoundTripper

	// FetchTimeout bounds a shared upstream request. DefaultFetchTimeout when zero.
	FetchTimeout time.Duration

	compressor compression.Compressor
	store      *cache.Expiring[string, *snapshot]
	group      singleflight.Group
}

func NewTransport(base http.RoundTripper, compressor compression.Compressor) *Transport {
	if compressor == nil {
		compressor = compression.NoneCompressor{}
	}
	return &Transport{
		Base:       base,
		compressor: compressor,
		store:      cache.NewExpiring[string, *snapshot](),
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) fetchTimeout() time.Duration {
	if t.FetchTimeout > 0 {
		return t.FetchTimeout
	}
	return DefaultFetchTimeout
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	policy, _ := PolicyFrom(req.Context())
	if req.Method != http.MethodGet || !policy.Cacheable() {
		return t.base().RoundTrip(req)
	}

	log := zerolog.Ctx(req.Context())
	key := req.URL.String()

	if stored, ok := t.store.Get(key); ok {
		body, err := t.compressor.Decompress(stored.body)
		if err == nil {
			log.Debug().Str("url", key).Msg("Serving cached response")
			return (&snapshot{status: stored.status, header: stored.header, body: body}).response(req, CacheHit), nil
		}
		log.Warn().Err(err).Str("url", key).Msg("Dropping unreadable cache entry")
		t.store.Delete(key)
	}

	ch := t.group.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), t.fetchTimeout())
		defer cancel()
		return t.fetch(req.Clone(ctx), key, policy)
	})

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("url", key).Msg("Shared in-flight upstream request")
		}
		return res.Val.(*snapshot).response(req, CacheMiss), nil
	}
}

func (t *Transport) fetch(req *http.Request, key string, policy Policy) (*snapshot, error) {
	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	snap := &snapshot{status: resp.StatusCode, header: resp.Header.Clone(), body: body}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return snap, nil
	}

	compressed, err := t.compressor.Compress(body)
	if err != nil {
		zerolog.Ctx(req.Context()).Warn().Err(err).Str("url", key).Msg("Not caching response")
		return snap, nil
	}
	t.store.Set(key, &snapshot{status: snap.status, header: snap.header, body: compressed}, policy.MaxAge)

	return snap, nil
}

// Len reports how many responses are stored, including expired ones not yet purged.
func (t *Transport) Len() int {
	return t.store.Len()
}

// Purge drops expired responses.
func (t *Transport) Purge() int {
	return t.store.Purge()
}

// RunJanitor purges expired responses every interval until ctx is done.
func (t *Transport) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Purge(); n > 0 {
				zerolog.Ctx(ctx).Debug().Int("purged", n).Msg("Purged expired responses")
			}
		}
	}
}

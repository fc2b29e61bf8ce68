// Package httpcache provides an http.RoundTripper that reuses successful GET
// responses for as long as the request's revalidation policy allows.
package httpcache

import (
	"context"
	"time"
)

// Policy says how long a response fetched for a request may be reused.
// The zero Policy disables reuse.
type Policy struct {
	MaxAge time.Duration
}

func (p Policy) Cacheable() bool {
	return p.MaxAge > 0
}

type policyKey struct{}

// WithPolicy attaches p to ctx; requests made with the returned context are
// cached according to p by Transport.
func WithPolicy(ctx context.Context, p Policy) context.Context {
	return context.WithValue(ctx, policyKey{}, p)
}

func PolicyFrom(ctx context.Context) (Policy, bool) {
	p, ok := ctx.Value(policyKey{}).(Policy)
	return p, ok
}

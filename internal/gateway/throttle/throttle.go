// Package throttle paces outbound requests to expensive service endpoints.
package throttle

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// route is one paced endpoint. A path ending in "/" covers every path below it.
type route struct {
	method  string
	path    string
	prefix  bool
	limiter *rate.Limiter
}

func (r route) matches(method, path string) bool {
	if r.method != method {
		return false
	}
	if r.prefix {
		return strings.HasPrefix(path, r.path)
	}
	return r.path == path
}

// Limiter paces requests per endpoint. It never rejects: Wait blocks until a
// token is available or the context ends.
type Limiter struct {
	enabled bool
	routes  []route
}

// NewLimiter creates a limiter with one token bucket per configured endpoint.
// A nil config uses LoadConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{enabled: config.Enabled}
	for _, ec := range config.EndpointConfigs {
		if ec.Limit <= 0 || ec.Window <= 0 {
			continue
		}
		burst := ec.Burst
		if burst <= 0 {
			burst = ec.Limit
		}
		every := rate.Limit(float64(ec.Limit) / ec.Window.Seconds())
		l.routes = append(l.routes, route{
			method:  ec.Method,
			path:    ec.Path,
			prefix:  strings.HasSuffix(ec.Path, "/"),
			limiter: rate.NewLimiter(every, burst),
		})
	}
	return l
}

// Wait blocks until the endpoint may be called. It returns the time spent
// waiting, or the context error if the context ended first. An abandoned
// reservation is handed back to the bucket.
func (l *Limiter) Wait(ctx context.Context, method, path string) (time.Duration, error) {
	lim := l.lookup(method, path)
	if lim == nil {
		return 0, nil
	}

	r := lim.Reserve()
	delay := r.Delay()
	if delay <= 0 {
		return 0, nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return delay, nil
	case <-ctx.Done():
		r.Cancel()
		return 0, ctx.Err()
	}
}

// Remaining reports the whole tokens available for an endpoint, or -1 when
// the endpoint is not paced.
func (l *Limiter) Remaining(method, path string) int {
	lim := l.lookup(method, path)
	if lim == nil {
		return -1
	}
	return max(int(lim.Tokens()), 0)
}

// lookup prefers an exact route over a prefix route.
func (l *Limiter) lookup(method, path string) *rate.Limiter {
	if l == nil || !l.enabled {
		return nil
	}
	var prefixed *rate.Limiter
	for _, r := range l.routes {
		if !r.matches(method, path) {
			continue
		}
		if !r.prefix {
			return r.limiter
		}
		if prefixed == nil {
			prefixed = r.limiter
		}
	}
	return prefixed
}

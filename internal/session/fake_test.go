package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/lifecycle"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// fakeService is an in-process stand-in for the hiring-assistant API.
type fakeService struct {
	server *httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  atomic.Int32
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{routes: make(map[string]http.HandlerFunc)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.mu.Lock()
		h, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeService) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" /api"+path] = h
}

func (f *fakeService) reply(method, path string, status int, body string) {
	f.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeService) session(t *testing.T, policy lifecycle.Policy) *Session {
	t.Helper()
	client, err := gateway.New(&gateway.Options{
		BaseURL:    f.server.URL + "/api",
		HTTPClient: f.server.Client(),
	})
	require.NoError(t, err)

	s, err := New(Options{
		Client:   client,
		Policy:   policy,
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	})
	require.NoError(t, err)
	return s
}

// Package dashboard projects read-only view state out of the domain stores.
// It holds no state of its own.
package dashboard

import (
	"github.com/jonathan/staffpilot/internal/store"
)

// Coordinator answers per-domain view questions for UI surfaces.
type Coordinator struct {
	store *store.Store
}

// New creates a coordinator over s.
func New(s *store.Store) *Coordinator {
	return &Coordinator{store: s}
}

// IsAnythingPending reports whether any operation in the domain is in flight.
// Unknown domains are never pending.
func (c *Coordinator) IsAnythingPending(name store.Name) bool {
	d := c.store.Domain(name)
	if d == nil {
		return false
	}
	return d.AnyPending()
}

// MostRecentError returns the newest error recorded in the domain.
func (c *Coordinator) MostRecentError(name store.Name) (store.ErrorInfo, bool) {
	d := c.store.Domain(name)
	if d == nil {
		return store.ErrorInfo{}, false
	}
	return d.MostRecentError()
}

// DomainView is the derived state of one domain.
type DomainView struct {
	Name    store.Name
	Pending bool
	Error   *store.ErrorInfo
	Errors  int
}

// Overview returns one DomainView per domain in display order.
func (c *Coordinator) Overview() []DomainView {
	domains := c.store.Domains()
	views := make([]DomainView, 0, len(domains))
	for _, d := range domains {
		v := DomainView{Name: d.Name(), Pending: d.AnyPending(), Errors: len(d.Errors())}
		if rec, ok := d.MostRecentError(); ok {
			v.Error = &rec
		}
		views = append(views, v)
	}
	return views
}

// AnythingPending reports whether any domain has work in flight.
func (c *Coordinator) AnythingPending() bool {
	for _, d := range c.store.Domains() {
		if d.AnyPending() {
			return true
		}
	}
	return false
}

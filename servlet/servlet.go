// Package servlet implements the immutable dispatch descriptor spec §4.10
// names: a compiled resource pattern, a compiled method pattern, a handler,
// and a negotiation map. Registration is scoped to an object's lifetime —
// a Descriptor joins a Registry on construction and leaves it on
// Unregister, mirroring the mutex-guarded registration idiom of the
// teacher's router (MiraiMindz-watt bolt/core/router.go) generalized from
// exact/radix path matching to regex matching, as the spec requires.
package servlet

import (
	"regexp"
	"sync"

	"github.com/kestrelhttp/kestrel/session"
)

// Handler processes a dispatched request. captures holds the resource
// regex's submatches (captures[0] is the whole match, same convention as
// regexp.FindStringSubmatch).
type Handler func(s *session.Session, captures []string)

// Descriptor is one immutable servlet registration.
type Descriptor struct {
	Resource    *regexp.Regexp
	Method      *regexp.Regexp
	Handler     Handler
	Negotiation []session.Negotiation
	Description string

	registry *Registry
}

// defaultMethodPattern matches exactly the literal method "GET", the
// default spec §4.10 names when a descriptor doesn't specify one.
var defaultMethodPattern = regexp.MustCompile(`^GET$`)

// Registry holds the live set of descriptors a server dispatches against.
// The zero value is ready to use.
type Registry struct {
	mu          sync.RWMutex
	descriptors []*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register compiles resourcePattern (and methodPattern, defaulting to
// "GET" if empty) and adds the resulting Descriptor to r. The returned
// Descriptor's Unregister method removes it again — registration is scoped
// to however long the caller holds the Descriptor, per spec: "joins on
// construction and leaves on destruction".
func (r *Registry) Register(resourcePattern, methodPattern string, handler Handler, negotiation []session.Negotiation, description string) (*Descriptor, error) {
	resource, err := regexp.Compile(resourcePattern)
	if err != nil {
		return nil, err
	}
	method := defaultMethodPattern
	if methodPattern != "" {
		method, err = regexp.Compile(methodPattern)
		if err != nil {
			return nil, err
		}
	}
	d := &Descriptor{
		Resource:    resource,
		Method:      method,
		Handler:     handler,
		Negotiation: negotiation,
		Description: description,
		registry:    r,
	}
	r.mu.Lock()
	r.descriptors = append(r.descriptors, d)
	r.mu.Unlock()
	return d, nil
}

// Unregister removes d from its registry. Safe to call more than once.
func (d *Descriptor) Unregister() {
	if d.registry == nil {
		return
	}
	r := d.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.descriptors {
		if cur == d {
			r.descriptors = append(r.descriptors[:i], r.descriptors[i+1:]...)
			break
		}
	}
	d.registry = nil
}

// Match is one resource-matching candidate: the descriptor and the
// resource regex's submatches against the dispatched target.
type Match struct {
	Descriptor *Descriptor
	Captures   []string
}

// Resolve finds every registered descriptor whose resource pattern matches
// target, regardless of method — callers use this set to distinguish "no
// resource matched" (404) from "resource matched but not this method"
// (405), per spec §4.6.
func (r *Registry) Resolve(target string) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []Match
	for _, d := range r.descriptors {
		if caps := d.Resource.FindStringSubmatch(target); caps != nil {
			matches = append(matches, Match{Descriptor: d, Captures: caps})
		}
	}
	return matches
}

// MethodMatches reports whether d accepts method.
func (d *Descriptor) MethodMatches(method string) bool {
	return d.Method.MatchString(method)
}

// All returns every registered descriptor regardless of resource — used to
// determine whether a method is supported anywhere in the registry (spec
// §7: "no registered servlet matches the method for any resource"), as
// opposed to Resolve's resource-filtered view.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

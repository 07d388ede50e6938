// Package funcs holds the whitelisted function registry.
//
// The registry is the only route by which a query can invoke named
// behavior. It is built once, is immutable afterwards, and maps each
// allowed name to a fixed arity and a pure float64 implementation. A name
// absent from the registry is not "looked up elsewhere" — it is an
// unknown-name failure at validation time.
package funcs

import (
	"fmt"
	"sort"
)

// Func describes one whitelisted function.
type Func struct {
	Name  string
	Arity int
	Doc   string

	// Apply computes the result. It returns *DomainError when the
	// arguments fall outside the function's domain.
	Apply func(args []float64) (float64, error)

	// NearDomainEdge reports whether the arguments are close enough to
	// the domain boundary that the result deserves reduced confidence.
	// Nil means the function has no domain edge.
	NearDomainEdge func(args []float64) bool
}

// DomainError reports arguments outside a function's mathematical domain.
type DomainError struct {
	Func   string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Reason)
}

// Registry is an immutable name → Func table.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds a registry from the given functions.
func NewRegistry(fns []Func) *Registry {
	m := make(map[string]Func, len(fns))
	for _, fn := range fns {
		m[fn.Name] = fn
	}
	return &Registry{funcs: m}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns all registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// WithoutNames returns a copy of the registry with the given names removed.
// The receiver is not modified; configuration uses this to disable
// functions without ever mutating a shared table.
func (r *Registry) WithoutNames(names []string) *Registry {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	m := make(map[string]Func, len(r.funcs))
	for name, fn := range r.funcs {
		if !drop[name] {
			m[name] = fn
		}
	}
	return &Registry{funcs: m}
}

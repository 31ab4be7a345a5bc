// Package source extracts raw documents from the supported content sources.
package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Registry maps each SourceKind to its adapter.
type Registry struct {
	adapters map[domain.SourceKind]domain.SourceAdapter
}

// NewRegistry registers the given adapters. A later adapter replaces an
// earlier one of the same kind.
func NewRegistry(adapters ...domain.SourceAdapter) *Registry {
	r := &Registry{adapters: make(map[domain.SourceKind]domain.SourceAdapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *Registry) Register(a domain.SourceAdapter) {
	r.adapters[a.Kind()] = a
}

// Get returns the adapter for kind or ErrUnknownSource.
func (r *Registry) Get(kind domain.SourceKind) (domain.SourceAdapter, error) {
	a, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, kind)
	}
	return a, nil
}

// Kinds returns the registered kinds in navigation order.
func (r *Registry) Kinds() []domain.SourceKind {
	order := make(map[domain.SourceKind]int, len(domain.SourceKinds))
	for i, k := range domain.SourceKinds {
		order[k] = i
	}
	kinds := make([]domain.SourceKind, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		oi, iok := order[kinds[i]]
		oj, jok := order[kinds[j]]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// CheckRequired reports the first required parameter that is blank.
func CheckRequired(a domain.SourceAdapter, params domain.Params) error {
	for _, key := range a.Required() {
		if params.Get(key) == "" {
			return fmt.Errorf("%w: %s source needs %q", domain.ErrMissingParam, a.Kind(), key)
		}
	}
	return nil
}

// Extract validates params and runs the adapter for kind.
func (r *Registry) Extract(ctx context.Context, kind domain.SourceKind, params domain.Params) ([]domain.RawDocument, error) {
	a, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	if err := CheckRequired(a, params); err != nil {
		return nil, err
	}
	return a.Extract(ctx, params)
}

func meta(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

package adapter

import (
	"context"
	"fmt"

	"RoleMatcher/internal/domain"
)

// Request carries all parameters required to run one fetch.
type Request struct {
	CompanyName string
	CareersURL  string
}

// Adapter captures a single company-specific fetch implementation. Adapters
// must populate ExternalID and URL on every returned posting, set
// PartialDescription when the full body text could not be obtained, and apply
// their own network timeouts. A transport failure is returned as an error; a
// reachable source with nothing to offer returns an empty slice.
type Adapter interface {
	Name() string
	FetchJobs(ctx context.Context, req Request) ([]domain.RawJobPosting, error)
}

// Registry keeps a mapping from adapter names to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(a Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[a.Name()] = a
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("adapter %s is not registered", name)
}

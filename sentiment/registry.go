package sentiment

import (
	"sync"

	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// Registry holds at most one analyzer per model for the process lifetime:
// built lazily on first request, reused forever after. It is an explicit
// dependency of whoever scores text rather than ambient package state, so
// tests can swap in their own.
type Registry struct {
	m         sync.Mutex
	analyzers map[string]*Analyzer
}

func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]*Analyzer)}
}

func (r *Registry) Get(model string) (*Analyzer, error) {
	r.m.Lock()
	defer r.m.Unlock()

	if a, ok := r.analyzers[model]; ok {
		return a, nil
	}
	a, err := NewAnalyzer(model)
	if err != nil {
		return nil, err
	}
	Logger.Log.Infof("initialized %s analyzer", model)
	r.analyzers[model] = a
	return a, nil
}

package search

import (
	"fmt"
)

// RegistryConfig tunes which engines join each chain and in what order.
type RegistryConfig struct {
	// Order lists engine names per category; empty means built-in order.
	Order map[Category][]string
	// Disabled engines are dropped from every chain.
	Disabled []string
	// SerpAPIKey enables the hosted SERP backend when set.
	SerpAPIKey string
}

// Registry holds the validated engine chains per category.
type Registry struct {
	chains map[Category][]*EngineSpec
}

// NewRegistry builds and validates the engine chains. Chain order is the
// fallback order the aggregator walks.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	all := []*EngineSpec{
		duckduckgoText(),
		braveText(),
		bingText(),
		mojeekText(),
		googleText(),
		wikipediaText(),
		duckduckgoNews(),
		braveNews(),
		annasBooks(),
	}
	if cfg.SerpAPIKey != "" {
		all = append(all, serpapiText(cfg.SerpAPIKey))
	}

	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, name := range cfg.Disabled {
		disabled[name] = true
	}

	chains := make(map[Category][]*EngineSpec)
	byKey := make(map[string]*EngineSpec)
	for _, spec := range all {
		if disabled[spec.Name] {
			continue
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("failed to validate engine spec: %w", err)
		}
		chains[spec.Category] = append(chains[spec.Category], spec)
		byKey[string(spec.Category)+"/"+spec.Name] = spec
	}

	for cat, names := range cfg.Order {
		var ordered []*EngineSpec
		for _, name := range names {
			if spec, ok := byKey[string(cat)+"/"+name]; ok {
				ordered = append(ordered, spec)
			}
		}
		if len(ordered) > 0 {
			chains[cat] = ordered
		}
	}

	return &Registry{chains: chains}, nil
}

// Chain returns the engine fallback order for a category.
func (r *Registry) Chain(cat Category) []*EngineSpec {
	return r.chains[cat]
}

// Engine finds one engine by category and name.
func (r *Registry) Engine(cat Category, name string) (*EngineSpec, error) {
	for _, spec := range r.chains[cat] {
		if spec.Name == name {
			return spec, nil
		}
	}
	return nil, fmt.Errorf("unknown %s engine: %s", cat, name)
}

// Names lists the chain's engine names in order.
func (r *Registry) Names(cat Category) []string {
	chain := r.chains[cat]
	names := make([]string, 0, len(chain))
	for _, spec := range chain {
		names = append(names, spec.Name)
	}
	return names
}

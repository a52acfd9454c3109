package templates

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Registry is a read-only set of style presets keyed by lower-case name.
type Registry struct {
	presets  map[string]StylePreset
	fallback string
}

// NewRegistry validates every preset and builds a registry. fallback must
// name one of the presets; it is returned by Lookup for unknown names.
func NewRegistry(fallback string, presets ...StylePreset) (*Registry, error) {
	validate := validator.New()
	r := &Registry{
		presets:  make(map[string]StylePreset, len(presets)),
		fallback: strings.ToLower(fallback),
	}

	var errs error
	for _, p := range presets {
		if err := validate.Struct(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("preset %q: %w", p.Name, err))
			continue
		}
		key := strings.ToLower(p.Name)
		if _, dup := r.presets[key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("preset %q: duplicate name", p.Name))
			continue
		}
		r.presets[key] = p.clone()
	}
	if _, ok := r.presets[r.fallback]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("fallback preset %q is not registered", fallback))
	}
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

// Get returns a copy of the preset registered under name.
func (r *Registry) Get(name string) (StylePreset, bool) {
	p, ok := r.presets[strings.ToLower(strings.TrimSpace(name))]
	return p.clone(), ok
}

// Lookup returns the preset for name, or the fallback preset if name is
// not registered.
func (r *Registry) Lookup(name string) StylePreset {
	if p, ok := r.Get(name); ok {
		return p
	}
	return r.presets[r.fallback].clone()
}

// Names returns the registered preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for _, p := range r.presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Presets returns every registered preset, sorted by name.
func (r *Registry) Presets() []StylePreset {
	out := make([]StylePreset, 0, len(r.presets))
	for _, name := range r.Names() {
		out = append(out, r.presets[strings.ToLower(name)].clone())
	}
	return out
}

// Default returns the registry of built-in presets.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(DefaultTemplate, BuiltinPresets()...)
	if err != nil {
		panic(fmt.Sprintf("built-in presets are invalid: %v", err))
	}
	return r
})

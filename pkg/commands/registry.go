package commands

import (
	"sort"
	"strings"
)

// Registry is the merged command table. Sets merge in registration
// order and a later set silently overrides an earlier one on a name
// collision; pinned by TestRegistryLastRegisteredWins so the behavior
// stays deliberate.
type Registry struct {
	specs map[string]Spec
}

func NewRegistry(sets ...Set) *Registry {
	specs := make(map[string]Spec)
	for _, set := range sets {
		for _, spec := range set.Specs {
			specs[strings.ToLower(spec.Name)] = spec
		}
	}
	return &Registry{specs: specs}
}

// Lookup is case-insensitive exact match, no prefix or fuzzy matching.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[strings.ToLower(name)]
	return spec, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.specs)
}

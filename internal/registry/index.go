package registry

import (
	"fmt"
	"sort"
)

// Index maps module ids to modules.
type Index struct {
	byID map[string]Module
}

// NewIndex builds an index and rejects duplicate ids, naming both sources.
func NewIndex(modules []Module) (*Index, error) {
	idx := &Index{byID: make(map[string]Module, len(modules))}
	for _, mod := range modules {
		if existing, ok := idx.byID[mod.ID]; ok {
			return nil, fmt.Errorf("registry: duplicate module id %s (%s and %s)", mod.ID, existing.Source, mod.Source)
		}
		idx.byID[mod.ID] = mod
	}
	return idx, nil
}

// Lookup returns the module registered under id.
func (i *Index) Lookup(id string) (Module, bool) {
	if i == nil {
		return Module{}, false
	}
	mod, ok := i.byID[id]
	return mod, ok
}

// IDs returns the registered ids in sorted order.
func (i *Index) IDs() []string {
	if i == nil {
		return nil
	}
	ids := make([]string, 0, len(i.byID))
	for id := range i.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many modules are indexed.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byID)
}

// Package catalog groups discovered modules by category for browsing.
package catalog

import (
	"maps"
	"path/filepath"
	"sort"

	"github.com/kingrea/toolbox/internal/registry"
)

// Fallback entry used when a scan finds nothing, so the dashboard always has
// one navigable item.
const (
	FallbackCategory    = "Examples"
	FallbackModuleID    = "example-module"
	FallbackModuleName  = "Example Module"
	FallbackDescription = "Placeholder module - add your own"
	FallbackAction      = "run-placeholder"
	FallbackCommand     = "echo 'Replace this with your script'"
)

// Catalog is the immutable, category-grouped view of the registry.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	root       string
	categories []string
	buckets    map[string][]registry.Module
	fallback   bool
}

// Build groups modules by their category label. Categories are ordered by
// byte-wise label comparison; modules inside a category by name, then id,
// then root directory. An empty input produces the fallback entry.
func Build(modules []registry.Module, root string) *Catalog {
	c := &Catalog{root: root, buckets: map[string][]registry.Module{}}
	if len(modules) == 0 {
		modules = []registry.Module{fallbackModule(root)}
		c.fallback = true
	}
	for _, mod := range modules {
		mod.Actions = maps.Clone(mod.Actions)
		c.buckets[mod.Category] = append(c.buckets[mod.Category], mod)
	}
	for label, bucket := range c.buckets {
		sort.Slice(bucket, func(i, j int) bool { return lessModule(bucket[i], bucket[j]) })
		c.categories = append(c.categories, label)
	}
	sort.Strings(c.categories)
	return c
}

func lessModule(a, b registry.Module) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Root < b.Root
}

func fallbackModule(root string) registry.Module {
	dir := filepath.Join(root, "examples")
	return registry.Module{
		Descriptor: registry.Descriptor{
			ID:          FallbackModuleID,
			Name:        FallbackModuleName,
			Description: FallbackDescription,
			Category:    FallbackCategory,
			ScriptKind:  "bash",
			Enabled:     true,
			Actions:     map[string]string{FallbackAction: FallbackCommand},
		},
		Root: dir,
	}
}

// Root returns the modules root the catalog was built against.
func (c *Catalog) Root() string {
	if c == nil {
		return ""
	}
	return c.root
}

// IsFallback reports whether the catalog holds only the synthetic entry.
func (c *Catalog) IsFallback() bool {
	return c != nil && c.fallback
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// Categories returns a copy of the ordered category labels.
func (c *Catalog) Categories() []string {
	if c == nil || len(c.categories) == 0 {
		return nil
	}
	return append([]string(nil), c.categories...)
}

// Category returns the label at index i.
func (c *Catalog) Category(i int) (string, bool) {
	if c == nil || i < 0 || i >= len(c.categories) {
		return "", false
	}
	return c.categories[i], true
}

// Modules returns a copy of the modules in category i, or nil when i is out
// of range.
func (c *Catalog) Modules(i int) []registry.Module {
	label, ok := c.Category(i)
	if !ok {
		return nil
	}
	bucket := c.buckets[label]
	out := make([]registry.Module, len(bucket))
	for j, mod := range bucket {
		out[j] = cloneModule(mod)
	}
	return out
}

// ModuleCount returns the number of modules in category i.
func (c *Catalog) ModuleCount(i int) int {
	label, ok := c.Category(i)
	if !ok {
		return 0
	}
	return len(c.buckets[label])
}

// Module returns module mi of category ci.
func (c *Catalog) Module(ci, mi int) (registry.Module, bool) {
	label, ok := c.Category(ci)
	if !ok {
		return registry.Module{}, false
	}
	bucket := c.buckets[label]
	if mi < 0 || mi >= len(bucket) {
		return registry.Module{}, false
	}
	return cloneModule(bucket[mi]), true
}

// cloneModule detaches the action map so callers cannot edit the catalog.
func cloneModule(mod registry.Module) registry.Module {
	mod.Actions = maps.Clone(mod.Actions)
	return mod
}

// Find locates the first module with the given id in display order.
func (c *Catalog) Find(id string) (ci, mi int, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	for i, label := range c.categories {
		for j, mod := range c.buckets[label] {
			if mod.ID == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Entry is a module together with its position in the catalog.
type Entry struct {
	CategoryIndex int
	ModuleIndex   int
	Module        registry.Module
}

// All flattens the catalog in display order.
func (c *Catalog) All() []Entry {
	if c == nil {
		return nil
	}
	var entries []Entry
	for ci, label := range c.categories {
		for mi, mod := range c.buckets[label] {
			entries = append(entries, Entry{CategoryIndex: ci, ModuleIndex: mi, Module: cloneModule(mod)})
		}
	}
	return entries
}

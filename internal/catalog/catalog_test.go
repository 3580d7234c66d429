package catalog

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/toolbox/internal/registry"
)

func mod(id, name, category string) registry.Module {
	return registry.Module{
		Descriptor: registry.Descriptor{
			ID:       id,
			Name:     name,
			Category: category,
			Actions:  map[string]string{"Run": "echo " + id},
		},
		Root: filepath.Join("modules", id),
	}
}

func TestBuildOrdersCategories(t *testing.T) {
	cat := Build([]registry.Module{mod("b1", "Bee", "B"), mod("a1", "Ay", "A")}, "modules")
	if got := strings.Join(cat.Categories(), ","); got != "A,B" {
		t.Fatalf("expected categories A,B, got %s", got)
	}
	if cat.IsFallback() {
		t.Fatalf("catalog with modules must not be the fallback")
	}
}

func TestBuildSortsModulesByName(t *testing.T) {
	cat := Build([]registry.Module{
		mod("3", "gamma", "Cat"),
		mod("2", "Beta", "Cat"),
		mod("1", "alpha", "Cat"),
		mod("0", "Beta", "Cat"),
	}, "modules")
	modules := cat.Modules(0)
	var got []string
	for _, m := range modules {
		got = append(got, m.Name+"/"+m.ID)
	}
	// Byte-wise: uppercase before lowercase; equal names fall back to id.
	if want := "Beta/0,Beta/2,alpha/1,gamma/3"; strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(got, ","))
	}
}

func TestBuildFallback(t *testing.T) {
	for _, input := range [][]registry.Module{nil, {}} {
		cat := Build(input, "modules")
		if cat.Len() != 1 {
			t.Fatalf("expected one category, got %d", cat.Len())
		}
		if label, _ := cat.Category(0); label != FallbackCategory {
			t.Fatalf("expected fallback category, got %s", label)
		}
		modules := cat.Modules(0)
		if len(modules) != 1 {
			t.Fatalf("expected one module, got %d", len(modules))
		}
		actions := modules[0].SortedActions()
		if len(actions) != 1 || actions[0].Name != FallbackAction || actions[0].Command != FallbackCommand {
			t.Fatalf("unexpected fallback actions: %+v", actions)
		}
		if modules[0].Root != filepath.Join("modules", "examples") {
			t.Fatalf("unexpected fallback root %s", modules[0].Root)
		}
		if !cat.IsFallback() {
			t.Fatalf("expected IsFallback")
		}
	}
}

func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	labels := []string{"Gaming", "Security", "System", "Utilities", "apps", ""}
	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(30)
		var modules []registry.Module
		distinct := map[string]struct{}{}
		for i := 0; i < n; i++ {
			label := labels[rng.Intn(len(labels))]
			distinct[label] = struct{}{}
			modules = append(modules, mod(fmt.Sprintf("m%d", i), fmt.Sprintf("n%02d", rng.Intn(20)), label))
		}
		cat := Build(modules, "modules")
		if cat.Len() != len(distinct) {
			t.Fatalf("round %d: expected %d categories, got %d", round, len(distinct), cat.Len())
		}
		seen := map[string]int{}
		categories := cat.Categories()
		for ci, label := range categories {
			if ci > 0 && categories[ci-1] >= label {
				t.Fatalf("round %d: categories out of order: %v", round, categories)
			}
			bucket := cat.Modules(ci)
			for mi, m := range bucket {
				seen[m.ID]++
				if m.Category != label {
					t.Fatalf("round %d: module %s in bucket %q has category %q", round, m.ID, label, m.Category)
				}
				if mi > 0 && bucket[mi-1].Name > m.Name {
					t.Fatalf("round %d: modules out of order: %s before %s", round, bucket[mi-1].Name, m.Name)
				}
			}
		}
		if len(seen) != n {
			t.Fatalf("round %d: expected %d modules, saw %d", round, n, len(seen))
		}
		for id, count := range seen {
			if count != 1 {
				t.Fatalf("round %d: module %s appears %d times", round, id, count)
			}
		}
	}
}

func TestCatalogAccessorsOutOfRange(t *testing.T) {
	cat := Build([]registry.Module{mod("a", "A", "Cat")}, "modules")
	if cat.Modules(-1) != nil || cat.Modules(5) != nil {
		t.Fatalf("expected nil modules out of range")
	}
	if cat.ModuleCount(3) != 0 {
		t.Fatalf("expected zero count out of range")
	}
	if _, ok := cat.Module(0, 1); ok {
		t.Fatalf("expected module lookup out of range to fail")
	}
	if _, ok := cat.Category(1); ok {
		t.Fatalf("expected category lookup out of range to fail")
	}

	var empty *Catalog
	if empty.Len() != 0 || empty.Categories() != nil || empty.Modules(0) != nil || empty.All() != nil {
		t.Fatalf("nil catalog should behave as empty")
	}
	if _, _, ok := empty.Find("a"); ok {
		t.Fatalf("nil catalog find should fail")
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	input := []registry.Module{mod("a", "A", "Cat")}
	cat := Build(input, "modules")
	input[0].Actions["Run"] = "mutated"
	categories := cat.Categories()
	categories[0] = "changed"
	modules := cat.Modules(0)
	modules[0].Name = "changed"
	modules[0].Actions["Run"] = "rm -rf /"
	if picked, ok := cat.Module(0, 0); ok {
		picked.Actions["Run"] = "through Module"
		picked.Actions["Extra"] = "added"
	}
	for _, entry := range cat.All() {
		entry.Module.Actions["Run"] = "through All"
	}

	got, _ := cat.Module(0, 0)
	if got.Name != "A" || got.Actions["Run"] != "echo a" {
		t.Fatalf("catalog was mutated through a returned value: %+v", got)
	}
	if _, ok := got.Actions["Extra"]; ok || len(got.Actions) != 1 {
		t.Fatalf("action map was mutated: %v", got.Actions)
	}
	if label, _ := cat.Category(0); label != "Cat" {
		t.Fatalf("category label was mutated: %s", label)
	}
}

func TestFindAndAll(t *testing.T) {
	cat := Build([]registry.Module{
		mod("b2", "Two", "B"),
		mod("a1", "One", "A"),
		mod("b1", "One", "B"),
	}, "modules")
	ci, mi, ok := cat.Find("b2")
	if !ok || ci != 1 || mi != 1 {
		t.Fatalf("expected b2 at (1,1), got (%d,%d,%v)", ci, mi, ok)
	}
	var ids []string
	for _, entry := range cat.All() {
		ids = append(ids, entry.Module.ID)
	}
	if got := strings.Join(ids, ","); got != "a1,b1,b2" {
		t.Fatalf("unexpected display order %s", got)
	}
}

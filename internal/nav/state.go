// Package nav holds the three-level selection model behind the dashboard:
// categories, the modules of the selected category, and the actions of the
// selected module.
//
// Selection is kept as plain indices into the catalog. Every mutating call
// ends with clamp, which re-derives each level's bounds from the catalog so
// readers never see an index outside the current collections.
package nav

import (
	"fmt"

	"github.com/kingrea/toolbox/internal/catalog"
	"github.com/kingrea/toolbox/internal/registry"
)

// Focus names the panel that receives directional input.
type Focus int

const (
	FocusCategories Focus = iota
	FocusModules
	FocusActions
)

func (f Focus) String() string {
	switch f {
	case FocusCategories:
		return "categories"
	case FocusModules:
		return "modules"
	case FocusActions:
		return "actions"
	default:
		return fmt.Sprintf("focus(%d)", int(f))
	}
}

const (
	StatusReady     = "Ready. Use Tab to switch panels."
	StatusPickFirst = "Select an action and press Enter to run it."
	StatusNoActions = "No actions available for this module."
)

// Selection is the action handed to the command runner on activation.
type Selection struct {
	ModuleID   string
	ModuleName string
	Action     string
	Command    string
	Dir        string
}

// State is the navigation state machine. It is owned by a single event loop
// and is not safe for concurrent use.
type State struct {
	catalog       *catalog.Catalog
	focus         Focus
	categoryIndex int
	moduleIndex   int
	actionIndex   int
	status        string
}

// New returns a state focused on the first category.
func New(cat *catalog.Catalog) *State {
	s := &State{
		catalog: cat,
		focus:   FocusCategories,
		status:  StatusReady,
	}
	s.clamp()
	return s
}

func (s *State) Catalog() *catalog.Catalog { return s.catalog }
func (s *State) Focus() Focus               { return s.focus }
func (s *State) CategoryIndex() int         { return s.categoryIndex }
func (s *State) ModuleIndex() int           { return s.moduleIndex }
func (s *State) ActionIndex() int           { return s.actionIndex }
func (s *State) Status() string             { return s.status }

// Categories returns the catalog's category labels.
func (s *State) Categories() []string { return s.catalog.Categories() }

// CurrentCategory returns the selected category label, if any.
func (s *State) CurrentCategory() (string, bool) {
	return s.catalog.Category(s.categoryIndex)
}

// CurrentModules returns the modules of the selected category.
func (s *State) CurrentModules() []registry.Module {
	return s.catalog.Modules(s.categoryIndex)
}

// CurrentModule returns the selected module, if any.
func (s *State) CurrentModule() (registry.Module, bool) {
	return s.catalog.Module(s.categoryIndex, s.moduleIndex)
}

// CurrentActions returns the selected module's actions sorted by name.
func (s *State) CurrentActions() []registry.Action {
	mod, ok := s.CurrentModule()
	if !ok {
		return nil
	}
	return mod.SortedActions()
}

// SetStatus replaces the status line.
func (s *State) SetStatus(status string) {
	s.status = status
	s.clamp()
}

// FocusNext cycles focus forward, skipping levels that have nothing to show.
func (s *State) FocusNext() {
	switch s.focus {
	case FocusCategories:
		switch {
		case s.moduleCount() > 0:
			s.focus = FocusModules
		case s.actionCount() > 0:
			s.focus = FocusActions
		}
	case FocusModules:
		if s.actionCount() > 0 {
			s.focus = FocusActions
		} else {
			s.focus = FocusCategories
		}
	case FocusActions:
		s.focus = FocusCategories
	}
	s.clamp()
}

// FocusPrev mirrors FocusNext.
func (s *State) FocusPrev() {
	switch s.focus {
	case FocusCategories:
		switch {
		case s.actionCount() > 0:
			s.focus = FocusActions
		case s.moduleCount() > 0:
			s.focus = FocusModules
		}
	case FocusModules:
		s.focus = FocusCategories
	case FocusActions:
		if s.moduleCount() > 0 {
			s.focus = FocusModules
		} else {
			s.focus = FocusCategories
		}
	}
	s.clamp()
}

// MoveUp moves the focused level's index back by one. No-op at the top.
func (s *State) MoveUp() {
	switch s.focus {
	case FocusCategories:
		if s.categoryIndex > 0 {
			s.setCategory(s.categoryIndex - 1)
		}
	case FocusModules:
		if s.moduleIndex > 0 {
			s.setModule(s.moduleIndex - 1)
		}
	case FocusActions:
		if s.actionIndex > 0 {
			s.actionIndex--
		}
	}
	s.clamp()
}

// MoveDown moves the focused level's index forward by one. No-op at the
// bottom.
func (s *State) MoveDown() {
	switch s.focus {
	case FocusCategories:
		if s.categoryIndex+1 < s.catalog.Len() {
			s.setCategory(s.categoryIndex + 1)
		}
	case FocusModules:
		if s.moduleIndex+1 < s.moduleCount() {
			s.setModule(s.moduleIndex + 1)
		}
	case FocusActions:
		if s.actionIndex+1 < s.actionCount() {
			s.actionIndex++
		}
	}
	s.clamp()
}

// Select jumps to module mi of category ci and focuses the modules panel.
// Out-of-range indices are clamped.
func (s *State) Select(ci, mi int) {
	if ci != s.categoryIndex {
		s.setCategory(ci)
	}
	s.clamp()
	if mi != s.moduleIndex {
		s.setModule(mi)
	}
	if s.moduleCount() > 0 {
		s.focus = FocusModules
	}
	s.clamp()
}

// Activate returns the action under the cursor when the actions panel has
// focus. It never mutates the indices; it only updates the status line.
func (s *State) Activate() (Selection, bool) {
	defer s.clamp()
	if s.focus != FocusActions {
		s.status = StatusPickFirst
		return Selection{}, false
	}
	mod, ok := s.CurrentModule()
	actions := mod.SortedActions()
	if !ok || s.actionIndex >= len(actions) {
		s.status = StatusNoActions
		return Selection{}, false
	}
	action := actions[s.actionIndex]
	s.status = fmt.Sprintf("Selected %s: %s", action.Name, action.Command)
	return Selection{
		ModuleID:   mod.ID,
		ModuleName: mod.Name,
		Action:     action.Name,
		Command:    action.Command,
		Dir:        mod.Root,
	}, true
}

func (s *State) setCategory(i int) {
	s.categoryIndex = i
	s.moduleIndex = 0
	s.actionIndex = 0
}

func (s *State) setModule(i int) {
	s.moduleIndex = i
	s.actionIndex = 0
}

func (s *State) moduleCount() int {
	return s.catalog.ModuleCount(s.categoryIndex)
}

func (s *State) actionCount() int {
	mod, ok := s.CurrentModule()
	if !ok {
		return 0
	}
	return len(mod.Actions)
}

// clamp restores every index invariant. It runs after each mutation, also on
// an empty catalog.
func (s *State) clamp() {
	categories := s.catalog.Len()
	if categories == 0 {
		s.categoryIndex, s.moduleIndex, s.actionIndex = 0, 0, 0
		s.focus = FocusCategories
		return
	}
	s.categoryIndex = clampIndex(s.categoryIndex, categories)

	modules := s.moduleCount()
	if modules == 0 {
		s.moduleIndex, s.actionIndex = 0, 0
	} else {
		s.moduleIndex = clampIndex(s.moduleIndex, modules)
	}
	s.actionIndex = clampIndex(s.actionIndex, s.actionCount())

	if s.focus == FocusActions && s.actionCount() == 0 {
		s.focus = FocusModules
	}
	if s.focus == FocusModules && modules == 0 {
		s.focus = FocusCategories
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

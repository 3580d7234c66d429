package registry

import (
	"path/filepath"
	"sort"
	"strings"
)

// Module is a discovered descriptor plus where it was found.
type Module struct {
	Descriptor

	// Root is the directory that holds the descriptor file.
	Root string
	// Source is the descriptor file itself.
	Source string
}

// Action is one named command exposed by a module.
type Action struct {
	Name    string
	Command string
}

// SortedActions returns the action map ordered by name.
func (m Module) SortedActions() []Action {
	if len(m.Actions) == 0 {
		return nil
	}
	actions := make([]Action, 0, len(m.Actions))
	for name, command := range m.Actions {
		actions = append(actions, Action{Name: name, Command: command})
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })
	return actions
}

// RelativeRoot returns Root relative to the modules root, or Root unchanged
// when it does not live under it.
func (m Module) RelativeRoot(root string) string {
	if strings.TrimSpace(root) == "" {
		return m.Root
	}
	rel, err := filepath.Rel(root, m.Root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return m.Root
	}
	return rel
}

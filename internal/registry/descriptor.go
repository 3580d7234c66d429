package registry

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a descriptor file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// DescriptorFiles lists the file names checked in every directory, in
// priority order. The first one present wins.
var DescriptorFiles = []string{"module.toml", "module.yaml", "module.yml"}

// Descriptor is the on-disk record defining a module.
type Descriptor struct {
	ID          string            `toml:"id" yaml:"id"`
	Name        string            `toml:"name" yaml:"name"`
	Description string            `toml:"description" yaml:"description"`
	Category    string            `toml:"category" yaml:"category"`
	ScriptKind  string            `toml:"script_kind" yaml:"script_kind"`
	Enabled     bool              `toml:"enabled" yaml:"enabled"`
	Actions     map[string]string `toml:"actions" yaml:"actions"`
}

// ParseDescriptor decodes and validates a single descriptor payload. Unknown
// keys are ignored. Every failure wraps ErrDescriptorInvalid.
func ParseDescriptor(data []byte, format Format) (Descriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Descriptor{}, fmt.Errorf("%w: payload is empty", ErrDescriptorInvalid)
	}
	var raw Descriptor
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Descriptor{}, fmt.Errorf("%w: decode toml: %w", ErrDescriptorInvalid, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Descriptor{}, fmt.Errorf("%w: decode yaml: %w", ErrDescriptorInvalid, err)
		}
	default:
		return Descriptor{}, fmt.Errorf("%w: unsupported %s", ErrDescriptorInvalid, format)
	}
	if err := raw.Validate(); err != nil {
		return Descriptor{}, err
	}
	return raw.Normalized(), nil
}

// ParseTOML is ParseDescriptor for module.toml payloads.
func ParseTOML(data []byte) (Descriptor, error) { return ParseDescriptor(data, FormatTOML) }

// ParseYAML is ParseDescriptor for module.yaml payloads.
func ParseYAML(data []byte) (Descriptor, error) { return ParseDescriptor(data, FormatYAML) }

// Normalized returns a trimmed copy. Actions is always non-nil.
func (d Descriptor) Normalized() Descriptor {
	clone := Descriptor{
		ID:          strings.TrimSpace(d.ID),
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		ScriptKind:  strings.TrimSpace(d.ScriptKind),
		Enabled:     d.Enabled,
		Actions:     make(map[string]string, len(d.Actions)),
	}
	for name, command := range d.Actions {
		clone.Actions[strings.TrimSpace(name)] = strings.TrimSpace(command)
	}
	return clone
}

// Validate checks the id/name requirements and the shape of the action map.
func (d Descriptor) Validate() error {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrDescriptorInvalid)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: module %s: name is required", ErrDescriptorInvalid, id)
	}
	seen := make(map[string]struct{}, len(d.Actions))
	for name, command := range d.Actions {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("%w: module %s: action name is required", ErrDescriptorInvalid, id)
		}
		if _, dup := seen[trimmed]; dup {
			return fmt.Errorf("%w: module %s: duplicate action %s", ErrDescriptorInvalid, id, trimmed)
		}
		seen[trimmed] = struct{}{}
		if strings.TrimSpace(command) == "" {
			return fmt.Errorf("%w: module %s: action %s: command is required", ErrDescriptorInvalid, id, trimmed)
		}
	}
	return nil
}

func formatForFile(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return 0, false
	}
}

package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanOption customizes Scan.
type ScanOption func(*scanner)

// WithLenient skips malformed descriptors instead of aborting the scan.
// onSkip, when non-nil, receives the descriptor path and its parse error.
// Filesystem failures still abort.
func WithLenient(onSkip func(path string, err error)) ScanOption {
	return func(s *scanner) {
		s.lenient = true
		s.onSkip = onSkip
	}
}

type scanner struct {
	lenient bool
	onSkip  func(path string, err error)
}

// Scan walks root depth-first and returns every module found. Directory
// entries are visited in the lexical order os.ReadDir reports them. A
// directory holding a descriptor is a leaf: nothing beneath it is read.
//
// A missing root yields no modules and no error. By default the first
// malformed descriptor aborts the scan with a *DescriptorError; filesystem
// failures abort with a *ScanIOError.
func Scan(root string, opts ...ScanOption) ([]Module, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, nil
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ScanIOError{Path: trimmed, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanIOError{Path: trimmed, Err: fmt.Errorf("not a directory")}
	}
	s := &scanner{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	var modules []Module
	if err := s.walk(filepath.Clean(trimmed), &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *scanner) walk(dir string, out *[]Module) error {
	path, found, err := findDescriptor(dir)
	if err != nil {
		return err
	}
	if found {
		mod, err := LoadModule(path)
		if err != nil {
			var invalid *DescriptorError
			if s.lenient && errors.As(err, &invalid) {
				if s.onSkip != nil {
					s.onSkip(path, err)
				}
				return nil
			}
			return err
		}
		*out = append(*out, mod)
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ScanIOError{Path: dir, Err: err}
	}
	for _, entry := range entries {
		// Symlinks report as non-directories here and are not followed.
		if !entry.IsDir() {
			continue
		}
		if err := s.walk(filepath.Join(dir, entry.Name()), out); err != nil {
			return err
		}
	}
	return nil
}

func findDescriptor(dir string) (string, bool, error) {
	for _, name := range DescriptorFiles {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", false, &ScanIOError{Path: path, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return path, true, nil
	}
	return "", false, nil
}

// LoadModule reads and parses one descriptor file. The containing directory
// becomes the module root.
func LoadModule(path string) (Module, error) {
	format, ok := formatForFile(path)
	if !ok {
		return Module{}, &DescriptorError{Path: path, Err: fmt.Errorf("unrecognized descriptor extension")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Module{}, &ScanIOError{Path: path, Err: err}
	}
	desc, err := ParseDescriptor(data, format)
	if err != nil {
		return Module{}, &DescriptorError{Path: path, Err: err}
	}
	clean := filepath.Clean(path)
	return Module{
		Descriptor: desc,
		Root:       filepath.Dir(clean),
		Source:     clean,
	}, nil
}

// Registry is a handle on a configured modules root.
type Registry struct {
	Root string
	opts []ScanOption
}

// New returns a registry rooted at root.
func New(root string, opts ...ScanOption) *Registry {
	return &Registry{Root: root, opts: opts}
}

// Modules scans the registry root.
func (r *Registry) Modules() ([]Module, error) {
	if r == nil {
		return nil, nil
	}
	return Scan(r.Root, r.opts...)
}

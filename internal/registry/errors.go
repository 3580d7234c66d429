package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDescriptorInvalid marks a module descriptor that could not be decoded
	// or that violates the id/name requirements.
	ErrDescriptorInvalid = errors.New("registry: descriptor invalid")
	// ErrScanIO marks a filesystem failure encountered while walking the
	// modules tree.
	ErrScanIO = errors.New("registry: scan io")
)

// DescriptorError reports which descriptor file failed to parse.
type DescriptorError struct {
	Path string
	Err  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("registry: invalid descriptor %s: %v", e.Path, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrDescriptorInvalid regardless of the cause.
func (e *DescriptorError) Is(target error) bool { return target == ErrDescriptorInvalid }

// ScanIOError reports a filesystem failure with the path that triggered it.
type ScanIOError struct {
	Path string
	Err  error
}

func (e *ScanIOError) Error() string {
	return fmt.Sprintf("registry: scan %s: %v", e.Path, e.Err)
}

func (e *ScanIOError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrScanIO regardless of the cause.
func (e *ScanIOError) Is(target error) bool { return target == ErrScanIO }

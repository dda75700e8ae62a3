// Package driver loads the Vulkan driver library and resolves the one
// symbol everything else is bootstrapped from.
package driver

import (
	"errors"
	"unsafe"

	"github.com/devblok/korushell/core"
)

// package errors
var (
	ErrDriverNotFound    = errors.New("driver library not found")
	ErrEntryPointMissing = errors.New("driver entry point missing")
)

// Library is an opened shared library
type Library interface {
	// Sym resolves an exported symbol
	Sym(name string) (uintptr, error)

	// Close releases the library
	Close() error
}

// Opener opens a shared library by name
type Opener func(name string) (Library, error)

// LoadError describes a failed load. Its message is the
// dynamic loader's own diagnostic.
type LoadError struct {
	Kind   error
	Name   string
	Reason error
}

func (e *LoadError) Error() string {
	return e.Reason.Error()
}

// Unwrap exposes both the kind and the loader's error
func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Reason}
}

// Driver is a loaded driver library
type Driver struct {
	lib   Library
	entry uintptr
	name  string
}

// Load opens cfg.Library with open and resolves cfg.EntryPoint.
// On any failure the library is released before returning.
func Load(cfg core.DriverConfiguration, open Opener) (d *Driver, err error) {
	if cfg.Library == "" {
		cfg.Library = core.DefaultDriverLibrary
	}
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = core.DefaultEntryPoint
	}

	lib, err := open(cfg.Library)
	if err != nil {
		return nil, &LoadError{Kind: ErrDriverNotFound, Name: cfg.Library, Reason: err}
	}
	defer func() {
		if err != nil {
			lib.Close()
		}
	}()

	entry, err := lib.Sym(cfg.EntryPoint)
	if err != nil {
		return nil, &LoadError{Kind: ErrEntryPointMissing, Name: cfg.EntryPoint, Reason: err}
	}
	if entry == 0 {
		return nil, &LoadError{
			Kind:   ErrEntryPointMissing,
			Name:   cfg.EntryPoint,
			Reason: errors.New("undefined symbol: " + cfg.EntryPoint),
		}
	}

	return &Driver{
		lib:   lib,
		entry: entry,
		name:  cfg.Library,
	}, nil
}

// EntryPoint returns the resolved vkGetInstanceProcAddr
func (d *Driver) EntryPoint() unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&d.entry))
}

// Name returns the library name the driver was loaded from
func (d *Driver) Name() string {
	return d.name
}

// Close releases the library. Everything created through the
// entry point must be destroyed before calling it.
func (d *Driver) Close() error {
	if d == nil || d.lib == nil {
		return nil
	}
	lib := d.lib
	d.lib = nil
	d.entry = 0
	return lib.Close()
}

package driver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/driver"
)

type stubLibrary struct {
	symbols map[string]uintptr
	symErr  error
	closed  int
}

func (l *stubLibrary) Sym(name string) (uintptr, error) {
	if l.symErr != nil {
		return 0, l.symErr
	}
	return l.symbols[name], nil
}

func (l *stubLibrary) Close() error {
	l.closed++
	return nil
}

func opener(lib *stubLibrary, openErr error, opened *[]string) driver.Opener {
	return func(name string) (driver.Library, error) {
		*opened = append(*opened, name)
		if openErr != nil {
			return nil, openErr
		}
		return lib, nil
	}
}

func TestLoad(t *testing.T) {
	lib := &stubLibrary{symbols: map[string]uintptr{"vkGetInstanceProcAddr": 0x1000}}
	var opened []string

	d, err := driver.Load(core.DriverConfiguration{}, opener(lib, nil, &opened))
	require.NoError(t, err)
	require.Equal(t, []string{"libvulkan.so"}, opened)
	require.NotNil(t, d.EntryPoint())
	require.Equal(t, "libvulkan.so", d.Name())
	require.Zero(t, lib.closed)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.Equal(t, 1, lib.closed, "library must be released exactly once")
}

func TestLoadLibraryMissing(t *testing.T) {
	var opened []string
	reason := errors.New("dlopen failed: library \"libvulkan.so\" not found")

	d, err := driver.Load(core.DriverConfiguration{}, opener(nil, reason, &opened))
	require.Nil(t, d)
	require.ErrorIs(t, err, driver.ErrDriverNotFound)
	require.NotErrorIs(t, err, driver.ErrEntryPointMissing)
	require.Equal(t, reason.Error(), err.Error())

	var loadErr *driver.LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, "libvulkan.so", loadErr.Name)
}

func TestLoadEntryPointMissingReleasesLibrary(t *testing.T) {
	reason := errors.New("undefined symbol: vkGetInstanceProcAddr")
	lib := &stubLibrary{symErr: reason}
	var opened []string

	d, err := driver.Load(core.DriverConfiguration{}, opener(lib, nil, &opened))
	require.Nil(t, d)
	require.ErrorIs(t, err, driver.ErrEntryPointMissing)
	require.ErrorIs(t, err, reason)
	require.Equal(t, reason.Error(), err.Error())
	require.Equal(t, 1, lib.closed, "library leaked after symbol lookup failed")
}

func TestLoadNullEntryPointReleasesLibrary(t *testing.T) {
	lib := &stubLibrary{symbols: map[string]uintptr{}}
	var opened []string

	_, err := driver.Load(core.DriverConfiguration{
		Library:    "libvulkan.so.1",
		EntryPoint: "vkGetInstanceProcAddr",
	}, opener(lib, nil, &opened))
	require.ErrorIs(t, err, driver.ErrEntryPointMissing)
	require.Equal(t, []string{"libvulkan.so.1"}, opened)
	require.Equal(t, 1, lib.closed)
}

func TestCloseNilDriver(t *testing.T) {
	var d *driver.Driver
	require.NoError(t, d.Close())
}

//go:build linux || android || darwin || freebsd

package driver

import "github.com/ebitengine/purego"

// Dlopen opens name with the system dynamic loader
func Dlopen(name string) (Library, error) {
	handle, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return dlLibrary(handle), nil
}

type dlLibrary uintptr

func (l dlLibrary) Sym(name string) (uintptr, error) {
	return purego.Dlsym(uintptr(l), name)
}

func (l dlLibrary) Close() error {
	return purego.Dlclose(uintptr(l))
}

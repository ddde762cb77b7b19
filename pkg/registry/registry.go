// Package registry holds the named Spec instances a server or client looks
// up by name, the way original_source's lazy_static ALL_SPECS table did.
package registry

import (
	"fmt"
	"sync"

	"github.com/hkumarmk/iso8583-switch/pkg/iso"
)

var (
	mu    sync.RWMutex
	specs = map[string]*iso.Spec{}
)

// Register adds a spec under its own name. Registering a name twice
// overwrites the previous entry — specs are expected to be registered once
// at process startup, typically from an init function.
func Register(s *iso.Spec) {
	mu.Lock()
	defer mu.Unlock()

	specs[s.Name()] = s
}

// Get looks up a spec by name.
func Get(name string) (*iso.Spec, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", iso.ErrSpecNotFound, name)
	}

	return s, nil
}

// MustGet looks up a spec by name, panicking if it isn't registered. Meant
// for use during wiring (main/init), never on a request path.
func MustGet(name string) *iso.Spec {
	s, err := Get(name)
	if err != nil {
		panic(err)
	}

	return s
}

//nolint:gochecknoinits // registers the bundled sample spec at process start, same as the reference lazy_static table
func init() {
	Register(SampleSpec())
}

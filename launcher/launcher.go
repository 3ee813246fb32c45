// Package launcher defines the extension model a deployment launcher
// uses to obtain service configurations: artifact identities, instance
// descriptors, the SpecLoader hook, and a registry that dispatches an
// instance to the loader registered for its artifact.
package launcher

import (
	"context"
	"fmt"
	"sync"
)

// Artifact identifies a versioned deployable service definition.
type Artifact struct {
	RuntimeID uint32 `mapstructure:"runtime" yaml:"runtime"`
	Name      string `mapstructure:"name" yaml:"name"`
	Version   string `mapstructure:"version" yaml:"version"`
}

// String returns the canonical artifact id, "<runtime>:<name>:<version>".
func (a Artifact) String() string {
	return fmt.Sprintf("%d:%s:%s", a.RuntimeID, a.Name, a.Version)
}

// Instance describes one configured deployment of an artifact.
// Config is the raw human-authored configuration mapping; its
// interpretation belongs entirely to the artifact's SpecLoader.
type Instance struct {
	Artifact Artifact
	Name     string
	Config   map[string]any
}

// SpecLoader translates an instance's raw configuration into the
// serialized binary configuration the deployment transaction carries.
// Implementations must not retain inst and must return either a
// complete buffer or an error, never both.
type SpecLoader interface {
	LoadSpec(ctx context.Context, inst Instance) ([]byte, error)
}

// SpecLoaderFunc adapts a function to the SpecLoader interface.
type SpecLoaderFunc func(ctx context.Context, inst Instance) ([]byte, error)

// LoadSpec implements SpecLoader.
func (f SpecLoaderFunc) LoadSpec(ctx context.Context, inst Instance) ([]byte, error) {
	return f(ctx, inst)
}

// Registry maps artifact names to their spec loaders. The host
// launcher holds one registry and dispatches every instance through
// it. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]SpecLoader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]SpecLoader)}
}

// Register installs a loader for the given artifact name. A later
// registration for the same name replaces the earlier one.
func (r *Registry) Register(name string, loader SpecLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[name] = loader
}

// Lookup returns the loader registered for the artifact name.
func (r *Registry) Lookup(name string) (SpecLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loader, ok := r.loaders[name]
	return loader, ok
}

// LoadSpec dispatches the instance to the loader registered for its
// artifact name. Every error it returns is a *SpecLoadError carrying
// that name.
func (r *Registry) LoadSpec(ctx context.Context, inst Instance) ([]byte, error) {
	name := inst.Artifact.Name
	loader, ok := r.Lookup(name)
	if !ok {
		return nil, WrapSpecLoadError(name, ErrNoSpecLoader)
	}
	spec, err := loader.LoadSpec(ctx, inst)
	if err != nil {
		return nil, WrapSpecLoadError(name, err)
	}
	return spec, nil
}

// Package schema fetches and resolves protobuf message descriptors for
// launcher artifacts. An artifact publishes its schema as a serialized
// FileDescriptorSet (the compiled form of its .proto sources); a
// Resolver compiles the set once and answers descriptor lookups by
// module and message name.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Bidon15/anchorkit/launcher"
)

// Sentinel errors
var (
	ErrSchemaNotFound = errors.New("schema: no descriptor set for artifact")
)

// Loader fetches the serialized FileDescriptorSet for an artifact.
type Loader interface {
	DescriptorSet(ctx context.Context, artifact launcher.Artifact) ([]byte, error)
}

// StaticLoader serves descriptor sets from memory. It backs tests and
// the offline deployment path, where the descriptor set ships with the
// tool instead of being fetched from a registry.
type StaticLoader struct {
	mu   sync.RWMutex
	sets map[string][]byte
}

// NewStaticLoader returns an empty static loader.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{sets: make(map[string][]byte)}
}

// Add registers a serialized descriptor set for the artifact. A later
// Add for the same artifact replaces the earlier set.
func (l *StaticLoader) Add(artifact launcher.Artifact, set []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets[artifact.String()] = set
}

// DescriptorSet implements Loader.
func (l *StaticLoader) DescriptorSet(_ context.Context, artifact launcher.Artifact) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	set, ok := l.sets[artifact.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, artifact)
	}
	return set, nil
}

package schema

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/Bidon15/anchorkit/launcher"
)

// moduleFile maps a schema module name to its descriptor file path.
// Artifacts publish one descriptor file per module, named after it.
func moduleFile(module string) string {
	return module + ".proto"
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithReload makes the resolver refetch and recompile an artifact's
// descriptor set on every resolution instead of serving the cached
// compilation. Useful while an artifact's schema is still moving.
func WithReload() ResolverOption {
	return func(r *Resolver) {
		r.reload = true
	}
}

// Resolver answers message-descriptor lookups for artifacts. Compiled
// descriptor sets are memoized per artifact id, so the underlying
// Loader is hit at most once per artifact unless reload is enabled or
// the entry is invalidated. Safe for concurrent use.
type Resolver struct {
	loader Loader
	reload bool

	cacheMu sync.RWMutex
	files   map[string]*protoregistry.Files
}

// NewResolver returns a resolver backed by the given loader.
func NewResolver(loader Loader, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		loader: loader,
		files:  make(map[string]*protoregistry.Files),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate drops the cached compilation for the artifact, forcing a
// refetch on the next resolution.
func (r *Resolver) Invalidate(artifact launcher.Artifact) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	delete(r.files, artifact.String())
}

// Module resolves a module's file descriptor within the artifact's
// schema.
func (r *Resolver) Module(ctx context.Context, artifact launcher.Artifact, module string) (protoreflect.FileDescriptor, error) {
	files, err := r.artifactFiles(ctx, artifact)
	if err != nil {
		return nil, err
	}
	fd, err := files.FindFileByPath(moduleFile(module))
	if err != nil {
		return nil, fmt.Errorf("module %q not found in schema for %s: %w", module, artifact, err)
	}
	return fd, nil
}

// Message resolves a top-level message declared in the given module of
// the artifact's schema.
func (r *Resolver) Message(ctx context.Context, artifact launcher.Artifact, module, message string) (protoreflect.MessageDescriptor, error) {
	fd, err := r.Module(ctx, artifact, module)
	if err != nil {
		return nil, err
	}
	md := fd.Messages().ByName(protoreflect.Name(message))
	if md == nil {
		return nil, fmt.Errorf("module %q of %s declares no message %q", module, artifact, message)
	}
	return md, nil
}

func (r *Resolver) filesFromCache(key string) (*protoregistry.Files, bool) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	files, ok := r.files[key]
	return files, ok
}

// artifactFiles returns the compiled descriptor registry for the
// artifact, fetching and compiling its descriptor set on a cache miss.
func (r *Resolver) artifactFiles(ctx context.Context, artifact launcher.Artifact) (*protoregistry.Files, error) {
	key := artifact.String()
	if !r.reload {
		if files, ok := r.filesFromCache(key); ok {
			return files, nil
		}
	}

	raw, err := r.loader.DescriptorSet(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch descriptor set for %s: %w", key, err)
	}

	var set descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal descriptor set for %s: %w", key, err)
	}

	files, err := protodesc.NewFiles(&set)
	if err != nil {
		return nil, fmt.Errorf("failed to compile descriptor set for %s: %w", key, err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.files[key] = files
	return files, nil
}

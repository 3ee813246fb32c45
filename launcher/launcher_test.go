package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifact_String(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		expected string
	}{
		{
			name:     "rust runtime anchoring artifact",
			artifact: Artifact{RuntimeID: 0, Name: "exonum-btc-anchoring", Version: "1.0.0"},
			expected: "0:exonum-btc-anchoring:1.0.0",
		},
		{
			name:     "non-zero runtime",
			artifact: Artifact{RuntimeID: 2, Name: "cryptocurrency", Version: "0.2.0"},
			expected: "2:cryptocurrency:0.2.0",
		},
		{
			name:     "zero value",
			artifact: Artifact{},
			expected: "0::",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.artifact.String())
		})
	}
}

func TestSpecLoadError_Error(t *testing.T) {
	err := &SpecLoadError{Artifact: "exonum-btc-anchoring", Err: errors.New("no such module")}
	assert.Equal(t, `load spec for artifact "exonum-btc-anchoring": no such module`, err.Error())
}

func TestSpecLoadError_Unwrap(t *testing.T) {
	t.Run("unwraps to underlying error", func(t *testing.T) {
		cause := errors.New("bad hex")
		specErr := &SpecLoadError{Artifact: "a", Err: cause}
		assert.Equal(t, cause, specErr.Unwrap())
	})

	t.Run("errors.Is works through unwrap", func(t *testing.T) {
		err := WrapSpecLoadError("a", ErrNoSpecLoader)
		assert.True(t, errors.Is(err, ErrNoSpecLoader))
	})
}

func TestWrapSpecLoadError(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, WrapSpecLoadError("a", nil))
	})

	t.Run("wraps plain error", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapSpecLoadError("exonum-btc-anchoring", cause)
		require.NotNil(t, err)

		var specErr *SpecLoadError
		require.True(t, errors.As(err, &specErr))
		assert.Equal(t, "exonum-btc-anchoring", specErr.Artifact)
		assert.Equal(t, cause, specErr.Err)
	})

	t.Run("does not double wrap for the same artifact", func(t *testing.T) {
		inner := WrapSpecLoadError("a", errors.New("boom"))
		outer := WrapSpecLoadError("a", inner)
		assert.Same(t, inner.(*SpecLoadError), outer.(*SpecLoadError))
	})

	t.Run("rewraps for a different artifact", func(t *testing.T) {
		inner := WrapSpecLoadError("a", errors.New("boom"))
		outer := WrapSpecLoadError("b", inner)

		var specErr *SpecLoadError
		require.True(t, errors.As(outer, &specErr))
		assert.Equal(t, "b", specErr.Artifact)
		assert.Equal(t, inner, specErr.Err)
	})
}

func TestRegistry_LoadSpec(t *testing.T) {
	inst := Instance{
		Artifact: Artifact{Name: "exonum-btc-anchoring", Version: "1.0.0"},
		Name:     "anchoring",
		Config:   map[string]any{"network": "testnet"},
	}

	t.Run("dispatches to the registered loader", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register("exonum-btc-anchoring", SpecLoaderFunc(func(_ context.Context, got Instance) ([]byte, error) {
			assert.Equal(t, inst.Name, got.Name)
			return []byte{0xDE, 0xAD}, nil
		}))

		spec, err := reg.LoadSpec(context.Background(), inst)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xDE, 0xAD}, spec)
	})

	t.Run("unknown artifact yields ErrNoSpecLoader", func(t *testing.T) {
		reg := NewRegistry()
		spec, err := reg.LoadSpec(context.Background(), inst)
		assert.Nil(t, spec)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoSpecLoader))

		var specErr *SpecLoadError
		require.True(t, errors.As(err, &specErr))
		assert.Equal(t, "exonum-btc-anchoring", specErr.Artifact)
	})

	t.Run("loader failure is wrapped with the artifact name", func(t *testing.T) {
		cause := errors.New("unknown bitcoin network")
		reg := NewRegistry()
		reg.Register("exonum-btc-anchoring", SpecLoaderFunc(func(context.Context, Instance) ([]byte, error) {
			return nil, cause
		}))

		spec, err := reg.LoadSpec(context.Background(), inst)
		assert.Nil(t, spec)
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.Contains(t, err.Error(), "exonum-btc-anchoring")
	})

	t.Run("loader SpecLoadError is not wrapped twice", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register("exonum-btc-anchoring", SpecLoaderFunc(func(context.Context, Instance) ([]byte, error) {
			return nil, WrapSpecLoadError("exonum-btc-anchoring", errors.New("boom"))
		}))

		_, err := reg.LoadSpec(context.Background(), inst)
		require.Error(t, err)

		var specErr *SpecLoadError
		require.True(t, errors.As(err, &specErr))
		_, nested := specErr.Err.(*SpecLoadError)
		assert.False(t, nested)
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("later registration replaces earlier", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register("a", SpecLoaderFunc(func(context.Context, Instance) ([]byte, error) {
			return []byte{1}, nil
		}))
		reg.Register("a", SpecLoaderFunc(func(context.Context, Instance) ([]byte, error) {
			return []byte{2}, nil
		}))

		spec, err := reg.LoadSpec(context.Background(), Instance{Artifact: Artifact{Name: "a"}})
		require.NoError(t, err)
		assert.Equal(t, []byte{2}, spec)
	})

	t.Run("lookup reports registration state", func(t *testing.T) {
		reg := NewRegistry()
		_, ok := reg.Lookup("a")
		assert.False(t, ok)

		reg.Register("a", SpecLoaderFunc(func(context.Context, Instance) ([]byte, error) {
			return nil, nil
		}))
		_, ok = reg.Lookup("a")
		assert.True(t, ok)
	})
}

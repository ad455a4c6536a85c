package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPackage(t *testing.T) {
	t.Run("sets package", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithPackage("status")(c))
		assert.Equal(t, "status", c.Package)
	})

	t.Run("empty package rejected", func(t *testing.T) {
		err := WithPackage("")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithTarget("./out")(c))
		assert.Equal(t, "./out", c.Target)
	})

	t.Run("empty target rejected", func(t *testing.T) {
		require.Error(t, WithTarget("")(&Config{}))
	})
}

func TestWithPatterns(t *testing.T) {
	t.Run("appends known patterns", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithPatterns(PatternDisplay)(c))
		require.NoError(t, WithPatterns(PatternError, PatternFrom)(c))
		assert.Equal(t, []PatternID{PatternDisplay, PatternError, PatternFrom}, c.Patterns)
	})

	t.Run("unknown pattern rejected", func(t *testing.T) {
		err := WithPatterns("nope")(&Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown pattern")
	})
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithHeader("custom header")(c))
		assert.Equal(t, "custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Equal(t, "", c.Header)
	})
}

func TestWithWorkers(t *testing.T) {
	t.Run("sets workers", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithWorkers(4)(c))
		assert.Equal(t, 4, c.Workers)
	})

	t.Run("non-positive rejected", func(t *testing.T) {
		require.Error(t, WithWorkers(0)(&Config{}))
		require.Error(t, WithWorkers(-1)(&Config{}))
	})
}

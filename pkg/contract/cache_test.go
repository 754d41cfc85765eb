package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrBuildMemoizes(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	key := Key{DocType: "Task", Preset: "plain"}
	builds := 0
	build := func() (*UIContract, error) {
		builds++
		return &UIContract{DocType: "Task"}, nil
	}

	first, err := cache.GetOrBuild(key, build)
	require.NoError(t, err)
	second, err := cache.GetOrBuild(key, build)
	require.NoError(t, err)

	assert.Same(t, first, second, "second call must return the stored value")
	assert.Equal(t, 1, builds, "second call must not rebuild")
}

func TestCache_KeyIncludesPreset(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	builds := 0
	build := func() (*UIContract, error) {
		builds++
		return &UIContract{DocType: "Task"}, nil
	}

	_, err = cache.GetOrBuild(Key{DocType: "Task", Preset: "plain"}, build)
	require.NoError(t, err)
	_, err = cache.GetOrBuild(Key{DocType: "Task", Preset: "dense"}, build)
	require.NoError(t, err)

	assert.Equal(t, 2, builds, "presets are distinct cache identities")
}

func TestCache_BuildErrorsAreNotCached(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	key := Key{DocType: "Task", Preset: "plain"}
	_, err = cache.GetOrBuild(key, func() (*UIContract, error) {
		return nil, errors.New("descriptor unavailable")
	})
	require.Error(t, err)

	built, err := cache.GetOrBuild(key, func() (*UIContract, error) {
		return &UIContract{DocType: "Task"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Task", built.DocType)
}

func TestCache_Invalidation(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	plain := Key{DocType: "Task", Preset: "plain"}
	dense := Key{DocType: "Task", Preset: "dense"}
	other := Key{DocType: "Note", Preset: "plain"}
	for _, key := range []Key{plain, dense, other} {
		key := key
		_, err := cache.GetOrBuild(key, func() (*UIContract, error) {
			return &UIContract{DocType: key.DocType}, nil
		})
		require.NoError(t, err)
	}

	cache.Invalidate(plain)
	_, ok := cache.Get(plain)
	assert.False(t, ok)
	_, ok = cache.Get(dense)
	assert.True(t, ok)

	cache.InvalidateDocType("Task")
	_, ok = cache.Get(dense)
	assert.False(t, ok)
	_, ok = cache.Get(other)
	assert.True(t, ok)

	cache.Purge()
	assert.Zero(t, cache.Len())
}

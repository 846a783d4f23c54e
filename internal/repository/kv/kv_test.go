package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/asquebay/dreamgirl-boutique/internal/lib/logger"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/cache"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name string `json:"name"`
}

type checked []int

func (c checked) Validate() error {
	for _, v := range c {
		if v < 0 {
			return errors.New("negative")
		}
	}
	return nil
}

type brokenStore struct{ kv.Store }

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestLoadAbsentAndUnparsable(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	store := cache.NewStore()

	store.LoadAll(map[string][]byte{
		"garbage": []byte("{not json"),
		"null":    []byte("null"),
		"empty":   []byte("  "),
		"wrong":   []byte(`"a string"`),
		"neg":     []byte(`[1,-2]`),
	})

	for _, key := range []string{"missing", "garbage", "null", "empty", "wrong"} {
		v, ok, err := kv.Load[doc](ctx, store, key, log)
		require.NoError(t, err, key)
		assert.False(t, ok, key)
		assert.Equal(t, doc{}, v, key)
	}

	_, ok, err := kv.Load[checked](ctx, store, "neg", log)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRemove(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	store := cache.NewStore()

	require.NoError(t, kv.Save(ctx, store, "d", doc{Name: "Dream Girl"}))

	v, ok, err := kv.Load[doc](ctx, store, "d", log)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Dream Girl", v.Name)

	require.NoError(t, kv.Save(ctx, store, "d", doc{Name: "replaced"}))
	v, _, _ = kv.Load[doc](ctx, store, "d", log)
	assert.Equal(t, "replaced", v.Name)

	require.NoError(t, kv.Remove(ctx, store, "d"))
	require.NoError(t, kv.Remove(ctx, store, "d"))
	_, ok, err = kv.Load[doc](ctx, store, "d", log)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadBackendFailure(t *testing.T) {
	_, ok, err := kv.Load[doc](context.Background(), brokenStore{}, "d", logger.Discard())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestCacheStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()

	in := []byte(`true`)
	require.NoError(t, store.Set(ctx, "shopIsOpen", in))
	in[0] = 'x'

	out, err := store.Get(ctx, "shopIsOpen")
	require.NoError(t, err)
	assert.Equal(t, "true", string(out))

	out[0] = 'y'
	again, _ := store.Get(ctx, "shopIsOpen")
	assert.Equal(t, "true", string(again))

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

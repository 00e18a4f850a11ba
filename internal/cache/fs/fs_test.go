package fs

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-abi-cache/internal/interfaces"
)

func newTestStore(t *testing.T) (*FileStore, afero.Fs) {
	memFs := afero.NewMemMapFs()
	store, err := NewFileStore(memFs, "cache/heimdall", zap.NewNop())
	require.NoError(t, err)
	return store, memFs
}

func TestNewFileStore_CreatesRoot(t *testing.T) {
	store, memFs := newTestStore(t)

	exists, err := afero.DirExists(memFs, "cache/heimdall")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "cache/heimdall", store.Root())
}

func TestNewFileStore_ReadOnlyFs(t *testing.T) {
	roFs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	store, err := NewFileStore(roFs, "cache/heimdall", zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestFileStore_Load_Miss(t *testing.T) {
	store, _ := newTestStore(t)

	data, err := store.Load(context.Background(), "12345.json")

	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
	assert.Nil(t, data)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store, memFs := newTestStore(t)
	ctx := context.Background()
	payload := []byte(`[{"abi":"(address,uint256)"}]`)

	require.NoError(t, store.Save(ctx, "12345.json", payload))

	data, err := store.Load(ctx, "12345.json")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	onDisk, err := afero.ReadFile(memFs, "cache/heimdall/12345.json")
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
}

func TestFileStore_Save_LeavesNoTempFiles(t *testing.T) {
	store, memFs := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), "1.json", []byte("[]")))
	require.NoError(t, store.Save(context.Background(), "1.json", []byte("[]")))

	entries, err := afero.ReadDir(memFs, "cache/heimdall")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1.json", entries[0].Name())
}

func TestFileStore_InvalidKeys(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../escape.json", "nested/key.json", `win\key.json`} {
		t.Run("key="+key, func(t *testing.T) {
			_, err := store.Load(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)

			err = store.Save(ctx, key, []byte("[]"))
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestFileStore_Save_ReadOnlyFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("cache/heimdall", 0o755))

	store, err := NewFileStore(afero.NewReadOnlyFs(base), "cache/heimdall", zap.NewNop())
	require.NoError(t, err)

	err = store.Save(context.Background(), "1.json", []byte("[]"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrCacheMiss)
}

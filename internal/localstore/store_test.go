package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStoreTest(t *testing.T) Store {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestFileStore_SetGet(t *testing.T) {
	store := setupFileStoreTest(t)

	err := store.Set(KeyCart, []byte(`{"items":[]}`))
	require.NoError(t, err)

	data, ok, err := store.Get(KeyCart)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(data))
}

func TestFileStore_GetMissingKey(t *testing.T) {
	store := setupFileStoreTest(t)

	data, ok, err := store.Get(KeyAuthToken)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFileStore_Overwrite(t *testing.T) {
	store := setupFileStoreTest(t)

	require.NoError(t, store.Set(KeyAuthToken, []byte("t1")))
	require.NoError(t, store.Set(KeyAuthToken, []byte("t2")))

	data, ok, err := store.Get(KeyAuthToken)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t2", string(data))
}

func TestFileStore_Delete(t *testing.T) {
	store := setupFileStoreTest(t)

	require.NoError(t, store.Set(KeyRememberedEmail, []byte("a@b.com")))
	require.NoError(t, store.Delete(KeyRememberedEmail))

	_, ok, err := store.Get(KeyRememberedEmail)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(KeyRememberedEmail))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyCurrentUser, []byte(`{"id":1}`)))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	data, ok, err := reopened.Get(KeyCurrentUser)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, string(data))
}

func TestFileStore_RejectsBadKey(t *testing.T) {
	store := setupFileStoreTest(t)

	err := store.Set("../escape", []byte("x"))
	assert.Error(t, err)

	_, _, err = store.Get("UPPER CASE")
	assert.Error(t, err)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemory()

	require.NoError(t, store.Set(KeyCart, []byte("blob")))

	data, ok, err := store.Get(KeyCart)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "blob", string(data))

	// Mutating the returned slice must not affect the stored value
	data[0] = 'x'
	again, _, _ := store.Get(KeyCart)
	assert.Equal(t, "blob", string(again))
}

package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKDF = KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}

func testSealer(t *testing.T, secret string) *Sealer {
	t.Helper()
	salt := make([]byte, saltSize)
	sealer, err := NewSealer([]byte(secret), salt, testKDF)
	require.NoError(t, err)
	return sealer
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "token", "t1"))
	require.NoError(t, store.Set(ctx, "displayName", "Ada"))

	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "t1", got)

	require.NoError(t, store.Set(ctx, "token", "t2"))
	got, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "t2", got)

	require.NoError(t, store.Delete(ctx, "token"))
	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = store.Get(ctx, "displayName")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Equal(t, []string{"displayName"}, store.Keys())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	store, err := NewFileStore(path, "passphrase", WithKDFParams(testKDF))
	require.NoError(t, err)
	exerciseStore(t, store)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	first, err := NewFileStore(path, "", WithKDFParams(testKDF))
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "token", "t1"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"token":"t1"`)

	second, err := NewFileStore(path, "", WithKDFParams(testKDF))
	require.NoError(t, err)
	got, err := second.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "t1", got)
}

func TestFileStoreWrongPassphraseReadsAsCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	first, err := NewFileStore(path, "right", WithKDFParams(testKDF))
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "token", "t1"))

	second, err := NewFileStore(path, "wrong", WithKDFParams(testKDF))
	require.NoError(t, err)
	_, err = second.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStoreQuarantinesUnreadableDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path, "p", WithKDFParams(testKDF))
	require.NoError(t, err)

	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(path + ".corrupt")
	assert.NoError(t, err)
}

func TestSealerBindsKey(t *testing.T) {
	sealer := testSealer(t, "secret")

	sealed, err := sealer.Seal("token", "t1")
	require.NoError(t, err)

	plain, err := sealer.Open("token", sealed)
	require.NoError(t, err)
	assert.Equal(t, "t1", plain)

	_, err = sealer.Open("userId", sealed)
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = sealer.Open("token", "%%%")
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = sealer.Open("token", "AAAA")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNewSealerRejectsShortSalt(t *testing.T) {
	_, err := NewSealer([]byte("x"), []byte("short"), testKDF)
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "device-1:", testSealer(t, "secret"))
	exerciseStore(t, store)

	raw, err := mr.Get("device-1:displayName")
	require.NoError(t, err)
	assert.NotEqual(t, "Ada", raw)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("p:token", "garbage"))
	store := NewRedisStore(client, "p:", testSealer(t, "secret"))

	_, err := store.Get(context.Background(), "token")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpenRedisStoreSharesSalt(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	first, err := OpenRedisStore(ctx, client, "op:", "pass", testKDF)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "token", "t1"))

	second, err := OpenRedisStore(ctx, client, "op:", "pass", testKDF)
	require.NoError(t, err)
	got, err := second.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "t1", got)

	wrong, err := OpenRedisStore(ctx, client, "op:", "other", testKDF)
	require.NoError(t, err)
	_, err = wrong.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = OpenRedisStore(ctx, client, "op:", "", testKDF)
	assert.Error(t, err)
}

package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

func TestStorage_SaveGetDeleteAuth(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// До сохранения сессии нет
	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	auth := &storage.AuthData{
		AccessToken:  "v1.sealed-access",
		RefreshToken: "v1.sealed-refresh",
		SavedAt:      1715000000,
	}
	require.NoError(t, store.SaveAuth(ctx, auth))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth, got)

	// Пара заменяется целиком: старый refresh token не остается
	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{AccessToken: "v1.only-access", SavedAt: 1715000060}))
	got, err = store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.only-access", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
	assert.Equal(t, int64(1715000060), got.SavedAt)

	require.NoError(t, store.DeleteAuth(ctx))
	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	// Повторное удаление не ошибка
	assert.NoError(t, store.DeleteAuth(ctx))
}

func TestStorage_RefreshOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{RefreshToken: "v1.refresh"}))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.AccessToken)
	assert.Equal(t, "v1.refresh", got.RefreshToken)
}

func TestStorage_SaveAuth_Nil(t *testing.T) {
	assert.Error(t, newTestStorage(t).SaveAuth(context.Background(), nil))
}

func TestStorage_Closed(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveAuth(ctx, &storage.AuthData{AccessToken: "x"}), storage.ErrStorageClosed)
	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.DeleteAuth(ctx), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.SaveLastEmail(ctx, "ana@example.com"), storage.ErrStorageClosed)
}

func TestStorage_SessionBucketMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketSession)
	})
	require.NoError(t, err)

	_, err = store.GetAuth(ctx)
	assert.ErrorContains(t, err, "session bucket not found")
	assert.ErrorContains(t, store.SaveAuth(ctx, &storage.AuthData{AccessToken: "x"}), "session bucket not found")
	assert.ErrorContains(t, store.DeleteAuth(ctx), "session bucket not found")
}

func TestStorage_GetAuth_CorruptedTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{AccessToken: "v1.a"}))
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keySavedAt, []byte("yesterday"))
	})
	require.NoError(t, err)

	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrCorrupted)
}

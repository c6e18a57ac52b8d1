package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

func TestStorage_LastEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// До первого входа email пустой
	email, err := store.GetLastEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, store.SaveLastEmail(ctx, "ana@example.com"))
	email, err = store.GetLastEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	// Сессия и метаданные независимы
	require.NoError(t, store.DeleteAuth(ctx))
	email, err = store.GetLastEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	require.NoError(t, store.SaveLastEmail(ctx, ""))
	email, err = store.GetLastEmail(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestStorage_LastEmail_Errors(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	assert.ErrorContains(t, store.SaveLastEmail(ctx, "x@y.z"), "metadata bucket not found")
	_, err = store.GetLastEmail(ctx)
	assert.Error(t, err)

	require.NoError(t, store.Close())
	_, err = store.GetLastEmail(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

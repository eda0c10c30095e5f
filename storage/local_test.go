package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "orders/a.jpg", strings.NewReader("jpeg bytes"), "image/jpeg"))

	rc, err := store.Get(ctx, "orders/a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Delete(ctx, "orders/a.jpg"))
	_, err = store.Get(ctx, "orders/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	// second delete is a no-op
	assert.NoError(t, store.Delete(ctx, "orders/a.jpg"))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../x", "a/../../x"} {
		err := store.Put(context.Background(), key, strings.NewReader("x"), "")
		assert.Error(t, err, key)
	}
}

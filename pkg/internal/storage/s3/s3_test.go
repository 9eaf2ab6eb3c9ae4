package s3

import (
	"context"
	"errors"
	"testing"

	minio "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

func TestKeyLayout(t *testing.T) {
	c := &Client{bucket: "dontfile", prefix: "rooms"}

	key, err := c.key(types.MustRoomID("demo"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "rooms/demo/a.txt", key)
	assert.Equal(t, "rooms/", c.rootPrefix())

	bare := &Client{bucket: "dontfile"}
	assert.Equal(t, "demo/", bare.roomPrefix(types.MustRoomID("demo")))
	assert.Empty(t, bare.rootPrefix())

	_, err = c.key(types.MustRoomID("demo"), "../escape")
	assert.ErrorIs(t, err, types.ErrInvalidFileName)
}

func TestMapErr(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	assert.ErrorIs(t, mapErr("get", notFound), storage.ErrNotFound)

	full := minio.ErrorResponse{Code: "XMinioStorageFull", StatusCode: 507}
	assert.ErrorIs(t, mapErr("put", full), storage.ErrNoSpace)

	assert.ErrorIs(t, mapErr("put", storage.ErrTooLarge), storage.ErrTooLarge)
	assert.ErrorIs(t, mapErr("put", context.Canceled), context.Canceled)

	other := mapErr("put", errors.New("boom"))
	assert.NotErrorIs(t, other, storage.ErrNotFound)
	assert.NotErrorIs(t, other, storage.ErrNoSpace)
}

package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/storage/local"
	"github.com/yeisme/dontfile/pkg/internal/types"
	"github.com/yeisme/dontfile/pkg/queue"
)

var demo = types.MustRoomID("demo")

func newService(t *testing.T, opts ...service.Option) *service.FileService {
	t.Helper()

	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	opts = append([]service.Option{service.WithLogger(zerolog.Nop())}, opts...)

	return service.NewFileService(store, opts...)
}

func upload(t *testing.T, svc *service.FileService, room types.RoomID, name, body string) types.UploadResult {
	t.Helper()

	res, err := svc.Upload(context.Background(), room, name, strings.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	return res
}

func TestEmptyRoomListsEmpty(t *testing.T) {
	svc := newService(t)

	entries, err := svc.List(context.Background(), types.MustRoomID("fresh"))
	require.NoError(t, err)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res := upload(t, svc, demo, "a.txt", "hello")
	assert.Equal(t, types.UploadResult{Success: true, Filename: "a.txt", Size: 5}, res)

	entries, err := svc.List(ctx, demo)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.EqualValues(t, 5, entries[0].Size)

	rc, entry, err := svc.Download(ctx, demo, "a.txt")
	require.NoError(t, err)

	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "a.txt", entry.Name)
}

func TestSameNameUploadKeepsLatest(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	upload(t, svc, demo, "a.txt", "first")
	upload(t, svc, demo, "a.txt", "second!")

	entries, err := svc.List(ctx, demo)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 7, entries[0].Size)

	rc, _, err := svc.Download(ctx, demo, "a.txt")
	require.NoError(t, err)

	defer rc.Close()

	body, _ := io.ReadAll(rc)
	assert.Equal(t, "second!", string(body))
}

func TestUploadTooLarge(t *testing.T) {
	svc := newService(t, service.WithMaxUploadBytes(10))
	ctx := context.Background()
	payload := bytes.Repeat([]byte("x"), 11)

	_, err := svc.Upload(ctx, demo, "declared.bin", bytes.NewReader(payload), int64(len(payload)))
	require.ErrorIs(t, err, service.ErrFileTooLarge)

	_, err = svc.Upload(ctx, demo, "streamed.bin", bytes.NewReader(payload), storage.UnknownSize)
	require.ErrorIs(t, err, service.ErrFileTooLarge)

	entries, err := svc.List(ctx, demo)
	require.NoError(t, err)
	assert.Empty(t, entries)

	res, err := svc.Upload(ctx, demo, "exact.bin", bytes.NewReader(payload[:10]), storage.UnknownSize)
	require.NoError(t, err)
	assert.EqualValues(t, 10, res.Size)
}

func TestMissingFile(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.Download(ctx, demo, "ghost.txt")
	require.ErrorIs(t, err, service.ErrFileNotFound)

	_, err = svc.DeleteOne(ctx, demo, "ghost.txt")
	require.ErrorIs(t, err, service.ErrFileNotFound)
}

func TestInvalidFileName(t *testing.T) {
	svc := newService(t)

	_, err := svc.Upload(context.Background(), demo, "../etc/passwd", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, service.ErrInvalidFileName)

	_, _, err = svc.Download(context.Background(), demo, "..")
	require.ErrorIs(t, err, service.ErrInvalidFileName)
}

func TestDeleteOne(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	upload(t, svc, demo, "a.txt", "hello")

	res, err := svc.DeleteOne(ctx, demo, "a.txt")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, res.Deleted)

	entries, err := svc.List(ctx, demo)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteAll(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	const n = 4
	for i := range n {
		upload(t, svc, demo, fmt.Sprintf("f%d.txt", i), "data")
	}

	res, err := svc.DeleteAll(ctx, demo)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Deleted)
	assert.Equal(t, n, *res.Deleted)

	entries, err := svc.List(ctx, demo)
	require.NoError(t, err)
	assert.Empty(t, entries)

	res, err = svc.DeleteAll(ctx, types.MustRoomID("never-used"))
	require.NoError(t, err)
	assert.Equal(t, 0, *res.Deleted)
}

func TestUsage(t *testing.T) {
	svc := newService(t)

	upload(t, svc, demo, "a.txt", "hello")
	upload(t, svc, demo, "b.txt", "hi")
	upload(t, svc, types.MustRoomID("other"), "c.txt", "abc")

	stats, err := svc.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.UsageStats{Rooms: 2, Files: 3, Bytes: 10}, stats)
}

// fullStore 模拟磁盘已满的后端.
type fullStore struct {
	*local.Store
}

func (f fullStore) Put(context.Context, types.RoomID, string, io.Reader, int64) (types.FileEntry, error) {
	return types.FileEntry{}, fmt.Errorf("write: %w: %w", storage.ErrNoSpace, syscall.ENOSPC)
}

func TestStorageFullPublishesEvent(t *testing.T) {
	inner, err := local.New(t.TempDir())
	require.NoError(t, err)

	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 4}, watermill.NopLogger{})
	defer ps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := ps.Subscribe(ctx, queue.TopicStorageFull)
	require.NoError(t, err)

	em := queue.NewEmitter(ps, configs.EventsConfig{Enabled: true, Room: configs.RoomEventsConfig{StorageFull: true}}, zerolog.Nop())
	svc := service.NewFileService(fullStore{inner}, service.WithEmitter(em), service.WithLogger(zerolog.Nop()))

	_, err = svc.Upload(ctx, demo, "a.txt", strings.NewReader("hello"), 5)
	require.ErrorIs(t, err, service.ErrStorageFull)
	assert.ErrorIs(t, err, syscall.ENOSPC)

	select {
	case msg := <-ch:
		msg.Ack()

		env, err := queue.ParseWatermillMessage[queue.StorageFullPayload](msg)
		require.NoError(t, err)
		assert.Equal(t, "demo", env.Payload.Room)
		assert.Equal(t, "a.txt", env.Payload.FileName)
	case <-time.After(2 * time.Second):
		t.Fatal("expected storage full event")
	}
}

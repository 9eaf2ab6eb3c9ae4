package local_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/storage/local"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

func newStore(t *testing.T) *local.Store {
	t.Helper()

	s, err := local.New(t.TempDir())
	require.NoError(t, err)

	return s
}

func put(t *testing.T, s *local.Store, room, name, body string) types.FileEntry {
	t.Helper()

	e, err := s.Put(context.Background(), types.MustRoomID(room), name, strings.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	return e
}

func TestListMissingRoomIsEmpty(t *testing.T) {
	s := newStore(t)

	entries, err := s.List(context.Background(), types.MustRoomID("nobody-here"))
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestPutOpenRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	room := types.MustRoomID("demo")

	e := put(t, s, "demo", "a.txt", "hello")
	assert.Equal(t, "a.txt", e.Name)
	assert.EqualValues(t, 5, e.Size)

	entries, err := s.List(ctx, room)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.EqualValues(t, 5, entries[0].Size)
	assert.False(t, entries[0].UploadDate.IsZero())

	rc, entry, err := s.Open(ctx, room, "a.txt")
	require.NoError(t, err)

	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.EqualValues(t, 5, entry.Size)

	_, err = os.Stat(filepath.Join(s.Root(), "demo", "a.txt"))
	require.NoError(t, err)
}

func TestPutOverwritesSameName(t *testing.T) {
	s := newStore(t)

	put(t, s, "demo", "a.txt", "first version")
	put(t, s, "demo", "a.txt", "v2")

	entries, err := s.List(context.Background(), types.MustRoomID("demo"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].Size)
}

func TestPutRejectsPathNames(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"", "../x", "a/b", ".", ".."} {
		_, err := s.Put(context.Background(), types.MustRoomID("demo"), name, strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, types.ErrInvalidFileName, "name %q", name)
	}
}

func TestPutFailureLeavesNoEntry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	room := types.MustRoomID("demo")

	lr := &storage.LimitedReader{R: bytes.NewReader(make([]byte, 64)), Max: 16}
	_, err := s.Put(ctx, room, "big.bin", lr, storage.UnknownSize)
	require.ErrorIs(t, err, storage.ErrTooLarge)
	assert.True(t, lr.Exceeded)

	entries, err := s.List(ctx, room)
	require.NoError(t, err)
	assert.Empty(t, entries)

	raw, err := os.ReadDir(filepath.Join(s.Root(), "demo"))
	require.NoError(t, err)
	assert.Empty(t, raw, "temp file must be removed")
}

func TestPutCanceledContext(t *testing.T) {
	s := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, types.MustRoomID("demo"), "a.txt", strings.NewReader("hello"), 5)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := s.List(context.Background(), types.MustRoomID("demo"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenMissing(t *testing.T) {
	s := newStore(t)

	_, _, err := s.Open(context.Background(), types.MustRoomID("demo"), "nope.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	room := types.MustRoomID("demo")

	put(t, s, "demo", "a.txt", "hello")
	put(t, s, "demo", "b.txt", "world")

	require.NoError(t, s.Delete(ctx, room, "a.txt"))
	assert.ErrorIs(t, s.Delete(ctx, room, "a.txt"), storage.ErrNotFound)

	entries, err := s.List(ctx, room)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.txt", entries[0].Name)
}

func TestDeleteDirectoryIsNotFound(t *testing.T) {
	s := newStore(t)

	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "demo", "sub"), 0o755))
	assert.ErrorIs(t, s.Delete(context.Background(), types.MustRoomID("demo"), "sub"), storage.ErrNotFound)
}

func TestDeleteAll(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	room := types.MustRoomID("demo")

	for _, n := range []string{"a.txt", "b.txt", "c.txt"} {
		put(t, s, "demo", n, n)
	}

	put(t, s, "other", "keep.txt", "keep")

	n, err := s.DeleteAll(ctx, room)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.List(ctx, room)
	require.NoError(t, err)
	assert.Empty(t, entries)

	info, err := os.Stat(filepath.Join(s.Root(), "demo"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "room directory is kept")

	others, err := s.List(ctx, types.MustRoomID("other"))
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestDeleteAllMissingRoom(t *testing.T) {
	s := newStore(t)

	n, err := s.DeleteAll(context.Background(), types.MustRoomID("ghost"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRooms(t *testing.T) {
	s := newStore(t)

	put(t, s, "alpha", "a.txt", "a")
	put(t, s, "beta", "b.txt", "b")
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "Not A Room"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "stray.txt"), []byte("x"), 0o644))

	rooms, err := s.Rooms(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		names = append(names, r.String())
	}

	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
	require.NoError(t, s.HealthCheck(context.Background()))
}

package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/api"
	"github.com/yeisme/dontfile/pkg/client"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage/local"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	svc := service.NewFileService(store,
		service.WithMaxUploadBytes(1<<20),
		service.WithLogger(zerolog.Nop()),
	)

	srv := httptest.NewServer(api.NewEngine(svc, api.Options{SupportContact: "ops@example.com"}))
	t.Cleanup(srv.Close)

	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	entries, err := c.List(ctx, "demo")
	require.NoError(t, err)
	assert.Empty(t, entries)

	var lastSent, lastTotal int64

	res, err := c.Upload(ctx, "demo", "a.txt", strings.NewReader("hello"), 5, func(sent, total int64) {
		lastSent, lastTotal = sent, total
	})
	require.NoError(t, err)
	assert.Equal(t, types.UploadResult{Success: true, Filename: "a.txt", Size: 5}, res)
	assert.EqualValues(t, 5, lastSent)
	assert.EqualValues(t, 5, lastTotal)

	entries, err = c.List(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.EqualValues(t, 5, entries[0].Size)

	var buf bytes.Buffer

	n, err := c.Download(ctx, "demo", "a.txt", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.Equal(t, "hello", buf.String())

	del, err := c.Delete(ctx, "demo", "a.txt")
	require.NoError(t, err)
	assert.True(t, del.Success)

	_, err = c.Delete(ctx, "demo", "a.txt")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
}

func TestClientSanitizesRoom(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	_, err := c.Upload(ctx, "  My Room ", "a.txt", strings.NewReader("x"), client.UnknownTotal, nil)
	require.NoError(t, err)

	entries, err := c.List(ctx, "my-room")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = c.List(ctx, "!!!")
	assert.ErrorIs(t, err, types.ErrInvalidRoom)
}

func TestClientAPIError(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)

	_, err := c.Upload(context.Background(), "demo", "big.bin", bytes.NewReader(make([]byte, (1<<20)+1)), client.UnknownTotal, nil)
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "File too large (max: 1MB)", apiErr.Message)

	_, err = c.Download(context.Background(), "demo", "missing.txt", &bytes.Buffer{})
	assert.True(t, client.IsNotFound(err))
}

func TestClientDeleteAll(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := c.Upload(ctx, "demo", name, strings.NewReader(name), 1, nil)
		require.NoError(t, err)
	}

	res, err := c.DeleteAll(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, res.Deleted)
	assert.Equal(t, 3, *res.Deleted)

	entries, err := c.List(ctx, "demo")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSortByRecent(t *testing.T) {
	now := time.Now()
	files := []types.FileEntry{
		{Name: "old", UploadDate: now.Add(-time.Hour)},
		{Name: "b", UploadDate: now},
		{Name: "a", UploadDate: now},
	}

	client.SortByRecent(files)

	assert.Equal(t, []string{"a", "b", "old"}, []string{files[0].Name, files[1].Name, files[2].Name})
}

func TestWatcherStates(t *testing.T) {
	t.Run("first failure shows error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		w := client.NewWatcher(client.New(srv.URL), "demo", 0)
		assert.Equal(t, client.StateLoading, w.Snapshot().State)

		snap := w.Refresh(context.Background())
		assert.Equal(t, client.StateError, snap.State)
		require.Error(t, snap.Err)
	})

	t.Run("later failures keep last list", func(t *testing.T) {
		var fail atomic.Bool

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if fail.Load() {
				http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)

				return
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"name":"a.txt","size":5,"uploadDate":"2024-01-01T00:00:00Z"}]`))
		}))
		defer srv.Close()

		w := client.NewWatcher(client.New(srv.URL), "demo", time.Second)

		snap := w.Refresh(context.Background())
		require.Equal(t, client.StateReady, snap.State)
		require.Len(t, snap.Files, 1)

		fail.Store(true)

		snap = w.Refresh(context.Background())
		assert.Equal(t, client.StateReady, snap.State)
		assert.Len(t, snap.Files, 1)
		assert.NoError(t, snap.Err)
	})
}

func TestWatcherRunPollsUntilCancelled(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var calls atomic.Int32

	w := client.NewWatcher(c, "demo", 50*time.Millisecond)
	err := w.Run(ctx, func(s client.Snapshot) {
		assert.Equal(t, client.StateReady, s.State)

		if calls.Add(1) == 3 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

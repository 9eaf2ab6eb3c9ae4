package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

// flakyStore 返回预设错误的 Store.
type flakyStore struct {
	err   error
	calls int
}

func (f *flakyStore) Name() string { return "flaky" }

func (f *flakyStore) List(context.Context, types.RoomID) ([]types.FileEntry, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return []types.FileEntry{{Name: "a.txt", Size: 1}}, nil
}

func (f *flakyStore) Put(_ context.Context, _ types.RoomID, name string, r io.Reader, _ int64) (types.FileEntry, error) {
	f.calls++

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return types.FileEntry{}, err
	}

	return types.FileEntry{Name: name, Size: n}, f.err
}

func (f *flakyStore) Open(context.Context, types.RoomID, string) (io.ReadSeekCloser, types.FileEntry, error) {
	f.calls++

	return nil, types.FileEntry{}, f.err
}

func (f *flakyStore) Delete(context.Context, types.RoomID, string) error {
	f.calls++

	return f.err
}

func (f *flakyStore) DeleteAll(context.Context, types.RoomID) (int, error) {
	f.calls++

	return 0, f.err
}

func (f *flakyStore) Rooms(context.Context) ([]types.RoomID, error) { return nil, f.err }
func (f *flakyStore) HealthCheck(context.Context) error             { return f.err }
func (f *flakyStore) Close() error                                  { return nil }

func breakerConfig() *configs.CircuitBreakerConfig {
	return &configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       3,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	}
}

func TestBreakerOpensOnBackendFailures(t *testing.T) {
	inner := &flakyStore{err: errors.New("connection refused")}
	s := WithBreaker(inner, breakerConfig())
	room := types.MustRoomID("demo")

	for range 3 {
		_, err := s.List(context.Background(), room)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := s.List(context.Background(), room)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the backend")
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	inner := &flakyStore{err: ErrNotFound}
	s := WithBreaker(inner, breakerConfig())
	room := types.MustRoomID("demo")

	for range 10 {
		err := s.Delete(context.Background(), room, "missing.txt")
		require.ErrorIs(t, err, ErrNotFound)
	}

	assert.Equal(t, 10, inner.calls)
}

func TestBreakerPassesResults(t *testing.T) {
	s := WithBreaker(&flakyStore{}, breakerConfig())

	entries, err := s.List(context.Background(), types.MustRoomID("demo"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e, err := s.Put(context.Background(), types.MustRoomID("demo"), "b.txt", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, e.Size)
	assert.Equal(t, "flaky", s.Name())
}

func TestLimitedReader(t *testing.T) {
	lr := &LimitedReader{R: strings.NewReader("0123456789"), Max: 10}
	b, err := io.ReadAll(lr)
	require.NoError(t, err)
	assert.Len(t, b, 10)
	assert.False(t, lr.Exceeded)

	lr = &LimitedReader{R: strings.NewReader("0123456789X"), Max: 10}
	_, err = io.ReadAll(lr)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.True(t, lr.Exceeded)
}

func TestNewUnsupportedType(t *testing.T) {
	_, err := New(context.Background(), &configs.StorageConfig{Type: "ftp"}, nil)
	require.Error(t, err)
}

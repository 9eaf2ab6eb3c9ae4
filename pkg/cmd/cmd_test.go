package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/api"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage/local"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dontfile 0.1.0")
}

func TestMQTopics(t *testing.T) {
	out, err := run(t, "mq", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "df.file.uploaded")
	assert.Contains(t, out, "df.room.cleared")
}

func TestRoomCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	svc := service.NewFileService(store, service.WithLogger(zerolog.Nop()))
	srv := httptest.NewServer(api.NewEngine(svc, api.Options{}))
	defer srv.Close()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o600))

	out, err := run(t, "room", "ls", "--server", srv.URL, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "No files in this room yet.")

	out, err = run(t, "room", "push", "--server", srv.URL, "demo", src)
	require.NoError(t, err)
	assert.Contains(t, out, "uploaded a.txt (5 bytes)")

	out, err = run(t, "room", "ls", "--server", srv.URL, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt")

	out, err = run(t, "room", "get", "--server", srv.URL, "-o", "-", "demo", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = run(t, "room", "clear", "--server", srv.URL, "-y", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 file(s)")

	_, err = run(t, "room", "get", "--server", srv.URL, "-o", filepath.Join(dir, "missing.txt"), "demo", "missing.txt")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "missing.txt"))
}

package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
)

func TestDefaultsWithoutConfigFile(t *testing.T) {
	require.NoError(t, configs.InitConfig(t.TempDir()))

	cfg := configs.GetConfig()
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, configs.StorageTypeLocal, cfg.Storage.Type)
	assert.Equal(t, "uploads", cfg.Storage.Root)
	assert.EqualValues(t, 100*1024*1024, cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "dontfile@gmail.com", cfg.Storage.SupportContact)
	assert.Empty(t, configs.GetViper().ConfigFileUsed())
}

func TestLoadFromDirectoryAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 8080
storage:
  root: /data/rooms
  max_upload_mb: 10
  support_contact: ops@example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("DONTFILE_SERVER_PORT", "9090")

	require.NoError(t, configs.InitConfig(dir))

	cfg := configs.GetConfig()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/rooms", cfg.Storage.Root)
	assert.EqualValues(t, 10*1024*1024, cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "ops@example.com", cfg.Storage.SupportContact)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), configs.GetViper().ConfigFileUsed())
}

func TestLoadFromFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dontfile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"type":"s3","s3":{"bucket_name":"drops"}}}`), 0o600))

	require.NoError(t, configs.InitConfig(path))

	cfg := configs.GetConfig()
	assert.Equal(t, configs.StorageTypeS3, cfg.Storage.Type)
	assert.Equal(t, "drops", cfg.Storage.S3.BucketName)
}

func TestInvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage:\n  type: ftp\n"), 0o600))

	err := configs.InitConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSnapshotIsACopy(t *testing.T) {
	require.NoError(t, configs.InitConfig(t.TempDir()))

	cfg := configs.GetConfig()
	cfg.Server.Port = 1

	assert.Equal(t, 3000, configs.GetConfig().Server.Port)
}

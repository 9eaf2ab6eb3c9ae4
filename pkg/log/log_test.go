package log

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	l := newLogger(configs.LogConfig{Level: "debug", Format: configs.LogFormatJSON}, false, &buf)
	l.Debug().Str("room", "demo").Msg("hello")

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "demo", line["room"])
	assert.Equal(t, serviceName, line["service"])
	assert.Equal(t, configs.AppVersion, line["version"])
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer

	l := newLogger(configs.LogConfig{Level: "loud", Format: configs.LogFormatJSON}, false, &buf)
	assert.Contains(t, buf.String(), `invalid log level "loud"`)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	buf.Reset()
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestGinWriterSkipsBlankLines(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf)
	w := NewGinWriter(&l, zerolog.WarnLevel)

	n, err := w.Write([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, buf.String())

	_, err = w.Write([]byte("[GIN-debug] route registered\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "route registered")
}

package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/internal/types"
)

func TestSanitizeRoomName(t *testing.T) {
	cases := map[string]string{
		"demo":              "demo",
		"  My Room  ":       "my-room",
		"Sala   de   Aula":  "sala-de-aula",
		"a--b---c":          "a-b-c",
		"hello, world!":     "hello-world",
		"../../etc/passwd":  "etcpasswd",
		"snake_case_ok":     "snake_case_ok",
		"tab\tand\nnewline": "tab-and-newline",
		"Ação":              "ao",
		"a - b":             "a-b",
	}

	for in, want := range cases {
		assert.Equal(t, want, types.SanitizeRoomName(in), "input %q", in)
	}
}

func TestNewRoomID(t *testing.T) {
	id, err := types.NewRoomID(" Demo Room ")
	require.NoError(t, err)
	assert.Equal(t, "demo-room", id.String())
	assert.False(t, id.IsZero())

	for _, raw := range []string{"", "   ", "!!!", "..", "/"} {
		_, err := types.NewRoomID(raw)
		assert.ErrorIs(t, err, types.ErrInvalidRoom, "input %q", raw)
	}

	_, err = types.NewRoomID(strings.Repeat("a", 65))
	assert.ErrorIs(t, err, types.ErrInvalidRoom)
}

func TestParseRoomIDIsStrict(t *testing.T) {
	_, err := types.ParseRoomID("demo")
	require.NoError(t, err)

	for _, raw := range []string{"Demo", "my room", "a--b", ".hidden", ""} {
		_, err := types.ParseRoomID(raw)
		assert.ErrorIs(t, err, types.ErrInvalidRoom, "input %q", raw)
	}
}

func TestZeroRoomID(t *testing.T) {
	var id types.RoomID
	assert.True(t, id.IsZero())
	assert.Empty(t, id.String())
}

func TestValidateFileName(t *testing.T) {
	require.NoError(t, types.ValidateFileName("a.txt"))
	require.NoError(t, types.ValidateFileName("My Report (final).pdf"))

	for _, name := range []string{"", ".", "..", "../x", "x/y", `x\y`} {
		assert.ErrorIs(t, types.ValidateFileName(name), types.ErrInvalidFileName, "input %q", name)
	}
}

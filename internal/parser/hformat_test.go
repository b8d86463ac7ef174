package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileHeaderFormat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		hformat string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no name directive", "%d.%m.%y, %H:%M -"},
		{"unknown directive", "%d.%m.%y %Q - %name:"},
		{"dangling percent", "%d.%m.%y - %name: %"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileHeaderFormat(tt.hformat)
			require.Error(t, err)
		})
	}
}

func TestHeaderPattern_Match(t *testing.T) {
	p, err := compileHeaderFormat("%d.%m.%y, %H:%M - %name:")
	require.NoError(t, err)

	h, ok := p.match("12.05.21, 14:32 - Alice: hello")
	require.True(t, ok)
	require.Equal(t, "Alice", h.username)
	require.Equal(t, 2021, h.timestamp.Year())
	require.Equal(t, "hello", "12.05.21, 14:32 - Alice: hello"[h.end+1:])
}

func TestHeaderPattern_RejectsOutOfRangeDates(t *testing.T) {
	p, err := compileHeaderFormat("%d.%m.%y, %H:%M - %name:")
	require.NoError(t, err)

	// Month 13 cannot be a header; the line is a continuation instead.
	_, ok := p.match("12.13.21, 14:32 - Alice: hello")
	require.False(t, ok)

	_, ok = p.match("12.05.21, 25:32 - Alice: hello")
	require.False(t, ok)
}

func TestDetectHeaderFormat_PicksBestMatch(t *testing.T) {
	lines := []string{
		"[12.05.21, 14:32:10] Alice: one",
		"[12.05.21, 14:33:42] Bob: two",
		"a continuation line",
		"[13.05.21, 09:00:00] Alice: three",
	}
	p, err := detectHeaderFormat(lines)
	require.NoError(t, err)
	require.Equal(t, "[%d.%m.%y, %H:%M:%S] %name:", p.format)
}

func TestDetectHeaderFormat_NoMatch(t *testing.T) {
	_, err := detectHeaderFormat([]string{"nothing", "matches", "here"})
	require.Error(t, err)
}

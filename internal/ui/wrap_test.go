package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleWidth_IgnoresANSI(t *testing.T) {
	assert.Equal(t, 5, visibleWidth("hello"))
	assert.Equal(t, 5, visibleWidth("\033[31mhello\033[0m"))
	assert.Equal(t, 0, visibleWidth(""))
	assert.Equal(t, 5, visibleWidth("\tx")) // tab counts as 4 columns
}

func TestCountLeadingSpaces(t *testing.T) {
	assert.Equal(t, 0, countLeadingSpaces("x"))
	assert.Equal(t, 2, countLeadingSpaces("  x"))
	assert.Equal(t, 4, countLeadingSpaces("\tx"))
	assert.Equal(t, 6, countLeadingSpaces("\t  x"))
}

func TestSliceANSIAware_PlainCut(t *testing.T) {
	content, rest, active := sliceANSIAware("abcdef", 4)

	assert.Equal(t, "abcd", content)
	assert.Equal(t, "ef", rest)
	assert.Equal(t, "", active)
}

func TestSliceANSIAware_PreservesOpenCodes(t *testing.T) {
	content, rest, active := sliceANSIAware("\033[31mabcdef", 4)

	assert.Equal(t, "\033[31mabcd"+ansiReset, content)
	assert.Equal(t, "ef", rest)
	assert.Equal(t, "\033[31m", active)
}

func TestWrapLine_ShortLineSingleSegment(t *testing.T) {
	segs := wrapLine("hello", "hello", 40)

	require.Equal(t, []string{"hello"}, segs)
}

func TestWrapLine_HangingIndent(t *testing.T) {
	raw := "    return strings.Repeat(\"x\", 10) + somethingLong"
	segs := wrapLine(raw, raw, 20)

	require.Greater(t, len(segs), 1)
	for _, cont := range segs[1:] {
		assert.True(t, strings.HasPrefix(cont, "    "), "continuation %q should carry the indent", cont)
	}
	// Nothing is lost across the wrap.
	assert.Equal(t, strings.ReplaceAll(raw, " ", ""), strings.ReplaceAll(strings.Join(segs, ""), " ", ""))
}

func TestInjectBackground(t *testing.T) {
	assert.Equal(t, "plain", injectBackground("plain", ""))

	got := injectBackground("a"+ansiReset+"b", "BG")
	assert.Equal(t, "BGa"+ansiReset+"BGb", got)
}

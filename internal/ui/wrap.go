package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ansiReset = "\033[0m"

// injectBackground replaces ANSI resets with reset+background so a row
// keeps its background color across highlighted segments.
func injectBackground(s string, bgCode string) string {
	if bgCode == "" {
		return s
	}
	return bgCode + strings.ReplaceAll(s, ansiReset, ansiReset+bgCode)
}

// countLeadingSpaces measures indent, treating a tab as 4 columns.
func countLeadingSpaces(s string) int {
	count := 0
	for _, r := range s {
		if r == ' ' {
			count++
		} else if r == '\t' {
			count += 4
		} else {
			break
		}
	}
	return count
}

func runeVisualWidth(r rune) int {
	if r == '\t' {
		return 4
	}
	return runewidth.RuneWidth(r)
}

// visibleWidth returns visual column width, ignoring ANSI sequences.
func visibleWidth(s string) int {
	width := 0
	i := 0
	for i < len(s) {
		if isANSIStart(s, i) {
			i = skipANSI(s, i)
			continue
		}
		r, size := decodeRune(s, i)
		width += runeVisualWidth(r)
		i += size
	}
	return width
}

func decodeRune(s string, i int) (rune, int) {
	if i >= len(s) {
		return 0, 0
	}
	r := rune(s[i])
	if r < 0x80 {
		return r, 1
	}
	var size int
	if r&0xE0 == 0xC0 {
		size = 2
	} else if r&0xF0 == 0xE0 {
		size = 3
	} else if r&0xF8 == 0xF0 {
		size = 4
	} else {
		return r, 1
	}
	if i+size > len(s) {
		return r, 1
	}
	runes := []rune(s[i : i+size])
	if len(runes) > 0 {
		return runes[0], size
	}
	return r, 1
}

func isANSIStart(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}
	return s[i] == 0x1b && s[i+1] == '['
}

func skipANSI(s string, i int) int {
	if !isANSIStart(s, i) {
		return i + 1
	}
	j := i + 2
	for j < len(s) {
		b := s[j]
		if b >= 0x40 && b <= 0x7E {
			return j + 1
		}
		j++
	}
	return j
}

// sliceANSIAware cuts s at maxWidth visible columns. It returns the
// slice, the remainder, and any ANSI codes still active at the cut so
// the continuation can reopen them.
func sliceANSIAware(s string, maxWidth int) (content string, remainder string, activeANSI string) {
	if maxWidth <= 0 {
		return "", s, ""
	}

	var result strings.Builder
	var currentANSI strings.Builder
	width := 0
	i := 0
	cutPoint := -1

	for i < len(s) && width < maxWidth {
		if isANSIStart(s, i) {
			start := i
			i = skipANSI(s, i)
			seq := s[start:i]
			result.WriteString(seq)
			if seq == ansiReset {
				currentANSI.Reset()
			} else {
				currentANSI.WriteString(seq)
			}
			continue
		}

		r, size := decodeRune(s, i)
		rw := runeVisualWidth(r)

		if width+rw > maxWidth {
			cutPoint = i
			break
		}

		result.WriteString(s[i : i+size])
		width += rw
		i += size
	}

	if cutPoint == -1 {
		cutPoint = i
	}

	content = result.String()
	if currentANSI.Len() > 0 {
		content += ansiReset
		activeANSI = currentANSI.String()
	}

	if cutPoint < len(s) {
		remainder = s[cutPoint:]
	}

	return content, remainder, activeANSI
}

// wrapLine splits one (possibly ANSI-highlighted) line into segments of
// at most contentWidth columns, with a hanging indent taken from the
// raw line's leading whitespace.
func wrapLine(line string, rawLine string, contentWidth int) []string {
	if contentWidth < 10 {
		contentWidth = 10
	}

	hangingIndent := countLeadingSpaces(rawLine)
	if hangingIndent > contentWidth/2 {
		hangingIndent = contentWidth / 2
	}
	indent := strings.Repeat(" ", hangingIndent)

	var segments []string
	remaining := line
	activeANSI := ""

	for i := 0; ; i++ {
		if activeANSI != "" && i > 0 {
			remaining = activeANSI + remaining
		}

		avail := contentWidth
		if i > 0 && hangingIndent > 0 {
			avail = contentWidth - hangingIndent
			if avail < 10 {
				avail = 10
			}
		}

		content, rest, nextANSI := sliceANSIAware(remaining, avail)
		if i > 0 && hangingIndent > 0 {
			content = indent + content
		}
		segments = append(segments, content)

		if rest == "" {
			break
		}
		remaining = rest
		activeANSI = nextANSI
	}

	return segments
}

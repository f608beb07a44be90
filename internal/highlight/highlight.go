// Package highlight applies chroma syntax highlighting to diff line
// content. It never fails: anything it cannot highlight comes back as
// plain text.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight renders source with ANSI colors, picking a lexer from the
// filename. Unknown file types pass through unchanged.
func Highlight(filename, source, styleName string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatters.Get("terminal256").Format(&buf, style, it); err != nil {
		return source
	}
	return buf.String()
}

// Lines highlights source and returns it split per line, aligned with
// the raw line split of the same text. Carriage returns are stripped
// so CRLF sources line up with their LF-normalized diff lines.
func Lines(filename, source, styleName string) []string {
	highlighted := splitLines(Highlight(filename, source, styleName))
	raw := splitLines(source)
	// A formatter that changes the line count cannot be trusted for
	// per-line alignment; fall back to the raw lines.
	if len(highlighted) != len(raw) {
		return raw
	}
	return highlighted
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Highlighting may leave ANSI codes after the \r, so a suffix
		// trim is not enough.
		lines[i] = strings.ReplaceAll(line, "\r", "")
	}
	return lines
}

// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Capped output capture and terminal escape scrubbing

package executor

import (
	"bytes"
	"regexp"
	"strings"
)

// cappedBuffer captures a stream up to a byte limit. Writes past the
// limit are counted as consumed but dropped, so a pathological tool
// cannot grow memory without bound. Hitting the cap sets truncated.
type cappedBuffer struct {
	limit     int
	buf       bytes.Buffer
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.limit > 0 && b.buf.Len()+n > b.limit {
		b.truncated = true
		keep := b.limit - b.buf.Len()
		if keep > 0 {
			b.buf.Write(p[:keep])
		}
		return n, nil
	}
	b.buf.Write(p)
	return n, nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

var (
	ansiEscape   = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)
	controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// boxDrawing maps the Unicode characters terraform uses for diagnostics
// framing to ASCII so results stay readable in plain-text callers.
var boxDrawing = strings.NewReplacer(
	"─", "-", "│", "|", "└", "+", "┘", "+",
	"═", "-", "║", "|", "╔", "+", "╗", "+",
	"╚", "+", "╝", "+", "╬", "+", "█", "#",
	"●", "*", "╴", "-", "╶", "-", "╵", "|", "╷", "|",
)

// Scrub removes ANSI escape sequences and control characters from tool
// output and flattens box-drawing glyphs to ASCII.
func Scrub(text string) string {
	if text == "" {
		return text
	}
	text = ansiEscape.ReplaceAllString(text, "")
	text = controlChars.ReplaceAllString(text, "")
	return boxDrawing.Replace(text)
}

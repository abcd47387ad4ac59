package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// offsetToPosition converts a byte offset in content to an LSP position,
// whose character counts UTF-16 code units.
func offsetToPosition(content string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(content))
	before := content[:offset]

	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1

	return protocol.Position{
		Line:      uint32(line),                         //nolint:gosec // bounded by content length
		Character: uint32(utf16Len(before[lineStart:])), //nolint:gosec // bounded by content length
	}
}

// errorRange covers the character at offset, or is empty at a line end or
// the end of the document.
func errorRange(content string, offset int) protocol.Range {
	start := offsetToPosition(content, offset)

	if offset < 0 || offset >= len(content) {
		return protocol.Range{Start: start, End: start}
	}

	r, _ := utf8.DecodeRuneInString(content[offset:])
	if r == '\n' || r == '\r' {
		return protocol.Range{Start: start, End: start}
	}

	end := start
	end.Character += uint32(utf16.RuneLen(r)) //nolint:gosec // 1 or 2

	return protocol.Range{Start: start, End: end}
}

// documentEnd is the position just past the last character of content.
func documentEnd(content string) protocol.Position {
	return offsetToPosition(content, len(content))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}

	return n
}

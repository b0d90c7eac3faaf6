package main

import (
	"strings"
	"unicode"
)

// countLines splits decoded text on universal newlines (\n, \r\n and \r) and
// returns the number of lines and how many of them are non-blank.
// A trailing terminator does not start a new line: "a\n" is one line, "" is none.
func countLines(text string) (total, nonBlank int) {
	for len(text) > 0 {
		var line string
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			line, text = text, ""
		} else {
			line = text[:i]
			next := i + 1
			if text[i] == '\r' && next < len(text) && text[next] == '\n' {
				next++
			}
			text = text[next:]
		}

		total++
		if !isBlank(line) {
			nonBlank++
		}
	}
	return total, nonBlank
}

// isBlank reports whether line is empty after trimming whitespace. The file,
// group, record and unit separators count as whitespace too.
func isBlank(line string) bool {
	return strings.TrimFunc(line, isBlankRune) == ""
}

func isBlankRune(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

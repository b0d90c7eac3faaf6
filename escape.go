package main

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var errMalformedEscape = errors.New("malformed backslash escape")

// decodeUnicodeEscape reads data as Latin-1 text in which backslash escapes
// stand for the characters they name. Escapes that are cut short or out of
// range make the whole decode fail; unknown escapes are kept as written.
func decodeUnicodeEscape(data []byte) (string, error) {
	raw, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return unescape(string(raw))
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if i == len(rs) {
			return "", errMalformedEscape // \ at end of input
		}

		switch c := rs[i]; c {
		case '\n':
			// line continuation
		case '\\', '\'', '"':
			b.WriteRune(c)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := 0, 0
			for n < 3 && i+n < len(rs) && rs[i+n] >= '0' && rs[i+n] <= '7' {
				v = v*8 + int(rs[i+n]-'0')
				n++
			}
			i += n - 1
			writeCodePoint(&b, v)
		case 'x', 'u', 'U':
			width := 2
			if c == 'u' {
				width = 4
			} else if c == 'U' {
				width = 8
			}
			v, ok := parseHex(rs[i+1:], width)
			if !ok || v > utf8.MaxRune {
				return "", errMalformedEscape
			}
			i += width
			writeCodePoint(&b, v)
		case 'N':
			end := closingBrace(rs, i+1)
			if end < 0 {
				return "", errMalformedEscape
			}
			// Character names are not resolved; only the shape is checked.
			b.WriteRune(utf8.RuneError)
			i = end
		default:
			b.WriteByte('\\')
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

// parseHex reads exactly width hex digits from the start of rs.
func parseHex(rs []rune, width int) (int, bool) {
	if len(rs) < width {
		return 0, false
	}
	v := 0
	for _, r := range rs[:width] {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= 'a' && r <= 'f':
			d = int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int(r-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

// closingBrace returns the index of the '}' closing a non-empty "{name}" that
// starts at rs[start], or -1.
func closingBrace(rs []rune, start int) int {
	if start >= len(rs) || rs[start] != '{' {
		return -1
	}
	for j := start + 1; j < len(rs); j++ {
		if rs[j] == '}' {
			if j == start+1 {
				return -1
			}
			return j
		}
	}
	return -1
}

// writeCodePoint writes v, substituting U+FFFD for surrogates which Go strings
// cannot carry.
func writeCodePoint(b *strings.Builder, v int) {
	r := rune(v)
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	b.WriteRune(r)
}

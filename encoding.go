package main

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	errInvalidSequence = errors.New("invalid byte sequence")
	errTruncated       = errors.New("truncated input")
	errBinaryContent   = errors.New("decoded text contains control characters")
)

// textDecoder is one attempt in the fallback chain. decode must not have side
// effects so a failed attempt leaves nothing behind.
type textDecoder struct {
	name   string
	decode func(data []byte) (string, error)

	// rejectControls applies checkText to the output. Set for decoders that
	// accept any byte sequence and would otherwise never fail.
	rejectControls bool
}

// decoders is tried in order; the first one that yields text wins.
var decoders = []textDecoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "ascii", decode: decodeASCII},
	{name: "unicode-escape", decode: decodeUnicodeEscape, rejectControls: true},
	{name: "latin-1", decode: decodeLatin1, rejectControls: true},
	{name: "utf-32", decode: decodeUTF32},
	{name: "utf-16", decode: decodeUTF16},
}

// decodeAttempt records why a decoder rejected the input.
type decodeAttempt struct {
	Encoding string
	Err      error
}

// decodeText runs data through the fallback chain. It returns the decoded text
// and the name of the encoding that produced it, or ok=false together with the
// reason every attempt failed.
func decodeText(data []byte) (text, enc string, attempts []decodeAttempt, ok bool) {
	for _, d := range decoders {
		s, err := d.decode(data)
		if err == nil && d.rejectControls {
			err = checkText(s)
		}
		if err == nil {
			return s, d.name, attempts, true
		}
		attempts = append(attempts, decodeAttempt{Encoding: d.name, Err: err})
	}
	return "", "", attempts, false
}

// checkText rejects decoded output carrying C0 controls that never show up in
// text files. Tab, LF, VT, FF, CR and ESC are allowed.
func checkText(s string) error {
	for _, r := range s {
		if r >= 0x20 {
			continue
		}
		switch r {
		case '\t', '\n', '\v', '\f', '\r', 0x1b:
			continue
		}
		return errBinaryContent
	}
	return nil
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errInvalidSequence
	}
	return string(data), nil
}

func decodeASCII(data []byte) (string, error) {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return "", errInvalidSequence
		}
	}
	return string(data), nil
}

func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var (
	utf32BOMLE = []byte{0xff, 0xfe, 0x00, 0x00}
	utf32BOMBE = []byte{0x00, 0x00, 0xfe, 0xff}
	utf16BOMLE = []byte{0xff, 0xfe}
	utf16BOMBE = []byte{0xfe, 0xff}
)

func decodeUTF32(data []byte) (string, error) {
	if len(data)%4 != 0 {
		return "", errTruncated
	}
	order, body := utf32.LittleEndian, data
	switch {
	case bytes.HasPrefix(data, utf32BOMLE):
		body = data[4:]
	case bytes.HasPrefix(data, utf32BOMBE):
		order, body = utf32.BigEndian, data[4:]
	}
	return strictDecode(utf32.UTF32(order, utf32.IgnoreBOM), body)
}

func decodeUTF16(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errTruncated
	}
	order, body := xunicode.LittleEndian, data
	switch {
	case bytes.HasPrefix(data, utf16BOMLE):
		body = data[2:]
	case bytes.HasPrefix(data, utf16BOMBE):
		order, body = xunicode.BigEndian, data[2:]
	}
	return strictDecode(xunicode.UTF16(order, xunicode.IgnoreBOM), body)
}

// strictDecode decodes body with enc and fails if the decoder had to
// substitute anything. The x/text decoders replace invalid units with U+FFFD
// instead of failing, so the result is encoded again and compared.
func strictDecode(enc encoding.Encoding, body []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidSequence, err)
	}
	back, err := enc.NewEncoder().Bytes(out)
	if err != nil || !bytes.Equal(back, body) {
		return "", errInvalidSequence
	}
	return string(out), nil
}

package source

// streaming.go cleans up byte streams before they reach the CSV parser.
//
// Evaluation exports saved from Excel on Windows often start with a UTF-8
// byte order mark and occasionally carry Latin-1 instructor names. Both are
// handled on the fly so a file is never held in memory:
//
//   - bomReader drops a leading 0xEF 0xBB 0xBF
//   - utf8Sanitizer replaces each invalid byte with '?'
//
// Sanitize applies both in the right order.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomReader skips a UTF-8 byte order mark at the start of the stream.
type bomReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	return &bomReader{r: bufio.NewReader(r)}
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err == nil && string(head) == string(utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// utf8Sanitizer rewrites invalid UTF-8 as '?' without changing the length of
// valid input. A multi-byte rune split across two reads is carried over.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

// NewUTF8Sanitizer returns a reader producing valid UTF-8 only.
func NewUTF8Sanitizer(r io.Reader) io.Reader {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// sanitize fixes data in place and returns how many bytes are ready. When
// more input may follow, a truncated rune at the end is held back.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if asciiOnly(data) {
		return len(data)
	}

	w := 0
	for r := 0; r < len(data); {
		if !atEOF && !utf8.FullRune(data[r:]) {
			s.pending = append(s.pending, data[r:]...)
			return w
		}

		ch, size := utf8.DecodeRune(data[r:])
		if ch == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		w += copy(data[w:], data[r:r+size])
		r += size
	}
	return w
}

func asciiOnly(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Sanitize strips a BOM and then replaces invalid UTF-8.
func Sanitize(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}

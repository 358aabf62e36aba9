package buffer

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// Errors returned by document operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

type listener struct {
	id int
	fn func()
}

// Document is the full text being edited.
type Document struct {
	text  string
	runes int
	lines int

	version       uint64
	lineEnding    LineEnding
	lineEndingSet bool

	listeners []listener
	nextID    int
}

// NewDocument creates a new empty document.
func NewDocument(opts ...Option) *Document {
	d := &Document{lines: 1, version: 1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDocumentFromString creates a document with initial content. The line
// ending of s is detected unless WithLineEnding is given.
func NewDocumentFromString(s string, opts ...Option) *Document {
	d := NewDocument(opts...)
	if !d.lineEndingSet {
		d.lineEnding = DetectLineEnding(s)
	}
	d.store(normalizeLineEndings(s))
	return d
}

// NewDocumentFromReader creates a document from an io.Reader.
func NewDocumentFromReader(r io.Reader, opts ...Option) (*Document, error) {
	// Read all content first so CRLF pairs split across reads normalize
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewDocumentFromString(string(data), opts...), nil
}

// normalizeLineEndings converts "\r\n" and '\r' to '\n'.
func normalizeLineEndings(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// Len returns the length of the document in runes.
func (d *Document) Len() int {
	return d.runes
}

// IsEmpty returns true if the document has no text.
func (d *Document) IsEmpty() bool {
	return d.text == ""
}

// LineCount returns the number of lines: one more than the number of '\n'.
func (d *Document) LineCount() int {
	return d.lines
}

// Version returns a number that increases with every edit.
func (d *Document) Version() uint64 {
	return d.version
}

// LineEnding returns the line ending WriteTo writes.
func (d *Document) LineEnding() LineEnding {
	return d.lineEnding
}

// RuneAt returns the rune at a rune offset.
func (d *Document) RuneAt(offset int) (rune, bool) {
	if offset < 0 || offset >= d.runes {
		return utf8.RuneError, false
	}
	i := d.byteOffset(offset)
	r, _ := utf8.DecodeRuneInString(d.text[i:])
	return r, true
}

// Slice returns the text between two rune offsets.
func (d *Document) Slice(start, end int) (string, error) {
	if start < 0 || start > end || end > d.runes {
		return "", ErrRangeInvalid
	}
	return d.text[d.byteOffset(start):d.byteOffset(end)], nil
}

// OffsetToPoint converts a rune offset to line/column. Offsets are clamped
// to the document.
func (d *Document) OffsetToPoint(offset int) Point {
	offset = min(max(offset, 0), d.runes)
	prefix := d.text[:d.byteOffset(offset)]
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Point{
		Line:   strings.Count(prefix, "\n"),
		Column: utf8.RuneCountInString(prefix[lineStart:]),
	}
}

// PointToOffset converts line/column to a rune offset. Lines are clamped
// to the document and columns to the line length.
func (d *Document) PointToOffset(p Point) int {
	start, end := d.lineBounds(p.Line)
	col := min(max(p.Column, 0), utf8.RuneCountInString(d.text[start:end]))
	return utf8.RuneCountInString(d.text[:start]) + col
}

// LineLen returns the number of runes in a line (0-indexed), excluding the
// terminator. Lines are clamped to the document.
func (d *Document) LineLen(line int) int {
	start, end := d.lineBounds(line)
	return utf8.RuneCountInString(d.text[start:end])
}

// lineBounds returns the byte range of a line without its terminator.
func (d *Document) lineBounds(line int) (start, end int) {
	line = min(max(line, 0), d.lines-1)
	for ; line > 0; line-- {
		start += strings.IndexByte(d.text[start:], '\n') + 1
	}
	end = len(d.text)
	if i := strings.IndexByte(d.text[start:], '\n'); i >= 0 {
		end = start + i
	}
	return start, end
}

// Write Operations

// Insert inserts text at a rune offset.
// Returns the offset just past the inserted text.
func (d *Document) Insert(offset int, text string) (int, error) {
	return d.Replace(offset, offset, text)
}

// Delete removes the text between two rune offsets.
func (d *Document) Delete(start, end int) error {
	_, err := d.Replace(start, end, "")
	return err
}

// Replace replaces the text between two rune offsets.
// Returns the offset just past the replacement text.
func (d *Document) Replace(start, end int, text string) (int, error) {
	if start < 0 || start > d.runes {
		return 0, ErrOffsetOutOfRange
	}
	if end < start || end > d.runes {
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	if start == end && text == "" {
		return start, nil
	}

	bs, be := d.byteOffset(start), d.byteOffset(end)
	d.store(d.text[:bs] + text + d.text[be:])
	d.changed()

	return start + utf8.RuneCountInString(text), nil
}

// SetText replaces the whole document.
func (d *Document) SetText(s string) {
	d.store(normalizeLineEndings(s))
	d.changed()
}

// WriteTo writes the document, converting '\n' back to the document's
// line ending.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	text := d.text
	if d.lineEnding != LineEndingLF {
		text = strings.ReplaceAll(text, "\n", d.lineEnding.Sequence())
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// Subscribe registers fn to run after every edit. The returned function
// removes it.
func (d *Document) Subscribe(fn func()) (unsubscribe func()) {
	id := d.nextID
	d.nextID++
	d.listeners = append(d.listeners, listener{id: id, fn: fn})

	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) store(text string) {
	d.text = text
	d.runes = utf8.RuneCountInString(text)
	d.lines = strings.Count(text, "\n") + 1
}

func (d *Document) changed() {
	d.version++
	// Listeners may unsubscribe while running
	for _, l := range append([]listener(nil), d.listeners...) {
		l.fn()
	}
}

// byteOffset converts a rune offset to a byte offset.
func (d *Document) byteOffset(runeOffset int) int {
	if d.runes == len(d.text) {
		// ASCII
		return runeOffset
	}
	n := 0
	for i := range d.text {
		if n == runeOffset {
			return i
		}
		n++
	}
	return len(d.text)
}

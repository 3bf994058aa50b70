package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Decoding errors. Callers receive them wrapped in a *ParseError carrying the offset.
var (
	ErrUnexpectedEOF = errors.New("unexpected end")
	ErrOverflow      = errors.New("leb128: integer representation too long")
	ErrInvalidUTF8   = errors.New("invalid UTF-8 in name")
)

// Reader reads WASM primitives from a byte slice while tracking the absolute
// offset of every read within the enclosing module.
type Reader struct {
	data    []byte
	section string
	pos     int
	base    int
}

// NewReader creates a Reader over data. base is the absolute offset of data[0]
// within the module so errors report module-relative positions.
func NewReader(data []byte, base int) *Reader {
	return &Reader{data: data, base: base}
}

// SetSection names the section being read. Errors returned afterwards carry it.
func (r *Reader) SetSection(name string) {
	r.section = name
}

// Position returns the current position relative to the start of the reader.
func (r *Reader) Position() int {
	return r.pos
}

// Offset returns the current absolute offset within the module.
func (r *Reader) Offset() int {
	return r.base + r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.errorAt(r.Offset(), ErrUnexpectedEOF)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, r.errorAt(r.Offset(), ErrUnexpectedEOF)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU32 reads an unsigned LEB128 encoded uint32.
func (r *Reader) ReadU32() (uint32, error) {
	start := r.Offset()
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b&0x70 != 0 {
			return 0, r.errorAt(start, ErrOverflow)
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, r.errorAt(start, ErrOverflow)
		}
	}
}

// ReadName reads a UTF-8 encoded name (length-prefixed byte sequence).
func (r *Reader) ReadName() (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	start := r.Offset()
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.errorAt(start, ErrInvalidUTF8)
	}
	return string(data), nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// Fail returns a ParseError at the current offset.
func (r *Reader) Fail(format string, args ...any) error {
	return r.errorAt(r.Offset(), fmt.Errorf(format, args...))
}

// FailAt returns a ParseError at an explicit absolute offset.
func (r *Reader) FailAt(offset int, format string, args ...any) error {
	return r.errorAt(offset, fmt.Errorf(format, args...))
}

func (r *Reader) errorAt(offset int, err error) error {
	return &ParseError{Position: offset, Section: r.section, Err: err}
}

// ParseError represents an error during binary parsing with position information.
type ParseError struct {
	Err      error
	Section  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("wasm: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("wasm: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

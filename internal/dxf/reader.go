package dxf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// binarySentinel is the magic string that opens a binary DXF file.
// Binary DXF is not supported; the reader reports it as a distinct error
// instead of failing on an unparseable group code.
const binarySentinel = "AutoCAD Binary DXF"

var errBinaryDXF = errors.New("binary DXF is not supported")

// tag is one group code / value pair.
type tag struct {
	code  int
	value string
}

func (t tag) is(code int, value string) bool {
	return t.code == code && t.value == value
}

// tagReader yields group code / value pairs from a DXF stream.
// Each tag occupies two lines: the group code, then the value.
// Comment tags (group code 999) are skipped. One tag of pushback is
// supported so entity parsers can stop at the next code-0 tag without
// consuming it.
type tagReader struct {
	scanner *bufio.Scanner
	line    int // number of the last line read, 1-based
	pushed  tag
	hasPush bool
}

func newTagReader(r io.Reader) *tagReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &tagReader{scanner: sc}
}

// next returns the next tag. It returns io.EOF at a clean end of input and
// a descriptive error for anything malformed.
func (r *tagReader) next() (tag, error) {
	if r.hasPush {
		r.hasPush = false
		return r.pushed, nil
	}
	for {
		codeLine, ok := r.readLine()
		if !ok {
			if err := r.scanner.Err(); err != nil {
				return tag{}, err
			}
			return tag{}, io.EOF
		}
		if r.line == 1 && strings.HasPrefix(codeLine, binarySentinel) {
			return tag{}, errBinaryDXF
		}
		code, err := strconv.Atoi(strings.TrimSpace(codeLine))
		if err != nil {
			return tag{}, fmt.Errorf("invalid group code %q", strings.TrimSpace(codeLine))
		}
		value, ok := r.readLine()
		if !ok {
			if err := r.scanner.Err(); err != nil {
				return tag{}, err
			}
			return tag{}, fmt.Errorf("group code %d has no value line", code)
		}
		if code == 999 {
			continue
		}
		return tag{code: code, value: value}, nil
	}
}

// push makes t the next tag returned by next. Only one tag can be pushed
// back at a time.
func (r *tagReader) push(t tag) {
	r.pushed = t
	r.hasPush = true
}

func (r *tagReader) readLine() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	r.line++
	return r.scanner.Text(), true
}

// floatValue parses a tag's value as a coordinate or scalar.
func floatValue(t tag) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.value), 64)
	if err != nil {
		return 0, fmt.Errorf("group code %d: invalid number %q", t.code, strings.TrimSpace(t.value))
	}
	return v, nil
}

// intValue parses a tag's value as an integer flag or count.
func intValue(t tag) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(t.value))
	if err != nil {
		return 0, fmt.Errorf("group code %d: invalid integer %q", t.code, strings.TrimSpace(t.value))
	}
	return v, nil
}

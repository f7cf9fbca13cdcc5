package dxf

import "fmt"

// ParseError reports a malformed or unreadable DXF file. Path is set when
// the file was opened by path, Line is the 1-based line number where the
// problem was detected (0 when it has no useful location), and Err is the
// underlying cause.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	msg := "invalid DXF file"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

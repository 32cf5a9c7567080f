package parser

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; use errors.As with *ParseError for
// the line number and message.
var (
	ErrSyntax            = errors.New("syntax error")
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
	ErrDetectionFailed   = errors.New("block detection failed")
	ErrInvalidIndex      = errors.New("invalid block index")
	ErrMissingParser     = errors.New("missing parser")
	ErrRenderFailed      = errors.New("render failed")
)

// ParseError carries the kind of failure plus its 0-based line (or -1 when
// no line applies) and a human readable message.
type ParseError struct {
	Kind    error
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.Kind == ErrInvalidIndex:
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Kind == ErrMissingParser:
		return fmt.Sprintf("%v for %s", e.Kind, e.Message)
	case e.Line >= 0:
		return fmt.Sprintf("%v at line %d: %s", e.Kind, e.Line, e.Message)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Is lets a missing parser also match ErrUnsupportedSyntax
func (e *ParseError) Is(target error) bool {
	return e.Kind == ErrMissingParser && target == ErrUnsupportedSyntax
}

// NewSyntaxError reports input a parser cannot interpret
func NewSyntaxError(line int, format string, args ...any) error {
	return &ParseError{Kind: ErrSyntax, Line: line, Message: fmt.Sprintf(format, args...)}
}

func detectionFailed(line int, format string, args ...any) error {
	return &ParseError{Kind: ErrDetectionFailed, Line: line, Message: fmt.Sprintf(format, args...)}
}

func invalidIndex(index, count int) error {
	return &ParseError{
		Kind:    ErrInvalidIndex,
		Line:    -1,
		Message: fmt.Sprintf("index %d out of range for %d blocks", index, count),
	}
}

func missingParser(kind SyntaxKind) error {
	return &ParseError{Kind: ErrMissingParser, Line: -1, Message: kind.Name()}
}

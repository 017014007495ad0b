// Package errors holds the sentinel errors and the contextual error types
// shared by termchess packages. A rejected move or position is an ordinary
// result: callers test it with Is or As and keep the previous position.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFEN        = errors.New("invalid FEN string")
	ErrMissingKing       = errors.New("position is missing a king")
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidPromotion  = errors.New("invalid promotion")
	ErrInvalidMoveToken  = errors.New("invalid move token")
	ErrInvalidSAN        = errors.New("invalid SAN move")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrEngineUnavailable = errors.New("engine unavailable")
	ErrEngineProtocol    = errors.New("engine protocol error")
	ErrGameNotFound      = errors.New("saved game not found")

	// ErrCorruptHistory marks a history log with no starting position.
	ErrCorruptHistory = errors.New("corrupt history log")

	// ErrCQLSyntax marks a position query that does not parse.
	ErrCQLSyntax = errors.New("CQL syntax error")
)

// render joins the non-empty context fields and appends the cause.
// fallback is used when there is nothing else to say.
func render(fields []string, cause error, fallback string) string {
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f)
	}
	switch {
	case cause != nil && b.Len() > 0:
		b.WriteString(": ")
		b.WriteString(cause.Error())
	case cause != nil:
		return cause.Error()
	case b.Len() == 0:
		return fallback
	}
	return b.String()
}

// MoveError locates a rejected move: the 1-based ply it was tried at, its
// text and the FEN it was played from. Zero fields are left out of the
// message.
type MoveError struct {
	Err      error
	Ply      int
	MoveText string
	FEN      string
	Source   string
}

func (e *MoveError) Error() string {
	var ply, move, fen string
	if e.Ply > 0 {
		ply = fmt.Sprintf("ply %d", e.Ply)
	}
	if e.MoveText != "" {
		move = fmt.Sprintf("move %q", e.MoveText)
	}
	if e.FEN != "" {
		fen = fmt.Sprintf("position %q", e.FEN)
	}
	return render([]string{e.Source, ply, move, fen}, e.Err, "move error")
}

func (e *MoveError) Unwrap() error { return e.Err }

// ParseError locates a syntax error in a file or stream.
type ParseError struct {
	Err      error
	File     string
	Line     int // 1-based
	Column   int // 1-based
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	return render([]string{e.location(), e.detail()}, e.Err, "parse error")
}

// location formats file:line:col, or "line N" without a file name.
func (e *ParseError) location() string {
	if e.File == "" {
		if e.Line > 0 {
			return fmt.Sprintf("line %d", e.Line)
		}
		return ""
	}
	loc := e.File
	if e.Line > 0 {
		loc += fmt.Sprintf(":%d", e.Line)
		if e.Column > 0 {
			loc += fmt.Sprintf(":%d", e.Column)
		}
	}
	return loc
}

func (e *ParseError) detail() string {
	switch {
	case e.Expected != "" && e.Got != "":
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	case e.Expected != "":
		return "expected " + e.Expected
	case e.Got != "":
		return "unexpected " + e.Got
	}
	return ""
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is and As forward to the standard library so that importing this
// package as errors does not hide them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

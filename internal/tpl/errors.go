// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tpl

import (
	"errors"
	"fmt"
)

// Syntax error causes, matched with errors.Is.
var (
	ErrUnterminatedSection    = errors.New("tpl: unterminated section name")
	ErrUnterminatedExpression = errors.New("tpl: unterminated expression")
	ErrUnmatchedEnd           = errors.New("tpl: end without open block")
	ErrUnclosedBlock          = errors.New("tpl: block never closed")
)

// SyntaxError reports malformed template text. Pos is the byte offset of
// the offending delimiter.
type SyntaxError struct {
	Template string
	Pos      int
	Err      error
}

func (e *SyntaxError) Error() string {
	var msg string
	switch e.Err {
	case ErrUnterminatedSection:
		msg = fmt.Sprintf("section name starting at position %d never ends", e.Pos)
	case ErrUnterminatedExpression:
		msg = fmt.Sprintf("expression starting at position %d never ends", e.Pos)
	case ErrUnmatchedEnd:
		msg = fmt.Sprintf("{{end}} at position %d does not close any {{foreach}} or {{if}}", e.Pos)
	case ErrUnclosedBlock:
		msg = fmt.Sprintf("block starting at position %d is never closed by {{end}}", e.Pos)
	default:
		msg = fmt.Sprintf("%v at position %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("syntax error in template %s: %s", e.Template, msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

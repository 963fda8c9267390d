// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tpl

import (
	"fmt"
	"io"
	"strings"
)

const (
	sectionOpen  = "[["
	sectionClose = "]]"
	exprOpen     = "{{"
	exprClose    = "}}"

	foreachPrefix = "foreach "
	ifPrefix      = "if "
	endDirective  = "end"
)

// Generator evaluates the expressions and drives the iterators a template
// refers to. Unknown names must be reported as errors.
type Generator interface {
	// ProcessExpression writes the value of the named expression to w.
	ProcessExpression(name string, w io.Writer) error
	// ResetIterator moves the named iterator to its first step.
	ResetIterator(name string) error
	// StepIterator advances the named iterator.
	StepIterator(name string) error
	// IteratorEnded reports whether the named iterator has no current step.
	IteratorEnded(name string) (bool, error)
}

// Options configures template generation.
type Options struct {
	// Name labels syntax errors, usually the template file path.
	Name string
}

// Generate renders one section of the template text.
func Generate(text, section string, g Generator) (string, error) {
	return GenerateWithOptions(text, section, g, Options{})
}

// GenerateWithOptions renders one section of the template text. A missing
// section is not an error: a warning is logged and the result is empty.
func GenerateWithOptions(text, section string, g Generator, opts Options) (string, error) {
	start, end, found, err := findSection(text, section, opts.Name)
	if err != nil {
		return "", err
	}
	if !found {
		slogger().Warn("Template does not contain any section named [[" + section + "]]", "template", opts.Name)
		return "", nil
	}
	r := &renderer{text: text, end: end, gen: g, name: opts.Name}
	if err := r.run(start); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

// findSection returns the body bounds of the first section with the given
// name.
func findSection(text, section, name string) (start, end int, found bool, err error) {
	pos := 0
	for {
		open := strings.Index(text[pos:], sectionOpen)
		if open < 0 {
			return 0, 0, false, nil
		}
		open += pos
		closeRel := strings.Index(text[open+len(sectionOpen):], sectionClose)
		if closeRel < 0 {
			return 0, 0, false, &SyntaxError{Template: name, Pos: open, Err: ErrUnterminatedSection}
		}
		nameEnd := open + len(sectionOpen) + closeRel
		pos = nameEnd + len(sectionClose)
		if text[open+len(sectionOpen):nameEnd] != section {
			continue
		}
		end = len(text)
		if next := strings.Index(text[pos:], sectionOpen); next >= 0 {
			end = pos + next
		}
		return pos, end, true, nil
	}
}

// frame is an open foreach or if block.
type frame struct {
	iterator   string
	loopStart  int
	parentEmit bool
	isLoop     bool
	openPos    int
}

type renderer struct {
	text  string
	end   int
	gen   Generator
	name  string
	out   strings.Builder
	stack []frame
	emit  bool
}

func (r *renderer) run(pos int) error {
	r.emit = true
	for {
		rel := strings.Index(r.text[pos:r.end], exprOpen)
		if rel < 0 {
			r.write(r.text[pos:r.end])
			break
		}
		open := pos + rel
		closeRel := strings.Index(r.text[open+len(exprOpen):r.end], exprClose)
		if closeRel < 0 {
			return &SyntaxError{Template: r.name, Pos: open, Err: ErrUnterminatedExpression}
		}
		r.write(r.text[pos:open])
		exprEnd := open + len(exprOpen) + closeRel
		expr := strings.TrimSpace(r.text[open+len(exprOpen) : exprEnd])
		pos = exprEnd + len(exprClose)

		next, err := r.directive(expr, open, pos)
		if err != nil {
			return err
		}
		pos = next
	}
	if n := len(r.stack); n > 0 {
		return &SyntaxError{Template: r.name, Pos: r.stack[n-1].openPos, Err: ErrUnclosedBlock}
	}
	return nil
}

// directive executes one {{...}} directive found at open and returns the
// position to continue scanning from.
func (r *renderer) directive(expr string, open, pos int) (int, error) {
	if name, ok := strings.CutPrefix(expr, foreachPrefix); ok {
		return pos, r.push(strings.TrimSpace(name), true, open, pos)
	}
	if name, ok := strings.CutPrefix(expr, ifPrefix); ok {
		return pos, r.push(strings.TrimSpace(name), false, open, pos)
	}
	if expr == endDirective {
		return r.pop(open, pos)
	}
	if !r.emit {
		return pos, nil
	}
	if err := r.gen.ProcessExpression(expr, &r.out); err != nil {
		return 0, r.wrap(open, err)
	}
	return pos, nil
}

func (r *renderer) push(iterator string, isLoop bool, open, bodyStart int) error {
	f := frame{
		iterator:   iterator,
		loopStart:  bodyStart,
		parentEmit: r.emit,
		isLoop:     isLoop,
		openPos:    open,
	}
	r.stack = append(r.stack, f)
	if !r.emit {
		return nil
	}
	if err := r.gen.ResetIterator(iterator); err != nil {
		return r.wrap(open, err)
	}
	ended, err := r.gen.IteratorEnded(iterator)
	if err != nil {
		return r.wrap(open, err)
	}
	r.emit = !ended
	return nil
}

func (r *renderer) pop(open, pos int) (int, error) {
	n := len(r.stack)
	if n == 0 {
		return 0, &SyntaxError{Template: r.name, Pos: open, Err: ErrUnmatchedEnd}
	}
	top := r.stack[n-1]
	if r.emit && top.isLoop {
		if err := r.gen.StepIterator(top.iterator); err != nil {
			return 0, r.wrap(open, err)
		}
		ended, err := r.gen.IteratorEnded(top.iterator)
		if err != nil {
			return 0, r.wrap(open, err)
		}
		if !ended {
			return top.loopStart, nil
		}
	}
	r.emit = top.parentEmit
	r.stack = r.stack[:n-1]
	return pos, nil
}

func (r *renderer) write(s string) {
	if r.emit {
		r.out.WriteString(s)
	}
}

func (r *renderer) wrap(pos int, err error) error {
	return fmt.Errorf("template %s at position %d: %w", r.name, pos, err)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/kernelgen/internal/textio"
)

const includeDirective = "#include"

// lineOrigin is the file and 1-based line an expanded line came from.
type lineOrigin struct {
	file string
	line int
}

// expansion is the result of resolving #include directives.
type expansion struct {
	source  string
	origins []lineOrigin
	// files lists the root file and every included file in first-visit order.
	files []string
}

type expander struct {
	searchDirs []string
	seen       map[string]bool
	out        strings.Builder
	exp        expansion
}

// expandIncludes reads path and splices in the files it includes. A
// failure to read path itself is returned unwrapped.
func (s *Session) expandIncludes(path string) (*expansion, error) {
	e := &expander{
		searchDirs: s.includeDirs,
		seen:       make(map[string]bool),
	}
	src, err := textio.Load(path)
	if err != nil {
		return nil, err
	}
	e.markSeen(path)
	if err := e.expand(path, src); err != nil {
		return nil, fmt.Errorf("load shader module %s: %w", path, err)
	}
	e.exp.source = e.out.String()
	return &e.exp, nil
}

func (e *expander) markSeen(path string) {
	e.seen[canonicalPath(path)] = true
	e.exp.files = append(e.exp.files, path)
}

func (e *expander) expand(path, src string) error {
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		name, ok, err := parseInclude(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		if !ok {
			e.emit(line, path, i+1)
			continue
		}
		resolved, err := e.resolve(path, name)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		if e.seen[canonicalPath(resolved)] {
			e.emit("// "+strings.TrimSpace(line)+" (already included)", path, i+1)
			continue
		}
		e.emit("// "+strings.TrimSpace(line), path, i+1)
		e.markSeen(resolved)
		slogger().Debug("include expanded", "from", path, "line", i+1, "file", resolved)
		included, err := textio.Load(resolved)
		if err != nil {
			return err
		}
		if err := e.expand(resolved, included); err != nil {
			return err
		}
	}
	return nil
}

func (e *expander) emit(line, file string, n int) {
	e.out.WriteString(line)
	e.out.WriteByte('\n')
	e.exp.origins = append(e.exp.origins, lineOrigin{file: file, line: n})
}

// resolve finds an included file next to the including file first, then in
// the search directories in order.
func (e *expander) resolve(from, name string) (string, error) {
	if filepath.IsAbs(name) {
		if isFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("cannot find included file %q", name)
	}
	candidates := make([]string, 0, len(e.searchDirs)+1)
	candidates = append(candidates, filepath.Join(filepath.Dir(from), name))
	for _, dir := range e.searchDirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, c := range candidates {
		if isFile(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("cannot find included file %q", name)
}

// parseInclude reports whether line is an include directive and returns the
// quoted file name.
func parseInclude(line string) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, includeDirective) {
		return "", false, nil
	}
	rest := strings.TrimSpace(trimmed[len(includeDirective):])
	if len(rest) < 2 || rest[0] != '"' {
		return "", false, fmt.Errorf("malformed include directive %q", trimmed)
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return "", false, fmt.Errorf("malformed include directive %q", trimmed)
	}
	name := rest[1 : end+1]
	if name == "" {
		return "", false, fmt.Errorf("empty include path in %q", trimmed)
	}
	return name, true, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// diagnosticLine matches the two position formats naga reports:
// "line 12, column 5: ..." and "12:5: ...".
var diagnosticLine = regexp.MustCompile(`line (\d+), column \d+|(?:^|\s)(\d+):\d+:`)

// locate maps a diagnostic's line in the expanded source back to the file
// it came from. It returns an empty string when the diagnostic has no
// position or the expansion had no includes.
func (x *expansion) locate(err error) string {
	if len(x.files) < 2 {
		return ""
	}
	m := diagnosticLine.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, convErr := strconv.Atoi(digits)
	if convErr != nil || n < 1 || n > len(x.origins) {
		return ""
	}
	o := x.origins[n-1]
	return fmt.Sprintf(" (at %s:%d)", o.file, o.line)
}

package lexer

import (
	"strings"
)

// scanner tracks bracket depth and open triple-quoted strings across lines.
type scanner struct {
	depth  int
	triple string
}

func (s *scanner) feed(line string) {
	for i := 0; i < len(line); i++ {
		if s.triple != "" {
			if strings.HasPrefix(line[i:], s.triple) {
				i += len(s.triple) - 1
				s.triple = ""
			}
			continue
		}
		c := line[i]
		switch c {
		case '#':
			return
		case '"', '\'':
			if quotes := strings.Repeat(string(c), 3); strings.HasPrefix(line[i:], quotes) {
				s.triple = quotes
				i += 2
				continue
			}
			j := i + 1
			for j < len(line) && line[j] != c {
				if line[j] == '\\' {
					j++
				}
				j++
			}
			i = j
		case '(', '[', '{':
			s.depth++
		case ')', ']', '}':
			s.depth--
		}
	}
}

func (s *scanner) open() bool {
	return s.depth > 0 || s.triple != ""
}

func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

func isBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == ""
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && isBlank(lines[end-1]) {
		end--
	}
	return lines[:end]
}

// dedent removes the indentation of the body statements. Lines that start
// inside a triple-quoted string and comment-only lines do not count towards
// the indent, and a line indented less than that is kept as is.
func dedent(lines []string) []string {
	s := &scanner{}
	indent := -1
	for _, line := range lines {
		inString := s.triple != ""
		s.feed(line)
		if inString || isBlank(line) || isComment(line) {
			continue
		}
		if n := indentOf(line); indent == -1 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		indent = 0
	}
	ret := make([]string, len(lines))
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		if indentOf(line) >= indent {
			line = line[indent:]
		}
		ret[i] = strings.TrimRight(line, " \t\r")
	}
	return ret
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// trimReturn drops the trailing top-level return statement of a cell body,
// including any continuation lines of that statement.
func trimReturn(lines []string) []string {
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if line == "" || isIndented(line) || isComment(line) {
			continue
		}
		if isReturn(line) {
			return trimTrailingBlank(lines[:i])
		}
		if !startsWithCloser(line) {
			return lines
		}
	}
	return lines
}

func isReturn(line string) bool {
	if !strings.HasPrefix(line, "return") {
		return false
	}
	rest := line[len("return"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '(' || rest[0] == '\t'
}

func startsWithCloser(line string) bool {
	switch line[0] {
	case ')', ']', '}':
		return true
	}
	return false
}

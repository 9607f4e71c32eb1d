package lexer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// Lex splits source into top-level declarations in textual order.
func Lex(source []byte) (*Result, error) {
	l := &lexer{
		cursor: parsly.NewCursor("notebook", source, 0),
		result: &Result{},
	}
	if err := l.lex(); err != nil {
		return nil, err
	}
	return l.result, nil
}

type lexer struct {
	cursor *parsly.Cursor
	result *Result
}

func (l *lexer) lex() error {
	cur := l.cursor
	for cur.HasMore() {
		line := l.peekLine()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			l.consumeLine()
			continue
		}
		if isIndented(line) {
			return l.errorf(l.line(), "unexpected indentation")
		}
		lineNo := l.line()
		var err error
		match := cur.MatchAny(cellDecoratorToken, functionDecoratorToken, classDecoratorToken, decoratorToken,
			setupToken, mainGuardToken, unparsableToken, generatedWithToken, appInitToken)
		switch match.Code {
		case cellDecoratorCode:
			err = l.lexDecorated(KindCell, lineNo)
		case functionDecoratorCode:
			err = l.lexDecorated(KindFunction, lineNo)
		case classDecoratorCode:
			err = l.lexDecorated(KindClass, lineNo)
		case decoratorCode:
			err = l.errorf(lineNo, fmt.Sprintf("unsupported decorator @%s", strings.TrimSpace(l.consumeLine())))
		case setupCode:
			err = l.lexSetup(lineNo)
		case mainGuardCode:
			l.consumeLine()
			if _, err = l.consumeBlock(lineNo); err == nil {
				return nil
			}
		case unparsableCode:
			err = l.lexUnparsable(lineNo)
		case generatedWithCode:
			l.lexGeneratedWith()
		case appInitCode:
			err = l.lexAppInit(lineNo)
		default:
			err = l.skipStatement(lineNo)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// lexDecorated handles `@app.cell`, `@app.function` and `@app.class_definition`
// together with the definition that follows the decorator.
func (l *lexer) lexDecorated(kind Kind, lineNo int) error {
	rest, err := l.continueBalanced(l.consumeLine(), 0, lineNo)
	if err != nil {
		return err
	}
	options, err := l.callOptions(rest, lineNo)
	if err != nil {
		return err
	}
	l.skipBlank()
	if !l.cursor.HasMore() {
		return l.errorf(lineNo, "decorator is not followed by a definition")
	}
	defLine := l.line()
	expected := []*parsly.Token{defToken, asyncDefToken}
	if kind == KindClass {
		expected = []*parsly.Token{classToken}
	}
	start := l.cursor.Pos
	if !matchesAny(l.cursor.MatchAny(expected...), expected) {
		return l.errorf(defLine, fmt.Sprintf("decorator must be followed by %s", expected[0].Name))
	}
	matched := l.cursor.MatchOne(identifierToken)
	if matched.Code != identifierCode {
		return l.errorf(defLine, "expected definition name")
	}
	name := matched.Text(l.cursor)
	signature, err := l.continueBalanced(l.consumeLine(), 0, defLine)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(strings.TrimSpace(stripComment(signature)), ":") {
		return l.errorf(defLine, fmt.Sprintf("missing ':' after definition of %s", name))
	}
	header := string(l.cursor.Input[start:l.cursor.Pos])
	body, err := l.consumeBlock(defLine)
	if err != nil {
		return err
	}

	declaration := &Declaration{Kind: kind, Name: name, Options: options, Line: lineNo}
	switch kind {
	case KindCell:
		declaration.Args = splitArgs(signature)
		declaration.Body = strings.Join(trimReturn(dedent(body)), "\n")
	default:
		if kind == KindFunction {
			declaration.Args = splitArgs(signature)
		}
		code := strings.TrimRight(header, "\r\n")
		if len(body) > 0 {
			code += "\n" + strings.Join(body, "\n")
		}
		declaration.Body = code
	}
	l.result.Declarations = append(l.result.Declarations, declaration)
	return nil
}

func (l *lexer) lexSetup(lineNo int) error {
	rest, err := l.continueBalanced(l.consumeLine(), 0, lineNo)
	if err != nil {
		return err
	}
	rest = strings.TrimSpace(stripComment(rest))
	if !strings.HasSuffix(rest, ":") {
		return l.errorf(lineNo, "malformed setup block")
	}
	options, err := l.callOptions(strings.TrimSuffix(rest, ":"), lineNo)
	if err != nil {
		return err
	}
	body, err := l.consumeBlock(lineNo)
	if err != nil {
		return err
	}
	l.result.Declarations = append(l.result.Declarations, &Declaration{
		Kind:    KindSetup,
		Name:    "setup",
		Options: options,
		Body:    strings.Join(dedent(body), "\n"),
		Line:    lineNo,
	})
	return nil
}

// lexUnparsable handles app._unparsable_cell(r"""...""", name="x").
func (l *lexer) lexUnparsable(lineNo int) error {
	call, err := l.continueBalanced(l.consumeLine(), 1, lineNo)
	if err != nil {
		return err
	}
	call = strings.TrimSpace(call)
	end := strings.LastIndexByte(call, ')')
	if end == -1 {
		return l.errorf(lineNo, "malformed unparsable cell")
	}
	args := strings.TrimLeft(call[:end], " \t\r\n")
	args = strings.TrimPrefix(strings.TrimPrefix(args, "r"), "R")
	code, rest, ok := cutStringLiteral(args)
	if !ok {
		return l.errorf(lineNo, "unparsable cell must start with a string literal")
	}
	rest = strings.TrimSpace(rest)
	var options map[string]string
	if rest != "" {
		if !strings.HasPrefix(rest, ",") {
			return l.errorf(lineNo, "malformed unparsable cell arguments")
		}
		if options, err = ParseOptions(rest[1:]); err != nil {
			return l.errorf(lineNo, err.Error())
		}
	}
	name := options["name"]
	if name == "" {
		name = "_"
	}
	lines := strings.Split(strings.TrimPrefix(code, "\n"), "\n")
	l.result.Declarations = append(l.result.Declarations, &Declaration{
		Kind:    KindUnparsable,
		Name:    name,
		Options: options,
		Body:    strings.Join(trimTrailingBlank(dedent(lines)), "\n"),
		Line:    lineNo,
	})
	return nil
}

func (l *lexer) lexGeneratedWith() {
	rest := strings.TrimSpace(stripComment(l.consumeLine()))
	if value, ok := strings.CutPrefix(rest, "="); ok {
		l.result.Header.GeneratedWith = unquote(strings.TrimSpace(value))
	}
}

func (l *lexer) lexAppInit(lineNo int) error {
	rest, err := l.continueBalanced(l.consumeLine(), 0, lineNo)
	if err != nil {
		return err
	}
	rest = strings.TrimSpace(stripComment(rest))
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		l.result.Header.AppOptions = strings.TrimSpace(rest[1 : len(rest)-1])
	}
	return nil
}

// skipStatement consumes a top-level statement that is not a notebook
// declaration, e.g. imports, together with any block it opens.
func (l *lexer) skipStatement(lineNo int) error {
	statement, err := l.continueBalanced(l.consumeLine(), 0, lineNo)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.TrimSpace(stripComment(statement)), ":") {
		_, err = l.consumeBlock(lineNo)
	}
	return err
}

// callOptions parses an optional `(key=value, ...)` suffix.
func (l *lexer) callOptions(text string, lineNo int) (map[string]string, error) {
	text = strings.TrimSpace(stripComment(text))
	if text == "" {
		return nil, nil
	}
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, l.errorf(lineNo, fmt.Sprintf("unexpected %q", text))
	}
	options, err := ParseOptions(text[1 : len(text)-1])
	if err != nil {
		return nil, l.errorf(lineNo, err.Error())
	}
	return options, nil
}

// continueBalanced appends following lines to first until brackets and
// triple-quoted strings are closed.
func (l *lexer) continueBalanced(first string, depth int, lineNo int) (string, error) {
	s := &scanner{depth: depth}
	s.feed(first)
	text := first
	for s.open() && l.cursor.HasMore() {
		line := l.consumeLine()
		s.feed(line)
		text += "\n" + line
	}
	if s.open() {
		if s.triple != "" {
			return "", l.errorf(lineNo, "unterminated triple-quoted string")
		}
		return "", l.errorf(lineNo, "unbalanced brackets")
	}
	return text, nil
}

// consumeBlock consumes the indented block that follows a compound
// statement header.
func (l *lexer) consumeBlock(lineNo int) ([]string, error) {
	s := &scanner{}
	var lines []string
	for l.cursor.HasMore() {
		line := l.peekLine()
		if !s.open() && !isBlank(line) && !isIndented(line) && !(isComment(line) && l.blockContinues()) {
			break
		}
		l.consumeLine()
		s.feed(line)
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	if s.triple != "" {
		return nil, l.errorf(lineNo, "unterminated triple-quoted string")
	}
	return trimTrailingBlank(lines), nil
}

// blockContinues reports whether the first line after the current one that is
// neither blank nor a comment is indented.
func (l *lexer) blockContinues() bool {
	cur := l.cursor
	rest := cur.Input[cur.Pos:cur.InputSize]
	if i := bytes.IndexByte(rest, '\n'); i != -1 {
		rest = rest[i+1:]
	} else {
		return false
	}
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i != -1 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = nil
		}
		text := string(line)
		if isBlank(text) || isComment(text) {
			continue
		}
		return isIndented(text)
	}
	return false
}

func (l *lexer) skipBlank() {
	for l.cursor.HasMore() && isBlank(l.peekLine()) {
		l.consumeLine()
	}
}

func (l *lexer) line() int {
	return bytes.Count(l.cursor.Input[:l.cursor.Pos], []byte{'\n'}) + 1
}

func (l *lexer) errorf(line int, msg string) error {
	return &Error{Line: line, Msg: msg}
}

func (l *lexer) consumeLine() string { return l.consumeUntil('\n') }

// consumeUntil consumes bytes until delim (inclusive) or EOF and returns text
// before delim.
func (l *lexer) consumeUntil(delim byte) string {
	cur := l.cursor
	start := cur.Pos
	for cur.Pos < cur.InputSize {
		if cur.Input[cur.Pos] == delim {
			txt := string(cur.Input[start:cur.Pos])
			cur.Pos++
			return txt
		}
		cur.Pos++
	}
	return string(cur.Input[start:])
}

func (l *lexer) peekLine() string {
	cur := l.cursor
	i := cur.Pos
	for i < cur.InputSize && cur.Input[i] != '\n' {
		i++
	}
	return string(cur.Input[cur.Pos:i])
}

// stripComment removes `#` comments outside of string literals.
func stripComment(text string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(text) {
				b.WriteByte(c)
				i++
				c = text[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i < len(text) {
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func matchesAny(match *parsly.TokenMatch, tokens []*parsly.Token) bool {
	for _, token := range tokens {
		if match.Code == token.Code {
			return true
		}
	}
	return false
}

// splitArgs extracts parameter names from `(a, b: int = 1) -> T:`.
func splitArgs(signature string) []string {
	start := strings.IndexByte(signature, '(')
	if start == -1 {
		return nil
	}
	depth := 0
	end := -1
	for i := start; i < len(signature) && end == -1; i++ {
		switch signature[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}
	if end == -1 {
		return nil
	}
	var ret []string
	for _, arg := range strings.Split(signature[start+1:end], ",") {
		arg = strings.TrimSpace(arg)
		if i := strings.IndexAny(arg, ":="); i != -1 {
			arg = strings.TrimSpace(arg[:i])
		}
		if arg != "" {
			ret = append(ret, arg)
		}
	}
	return ret
}

// cutStringLiteral splits a leading Python string literal from text.
func cutStringLiteral(text string) (string, string, bool) {
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if !strings.HasPrefix(text, quote) {
			continue
		}
		body := text[len(quote):]
		end := strings.Index(body, quote)
		if end == -1 {
			return "", "", false
		}
		return body[:end], body[end+len(quote):], true
	}
	return "", "", false
}

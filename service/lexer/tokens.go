package lexer

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes; start at 1 to avoid clashing with parsly.EOF.
const (
	whitespaceCode = iota + 1
	cellDecoratorCode
	functionDecoratorCode
	classDecoratorCode
	decoratorCode
	setupCode
	mainGuardCode
	unparsableCode
	generatedWithCode
	appInitCode
	defCode
	asyncDefCode
	classCode
	identifierCode
	assignCode
	valueCode
	commaCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())

	cellDecoratorToken     = parsly.NewToken(cellDecoratorCode, "@app.cell", matcher.NewFragment("@app.cell"))
	functionDecoratorToken = parsly.NewToken(functionDecoratorCode, "@app.function", matcher.NewFragment("@app.function"))
	classDecoratorToken    = parsly.NewToken(classDecoratorCode, "@app.class_definition", matcher.NewFragment("@app.class_definition"))
	decoratorToken         = parsly.NewToken(decoratorCode, "@", matcher.NewByte('@'))
	setupToken             = parsly.NewToken(setupCode, "with app.setup", matcher.NewFragment("with app.setup"))
	mainGuardToken         = parsly.NewToken(mainGuardCode, "if __name__", matcher.NewFragment("if __name__"))
	unparsableToken        = parsly.NewToken(unparsableCode, "app._unparsable_cell(", matcher.NewFragment("app._unparsable_cell("))
	generatedWithToken     = parsly.NewToken(generatedWithCode, "__generated_with", matcher.NewFragment("__generated_with"))
	appInitToken           = parsly.NewToken(appInitCode, "app = marimo.App", matcher.NewFragment("app = marimo.App"))

	defToken      = parsly.NewToken(defCode, "def", matcher.NewFragment("def "))
	asyncDefToken = parsly.NewToken(asyncDefCode, "async def", matcher.NewFragment("async def "))
	classToken    = parsly.NewToken(classCode, "class", matcher.NewFragment("class "))

	identifierToken = parsly.NewToken(identifierCode, "Identifier", &identifierMatcher{})
	assignToken     = parsly.NewToken(assignCode, "=", matcher.NewByte('='))
	valueToken      = parsly.NewToken(valueCode, "Value", &valueMatcher{})
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
)

// identifierMatcher matches valid identifier names
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// valueMatcher matches an option value: a quoted string or everything up to
// the next top-level comma.
type valueMatcher struct{}

func (m *valueMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	if q := input[pos]; q == '"' || q == '\'' {
		for i := pos + 1; i < size; i++ {
			switch input[i] {
			case '\\':
				i++
			case q:
				return i - pos + 1
			}
		}
		return 0
	}
	depth := 0
	matched := 0
	for i := pos; i < size; i++ {
		c := input[i]
		if depth == 0 && c == ',' {
			break
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

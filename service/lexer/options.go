package lexer

import (
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// ParseOptions parses keyword arguments such as `hide_code=True, column=1`.
// Quoted values are unquoted; other values are kept verbatim.
func ParseOptions(text string) (map[string]string, error) {
	ret := map[string]string{}
	cursor := parsly.NewCursor("", []byte(text), 0)
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
		switch matched.Code {
		case identifierCode:
		case parsly.EOF:
			return ret, nil
		default:
			return nil, cursor.NewError(identifierToken)
		}
		key := matched.Text(cursor)

		matched = cursor.MatchAfterOptional(whitespaceToken, assignToken)
		if matched.Code != assignCode {
			return nil, cursor.NewError(assignToken)
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, valueToken)
		if matched.Code != valueCode {
			return nil, cursor.NewError(valueToken)
		}
		ret[key] = unquote(strings.TrimSpace(matched.Text(cursor)))

		matched = cursor.MatchAfterOptional(whitespaceToken, commaToken)
		switch matched.Code {
		case commaCode:
		case parsly.EOF:
			return ret, nil
		default:
			return nil, cursor.NewError(commaToken)
		}
	}
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if q := value[0]; (q == '"' || q == '\'') && value[len(value)-1] == q {
		if q == '\'' {
			return strings.ReplaceAll(value[1:len(value)-1], `\'`, `'`)
		}
		if ret, err := strconv.Unquote(value); err == nil {
			return ret
		}
		return value[1 : len(value)-1]
	}
	return value
}

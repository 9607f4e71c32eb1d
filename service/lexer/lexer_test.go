package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notebookSource = `import marimo

__generated_with = "0.1.0"
app = marimo.App(width="medium")

with app.setup:
    import numpy as np

@app.cell
def hello():
    x = 1
    return (x,)


@app.cell(hide_code=True, column=1)
def _(x, mo):
    y = x + 1
    return (
        y,
    )

@app.function
def helper(a: int = 1) -> int:
    return a + 1

@app.class_definition
class Model:
    """Docstring
with unindented text
"""
    value = 1

app._unparsable_cell(r"""
not valid python (
""", name="broken")

if __name__ == "__main__":
    app.run()
`

func TestLex(t *testing.T) {
	result, err := Lex([]byte(notebookSource))
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", result.Header.GeneratedWith)
	assert.Equal(t, `width="medium"`, result.Header.AppOptions)

	var kinds []Kind
	var names []string
	for _, d := range result.Declarations {
		kinds = append(kinds, d.Kind)
		names = append(names, d.Name)
	}
	assert.Equal(t, []Kind{KindSetup, KindCell, KindCell, KindFunction, KindClass, KindUnparsable}, kinds)
	assert.Equal(t, []string{"setup", "hello", "_", "helper", "Model", "broken"}, names)

	setup := result.Declarations[0]
	assert.True(t, setup.IsSetupBlock())
	assert.Equal(t, "import numpy as np", setup.Body)
	assert.Equal(t, 6, setup.Line)

	hello := result.Declarations[1]
	assert.Equal(t, "x = 1", hello.Body)
	assert.Empty(t, hello.Args)
	assert.Equal(t, 9, hello.Line)

	anonymous := result.Declarations[2]
	assert.Equal(t, "y = x + 1", anonymous.Body)
	assert.Equal(t, []string{"x", "mo"}, anonymous.Args)
	assert.Equal(t, map[string]string{"hide_code": "True", "column": "1"}, anonymous.Options)

	helper := result.Declarations[3]
	assert.Equal(t, "def helper(a: int = 1) -> int:\n    return a + 1", helper.Body)
	assert.Equal(t, []string{"a"}, helper.Args)

	model := result.Declarations[4]
	assert.True(t, strings.HasPrefix(model.Body, "class Model:\n"))
	assert.Contains(t, model.Body, "with unindented text")
	assert.True(t, strings.HasSuffix(model.Body, "value = 1"))

	broken := result.Declarations[5]
	assert.Equal(t, "not valid python (", broken.Body)
}

func TestLex_CellBodies(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{
			description: "return only",
			input:       "@app.cell\ndef _():\n    return\n",
			expected:    "",
		},
		{
			description: "nested return kept",
			input:       "@app.cell\ndef _():\n    if x:\n        return 1\n    y = 2\n",
			expected:    "if x:\n    return 1\ny = 2",
		},
		{
			description: "async cell",
			input:       "@app.cell\nasync def _():\n    await run()\n    return\n",
			expected:    "await run()",
		},
		{
			description: "blank lines inside body",
			input:       "@app.cell\ndef _():\n    a = 1\n\n    b = 2\n    return (a, b)\n",
			expected:    "a = 1\n\nb = 2",
		},
		{
			description: "hash inside string",
			input:       "@app.cell\ndef _():\n    s = \"# not a comment\"\n    return\n",
			expected:    "s = \"# not a comment\"",
		},
		{
			description: "column zero comment inside body",
			input:       "@app.cell\ndef _():\n    x = 1\n# note\n    return (x,)\n",
			expected:    "x = 1\n# note",
		},
		{
			description: "column zero comments before indented line",
			input:       "@app.cell\ndef _():\n    x = 1\n# first\n\n# second\n    y = x\n    return (y,)\n",
			expected:    "x = 1\n# first\n\n# second\ny = x",
		},
		{
			description: "triple-quoted string at column zero",
			input:       "@app.cell\ndef _():\n    s = \"\"\"\ntext\n\"\"\"\n    return (s,)\n",
			expected:    "s = \"\"\"\ntext\n\"\"\"",
		},
		{
			description: "triple-quoted string with indented content",
			input:       "@app.cell\ndef _():\n    s = \"\"\"\n  a\n\"\"\"\n    if s:\n        t = s\n    return (s,)\n",
			expected:    "s = \"\"\"\n  a\n\"\"\"\nif s:\n    t = s",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result, err := Lex([]byte(tc.input))
			require.NoError(t, err)
			require.Len(t, result.Declarations, 1)
			assert.Equal(t, tc.expected, result.Declarations[0].Body)
		})
	}
}

func TestLex_CommentAfterBodyEndsBlock(t *testing.T) {
	input := "@app.cell\ndef a():\n    x = 1\n    return (x,)\n# trailing\n\n@app.cell\ndef b():\n    return\n"
	result, err := Lex([]byte(input))
	require.NoError(t, err)
	require.Len(t, result.Declarations, 2)
	assert.Equal(t, "x = 1", result.Declarations[0].Body)
	assert.Equal(t, "b", result.Declarations[1].Name)
}

func TestLex_MainGuardEndsDeclarations(t *testing.T) {
	input := "@app.cell\ndef a():\n    return\n\nif __name__ == \"__main__\":\n    app.run()\n\n@app.cell\ndef b():\n    return\n"
	result, err := Lex([]byte(input))
	require.NoError(t, err)
	require.Len(t, result.Declarations, 1)
	assert.Equal(t, "a", result.Declarations[0].Name)
}

func TestLex_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "import marimo\napp = marimo.App()\n", "# comment only\n"} {
		result, err := Lex([]byte(input))
		require.NoError(t, err)
		assert.Empty(t, result.Declarations)
	}
}

func TestLex_Errors(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		line        int
	}{
		{
			description: "orphan indentation",
			input:       "import marimo\n    x = 1\n",
			line:        2,
		},
		{
			description: "decorator without definition",
			input:       "@app.cell\nx = 1\n",
			line:        2,
		},
		{
			description: "decorator at end of file",
			input:       "@app.cell\n",
			line:        1,
		},
		{
			description: "definition without colon",
			input:       "@app.cell\ndef _()\n    x = 1\n",
			line:        2,
		},
		{
			description: "unterminated string",
			input:       "@app.cell\ndef _():\n    x = \"\"\"\nnever closed\n",
			line:        2,
		},
		{
			description: "unknown decorator",
			input:       "@app.something\ndef _():\n    pass\n",
			line:        1,
		},
		{
			description: "unbalanced brackets",
			input:       "app = marimo.App(\n",
			line:        1,
		},
		{
			description: "malformed setup",
			input:       "with app.setupx:\n    pass\n",
			line:        1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := Lex([]byte(tc.input))
			require.Error(t, err)
			lexErr, ok := err.(*Error)
			require.True(t, ok, "unexpected error type %T", err)
			assert.Equal(t, tc.line, lexErr.Line)
		})
	}
}

func TestParseOptions(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    map[string]string
		shouldError bool
	}{
		{description: "empty", input: "", expected: map[string]string{}},
		{description: "bool flags", input: "hide_code=True, disabled=False", expected: map[string]string{"hide_code": "True", "disabled": "False"}},
		{description: "quoted value", input: `name="a, b"`, expected: map[string]string{"name": "a, b"}},
		{description: "single quoted value", input: `name='x'`, expected: map[string]string{"name": "x"}},
		{description: "nested value", input: "size=(1, 2), column=3", expected: map[string]string{"size": "(1, 2)", "column": "3"}},
		{description: "trailing comma", input: "column=3,", expected: map[string]string{"column": "3"}},
		{description: "positional argument", input: "True", shouldError: true},
		{description: "missing value", input: "column=", shouldError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := ParseOptions(tc.input)
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tc.expected, actual)
		})
	}
}

package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/nbcell/model"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		names       []string
		variants    []model.Variant
	}{
		{
			description: "setup block precedes cells",
			input: `import marimo
app = marimo.App()

with app.setup:
    import numpy as np

@app.cell
def hello():
    x = 1
    return (x,)

@app.cell
def world(x):
    y = x + 1
    return (y,)
`,
			names:    []string{"setup", "hello", "world"},
			variants: []model.Variant{model.Setup, model.Regular, model.Regular},
		},
		{
			description: "generic cell named setup",
			input: `@app.cell
def setup():
    import numpy as np
    return (np,)

@app.cell
def _(np):
    np.zeros(1)
    return
`,
			names:    []string{"setup", "_"},
			variants: []model.Variant{model.Setup, model.Regular},
		},
		{
			description: "setup name not first",
			input: `@app.cell
def _():
    return

@app.cell
def setup():
    return
`,
			names:    []string{"_", "setup"},
			variants: []model.Variant{model.Regular, model.Regular},
		},
		{
			description: "second setup block demoted",
			input: `with app.setup:
    import os

with app.setup:
    import sys
`,
			names:    []string{"setup", "setup"},
			variants: []model.Variant{model.Setup, model.Regular},
		},
		{
			description: "setup block after regular cell demoted",
			input: `@app.cell
def _():
    return

with app.setup:
    import sys
`,
			names:    []string{"_", "setup"},
			variants: []model.Variant{model.Regular, model.Regular},
		},
		{
			description: "no cells",
			input:       "import marimo\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			notebook, err := New(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))).Parse([]byte(tc.input))
			require.NoError(t, err)
			require.Equal(t, len(tc.names), notebook.Len())
			for i, cell := range notebook.Cells {
				assert.Equal(t, tc.names[i], cell.Name, "cell %d", i)
				assert.Equal(t, tc.variants[i], cell.Variant, "cell %d", i)
			}
			setups := 0
			for _, cell := range notebook.Cells {
				if cell.IsSetup() {
					setups++
				}
			}
			assert.LessOrEqual(t, setups, 1)
		})
	}
}

func TestParse_Config(t *testing.T) {
	notebook, err := Parse([]byte(`@app.cell(hide_code=True, disabled=False, column=2)
def _():
    x = 1
    return

@app.cell(column=None)
def _():
    return
`))
	require.NoError(t, err)
	require.Equal(t, 2, notebook.Len())
	config := notebook.Cells[0].Config
	assert.True(t, config.HideCode)
	assert.False(t, config.Disabled)
	require.NotNil(t, config.Column)
	assert.Equal(t, 2, *config.Column)
	assert.Nil(t, notebook.Cells[1].Config.Column)
	assert.Equal(t, "x = 1", notebook.Cells[0].Code)
}

func TestParse_Kinds(t *testing.T) {
	notebook, err := Parse([]byte(`@app.function
def helper():
    return 1

@app.class_definition
class A:
    pass

app._unparsable_cell(r"""
x = (
""")
`))
	require.NoError(t, err)
	require.Equal(t, 3, notebook.Len())
	assert.Equal(t, model.KindFunction, notebook.Cells[0].Kind)
	assert.Equal(t, model.KindClass, notebook.Cells[1].Kind)
	assert.Equal(t, model.KindUnparsable, notebook.Cells[2].Kind)
	assert.Equal(t, model.AnonymousName, notebook.Cells[2].Name)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		line        int
	}{
		{description: "orphan indentation", input: "    x = 1\n", line: 1},
		{description: "invalid option", input: "@app.cell(hide_code=maybe)\ndef _():\n    return\n", line: 1},
		{description: "invalid column", input: "@app.cell(column=left)\ndef _():\n    return\n", line: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			var parseErr *Error
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.line, parseErr.Line)
		})
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/nbcell"
	"github.com/viant/nbcell/progress"
	"github.com/viant/nbcell/service/converter"
)

const notebook = `import marimo

__generated_with = "0.13.0"
app = marimo.App()

@app.cell
def _():
    x = 1
    return (x,)

@app.cell
def _(x):
    y = x + 1
    return (y,)

if __name__ == "__main__":
    app.run()
`

func writeNotebooks(t *testing.T, names ...string) []string {
	dir := t.TempDir()
	var ret []string
	for _, name := range names {
		location := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(location, []byte(notebook), 0o644))
		ret = append(ret, location)
	}
	return ret
}

func TestConvertAll(t *testing.T) {
	testCases := []struct {
		description string
		jobs        int
	}{
		{description: "sequential", jobs: 1},
		{description: "parallel", jobs: 4},
		{description: "invalid jobs", jobs: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			srv, err := nbcell.New()
			require.NoError(t, err)
			files := writeNotebooks(t, "a.py", "b.py", "c.py")
			ctx, tracker := progress.WithNewTracker(context.Background(), "test", nil)
			docs, err := convertAll(ctx, srv, files, testCase.jobs)
			require.NoError(t, err)
			snapshot := tracker.Snapshot()
			assert.Equal(t, 3, snapshot.Converted)
			assert.Equal(t, 6, snapshot.Cells)
			assert.True(t, snapshot.Done())
			require.Len(t, docs, 3)
			assert.Equal(t, []string{"a", "b", "c"}, []string{docs[0].Name, docs[1].Name, docs[2].Name})
			for _, doc := range docs[1:] {
				assert.Equal(t, docs[0].IDs(), doc.IDs())
			}
		})
	}
}

func TestConvertAll_MissingFile(t *testing.T) {
	srv, err := nbcell.New()
	require.NoError(t, err)
	files := append(writeNotebooks(t, "a.py"), filepath.Join(t.TempDir(), "missing.py"))
	_, err = convertAll(context.Background(), srv, files, 2)
	assert.Error(t, err)
}

func TestOutputs(t *testing.T) {
	ctx := context.Background()
	srv, err := nbcell.New()
	require.NoError(t, err)
	docs, err := convertAll(ctx, srv, writeNotebooks(t, "demo.py"), 1)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, printIDs(buf, docs[0]))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, string(docs[0].Cells[0].ID)+"\t_", lines[0])

	buf.Reset()
	require.NoError(t, writeDocuments(buf, docs, converter.FormatJSON))
	decoded, err := converter.Decode(bytes.TrimSpace(buf.Bytes()), converter.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, docs[0].IDs(), decoded.IDs())

	out := t.TempDir()
	fs := afs.New()
	require.NoError(t, uploadDocuments(ctx, fs, out, docs, converter.FormatYAML))
	data, err := fs.DownloadWithURL(ctx, filepath.Join(out, "demo.yaml"))
	require.NoError(t, err)
	decoded, err = converter.Decode(data, converter.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, docs[0].IDs(), decoded.IDs())
}

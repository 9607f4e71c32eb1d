package nbcell_test

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/nbcell"
	"github.com/viant/nbcell/model"
	"github.com/viant/nbcell/model/cellid"
	"github.com/viant/nbcell/runtime/registry"
	"github.com/viant/nbcell/service/dao/store"
	"github.com/viant/nbcell/service/messaging/memory"
)

//go:embed testdata/*
var embedFS embed.FS

func newService(t *testing.T, options ...nbcell.Option) *nbcell.Service {
	options = append([]nbcell.Option{
		nbcell.WithMetaFsOptions(&embedFS),
		nbcell.WithMetaBaseURL("embed:///testdata"),
	}, options...)
	srv, err := nbcell.New(options...)
	require.NoError(t, err)
	return srv
}

func TestService_ConvertURL(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()
	doc, err := srv.ConvertURL(ctx, "demo.py")
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.Name)
	require.Len(t, doc.Cells, 3)
	assert.Equal(t, cellid.SetupID, doc.Cells[0].ID)
	assert.Equal(t, "area", doc.Cells[2].Name)
	assert.True(t, doc.Cells[2].Config.HideCode)
	assert.Equal(t, "0.13.0", doc.Metadata.GeneratedWith)

	_, err = srv.ConvertURL(ctx, "missing.py")
	assert.Error(t, err)
}

func TestRuntime_SessionMatchesConversion(t *testing.T) {
	srv := newService(t)
	ctx := context.Background()
	doc, err := srv.ConvertURL(ctx, "demo.py")
	require.NoError(t, err)

	session, err := srv.Runtime().OpenSession(ctx, "demo.py")
	require.NoError(t, err)
	assert.Equal(t, "demo", session.Name)
	assert.Equal(t, doc.IDs(), session.Registry.CellIDs())

	_, err = session.Registry.CreateCell(ctx, &model.Cell{Name: "_", Code: "y = 1"})
	require.NoError(t, err)
	again, err := srv.ConvertURL(ctx, "demo.py")
	require.NoError(t, err)
	assert.Equal(t, doc.IDs(), again.IDs())

	sessions, err := srv.Runtime().Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	require.NoError(t, srv.Runtime().CloseSession(ctx, session.ID))
	assert.Equal(t, registry.Closed, session.Registry.State())
	_, err = srv.Runtime().Session(ctx, session.ID)
	assert.ErrorIs(t, err, nbcell.ErrSessionNotFound)
	assert.ErrorIs(t, srv.Runtime().CloseSession(ctx, session.ID), nbcell.ErrSessionNotFound)
}

func TestService_Snapshot(t *testing.T) {
	ctx := context.Background()
	documents := store.NewMemoryStore[string, model.Document](func(d *model.Document) string { return d.Name })
	var events []registry.EventType
	srv := newService(t,
		nbcell.WithDocumentDAO(documents),
		nbcell.WithRegistryListeners(func(r *registry.Registry, event *registry.Event) {
			events = append(events, event.Type)
		}))

	session, err := srv.Runtime().OpenSession(ctx, "demo.py")
	require.NoError(t, err)
	ids := session.Registry.CellIDs()
	require.NoError(t, session.Registry.DeleteCell(ctx, ids[1]))
	created, err := session.Registry.CreateCell(ctx, nil)
	require.NoError(t, err)

	doc, err := srv.Snapshot(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []cellid.ID{ids[0], ids[2], created}, doc.IDs())
	assert.Equal(t, []registry.EventType{registry.EventDeleted, registry.EventCreated}, events)

	stored, err := srv.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, doc, stored[0])

	_, err = srv.Snapshot(ctx, "unknown")
	assert.ErrorIs(t, err, nbcell.ErrSessionNotFound)
}

func TestService_SnapshotToFS(t *testing.T) {
	ctx := context.Background()
	config := nbcell.DefaultConfig()
	config.Document.URL = t.TempDir()
	config.Document.Format = "yaml"
	srv := newService(t, nbcell.WithConfig(config))

	session, err := srv.Runtime().OpenSession(ctx, "demo.py")
	require.NoError(t, err)
	doc, err := srv.Snapshot(ctx, session.ID)
	require.NoError(t, err)

	stored, err := srv.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, doc.IDs(), stored[0].IDs())
	assert.Equal(t, "demo", stored[0].Name)
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	config, err := nbcell.LoadConfig(ctx, "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)
	assert.Equal(t, 6, config.Generator.TokenLength)
	assert.Equal(t, 50, config.Generator.MaxAttempts)
	assert.EqualValues(t, "yaml", config.Format())

	srv := newService(t, nbcell.WithConfig(config))
	doc, err := srv.ConvertURL(ctx, "demo.py")
	require.NoError(t, err)
	for _, id := range doc.IDs()[1:] {
		assert.Len(t, string(id), 6)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *nbcell.Config)
		expectErr   bool
	}{
		{description: "defaults", mutate: func(c *nbcell.Config) {}},
		{description: "zero token length", mutate: func(c *nbcell.Config) { c.Generator.TokenLength = 0 }, expectErr: true},
		{description: "negative attempts", mutate: func(c *nbcell.Config) { c.Generator.MaxAttempts = -1 }, expectErr: true},
		{description: "unknown format", mutate: func(c *nbcell.Config) { c.Document.Format = "toml" }, expectErr: true},
		{description: "msgpack format", mutate: func(c *nbcell.Config) { c.Document.Format = "msgpack" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			config := nbcell.DefaultConfig()
			testCase.mutate(config)
			err := config.Validate()
			if testCase.expectErr {
				assert.Error(t, err)
				_, err = nbcell.New(nbcell.WithConfig(config))
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNotebookName(t *testing.T) {
	assert.Equal(t, "demo", nbcell.NotebookName("embed:///testdata/demo.py"))
	assert.Equal(t, "notes", nbcell.NotebookName("notes"))
}

func TestRuntime_ChangeQueue(t *testing.T) {
	ctx := context.Background()
	queue := memory.NewQueue[model.Change](memory.DefaultConfig())
	srv := newService(t, nbcell.WithChangeQueue(queue))

	session, err := srv.Runtime().OpenSession(ctx, "demo.py")
	require.NoError(t, err)
	ids := session.Registry.CellIDs()
	created, err := session.Registry.CreateCell(ctx, &model.Cell{Name: "plot", Code: "plot(x)"})
	require.NoError(t, err)
	require.NoError(t, session.Registry.DeleteCell(ctx, ids[1]))
	require.NoError(t, srv.Runtime().CloseSession(ctx, session.ID))

	expect := []*model.Change{
		{SessionID: session.ID, Type: model.ChangeOpened, Name: "demo", IDs: ids},
		{SessionID: session.ID, Type: model.ChangeCellCreated, CellID: created, Name: "plot"},
		{SessionID: session.ID, Type: model.ChangeCellDeleted, CellID: ids[1], Name: "_"},
		{SessionID: session.ID, Type: model.ChangeClosed, Name: "demo"},
	}
	require.Equal(t, len(expect), queue.Size())
	for _, want := range expect {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, message.T())
		require.NoError(t, message.Ack())
	}
}

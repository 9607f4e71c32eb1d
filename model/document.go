package model

import "github.com/viant/nbcell/model/cellid"

// DocumentVersion is the serialised notebook schema version.
const DocumentVersion = "1"

// Metadata describes the notebook a document was produced from.
type Metadata struct {
	GeneratedWith string `json:"generated_with,omitempty" yaml:"generated_with,omitempty" msgpack:"generated_with,omitempty"`
	AppOptions    string `json:"app_options,omitempty" yaml:"app_options,omitempty" msgpack:"app_options,omitempty"`
}

// Record is one serialised cell.
type Record struct {
	ID     cellid.ID  `json:"id" yaml:"id" msgpack:"id"`
	Name   string     `json:"name" yaml:"name" msgpack:"name"`
	Code   string     `json:"code" yaml:"code" msgpack:"code"`
	Config CellConfig `json:"config" yaml:"config" msgpack:"config"`
}

// Document is the serialised notebook handed to persistence and UI layers.
type Document struct {
	Version  string    `json:"version" yaml:"version" msgpack:"version"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Metadata Metadata  `json:"metadata" yaml:"metadata" msgpack:"metadata"`
	Cells    []*Record `json:"cells" yaml:"cells" msgpack:"cells"`
}

// NewDocument builds a document from cells and the ids assigned to them.
// ids must be index-aligned with cells.
func NewDocument(header Header, cells []*Cell, ids []cellid.ID) *Document {
	doc := &Document{
		Version: DocumentVersion,
		Metadata: Metadata{
			GeneratedWith: header.GeneratedWith,
			AppOptions:    header.AppOptions,
		},
		Cells: make([]*Record, 0, len(cells)),
	}
	for i, cell := range cells {
		doc.Cells = append(doc.Cells, &Record{
			ID:     ids[i],
			Name:   cell.Name,
			Code:   cell.Code,
			Config: cell.Config,
		})
	}
	return doc
}

// IDs returns the record ids in document order.
func (d *Document) IDs() []cellid.ID {
	ret := make([]cellid.ID, 0, len(d.Cells))
	for _, record := range d.Cells {
		ret = append(ret, record.ID)
	}
	return ret
}

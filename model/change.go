package model

import "github.com/viant/nbcell/model/cellid"

// ChangeType names a session change.
type ChangeType string

const (
	ChangeOpened      ChangeType = "opened"
	ChangeCellCreated ChangeType = "cellCreated"
	ChangeCellDeleted ChangeType = "cellDeleted"
	ChangeClosed      ChangeType = "closed"
)

// Change is published for every session lifecycle step and cell mutation.
// CellID and Name are set for cell changes only; IDs carries the full
// ordering on open.
type Change struct {
	SessionID string      `json:"sessionId" yaml:"sessionId" msgpack:"sessionId"`
	Type      ChangeType  `json:"type" yaml:"type" msgpack:"type"`
	CellID    cellid.ID   `json:"cellId,omitempty" yaml:"cellId,omitempty" msgpack:"cellId,omitempty"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	IDs       []cellid.ID `json:"ids,omitempty" yaml:"ids,omitempty" msgpack:"ids,omitempty"`
}

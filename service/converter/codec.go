package converter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/nbcell/model"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported document format: %q", name)
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".mpk"
	default:
		return ".json"
	}
}

// Encode serialises doc.
func Encode(doc *model.Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported document format: %q", format)
}

// Decode deserialises a document.
func Decode(data []byte, format Format) (*model.Document, error) {
	doc := &model.Document{}
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("unsupported document format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return doc, nil
}

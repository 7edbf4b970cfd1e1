// Package yaml provides a readthis.ManualSource that decodes manual files
// with gopkg.in/yaml.v3. JSON is a subset of YAML, so manuals.json files
// decode unchanged.
package yaml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/readthis"
	"gopkg.in/yaml.v3"
)

// Ensure Source implements readthis.ManualSource at compile time.
var _ readthis.ManualSource = (*Source)(nil)

// Source reads manual files from disk.
type Source struct {
	readFile func(path string) ([]byte, error)
}

// Option configures a Source.
type Option func(*Source)

// WithReadFile replaces the function used to read manual files.
// Defaults to os.ReadFile.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(s *Source) {
		s.readFile = fn
	}
}

// NewSource creates a new Source.
func NewSource(opts ...Option) *Source {
	s := &Source{readFile: os.ReadFile}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// manualFile is the on-disk layout: {"documents": [...]}.
type manualFile struct {
	Documents []document `json:"documents" yaml:"documents"`
}

type document struct {
	ID          *string `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	URL         *string `json:"url" yaml:"url"`
	Description string  `json:"description" yaml:"description"`
}

// ReadManuals reads and strictly decodes the manual file at path.
func (s *Source) ReadManuals(ctx context.Context, path string) ([]readthis.DocumentSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, readthis.Errorf(readthis.ECONFIGNOTFOUND, "manual file %q not found", path)
	} else if err != nil {
		return nil, readthis.Errorf(readthis.ECONFIGNOTFOUND, "reading manual file %q: %v", path, err)
	}

	return Decode(data)
}

// Decode parses a manual document. Both the {"documents": [...]} layout and
// a bare top-level list are accepted. Unknown fields are rejected.
func Decode(data []byte) ([]readthis.DocumentSpec, error) {
	docs, err := decodeDocuments(data)
	if err != nil {
		return nil, err
	}

	specs := make([]readthis.DocumentSpec, 0, len(docs))
	for i, d := range docs {
		if d.ID == nil {
			return nil, readthis.Errorf(readthis.ECONFIGSCHEMA, "entry %d: missing \"id\"", i+1)
		}
		if d.URL == nil {
			return nil, readthis.Errorf(readthis.ECONFIGSCHEMA, "entry %d (%q): missing \"url\"", i+1, *d.ID)
		}
		specs = append(specs, readthis.DocumentSpec{
			ID:          *d.ID,
			Name:        d.Name,
			URL:         *d.URL,
			Description: d.Description,
		})
	}
	return specs, nil
}

func decodeDocuments(data []byte) ([]document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, readthis.Errorf(readthis.ECONFIGPARSE, "manual file is empty")
	}
	// JSON documents are decoded with encoding/json: yaml.v3 rejects tab
	// indentation, which is common in hand-edited manuals.json files.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return decodeJSON(trimmed)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) ([]document, error) {
	if data[0] == '[' {
		var docs []document
		if err := decodeJSONStrict(data, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var f manualFile
	if err := decodeJSONStrict(data, &f); err != nil {
		return nil, err
	}
	if f.Documents == nil {
		return nil, readthis.Errorf(readthis.ECONFIGSCHEMA, "manual file has no \"documents\" list")
	}
	return f.Documents, nil
}

func decodeJSONStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return readthis.Errorf(readthis.ECONFIGPARSE, "parsing manual file: %v", err)
		}
		return readthis.Errorf(readthis.ECONFIGSCHEMA, "invalid manual file: %v", err)
	}
	if dec.More() {
		return readthis.Errorf(readthis.ECONFIGPARSE, "parsing manual file: trailing data after document")
	}
	return nil
}

func decodeYAML(data []byte) ([]document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, readthis.Errorf(readthis.ECONFIGPARSE, "parsing manual file: %v", err)
	}
	if len(root.Content) == 0 {
		return nil, readthis.Errorf(readthis.ECONFIGPARSE, "manual file is empty")
	}

	var docs []document
	switch root.Content[0].Kind {
	case yaml.MappingNode:
		var f manualFile
		if err := decodeStrict(data, &f); err != nil {
			return nil, err
		}
		if f.Documents == nil {
			return nil, readthis.Errorf(readthis.ECONFIGSCHEMA, "manual file has no \"documents\" list")
		}
		docs = f.Documents
	case yaml.SequenceNode:
		if err := decodeStrict(data, &docs); err != nil {
			return nil, err
		}
	default:
		return nil, readthis.Errorf(readthis.ECONFIGSCHEMA, "manual file must be an object or a list")
	}
	return docs, nil
}

// decodeStrict decodes YAML data into v, rejecting unknown fields and type
// mismatches as schema errors.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return readthis.Errorf(readthis.ECONFIGSCHEMA, "invalid manual file: %v", err)
		}
		return readthis.Errorf(readthis.ECONFIGPARSE, "parsing manual file: %v", err)
	}
	return nil
}

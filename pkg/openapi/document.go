package openapi

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Source identifies where an OpenAPI document originated.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind says how a Source is read: from disk or from an fs.FS.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// Document wraps the raw OpenAPI payload and its origin so callers never
// handle kin-openapi types.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Operation is one API operation reduced to the time fields of its request
// body.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Fields      []TimeField
}

// TimeField is a request body property declared as a string with format
// "time".
type TimeField struct {
	// Name is the property name. It doubles as the widget key.
	Name        string
	Title       string
	Description string
	// Default holds the normalised HH:MM default when the schema declares one.
	Default  model.Optional[string]
	Nullable bool
	Required bool
	// Step is the x-step extension as seconds or a duration, nil when absent.
	Step any
	// Order is the x-order extension; fields without one sort after ordered
	// fields by name.
	Order *int
}

// Label returns the title, or the property name when the schema has none.
func (f TimeField) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// NewOperation validates core fields.
func NewOperation(id, method, path string, fields []TimeField) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: method, Path: path, Fields: fields}, nil
}

// ErrOperationNotFound is returned by Lookup for unknown operation ids.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Lookup returns operations[id] or ErrOperationNotFound.
func Lookup(operations map[string]Operation, id string) (Operation, error) {
	op, ok := operations[id]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}
	return op, nil
}

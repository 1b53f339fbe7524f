package parser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

const (
	timeFormat        = "time"
	stepExtensionKey  = "x-step"
	orderExtensionKey = "x-order"
	stringType        = "string"
	nullType          = "null"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id are keyed as "<method>:<path>".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			op, err := p.convertOperation(method, path, operation)
			if err != nil {
				return nil, err
			}
			operations[op.ID] = op
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func (p *Parser) convertOperation(method, path string, operation *openapi3.Operation) (pkgopenapi.Operation, error) {
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}
	fields, err := timeFields(p.requestSchema(operation.RequestBody))
	if err != nil {
		return pkgopenapi.Operation{}, fmt.Errorf("openapi parser: operation %q: %w", opID, err)
	}
	op, err := pkgopenapi.NewOperation(opID, strings.ToUpper(method), path, fields)
	if err != nil {
		return pkgopenapi.Operation{}, err
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	return op, nil
}

func (p *Parser) requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil || len(body.Value.Content) == 0 {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range p.options.MediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func timeFields(schema *openapi3.Schema) ([]pkgopenapi.TimeField, error) {
	if schema == nil {
		return nil, nil
	}
	properties := make(map[string]*openapi3.Schema)
	required := make(map[string]bool)
	collectProperties(schema, properties, required, 0)

	var fields []pkgopenapi.TimeField
	for name, property := range properties {
		if !isTimeString(property) {
			continue
		}
		field := pkgopenapi.TimeField{
			Name:        name,
			Title:       property.Title,
			Description: property.Description,
			Nullable:    property.Nullable || hasType(property.Type, nullType),
			Required:    required[name],
			Step:        stepExtension(property.Extensions[stepExtensionKey]),
			Order:       orderExtension(property.Extensions[orderExtensionKey]),
		}
		if property.Default != nil {
			value, err := normaliseDefault(property.Default)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			field.Default = model.Some(value)
		}
		fields = append(fields, field)
	}

	sort.SliceStable(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		switch {
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		}
		return a.Name < b.Name
	})
	return fields, nil
}

// collectProperties flattens properties and allOf members. Depth bounds
// recursive references.
func collectProperties(schema *openapi3.Schema, into map[string]*openapi3.Schema, required map[string]bool, depth int) {
	if schema == nil || depth > 8 {
		return
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			collectProperties(ref.Value, into, required, depth+1)
		}
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		into[name] = ref.Value
	}
	for _, name := range schema.Required {
		required[name] = true
	}
}

func isTimeString(schema *openapi3.Schema) bool {
	return schema.Format == timeFormat && hasType(schema.Type, stringType)
}

func hasType(types *openapi3.Types, want string) bool {
	if types == nil {
		return false
	}
	for _, typ := range types.Slice() {
		if typ == want {
			return true
		}
	}
	return false
}

// normaliseDefault accepts "HH:MM" and RFC 3339 partial times such as
// "08:45:00" or "08:45:00Z"; seconds and offsets are dropped.
func normaliseDefault(value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("default must be a string, got %T", value)
	}
	text = strings.TrimSpace(text)
	if len(text) > len(codec.Layout) {
		text = text[:len(codec.Layout)]
	}
	tod, err := codec.Decode(text)
	if err != nil {
		return "", err
	}
	return tod.String(), nil
}

// stepExtension keeps integral numbers as seconds and parses duration
// strings. Other values pass through so declaration reports the type error.
func stepExtension(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v)
		}
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		return v
	default:
		return v
	}
}

func orderExtension(value any) *int {
	switch v := value.(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

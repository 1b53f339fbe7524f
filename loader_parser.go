package formstate

import (
	"context"
	"fmt"

	internalLoader "github.com/goliatone/go-formstate/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formstate/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/script"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// ScriptFromOperation parses raw OpenAPI content and returns a script that
// declares one time input per time field of operationID's request body.
func ScriptFromOperation(ctx context.Context, raw []byte, operationID string, options ...pkgopenapi.ParserOption) (script.Func, error) {
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile("inline"), raw)
	if err != nil {
		return nil, err
	}
	return scriptFromDocument(ctx, doc, operationID, options...)
}

// ScriptFromSource loads src and builds the script for operationID.
func ScriptFromSource(ctx context.Context, src pkgopenapi.Source, operationID string, loaderOptions []pkgopenapi.LoaderOption, parserOptions ...pkgopenapi.ParserOption) (script.Func, error) {
	doc, err := NewLoader(loaderOptions...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return scriptFromDocument(ctx, doc, operationID, parserOptions...)
}

func scriptFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID string, options ...pkgopenapi.ParserOption) (script.Func, error) {
	operations, err := NewParser(options...).Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	op, err := pkgopenapi.Lookup(operations, operationID)
	if err != nil {
		return nil, err
	}
	if len(op.Fields) == 0 {
		return nil, fmt.Errorf("formstate: operation %q declares no time fields", operationID)
	}
	return op.Script(), nil
}

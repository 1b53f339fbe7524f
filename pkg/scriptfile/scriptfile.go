// Package scriptfile loads scripts from YAML documents so they can be run
// without compiling Go code.
//
//	title: Alarms
//	nodes:
//	  - type: time_input
//	    label: Wake up
//	    value: "07:30"
//	    step: 300
//	  - type: columns
//	    weights: [3, 2]
//	    columns:
//	      - - type: time_input
//	          label: Start
//	          value: null
//	      - - type: time_input
//	          label: End
//
// A missing value defaults to the current time, null declares the input
// without a value and "now" is the explicit form of the default.
package scriptfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/codec"
	"github.com/goliatone/go-formstate/pkg/memo"
	"github.com/goliatone/go-formstate/pkg/script"
)

// Node types.
const (
	NodeTimeInput = "time_input"
	NodeColumns   = "columns"
	NodeContainer = "container"
	NodeMemo      = "memo"
)

// ErrEmptyDocument is returned when a document declares no nodes.
var ErrEmptyDocument = errors.New("scriptfile: document has no nodes")

// Document is a parsed script.
type Document struct {
	Title string `yaml:"title"`
	Nodes []Node `yaml:"nodes"`
}

// Node is one declaration. Which fields apply depends on Type.
type Node struct {
	Type string `yaml:"type"`

	// time_input
	Label           string    `yaml:"label"`
	Key             string    `yaml:"key"`
	Help            string    `yaml:"help"`
	Value           yaml.Node `yaml:"value"`
	Step            any       `yaml:"step"`
	Disabled        bool      `yaml:"disabled"`
	LabelVisibility string    `yaml:"label_visibility"`

	// columns
	Weights []float64 `yaml:"weights"`
	Columns [][]Node  `yaml:"columns"`

	// container and memo children; memo also uses Key as its cache key.
	Nodes []Node `yaml:"nodes"`
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("scriptfile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a document. Constraint validation of steps and
// label visibility happens when the script runs, the same way it does for
// scripts written in Go.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("scriptfile: decode: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return Document{}, ErrEmptyDocument
	}
	if err := validateNodes(doc.Nodes, "nodes"); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validateNodes(nodes []Node, at string) error {
	for i := range nodes {
		if err := nodes[i].validate(fmt.Sprintf("%s[%d]", at, i)); err != nil {
			return err
		}
	}
	return nil
}

func (n Node) validate(at string) error {
	switch n.Type {
	case NodeTimeInput:
		if _, err := n.valueOption(); err != nil {
			return fmt.Errorf("scriptfile: %s: %w", at, err)
		}
		return nil
	case NodeColumns:
		if len(n.Columns) == 0 {
			return fmt.Errorf("scriptfile: %s: columns node needs at least one column", at)
		}
		if len(n.Weights) > 0 && len(n.Weights) != len(n.Columns) {
			return fmt.Errorf("scriptfile: %s: %d weights for %d columns", at, len(n.Weights), len(n.Columns))
		}
		for i, column := range n.Columns {
			if err := validateNodes(column, fmt.Sprintf("%s.columns[%d]", at, i)); err != nil {
				return err
			}
		}
		return nil
	case NodeContainer:
		return validateNodes(n.Nodes, at+".nodes")
	case NodeMemo:
		if strings.TrimSpace(n.Key) == "" {
			return fmt.Errorf("scriptfile: %s: memo node needs a key", at)
		}
		return validateNodes(n.Nodes, at+".nodes")
	case "":
		return fmt.Errorf("scriptfile: %s: node type is required", at)
	default:
		return fmt.Errorf("scriptfile: %s: unknown node type %q", at, n.Type)
	}
}

// valueOption maps the value field to a declaration option. A nil option
// keeps the "now" default.
func (n Node) valueOption() (script.TimeInputOption, error) {
	switch {
	case n.Value.Kind == 0:
		return nil, nil
	case n.Value.Kind != yaml.ScalarNode:
		return nil, fmt.Errorf("value must be a HH:MM string, null or \"now\"")
	case n.Value.ShortTag() == "!!null":
		return script.WithNoValue(), nil
	case strings.EqualFold(strings.TrimSpace(n.Value.Value), "now"):
		return nil, nil
	}
	tod, err := codec.Decode(strings.TrimSpace(n.Value.Value))
	if err != nil {
		return nil, err
	}
	return script.WithValue(tod), nil
}

// step converts duration strings such as "15m"; everything else is passed
// through for the declaration to validate.
func (n Node) step() any {
	if s, ok := n.Step.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return n.Step
}

func (n Node) options() []script.TimeInputOption {
	var opts []script.TimeInputOption
	if opt, _ := n.valueOption(); opt != nil {
		opts = append(opts, opt)
	}
	if n.Step != nil {
		opts = append(opts, script.WithStep(n.step()))
	}
	if n.Disabled {
		opts = append(opts, script.WithDisabled(true))
	}
	if n.LabelVisibility != "" {
		opts = append(opts, script.WithLabelVisibility(n.LabelVisibility))
	}
	if n.Key != "" {
		opts = append(opts, script.WithKey(n.Key))
	}
	if n.Help != "" {
		opts = append(opts, script.WithHelp(n.Help))
	}
	return opts
}

// Script compiles the document into a script. Memo nodes share one cache per
// returned Func: their bodies run on the first run of that Func and are
// replayed from the cache afterwards.
func (d Document) Script() script.Func {
	cache := memo.NewCache[script.Replay]()
	return func(ctx context.Context, main *script.Container) error {
		return declare(ctx, main, d.Nodes, cache)
	}
}

func declare(ctx context.Context, c *script.Container, nodes []Node, cache *memo.Cache[script.Replay]) error {
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch node.Type {
		case NodeTimeInput:
			if _, err := c.TimeInput(ctx, node.Label, node.options()...); err != nil {
				return err
			}
		case NodeColumns:
			var (
				columns []*script.Container
				err     error
			)
			if len(node.Weights) > 0 {
				columns, err = c.Columns(node.Weights...)
			} else {
				columns, err = c.ColumnsN(len(node.Columns))
			}
			if err != nil {
				return err
			}
			for i, children := range node.Columns {
				if err := declare(ctx, columns[i], children, cache); err != nil {
					return err
				}
			}
		case NodeContainer:
			if err := declare(ctx, c.Container(), node.Nodes, cache); err != nil {
				return err
			}
		case NodeMemo:
			err := c.Memo(ctx, cache, node.Key, func(mctx context.Context, mc *script.Container) error {
				return declare(mctx, mc, node.Nodes, cache)
			})
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("scriptfile: unknown node type %q", node.Type)
		}
	}
	return nil
}

// Inputs counts the time inputs a document declares, memo bodies included.
func (d Document) Inputs() int {
	return countInputs(d.Nodes)
}

func countInputs(nodes []Node) int {
	total := 0
	for _, node := range nodes {
		switch node.Type {
		case NodeTimeInput:
			total++
		case NodeColumns:
			for _, column := range node.Columns {
				total += countInputs(column)
			}
		default:
			total += countInputs(node.Nodes)
		}
	}
	return total
}

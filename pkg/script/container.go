package script

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrInvalidColumns is returned when a column spec is empty or has a
// non-positive weight.
var ErrInvalidColumns = errors.New("script: invalid columns spec")

// Container is a cursor into the delta tree. Each enqueued record takes the
// next child index under the container's path.
type Container struct {
	run  *Run
	path []int
	next int
}

// Path returns a copy of the container's delta path.
func (c *Container) Path() []int {
	return append([]int(nil), c.path...)
}

// Container opens a vertical block and returns it.
func (c *Container) Container() *Container {
	return c.addBlock(model.Block{Vertical: &model.VerticalBlock{}})
}

// Columns opens a horizontal block with one column per weight. Weights are
// relative; they are normalised to sum to one in the emitted records.
func (c *Container) Columns(weights ...float64) ([]*Container, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: at least one column is required", ErrInvalidColumns)
	}
	total := 0.0
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("%w: weight %d is %v, weights must be positive", ErrInvalidColumns, i, w)
		}
		total += w
	}

	row := c.addBlock(model.Block{Horizontal: &model.HorizontalBlock{Gap: "small"}})
	cols := make([]*Container, len(weights))
	for i, w := range weights {
		cols[i] = row.addBlock(model.Block{Column: &model.ColumnBlock{Weight: w / total, Gap: "small"}})
	}
	return cols, nil
}

// ColumnsN opens n equal-width columns.
func (c *Container) ColumnsN(n int) ([]*Container, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: column count must be positive, got %d", ErrInvalidColumns, n)
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	return c.Columns(weights...)
}

func (c *Container) addBlock(block model.Block) *Container {
	path := c.enqueue(model.Delta{Block: &block})
	child := &Container{run: c.run, path: path}
	c.run.recordBlock(c, child, block)
	return child
}

func (c *Container) enqueueElement(element model.Element) {
	c.enqueue(model.Delta{Element: &element})
}

func (c *Container) enqueue(delta model.Delta) []int {
	path := make([]int, len(c.path)+1)
	copy(path, c.path)
	path[len(c.path)] = c.next
	c.next++
	delta.Path = path
	c.run.deltas = append(c.run.deltas, delta)
	return path
}

package model

// DeltaKind distinguishes element deltas from block deltas.
type DeltaKind string

const (
	DeltaNewElement DeltaKind = "new_element"
	DeltaAddBlock   DeltaKind = "add_block"
)

// Delta is one record of a run's output. Path locates the record in the
// container tree: the first segment is the root container, each following
// segment the child index inside its parent block.
type Delta struct {
	Path    []int    `json:"path"`
	Element *Element `json:"new_element,omitempty"`
	Block   *Block   `json:"add_block,omitempty"`
}

// Kind reports whether the delta carries an element or opens a block.
func (d Delta) Kind() DeltaKind {
	if d.Block != nil {
		return DeltaAddBlock
	}
	return DeltaNewElement
}

// Element is the union of renderable leaf records. Exactly one field is set.
type Element struct {
	TimeInput *TimeInput `json:"time_input,omitempty"`
	Exception *Exception `json:"exception,omitempty"`
}

// TimeInput is the transport message of a time input widget.
type TimeInput struct {
	ID              string                 `json:"id"`
	Label           string                 `json:"label"`
	Default         Optional[string]       `json:"default"`
	Value           Optional[string]       `json:"value"`
	Step            int64                  `json:"step"`
	Disabled        bool                   `json:"disabled"`
	Help            string                 `json:"help,omitempty"`
	LabelVisibility LabelVisibilityMessage `json:"label_visibility"`
}

// Exception carries warnings (IsWarning) and script failures.
type Exception struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	IsWarning  bool     `json:"is_warning"`
	StackTrace []string `json:"stack_trace,omitempty"`
}

// Block opens a layout container. Exactly one field is set.
type Block struct {
	Vertical   *VerticalBlock   `json:"vertical,omitempty"`
	Horizontal *HorizontalBlock `json:"horizontal,omitempty"`
	Column     *ColumnBlock     `json:"column,omitempty"`
}

// VerticalBlock stacks children top to bottom.
type VerticalBlock struct{}

// HorizontalBlock lays its column children out side by side.
type HorizontalBlock struct {
	Gap string `json:"gap,omitempty"`
}

// ColumnBlock is one column of a HorizontalBlock. Weight is relative to the
// sum of the sibling weights.
type ColumnBlock struct {
	Weight float64 `json:"weight"`
	Gap    string  `json:"gap,omitempty"`
}

package model

// LabelVisibilityOption mirrors the wire enum for label placement.
type LabelVisibilityOption int32

const (
	LabelVisibilityVisible   LabelVisibilityOption = 0
	LabelVisibilityHidden    LabelVisibilityOption = 1
	LabelVisibilityCollapsed LabelVisibilityOption = 2
)

// String returns the upper-case enum name used in debug output.
func (o LabelVisibilityOption) String() string {
	switch o {
	case LabelVisibilityHidden:
		return "HIDDEN"
	case LabelVisibilityCollapsed:
		return "COLLAPSED"
	default:
		return "VISIBLE"
	}
}

// LabelVisibilityMessage wraps the option the same way the transport message
// nests it (label_visibility.value).
type LabelVisibilityMessage struct {
	Value LabelVisibilityOption `json:"value"`
}

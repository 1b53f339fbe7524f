package validation

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/apierror"
	"github.com/goliatone/go-formstate/pkg/model"
)

// ParseLabelVisibility maps the public tokens onto the wire enum. The empty
// token selects the default, visible.
func ParseLabelVisibility(token string) (model.LabelVisibilityOption, error) {
	switch token {
	case "", "visible":
		return model.LabelVisibilityVisible, nil
	case "hidden":
		return model.LabelVisibilityHidden, nil
	case "collapsed":
		return model.LabelVisibilityCollapsed, nil
	default:
		return model.LabelVisibilityVisible, apierror.New(apierror.KindUnsupportedLabelVisibility,
			"Unsupported label_visibility option '%s'. Valid values are 'visible', 'hidden' or 'collapsed'.", token)
	}
}

// LabelVisibilityToken is the inverse of ParseLabelVisibility.
func LabelVisibilityToken(option model.LabelVisibilityOption) string {
	return strings.ToLower(option.String())
}

package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Renderer converts the records of one run into a byte representation. The
// renderers shipped here are debugging aids; production renderers live with
// the frontend.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, deltas []model.Delta) ([]byte, error)
}

package formstate

import (
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/renderers/text"
)

// EmbeddedTemplates exposes the built-in text renderer templates so callers
// can copy and extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return text.TemplatesFS()
}

package formdesigner

import (
	"io/fs"

	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or override them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

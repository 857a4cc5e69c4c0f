package template

import (
	"io"
)

// TemplateRenderer is the seam HTML renderers use to execute templates. The
// rendered output is returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

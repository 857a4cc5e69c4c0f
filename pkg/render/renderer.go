package render

import (
	"context"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Renderer turns a design into bytes (HTML, text, JSON...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, design model.Design, options RenderOptions) ([]byte, error)
}

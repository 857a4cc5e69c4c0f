package formdesigner

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/binding"
)

// LoadCatalog reads an OpenAPI document from a file path or http(s) URL and
// returns the models it exposes for binding.
func LoadCatalog(ctx context.Context, location string, options ...binding.LoaderOption) (*binding.Catalog, error) {
	src, err := binding.ParseSource(location)
	if err != nil {
		return nil, err
	}
	raw, err := binding.NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("formdesigner: load %s: %w", location, err)
	}
	return binding.Parse(ctx, raw)
}

package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/pkg/library"
)

// openStore builds the design library selected by cfg. The returned func
// releases it.
func openStore(cfg config.StoreConfig, logger hclog.Logger) (library.Store, func() error, error) {
	opts := []library.Option{library.WithLogger(logger.Named("library"))}
	noop := func() error { return nil }
	switch cfg.Driver {
	case "", config.DriverMemory:
		return library.NewMemoryStore(opts...), noop, nil
	case config.DriverBolt:
		store, err := library.OpenBolt(cfg.Path, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.DriverDir:
		format := library.FormatJSON
		if cfg.Format == "yaml" || cfg.Format == "yml" {
			format = library.FormatYAML
		}
		store, err := library.OpenDir(cfg.Path, append(opts, library.WithFormat(format))...)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	formdesigner "github.com/goliatone/go-formdesigner"
	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/internal/logging"
	"github.com/goliatone/go-formdesigner/internal/server"
	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
	"github.com/goliatone/go-formdesigner/pkg/search"
)

func newServeCmd(g *globals) *cobra.Command {
	var flags config.Config
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the designer HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			mergeServeFlags(cmd, &cfg, flags, g)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.New(logging.Options{
				Name:   "formdesigner",
				Level:  cfg.Log.Level,
				JSON:   cfg.Log.JSON,
				Output: cmd.ErrOrStderr(),
			})
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.Listen, "listen", "", "listen address")
	f.StringVar(&flags.Store.Driver, "store", "", "design store driver (memory, bolt, dir)")
	f.StringVar(&flags.Store.Path, "store-path", "", "bolt database file or designs directory")
	f.BoolVar(&flags.Store.Watch, "watch", false, "reload designs when files in the designs directory change")
	f.StringVar(&flags.Models, "models", "", "OpenAPI document exposed for model binding")
	f.StringVar(&flags.Preset, "preset", "", "JSON preset applied to designs before rendering")
	f.StringVar(&flags.Theme.Name, "theme", "", "default theme")
	f.StringVar(&flags.Theme.Variant, "variant", "", "default theme variant")
	f.BoolVar(&flags.Render.Minify, "minify", false, "minify rendered HTML")
	f.BoolVar(&flags.Render.Strict, "strict", false, "refuse to render designs with lint errors")
	f.DurationVar(&flags.Search.Debounce, "search-debounce", 0, "option search debounce window")
	f.IntVar(&flags.Search.CacheSize, "search-cache", 0, "option search cache size")
	return cmd
}

// mergeServeFlags copies explicitly set flags over the file configuration.
func mergeServeFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config, g *globals) {
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}
	if changed("listen") {
		cfg.Listen = flags.Listen
	}
	if changed("store") {
		cfg.Store.Driver = flags.Store.Driver
	}
	if changed("store-path") {
		cfg.Store.Path = flags.Store.Path
	}
	if changed("watch") {
		cfg.Store.Watch = flags.Store.Watch
	}
	if changed("models") {
		cfg.Models = flags.Models
	}
	if changed("preset") {
		cfg.Preset = flags.Preset
	}
	if changed("theme") {
		cfg.Theme.Name = flags.Theme.Name
	}
	if changed("variant") {
		cfg.Theme.Variant = flags.Theme.Variant
	}
	if changed("minify") {
		cfg.Render.Minify = flags.Render.Minify
	}
	if changed("strict") {
		cfg.Render.Strict = flags.Render.Strict
	}
	if changed("search-debounce") {
		cfg.Search.Debounce = flags.Search.Debounce
	}
	if changed("search-cache") {
		cfg.Search.CacheSize = flags.Search.CacheSize
	}
	if cmd.Flags().Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	}
}

func serve(ctx context.Context, cfg config.Config, logger hclog.Logger) error {
	store, closeStore, err := openStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()
	if dir, ok := store.(*library.DirStore); ok && cfg.Store.Watch {
		unsubscribe := dir.OnChange(func(id string) {
			logger.Info("design changed on disk", "design", id)
		})
		defer unsubscribe()
		go func() {
			if err := dir.Watch(ctx); err != nil {
				logger.Error("design watcher stopped", "error", err)
			}
		}()
	}

	renderer, err := html.New(html.WithMinify(cfg.Render.Minify), html.WithLogger(logger.Named("html")))
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	themeName := cfg.Theme.Name
	if themeName == "" {
		themeName = html.DefaultThemeName
	}
	manifest := html.DefaultThemeManifest()
	orchOpts := []orchestrator.Option{
		orchestrator.WithStore(store),
		orchestrator.WithRegistry(registry),
		orchestrator.WithStrictLint(cfg.Render.Strict),
		orchestrator.WithThemeSelector(orchestrator.NewManifestSelector(themeName, cfg.Theme.Variant, &manifest)),
		orchestrator.WithLogger(logger.Named("orchestrator")),
	}
	if cfg.Preset != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(cfg.Preset)), filepath.Base(cfg.Preset))
		if err != nil {
			return err
		}
		orchOpts = append(orchOpts, orchestrator.WithTransformer(preset))
	}
	orch := orchestrator.New(orchOpts...)

	serverOpts := []server.Option{
		server.WithLogger(logger.Named("server")),
		server.WithSearchOptions(
			search.WithDebounce(cfg.Search.Debounce),
			search.WithCacheSize(cfg.Search.CacheSize),
		),
	}
	if cfg.Models != "" {
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		catalog, err := formdesigner.LoadCatalog(loadCtx, cfg.Models, binding.WithHTTPFallback(30*time.Second))
		cancel()
		if err != nil {
			return err
		}
		serverOpts = append(serverOpts, server.WithModels(catalog))
	}

	srv, err := server.New(orch, serverOpts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Listen)
}

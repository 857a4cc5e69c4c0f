package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in manifest.
const DefaultThemeName = "glass"

// DefaultThemeManifest returns the built-in "glass" theme with light and
// dark variants. Tokens become CSS custom properties on the form element.
func DefaultThemeManifest() theme.Manifest {
	return theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"fd-primary":       "#4a2d85",
			"fd-surface":       "rgba(255, 255, 255, 0.72)",
			"fd-border":        "rgba(74, 45, 133, 0.18)",
			"fd-text":          "#1f1633",
			"fd-muted":         "#6b6480",
			"fd-error":         "#c62a4b",
			"fd-radius":        "14px",
			"fd-blur":          "12px",
			"fd-font":          "system-ui, sans-serif",
			"fd-drop-active":   "rgba(74, 45, 133, 0.16)",
			"fd-selected-ring": "#8a63d2",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files:  map[string]string{"stylesheet": StylesheetName, "runtime": RuntimeScriptName},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"fd-surface": "rgba(24, 18, 40, 0.72)",
					"fd-border":  "rgba(200, 184, 255, 0.2)",
					"fd-text":    "#f3efff",
					"fd-muted":   "#b3a9cf",
				},
			},
		},
	}
}

// RendererConfig flattens a manifest and optional variant into the config
// the renderer consumes: variant tokens override base tokens, templates
// become partial overrides and every token is exposed as a CSS variable.
func RendererConfig(manifest theme.Manifest, variant string) theme.RendererConfig {
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	partials := make(map[string]string, len(manifest.Templates))
	for key, value := range manifest.Templates {
		partials[key] = value
	}
	prefix := manifest.Assets.Prefix
	if v, ok := manifest.Variants[variant]; ok {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		for key, value := range v.Templates {
			partials[key] = value
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(name string) string {
			if prefix == "" {
				return name
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(name, "/")
		},
	}
}

var cssValueReplacer = strings.NewReplacer(";", "", "{", "", "}", "", "<", "", ">", "", "\"", "", "\n", " ")

// inlineStyle renders CSS variables as a deterministic style attribute.
func inlineStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		if strings.HasPrefix(name, "--") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(cssValueReplacer.Replace(cfg.CSSVars[name])))
		b.WriteByte(';')
	}
	return b.String()
}

// Package search runs option lookups for searchable dropdowns. Keystrokes
// are debounced, every request carries a generation number and a cancellable
// context, and responses from superseded generations are dropped.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Func looks up options matching query. Implementations must honour ctx.
type Func func(ctx context.Context, query string) ([]model.Option, error)

// EmptyMode controls what a blank query returns from a static source.
type EmptyMode string

const (
	EmptyNone EmptyMode = "none"
	EmptyTop  EmptyMode = "top"
)

// StaticSource searches a fixed option list in memory. Prefix matches rank
// ahead of substring matches; ties keep label order.
func StaticSource(options []model.Option, limit int, empty EmptyMode) Func {
	pool := append([]model.Option{}, options...)
	return func(ctx context.Context, query string) ([]model.Option, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Rank(pool, query, limit, empty), nil
	}
}

// Rank filters and orders options for query.
func Rank(options []model.Option, query string, limit int, empty EmptyMode) []model.Option {
	if limit <= 0 {
		limit = len(options)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if empty != EmptyTop {
			return []model.Option{}
		}
		if len(options) > limit {
			return append([]model.Option{}, options[:limit]...)
		}
		return append([]model.Option{}, options...)
	}

	type match struct {
		option   model.Option
		isPrefix bool
	}
	matches := make([]match, 0, 16)
	for _, opt := range options {
		label := strings.ToLower(opt.Label)
		value := strings.ToLower(opt.Value)
		if !strings.Contains(label, query) && !strings.Contains(value, query) {
			continue
		}
		matches = append(matches, match{
			option:   opt,
			isPrefix: strings.HasPrefix(label, query) || strings.HasPrefix(value, query),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].option.Label < matches[j].option.Label
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.option)
	}
	return out
}

package library

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

var (
	// ErrNotFound is returned when no design exists for an id.
	ErrNotFound = errors.New("library: design not found")
	// ErrMissingID is returned when saving a design without an id.
	ErrMissingID = errors.New("library: design id is required")
	// ErrInvalidID is returned for ids that cannot be used as storage keys.
	ErrInvalidID = errors.New("library: invalid design id")
)

// Store persists designs.
type Store interface {
	Save(ctx context.Context, design model.Design) (model.Design, error)
	Load(ctx context.Context, id string) (model.Design, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

// Summary is the listing entry for a stored design.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Widgets     int       `json:"widgets"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summarize builds the listing entry for d.
func Summarize(d model.Design) Summary {
	return Summary{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Widgets:     len(d.Widgets),
		UpdatedAt:   d.UpdatedAt,
	}
}

// Option configures a store.
type Option func(*config)

type config struct {
	now    func() time.Time
	logger hclog.Logger
	format Format
}

func newConfig(opts []Option) config {
	cfg := config{
		now:    time.Now,
		logger: hclog.NewNullLogger(),
		format: FormatJSON,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithClock overrides the timestamp source used on save.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormat selects the encoding new files are written in. Only DirStore
// honours it.
func WithFormat(format Format) Option {
	return func(c *config) {
		if format == FormatJSON || format == FormatYAML {
			c.format = format
		}
	}
}

// stamp prepares a design for storage: it checks the id, clones the content
// and sets the timestamps.
func (c config) stamp(design model.Design, previous *model.Design) (model.Design, error) {
	if err := checkID(design.ID); err != nil {
		return model.Design{}, err
	}
	out := model.CloneDesign(design)
	now := c.now().UTC()
	if out.CreatedAt.IsZero() {
		if previous != nil && !previous.CreatedAt.IsZero() {
			out.CreatedAt = previous.CreatedAt
		} else {
			out.CreatedAt = now
		}
	}
	out.UpdatedAt = now
	return out, nil
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return ErrInvalidID
	}
	return nil
}

func sortSummaries(out []Summary) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

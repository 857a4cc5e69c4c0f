package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

// Severity ranks lint issues.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one structural problem found in a design.
type Issue struct {
	Severity Severity `json:"severity"`
	WidgetID string   `json:"widgetId,omitempty"`
	FieldID  string   `json:"fieldId,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	target := i.FieldID
	if target == "" {
		target = i.WidgetID
	}
	if target == "" {
		return string(i.Severity) + ": " + i.Message
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, target, i.Message)
}

// LintError carries the error-level issues that stopped a strict render.
type LintError struct {
	Issues []Issue
}

func (e *LintError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "orchestrator: design has lint errors: " + strings.Join(parts, "; ")
}

// IsLintError reports whether err is a *LintError.
func IsLintError(err error) bool {
	var target *LintError
	return errors.As(err, &target)
}

// Lint inspects a design for problems the editor can create but renderers
// cannot honour: duplicate or missing ids, props that do not match the field
// type, dangling or cyclic cascade wiring and option lists with blank values.
func Lint(design model.Design) []Issue {
	var issues []Issue
	add := func(sev Severity, widgetID, fieldID, format string, args ...any) {
		issues = append(issues, Issue{
			Severity: sev,
			WidgetID: widgetID,
			FieldID:  fieldID,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	seenWidgets := make(map[string]struct{})
	seenFields := make(map[string]struct{})
	for _, widget := range design.Widgets {
		if widget.ID == "" {
			add(SeverityError, "", "", "widget %q has no id", widget.Title)
		} else if _, dup := seenWidgets[widget.ID]; dup {
			add(SeverityError, widget.ID, "", "duplicate widget id")
		}
		seenWidgets[widget.ID] = struct{}{}

		if !widget.Type.Known() && widget.Type != "" {
			add(SeverityWarning, widget.ID, "", "unknown widget type %q", widget.Type)
		}
		if !widget.Type.CarriesFields() && len(widget.Fields) > 0 {
			add(SeverityWarning, widget.ID, "", "%s widgets do not render fields", widget.Type)
		}

		for _, field := range widget.Fields {
			if _, dup := seenFields[field.ID]; dup && field.ID != "" {
				add(SeverityError, widget.ID, field.ID, "duplicate field id")
			}
			seenFields[field.ID] = struct{}{}

			if !field.Type.Known() {
				add(SeverityError, widget.ID, field.ID, "unknown field type %q", field.Type)
				continue
			}
			if err := field.Check(); err != nil {
				add(SeverityError, widget.ID, field.ID, "%v", err)
			}
			for i, opt := range field.Options() {
				if strings.TrimSpace(opt.Value) == "" {
					add(SeverityWarning, widget.ID, field.ID, "option %d has no value", i)
				}
			}
			for _, rule := range field.Validations {
				if !rule.Type.Known() {
					add(SeverityWarning, widget.ID, field.ID, "unknown rule type %q", rule.Type)
				}
			}
		}
	}

	byID := make(map[string]model.Field)
	model.EachField(design.Widgets, func(_ *model.Widget, field *model.Field) {
		byID[field.ID] = *field
	})
	model.EachField(design.Widgets, func(widget *model.Widget, field *model.Field) {
		c := field.Cascade()
		if c == nil {
			return
		}
		if c.Source != "" {
			if _, ok := byID[c.Source]; !ok {
				add(SeverityWarning, widget.ID, field.ID, "cascade source %q does not exist", c.Source)
			} else if c.Source == field.ID {
				add(SeverityError, widget.ID, field.ID, "field cascades from itself")
			}
		}
		if c.Target != "" {
			if _, ok := byID[c.Target]; !ok {
				add(SeverityWarning, widget.ID, field.ID, "cascade target %q does not exist", c.Target)
			}
		}
	})

	for _, cycle := range cascade.NewGraph(design.Widgets).Cycles() {
		if len(cycle) < 2 {
			continue
		}
		add(SeverityError, "", cycle[0], "cascade cycle %s", strings.Join(append(cycle, cycle[0]), " -> "))
	}
	return issues
}

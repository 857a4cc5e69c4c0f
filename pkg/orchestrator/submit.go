package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

// ErrInvalidSubmission is returned by Submit when validation fails.
var ErrInvalidSubmission = errors.New("orchestrator: submission has validation errors")

// ValidateRequest names the design and the value bag to check.
type ValidateRequest struct {
	DesignID string
	Design   *model.Design
	Values   model.Values
}

// Validation is the outcome of a Validate call.
type Validation struct {
	Design model.Design
	Values model.Values
	Errors []model.ValidationError
}

// Valid reports whether no errors were found.
func (v Validation) Valid() bool { return len(v.Errors) == 0 }

// FieldErrors groups errors by field id, first error first.
func (v Validation) FieldErrors() map[string][]string {
	return render.MapErrors(v.Errors)
}

// Validate runs the validation engine over the request values. Values whose
// option is no longer offered by a cascading field are dropped first.
func (o *Orchestrator) Validate(ctx context.Context, req ValidateRequest) (Validation, error) {
	if err := o.ready(ctx); err != nil {
		return Validation{}, err
	}
	design, err := o.Resolve(ctx, req.DesignID, req.Design)
	if err != nil {
		return Validation{}, err
	}

	values := seedValues(design, req.Values)
	dropStaleCascades(design, values)
	return Validation{
		Design: design,
		Values: values,
		Errors: o.validator.Validate(design.Widgets, values),
	}, nil
}

// SubmitFunc receives the validated values.
type SubmitFunc func(ctx context.Context, design model.Design, values model.Values) error

// Submit validates and, when clean, hands the values to fn. A dirty
// submission returns the validation and ErrInvalidSubmission.
func (o *Orchestrator) Submit(ctx context.Context, req ValidateRequest, fn SubmitFunc) (Validation, error) {
	result, err := o.Validate(ctx, req)
	if err != nil {
		return result, err
	}
	if !result.Valid() {
		return result, ErrInvalidSubmission
	}
	if fn != nil {
		if err := fn(ctx, result.Design, result.Values.Clone()); err != nil {
			return result, fmt.Errorf("orchestrator: submit: %w", err)
		}
	}
	return result, nil
}

// seedValues copies values and fills field defaults that were not supplied.
// Keys that do not belong to a field are kept.
func seedValues(design model.Design, values model.Values) model.Values {
	out := values.Clone()
	model.EachField(design.Widgets, func(_ *model.Widget, field *model.Field) {
		if _, ok := out[field.ID]; !ok && field.DefaultValue != nil {
			out[field.ID] = field.DefaultValue
		}
	})
	return out
}

func dropStaleCascades(design model.Design, values model.Values) {
	model.EachField(design.Widgets, func(_ *model.Widget, field *model.Field) {
		if !cascade.IsCascading(*field) {
			return
		}
		current := values.String(field.ID)
		if current == "" {
			return
		}
		for _, opt := range cascade.ResolveOptions(*field, values) {
			if opt.Value == current {
				return
			}
		}
		values[field.ID] = cascade.ResetValue(*field)
	})
}

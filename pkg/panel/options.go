package panel

import (
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

func (p *Panel) editOptions(fn func(opts []model.Option) ([]model.Option, error)) error {
	return p.mutateField(func(_ *model.Widget, field *model.Field) error {
		if !field.Type.OptionBearing() {
			return fmt.Errorf("%w: %s", ErrNotChoice, field.Type)
		}
		next, err := fn(append([]model.Option(nil), field.Options()...))
		if err != nil {
			return err
		}
		return model.ApplyFieldPatch(field, model.FieldPatch{Options: &next})
	})
}

// AddOption appends an option. Blank values get a generated value and blank
// labels a numbered label.
func (p *Panel) AddOption(opt model.Option) error {
	return p.editOptions(func(opts []model.Option) ([]model.Option, error) {
		if opt.Value == "" {
			opt.Value = p.ids.NewID(model.PrefixOption)
		}
		if opt.Label == "" {
			opt.Label = fmt.Sprintf("Option %d", len(opts)+1)
		}
		return append(opts, opt), nil
	})
}

// UpdateOption replaces the option at index.
func (p *Panel) UpdateOption(index int, opt model.Option) error {
	return p.editOptions(func(opts []model.Option) ([]model.Option, error) {
		if index < 0 || index >= len(opts) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, index)
		}
		opts[index] = opt
		return opts, nil
	})
}

// RemoveOption deletes the option at index.
func (p *Panel) RemoveOption(index int) error {
	return p.editOptions(func(opts []model.Option) ([]model.Option, error) {
		if index < 0 || index >= len(opts) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, index)
		}
		return append(opts[:index], opts[index+1:]...), nil
	})
}

// MoveOption moves the option at from to position to.
func (p *Panel) MoveOption(from, to int) error {
	return p.editOptions(func(opts []model.Option) ([]model.Option, error) {
		if from < 0 || from >= len(opts) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, from)
		}
		if to < 0 || to >= len(opts) {
			return nil, fmt.Errorf("%w: %d", ErrOptionIndex, to)
		}
		opt := opts[from]
		opts = append(opts[:from], opts[from+1:]...)
		opts = append(opts[:to], append([]model.Option{opt}, opts[to:]...)...)
		return opts, nil
	})
}

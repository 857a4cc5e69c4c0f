package model

// CloneField deep copies a field, including props and rules.
func CloneField(f Field) Field {
	out := f
	if f.Validations != nil {
		out.Validations = append([]ValidationRule{}, f.Validations...)
	}
	if f.Props != nil {
		out.Props = f.Props.Clone()
	}
	out.DefaultValue = cloneValue(f.DefaultValue)
	return out
}

// CloneWidget deep copies a widget and its fields.
func CloneWidget(w Widget) Widget {
	out := w
	if w.Fields != nil {
		out.Fields = make([]Field, len(w.Fields))
		for i, field := range w.Fields {
			out.Fields[i] = CloneField(field)
		}
	}
	return out
}

// CloneWidgets deep copies a widget list.
func CloneWidgets(widgets []Widget) []Widget {
	if widgets == nil {
		return nil
	}
	out := make([]Widget, len(widgets))
	for i, widget := range widgets {
		out[i] = CloneWidget(widget)
	}
	return out
}

// CloneDesign deep copies a design.
func CloneDesign(d Design) Design {
	out := d
	out.Widgets = CloneWidgets(d.Widgets)
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string{}, typed...)
	case []any:
		return append([]any{}, typed...)
	case *DateTime:
		if typed == nil {
			return nil
		}
		copied := *typed
		return &copied
	default:
		return value
	}
}

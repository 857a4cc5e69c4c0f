package html

// Chrome class names. Themes and host stylesheets target these.
const (
	ClassForm          = "fd-form"
	ClassSummary       = "fd-summary"
	ClassWidget        = "fd-widget"
	ClassWidgetTitle   = "fd-widget__title"
	ClassWidgetGrid    = "fd-widget__grid"
	ClassField         = "fd-field"
	ClassFieldLabel    = "fd-field__label"
	ClassRequired      = "fd-required"
	ClassFieldError    = "fd-field__error"
	ClassFieldHelp     = "fd-field__help"
	ClassDropZone      = "fd-dropzone"
	ClassSelected      = "fd-selected"
	ClassFormActions   = "fd-form__actions"
	fieldDOMPrefix     = "fd-field"
	widgetDOMPrefix    = "fd-widget"
	defaultSubmitLabel = "Submit"
)

func modeClass(mode string) string {
	return ClassForm + "--" + mode
}

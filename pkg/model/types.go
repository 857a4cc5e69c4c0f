package model

import "strings"

// FieldType tags the kind of input a field describes.
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeTextarea   FieldType = "textarea"
	FieldTypeSelect     FieldType = "select"
	FieldTypeSearchable FieldType = "searchable-dropdown"
	FieldTypeCheckbox   FieldType = "checkbox"
	FieldTypeRadio      FieldType = "radio"
	FieldTypeNumber     FieldType = "number"
	FieldTypeEmail      FieldType = "email"
	FieldTypePassword   FieldType = "password"
	FieldTypeDate       FieldType = "date"
	FieldTypeTime       FieldType = "time"
	FieldTypeDateTime   FieldType = "datetime"
	FieldTypeFile       FieldType = "file"
	FieldTypeTel        FieldType = "tel"
	FieldTypeURL        FieldType = "url"
	FieldTypeColor      FieldType = "color"
	FieldTypeRange      FieldType = "range"
	FieldTypeRating     FieldType = "rating"
	FieldTypeToggle     FieldType = "toggle"
	FieldTypeCurrency   FieldType = "currency"
	FieldTypeMask       FieldType = "mask"
	FieldTypeBiometric  FieldType = "biometric"
	FieldTypeQRCode     FieldType = "qrcode"
	FieldTypeBarcode    FieldType = "barcode"
	FieldTypeMulti      FieldType = "multiselect"
	FieldTypeAvatar     FieldType = "avatar"
	FieldTypePhoto      FieldType = "photo"
)

var knownFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeSelect,
	FieldTypeSearchable,
	FieldTypeCheckbox,
	FieldTypeRadio,
	FieldTypeNumber,
	FieldTypeEmail,
	FieldTypePassword,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeDateTime,
	FieldTypeFile,
	FieldTypeTel,
	FieldTypeURL,
	FieldTypeColor,
	FieldTypeRange,
	FieldTypeRating,
	FieldTypeToggle,
	FieldTypeCurrency,
	FieldTypeMask,
	FieldTypeBiometric,
	FieldTypeQRCode,
	FieldTypeBarcode,
	FieldTypeMulti,
	FieldTypeAvatar,
	FieldTypePhoto,
}

// FieldTypes returns the closed set of field types understood by the engine,
// in palette order.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), knownFieldTypes...)
}

// Known reports whether t belongs to the closed set of field types.
func (t FieldType) Known() bool {
	for _, candidate := range knownFieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// OptionBearing reports whether fields of this type pick from an option list.
func (t FieldType) OptionBearing() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeMulti, FieldTypeSearchable:
		return true
	default:
		return false
	}
}

// WidgetType tags a widget on the canvas. Only form widgets carry fields.
type WidgetType string

const (
	WidgetTypeForm    WidgetType = "form"
	WidgetTypeList    WidgetType = "list"
	WidgetTypeCard    WidgetType = "card"
	WidgetTypeText    WidgetType = "text"
	WidgetTypeImage   WidgetType = "image"
	WidgetTypeDivider WidgetType = "divider"
	WidgetTypeSpacer  WidgetType = "spacer"
)

// Known reports whether w is a recognised widget type.
func (w WidgetType) Known() bool {
	switch w {
	case WidgetTypeForm, WidgetTypeList, WidgetTypeCard, WidgetTypeText,
		WidgetTypeImage, WidgetTypeDivider, WidgetTypeSpacer:
		return true
	default:
		return false
	}
}

// CarriesFields reports whether widgets of this type own a field list.
func (w WidgetType) CarriesFields() bool {
	return w == WidgetTypeForm || w == ""
}

// Width is a layout hint mapped onto a column span by the grid renderer.
type Width string

const (
	WidthFull    Width = "full"
	WidthHalf    Width = "half"
	WidthThird   Width = "third"
	WidthQuarter Width = "quarter"
)

// Known reports whether w is one of the supported widths.
func (w Width) Known() bool {
	switch w {
	case WidthFull, WidthHalf, WidthThird, WidthQuarter:
		return true
	default:
		return false
	}
}

// Mode selects how fields are presented: design (inert palette preview),
// preview (live form) or readonly (present but not interactive).
type Mode string

const (
	ModeDesign   Mode = "design"
	ModePreview  Mode = "preview"
	ModeReadOnly Mode = "readonly"
)

// ParseMode normalises a user supplied mode, defaulting to preview.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDesign:
		return ModeDesign
	case ModeReadOnly, "read-only", "view":
		return ModeReadOnly
	default:
		return ModePreview
	}
}

// Option is a selectable value/label pair.
type Option struct {
	Value string `json:"value" yaml:"value" validate:"required"`
	Label string `json:"label" yaml:"label"`
}

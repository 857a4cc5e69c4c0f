package model

// PropsFamily identifies which attribute set a Props variant carries.
type PropsFamily string

const (
	FamilyNone     PropsFamily = "none"
	FamilyText     PropsFamily = "text"
	FamilyNumber   PropsFamily = "number"
	FamilyRange    PropsFamily = "range"
	FamilyRating   PropsFamily = "rating"
	FamilyCurrency PropsFamily = "currency"
	FamilyMask     PropsFamily = "mask"
	FamilyChoice   PropsFamily = "choice"
	FamilySearch   PropsFamily = "search"
)

// Props is the type-specific part of a Field. Each field type maps to exactly
// one family; see PropsFor.
type Props interface {
	Family() PropsFamily
	Clone() Props
	encode(w *fieldWire)
}

// FamilyFor returns the props family used by the supplied field type.
func FamilyFor(t FieldType) PropsFamily {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeEmail, FieldTypePassword,
		FieldTypeTel, FieldTypeURL:
		return FamilyText
	case FieldTypeNumber:
		return FamilyNumber
	case FieldTypeRange:
		return FamilyRange
	case FieldTypeRating:
		return FamilyRating
	case FieldTypeCurrency:
		return FamilyCurrency
	case FieldTypeMask:
		return FamilyMask
	case FieldTypeSelect, FieldTypeRadio, FieldTypeMulti:
		return FamilyChoice
	case FieldTypeSearchable:
		return FamilySearch
	default:
		return FamilyNone
	}
}

// PropsFor returns the zero props variant for a field type.
func PropsFor(t FieldType) Props {
	switch FamilyFor(t) {
	case FamilyText:
		return &TextProps{}
	case FamilyNumber:
		return &NumberProps{}
	case FamilyRange:
		return &RangeProps{}
	case FamilyRating:
		return &RatingProps{}
	case FamilyCurrency:
		return &CurrencyProps{}
	case FamilyMask:
		return &MaskProps{}
	case FamilyChoice:
		return &ChoiceProps{}
	case FamilySearch:
		return &SearchProps{}
	default:
		return NoProps{}
	}
}

// NoProps is used by types without extra attributes (checkbox, date, file...).
type NoProps struct{}

func (NoProps) Family() PropsFamily { return FamilyNone }
func (NoProps) Clone() Props        { return NoProps{} }
func (NoProps) encode(*fieldWire)   {}

// TextProps decorates single-line text inputs.
type TextProps struct {
	Prefix string
	Suffix string
}

func (p *TextProps) Family() PropsFamily { return FamilyText }

func (p *TextProps) Clone() Props {
	if p == nil {
		return &TextProps{}
	}
	cloned := *p
	return &cloned
}

func (p *TextProps) encode(w *fieldWire) {
	w.Prefix = p.Prefix
	w.Suffix = p.Suffix
}

// NumberProps bounds numeric inputs.
type NumberProps struct {
	Min    *float64
	Max    *float64
	Step   *float64
	Prefix string
	Suffix string
}

func (p *NumberProps) Family() PropsFamily { return FamilyNumber }

func (p *NumberProps) Clone() Props {
	if p == nil {
		return &NumberProps{}
	}
	return &NumberProps{
		Min:    cloneFloat(p.Min),
		Max:    cloneFloat(p.Max),
		Step:   cloneFloat(p.Step),
		Prefix: p.Prefix,
		Suffix: p.Suffix,
	}
}

func (p *NumberProps) encode(w *fieldWire) {
	w.Min = cloneFloat(p.Min)
	w.Max = cloneFloat(p.Max)
	w.Step = cloneFloat(p.Step)
	w.Prefix = p.Prefix
	w.Suffix = p.Suffix
}

// RangeProps configures slider controls. Nil bounds fall back to 0/100/1.
type RangeProps struct {
	Min       *float64
	Max       *float64
	Step      *float64
	ShowValue bool
}

func (p *RangeProps) Family() PropsFamily { return FamilyRange }

func (p *RangeProps) Clone() Props {
	if p == nil {
		return &RangeProps{}
	}
	return &RangeProps{
		Min:       cloneFloat(p.Min),
		Max:       cloneFloat(p.Max),
		Step:      cloneFloat(p.Step),
		ShowValue: p.ShowValue,
	}
}

func (p *RangeProps) encode(w *fieldWire) {
	w.Min = cloneFloat(p.Min)
	w.Max = cloneFloat(p.Max)
	w.Step = cloneFloat(p.Step)
	w.ShowValue = p.ShowValue
}

// Bounds returns the effective min/max/step.
func (p *RangeProps) Bounds() (min, max, step float64) {
	min, max, step = 0, 100, 1
	if p == nil {
		return
	}
	if p.Min != nil {
		min = *p.Min
	}
	if p.Max != nil {
		max = *p.Max
	}
	if p.Step != nil && *p.Step > 0 {
		step = *p.Step
	}
	return
}

// DefaultMaxRating is the star count used when MaxRating is unset.
const DefaultMaxRating = 5

// RatingProps configures star ratings.
type RatingProps struct {
	MaxRating int
}

func (p *RatingProps) Family() PropsFamily { return FamilyRating }

func (p *RatingProps) Clone() Props {
	if p == nil {
		return &RatingProps{}
	}
	cloned := *p
	return &cloned
}

func (p *RatingProps) encode(w *fieldWire) {
	w.MaxRating = p.MaxRating
}

// Stars returns the effective number of stars.
func (p *RatingProps) Stars() int {
	if p == nil || p.MaxRating <= 0 {
		return DefaultMaxRating
	}
	return p.MaxRating
}

// DefaultCurrencySymbol is displayed when CurrencyProps.Symbol is empty.
const DefaultCurrencySymbol = "$"

// CurrencyProps configures currency inputs. The symbol is display-only.
type CurrencyProps struct {
	Symbol string
	Code   string
}

func (p *CurrencyProps) Family() PropsFamily { return FamilyCurrency }

func (p *CurrencyProps) Clone() Props {
	if p == nil {
		return &CurrencyProps{}
	}
	cloned := *p
	return &cloned
}

func (p *CurrencyProps) encode(w *fieldWire) {
	w.CurrencySymbol = p.Symbol
	w.CurrencyCode = p.Code
}

// DisplaySymbol returns the symbol rendered before the amount.
func (p *CurrencyProps) DisplaySymbol() string {
	if p == nil || p.Symbol == "" {
		return DefaultCurrencySymbol
	}
	return p.Symbol
}

// MaskProps carries the mask pattern (9 digit, a letter, * any).
type MaskProps struct {
	Mask string
}

func (p *MaskProps) Family() PropsFamily { return FamilyMask }

func (p *MaskProps) Clone() Props {
	if p == nil {
		return &MaskProps{}
	}
	cloned := *p
	return &cloned
}

func (p *MaskProps) encode(w *fieldWire) {
	w.Mask = p.Mask
}

// Cascade links a dependent choice field to the field controlling its options.
// Mapping is keyed by the source field's selected value.
type Cascade struct {
	Source  string
	Target  string
	Mapping map[string][]Option
}

// Clone deep copies the cascade.
func (c *Cascade) Clone() *Cascade {
	if c == nil {
		return nil
	}
	return &Cascade{
		Source:  c.Source,
		Target:  c.Target,
		Mapping: cloneMapping(c.Mapping),
	}
}

// Empty reports whether the cascade carries no wiring at all.
func (c *Cascade) Empty() bool {
	return c == nil || (c.Source == "" && c.Target == "" && len(c.Mapping) == 0)
}

// ChoiceProps configures select, radio and multiselect fields.
type ChoiceProps struct {
	Options []Option
	Cascade *Cascade
}

func (p *ChoiceProps) Family() PropsFamily { return FamilyChoice }

func (p *ChoiceProps) Clone() Props {
	return p.cloneChoice()
}

func (p *ChoiceProps) cloneChoice() *ChoiceProps {
	if p == nil {
		return &ChoiceProps{}
	}
	return &ChoiceProps{
		Options: cloneOptions(p.Options),
		Cascade: p.Cascade.Clone(),
	}
}

func (p *ChoiceProps) encode(w *fieldWire) {
	w.Options = cloneOptions(p.Options)
	if c := p.Cascade; !c.Empty() {
		w.CascadeSource = c.Source
		w.CascadeTarget = c.Target
		w.CascadeMapping = cloneMapping(c.Mapping)
	}
}

// SearchProps configures searchable dropdowns.
type SearchProps struct {
	ChoiceProps
	Multiple         bool
	ServerSideSearch bool
}

func (p *SearchProps) Family() PropsFamily { return FamilySearch }

func (p *SearchProps) Clone() Props {
	if p == nil {
		return &SearchProps{}
	}
	return &SearchProps{
		ChoiceProps:      *p.ChoiceProps.cloneChoice(),
		Multiple:         p.Multiple,
		ServerSideSearch: p.ServerSideSearch,
	}
}

func (p *SearchProps) encode(w *fieldWire) {
	p.ChoiceProps.encode(w)
	w.Multiple = p.Multiple
	w.ServerSideSearch = p.ServerSideSearch
}

func decodeProps(t FieldType, w fieldWire) Props {
	var cascade *Cascade
	if w.CascadeSource != "" || w.CascadeTarget != "" || len(w.CascadeMapping) > 0 {
		cascade = &Cascade{
			Source:  w.CascadeSource,
			Target:  w.CascadeTarget,
			Mapping: cloneMapping(w.CascadeMapping),
		}
	}

	switch FamilyFor(t) {
	case FamilyText:
		return &TextProps{Prefix: w.Prefix, Suffix: w.Suffix}
	case FamilyNumber:
		return &NumberProps{Min: w.Min, Max: w.Max, Step: w.Step, Prefix: w.Prefix, Suffix: w.Suffix}
	case FamilyRange:
		return &RangeProps{Min: w.Min, Max: w.Max, Step: w.Step, ShowValue: w.ShowValue}
	case FamilyRating:
		return &RatingProps{MaxRating: w.MaxRating}
	case FamilyCurrency:
		return &CurrencyProps{Symbol: w.CurrencySymbol, Code: w.CurrencyCode}
	case FamilyMask:
		return &MaskProps{Mask: w.Mask}
	case FamilyChoice:
		return &ChoiceProps{Options: cloneOptions(w.Options), Cascade: cascade}
	case FamilySearch:
		return &SearchProps{
			ChoiceProps:      ChoiceProps{Options: cloneOptions(w.Options), Cascade: cascade},
			Multiple:         w.Multiple,
			ServerSideSearch: w.ServerSideSearch,
		}
	default:
		return NoProps{}
	}
}

// convertProps carries compatible attributes across a type change: choice
// families keep options and cascade wiring, numeric families keep bounds.
func convertProps(current Props, next FieldType) Props {
	target := PropsFor(next)
	if current == nil {
		return target
	}
	if current.Family() == target.Family() {
		return current.Clone()
	}

	switch dst := target.(type) {
	case *ChoiceProps:
		if src, ok := current.(*SearchProps); ok {
			return src.ChoiceProps.cloneChoice()
		}
	case *SearchProps:
		if src, ok := current.(*ChoiceProps); ok {
			dst.ChoiceProps = *src.cloneChoice()
		}
	case *NumberProps:
		if src, ok := current.(*RangeProps); ok {
			dst.Min, dst.Max, dst.Step = cloneFloat(src.Min), cloneFloat(src.Max), cloneFloat(src.Step)
		}
		if src, ok := current.(*TextProps); ok {
			dst.Prefix, dst.Suffix = src.Prefix, src.Suffix
		}
	case *RangeProps:
		if src, ok := current.(*NumberProps); ok {
			dst.Min, dst.Max, dst.Step = cloneFloat(src.Min), cloneFloat(src.Max), cloneFloat(src.Step)
		}
	case *TextProps:
		if src, ok := current.(*NumberProps); ok {
			dst.Prefix, dst.Suffix = src.Prefix, src.Suffix
		}
	}
	return target
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneOptions(src []Option) []Option {
	if src == nil {
		return nil
	}
	return append([]Option{}, src...)
}

func cloneMapping(src map[string][]Option) map[string][]Option {
	if src == nil {
		return nil
	}
	out := make(map[string][]Option, len(src))
	for key, options := range src {
		out[key] = cloneOptions(options)
	}
	return out
}

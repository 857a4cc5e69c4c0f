package panel

import "github.com/goliatone/go-formdesigner/pkg/model"

// Tab groups related editors.
type Tab string

const (
	TabGeneral    Tab = "general"
	TabValidation Tab = "validation"
	TabBinding    Tab = "binding"
	TabAdvanced   Tab = "advanced"
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabGeneral, TabValidation, TabBinding, TabAdvanced}
}

// Editor names one attribute editor shown in a tab.
type Editor string

const (
	EditorLabel            Editor = "label"
	EditorType             Editor = "type"
	EditorPlaceholder      Editor = "placeholder"
	EditorHelpText         Editor = "helpText"
	EditorDescription      Editor = "description"
	EditorWidth            Editor = "width"
	EditorRequired         Editor = "required"
	EditorOptions          Editor = "options"
	EditorTitle            Editor = "title"
	EditorColumns          Editor = "columns"
	EditorSpacing          Editor = "spacing"
	EditorShowBorder       Editor = "showBorder"
	EditorShowShadow       Editor = "showShadow"
	EditorRules            Editor = "rules"
	EditorModelBinding     Editor = "modelBinding"
	EditorModelProperty    Editor = "modelProperty"
	EditorDefaultValue     Editor = "defaultValue"
	EditorBounds           Editor = "bounds"
	EditorShowValue        Editor = "showValue"
	EditorMaxRating        Editor = "maxRating"
	EditorCurrency         Editor = "currency"
	EditorMask             Editor = "mask"
	EditorAffixes          Editor = "affixes"
	EditorMultiple         Editor = "multiple"
	EditorServerSideSearch Editor = "serverSideSearch"
	EditorCascade          Editor = "cascade"
)

// RuleEditor describes one row of the validation rule list. ValueInput is
// set when the rule type takes a threshold or pattern.
type RuleEditor struct {
	ID         string         `json:"id"`
	Type       model.RuleType `json:"type"`
	Value      string         `json:"value,omitempty"`
	Message    string         `json:"message,omitempty"`
	Enabled    bool           `json:"enabled"`
	ValueInput bool           `json:"valueInput"`
}

// Section is the content of one tab.
type Section struct {
	Tab     Tab          `json:"tab"`
	Editors []Editor     `json:"editors"`
	Rules   []RuleEditor `json:"rules,omitempty"`
}

func fieldSections(field model.Field) []Section {
	general := []Editor{EditorLabel, EditorType, EditorPlaceholder, EditorHelpText, EditorDescription, EditorWidth, EditorRequired}
	if field.Type.OptionBearing() {
		general = append(general, EditorOptions)
	}

	rules := make([]RuleEditor, 0, len(field.Validations))
	for _, rule := range field.Validations {
		rules = append(rules, RuleEditor{
			ID:         rule.ID,
			Type:       rule.Type,
			Value:      rule.Value,
			Message:    rule.Message,
			Enabled:    rule.Enabled,
			ValueInput: rule.Type.TakesValue(),
		})
	}

	return []Section{
		{Tab: TabGeneral, Editors: general},
		{Tab: TabValidation, Editors: []Editor{EditorRules}, Rules: rules},
		{Tab: TabBinding, Editors: []Editor{EditorModelProperty, EditorDefaultValue}},
		{Tab: TabAdvanced, Editors: advancedEditors(field.Type)},
	}
}

func advancedEditors(t model.FieldType) []Editor {
	switch model.FamilyFor(t) {
	case model.FamilyText:
		return []Editor{EditorAffixes}
	case model.FamilyNumber:
		return []Editor{EditorBounds, EditorAffixes}
	case model.FamilyRange:
		return []Editor{EditorBounds, EditorShowValue}
	case model.FamilyRating:
		return []Editor{EditorMaxRating}
	case model.FamilyCurrency:
		return []Editor{EditorCurrency}
	case model.FamilyMask:
		return []Editor{EditorMask}
	case model.FamilyChoice:
		return []Editor{EditorCascade}
	case model.FamilySearch:
		return []Editor{EditorMultiple, EditorServerSideSearch, EditorCascade}
	}
	return []Editor{}
}

func widgetSections(widget model.Widget) []Section {
	general := []Editor{EditorTitle}
	if widget.Type.CarriesFields() {
		general = append(general, EditorColumns)
	}
	general = append(general, EditorSpacing, EditorShowBorder, EditorShowShadow)
	return []Section{
		{Tab: TabGeneral, Editors: general},
		{Tab: TabValidation, Editors: []Editor{}},
		{Tab: TabBinding, Editors: []Editor{EditorModelBinding}},
		{Tab: TabAdvanced, Editors: []Editor{}},
	}
}

package palette

import "github.com/goliatone/go-formdesigner/pkg/model"

type fieldSeed struct {
	t           model.FieldType
	name        string
	category    string
	description string
	icon        string
	props       model.Props
	placeholder string
}

var fieldSeeds = []fieldSeed{
	{t: model.FieldTypeText, name: "Text Input", category: CategoryBasic, description: "Single line text", icon: "type", placeholder: "Enter text"},
	{t: model.FieldTypeTextarea, name: "Text Area", category: CategoryBasic, description: "Multi-line text", icon: "align-left", placeholder: "Enter text"},
	{t: model.FieldTypeNumber, name: "Number", category: CategoryBasic, description: "Numeric input", icon: "hash"},
	{t: model.FieldTypeEmail, name: "Email", category: CategoryBasic, description: "Email address", icon: "mail", placeholder: "name@example.com"},
	{t: model.FieldTypePassword, name: "Password", category: CategoryBasic, description: "Masked secret input", icon: "lock"},
	{t: model.FieldTypeTel, name: "Phone", category: CategoryBasic, description: "Telephone number", icon: "phone"},
	{t: model.FieldTypeURL, name: "URL", category: CategoryBasic, description: "Web address", icon: "link", placeholder: "https://"},
	{t: model.FieldTypeDate, name: "Date", category: CategoryBasic, description: "Calendar date", icon: "calendar"},
	{t: model.FieldTypeTime, name: "Time", category: CategoryBasic, description: "Time of day", icon: "clock"},
	{t: model.FieldTypeDateTime, name: "Date & Time", category: CategoryBasic, description: "Date with time", icon: "calendar-clock"},
	{t: model.FieldTypeSelect, name: "Dropdown", category: CategoryChoice, description: "Pick one option", icon: "chevron-down", props: &model.ChoiceProps{Options: seedOptions()}},
	{t: model.FieldTypeRadio, name: "Radio Group", category: CategoryChoice, description: "Pick one of a few options", icon: "circle-dot", props: &model.ChoiceProps{Options: seedOptions()}},
	{t: model.FieldTypeCheckbox, name: "Checkbox", category: CategoryChoice, description: "Yes or no", icon: "check-square"},
	{t: model.FieldTypeToggle, name: "Toggle", category: CategoryChoice, description: "On/off switch", icon: "toggle-left"},
	{t: model.FieldTypeMulti, name: "Multi Select", category: CategoryChoice, description: "Pick several options", icon: "list-checks", props: &model.ChoiceProps{Options: seedOptions()}},
	{t: model.FieldTypeSearchable, name: "Searchable Dropdown", category: CategoryChoice, description: "Type to filter options", icon: "search", props: &model.SearchProps{ChoiceProps: model.ChoiceProps{Options: seedOptions()}}},
	{t: model.FieldTypeRating, name: "Rating", category: CategoryAdvanced, description: "Star rating", icon: "star", props: &model.RatingProps{MaxRating: model.DefaultMaxRating}},
	{t: model.FieldTypeRange, name: "Slider", category: CategoryAdvanced, description: "Numeric range slider", icon: "sliders", props: &model.RangeProps{ShowValue: true}},
	{t: model.FieldTypeColor, name: "Color Picker", category: CategoryAdvanced, description: "Pick a colour", icon: "palette"},
	{t: model.FieldTypeCurrency, name: "Currency", category: CategoryAdvanced, description: "Monetary amount", icon: "dollar-sign", props: &model.CurrencyProps{Symbol: model.DefaultCurrencySymbol, Code: "USD"}},
	{t: model.FieldTypeMask, name: "Masked Input", category: CategoryAdvanced, description: "Input following a pattern", icon: "scan-line", props: &model.MaskProps{Mask: "(999) 999-9999"}},
	{t: model.FieldTypeFile, name: "File Upload", category: CategoryMedia, description: "Attach a file", icon: "paperclip"},
	{t: model.FieldTypePhoto, name: "Photo", category: CategoryMedia, description: "Capture or upload a photo", icon: "camera"},
	{t: model.FieldTypeAvatar, name: "Avatar", category: CategoryMedia, description: "Profile picture", icon: "user-circle"},
	{t: model.FieldTypeBiometric, name: "Biometric", category: CategoryDevice, description: "Fingerprint confirmation", icon: "fingerprint"},
	{t: model.FieldTypeQRCode, name: "QR Scanner", category: CategoryDevice, description: "Scan a QR code", icon: "qr-code"},
	{t: model.FieldTypeBarcode, name: "Barcode Scanner", category: CategoryDevice, description: "Scan a barcode", icon: "barcode"},
}

func seedOptions() []model.Option {
	return []model.Option{
		{Value: "option-1", Label: "Option 1"},
		{Value: "option-2", Label: "Option 2"},
		{Value: "option-3", Label: "Option 3"},
	}
}

func builtinEntries() []Entry {
	entries := make([]Entry, 0, len(fieldSeeds)+4)
	for _, seed := range fieldSeeds {
		field := model.NewField("", seed.t, seed.name)
		field.Placeholder = seed.placeholder
		if seed.props != nil {
			field.Props = seed.props.Clone()
		}
		entries = append(entries, Entry{
			ID:          string(seed.t),
			Name:        seed.name,
			Category:    seed.category,
			Description: seed.description,
			Icon:        seed.icon,
			DefaultConfig: DefaultConfig{
				Type:     model.WidgetTypeForm,
				Title:    seed.name,
				Settings: model.DefaultWidgetSettings(),
				Field:    &field,
			},
		})
	}

	layout := []Entry{
		{ID: "heading", Name: "Heading", Description: "Static text block", Icon: "heading", DefaultConfig: DefaultConfig{Type: model.WidgetTypeText, Title: "Heading"}},
		{ID: "image", Name: "Image", Description: "Static image", Icon: "image", DefaultConfig: DefaultConfig{Type: model.WidgetTypeImage, Title: "Image"}},
		{ID: "divider", Name: "Divider", Description: "Horizontal rule", Icon: "minus", DefaultConfig: DefaultConfig{Type: model.WidgetTypeDivider}},
		{ID: "spacer", Name: "Spacer", Description: "Vertical whitespace", Icon: "move-vertical", DefaultConfig: DefaultConfig{Type: model.WidgetTypeSpacer, Settings: model.WidgetSettings{Spacing: 32}}},
	}
	for _, entry := range layout {
		entry.Category = CategoryLayout
		if entry.DefaultConfig.Settings.Columns == 0 {
			entry.DefaultConfig.Settings.Columns = 1
		}
		entries = append(entries, entry)
	}
	return entries
}

package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a property key such as "shipping_address" or
// "postalCode2" into a display label ("Shipping Address", "Postal Code 2").
func DefaultLabeler(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	segments := make([]string, 0, len(words))
	for _, word := range words {
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

// PropertyLabel derives a field label from a model property key, falling back
// to the type name when the key is empty.
func PropertyLabel(key string, t FieldType) string {
	if label := DefaultLabeler(key); label != "" {
		return label
	}
	return DefaultLabeler(string(t))
}

func splitCamel(word string) []string {
	runes := []rune(word)
	var (
		parts []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

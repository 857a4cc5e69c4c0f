// Package mask applies input masks where 9 accepts a digit, a accepts a
// letter, * accepts any character and every other mask character is a literal.
package mask

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyMask is returned when a mask pattern is empty.
var ErrEmptyMask = errors.New("mask: pattern is empty")

const (
	slotDigit  = '9'
	slotLetter = 'a'
	slotAny    = '*'
)

func isSlot(r rune) bool {
	return r == slotDigit || r == slotLetter || r == slotAny
}

// accepts matches the ASCII classes emitted by Expression.
func accepts(slot, r rune) bool {
	switch slot {
	case slotDigit:
		return r >= '0' && r <= '9'
	case slotLetter:
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	case slotAny:
		return true
	default:
		return false
	}
}

// Apply formats input against the mask. Input characters that do not satisfy
// the current slot are dropped, literals are spliced in while input remains,
// and the output ends when either the mask or the input runs out. Literals typed by
// the user at a literal position are consumed so re-applying a formatted value
// is stable.
func Apply(pattern, input string) string {
	if pattern == "" {
		return input
	}
	maskRunes := []rune(pattern)
	in := []rune(input)

	var (
		out    strings.Builder
		mi, ii int
	)
	for mi < len(maskRunes) && ii < len(in) {
		slot := maskRunes[mi]
		if !isSlot(slot) {
			if in[ii] == slot {
				ii++
			}
			out.WriteRune(slot)
			mi++
			continue
		}
		r := in[ii]
		ii++
		if !accepts(slot, r) {
			continue
		}
		out.WriteRune(r)
		mi++
	}
	return out.String()
}

// Slots counts the number of input positions in the mask.
func Slots(pattern string) int {
	n := 0
	for _, r := range pattern {
		if isSlot(r) {
			n++
		}
	}
	return n
}

// Complete reports whether value fills every slot of the mask.
func Complete(pattern, value string) (bool, error) {
	re, err := Pattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(value), nil
}

// Pattern derives an anchored regular expression matching fully masked values.
func Pattern(pattern string) (*regexp.Regexp, error) {
	expr, err := Expression(pattern)
	if err != nil {
		return nil, err
	}
	return regexp.Compile("^" + expr + "$")
}

// Expression returns the unanchored expression for the mask, suitable for an
// HTML pattern attribute.
func Expression(pattern string) (string, error) {
	if pattern == "" {
		return "", ErrEmptyMask
	}
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case slotDigit:
			b.WriteString(`\d`)
		case slotLetter:
			b.WriteString(`[A-Za-z]`)
		case slotAny:
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String(), nil
}

// Placeholder renders the mask with slots replaced by underscores, used as
// sample content for inert previews.
func Placeholder(pattern string) string {
	return strings.Map(func(r rune) rune {
		if isSlot(r) {
			return '_'
		}
		return r
	}, pattern)
}

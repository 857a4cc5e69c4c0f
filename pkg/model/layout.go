package model

import "math"

const gridBasis = 12

var widthBasis = map[Width]int{
	WidthFull:    12,
	WidthHalf:    6,
	WidthThird:   4,
	WidthQuarter: 3,
}

// Span maps the width onto a column span within a grid of the given number of
// tracks. Spans are computed on a 12-track basis and scaled, so half of a
// two-column widget is one track and a quarter of a one-column widget still
// occupies the whole row.
func (w Width) Span(columns int) int {
	if columns < 1 {
		columns = 1
	}
	basis, ok := widthBasis[w]
	if !ok {
		basis = gridBasis
	}
	span := int(math.Ceil(float64(columns*basis) / gridBasis))
	if span < 1 {
		return 1
	}
	if span > columns {
		return columns
	}
	return span
}

// GridSpan returns the 12-track span of the width.
func (w Width) GridSpan() int {
	return w.Span(gridBasis)
}

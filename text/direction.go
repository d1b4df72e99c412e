package text

import "golang.org/x/text/unicode/bidi"

// DetectDirection resolves the base direction of a paragraph with the
// Unicode bidirectional algorithm. Neutral text (digits, punctuation,
// empty strings) resolves to left-to-right.
func DetectDirection(s string) Direction {
	if s == "" {
		return DirectionLTR
	}
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return DirectionLTR
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return DirectionLTR
	}
	r := o.Run(0)
	if r.Direction() == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}

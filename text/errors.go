package text

import "errors"

// Package-level sentinel errors.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrFontParse is returned when font data cannot be parsed.
	ErrFontParse = errors.New("text: font parse failed")

	// ErrNoGlyph is returned when a font has no glyph for a rune.
	ErrNoGlyph = errors.New("text: no glyph for rune")

	// ErrSourceClosed is returned when using a closed FontSource.
	ErrSourceClosed = errors.New("text: font source closed")
)

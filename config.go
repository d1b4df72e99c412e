package matcha

import (
	"time"
)

// MouseButton identifies which physical mouse button acts as the
// primary (click-emitting) button.
type MouseButton int

const (
	// MouseLeft is the left mouse button.
	MouseLeft MouseButton = iota
	// MouseRight is the right mouse button.
	MouseRight
)

// PowerPreference selects the GPU adapter class requested from wgpu.
type PowerPreference int

const (
	// PowerLow prefers an integrated, battery-friendly adapter.
	PowerLow PowerPreference = iota
	// PowerHigh prefers a discrete, high-performance adapter.
	PowerHigh
)

// DebugFlags disables individual caches for diagnosing stale-frame
// bugs. All flags default to false; enabling any of them trades
// performance for a pipeline that recomputes everything each frame.
type DebugFlags struct {
	// AlwaysRebuildWidget discards the widget tree every frame instead
	// of reconciling in place.
	AlwaysRebuildWidget bool

	// DisableMeasureCache forces every measure call to traverse
	// children.
	DisableMeasureCache bool

	// DisableArrangeCache forces every arrange call to recompute child
	// placement.
	DisableArrangeCache bool

	// DisableRenderCache renders a frame on every tick instead of
	// reusing the last presented frame while the tree is clean.
	DisableRenderCache bool
}

// Default configuration values.
const (
	// DefaultWidth is the default initial window width in logical pixels.
	DefaultWidth = 800

	// DefaultHeight is the default initial window height in logical pixels.
	DefaultHeight = 600

	// DefaultDoubleClick is the default multi-click combo window.
	DefaultDoubleClick = 300 * time.Millisecond

	// DefaultLongPress is the default long-press threshold.
	DefaultLongPress = 500 * time.Millisecond

	// DefaultScrollPixelsPerLine converts line-based wheel deltas to pixels.
	DefaultScrollPixelsPerLine = 40.0

	// DefaultFontSize is the default font size in logical pixels.
	DefaultFontSize = 14.0
)

// Config is the application configuration record. The zero value is
// not usable; obtain one from DefaultConfig and adjust either directly
// or through the fluent With* setters. The record is what the
// framework consumes; the setters are convenience only.
type Config struct {
	// Title is the window title string.
	Title string

	// Width and Height are the initial logical window size.
	Width  float64
	Height float64

	// Maximized opens the window maximized.
	Maximized bool

	// Fullscreen opens the window fullscreen.
	Fullscreen bool

	// Power selects the GPU adapter preference.
	Power PowerPreference

	// BaseColor is the clear color of the window surface.
	BaseColor Color

	// DoubleClick is the maximum interval between presses counted
	// into the same click combo. Must not exceed LongPress.
	DoubleClick time.Duration

	// LongPress is the press duration after which a held, undragged
	// button reports a long press.
	LongPress time.Duration

	// ScrollPixelsPerLine converts line-based scroll deltas to pixels.
	ScrollPixelsPerLine float64

	// PrimaryButton is the button that drives click gestures.
	PrimaryButton MouseButton

	// FontSize is the default font size for text widgets.
	FontSize float64

	// Debug holds the cache-disabling diagnostics flags.
	Debug DebugFlags
}

// DefaultConfig returns a configuration with every knob at its
// documented default.
func DefaultConfig() Config {
	return Config{
		Title:               "matcha",
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		Power:               PowerLow,
		BaseColor:           White,
		DoubleClick:         DefaultDoubleClick,
		LongPress:           DefaultLongPress,
		ScrollPixelsPerLine: DefaultScrollPixelsPerLine,
		PrimaryButton:       MouseLeft,
		FontSize:            DefaultFontSize,
	}
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "matcha: invalid config." + e.Field + ": " + e.Reason
}

// Validate checks the configuration. Construction of an App fails on
// the first invalid field; configuration failures are never deferred
// to frame time.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "Width", Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "Height", Reason: "must be positive"}
	}
	if c.DoubleClick <= 0 {
		return &ConfigError{Field: "DoubleClick", Reason: "must be positive"}
	}
	if c.LongPress <= 0 {
		return &ConfigError{Field: "LongPress", Reason: "must be positive"}
	}
	if c.DoubleClick > c.LongPress {
		return &ConfigError{Field: "DoubleClick", Reason: "must not exceed LongPress"}
	}
	if c.ScrollPixelsPerLine <= 0 {
		return &ConfigError{Field: "ScrollPixelsPerLine", Reason: "must be positive"}
	}
	if c.FontSize <= 0 {
		return &ConfigError{Field: "FontSize", Reason: "must be positive"}
	}
	return nil
}

// WithTitle sets the window title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize sets the initial logical window size.
func (c Config) WithSize(w, h float64) Config {
	c.Width = w
	c.Height = h
	return c
}

// WithMaximized sets the maximized flag.
func (c Config) WithMaximized(v bool) Config {
	c.Maximized = v
	return c
}

// WithFullscreen sets the fullscreen flag.
func (c Config) WithFullscreen(v bool) Config {
	c.Fullscreen = v
	return c
}

// WithPower sets the GPU power preference.
func (c Config) WithPower(p PowerPreference) Config {
	c.Power = p
	return c
}

// WithBaseColor sets the window clear color.
func (c Config) WithBaseColor(col Color) Config {
	c.BaseColor = col
	return c
}

// WithDoubleClick sets the click combo window.
func (c Config) WithDoubleClick(d time.Duration) Config {
	c.DoubleClick = d
	return c
}

// WithLongPress sets the long-press threshold.
func (c Config) WithLongPress(d time.Duration) Config {
	c.LongPress = d
	return c
}

// WithScrollPixelsPerLine sets the wheel line-to-pixel factor.
func (c Config) WithScrollPixelsPerLine(v float64) Config {
	c.ScrollPixelsPerLine = v
	return c
}

// WithPrimaryButton sets the primary mouse button.
func (c Config) WithPrimaryButton(b MouseButton) Config {
	c.PrimaryButton = b
	return c
}

// WithFontSize sets the default font size.
func (c Config) WithFontSize(v float64) Config {
	c.FontSize = v
	return c
}

// WithDebug sets the debug flags.
func (c Config) WithDebug(d DebugFlags) Config {
	c.Debug = d
	return c
}

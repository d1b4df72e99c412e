package matcha

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "Width"},
		{"negative height", func(c *Config) { c.Height = -1 }, "Height"},
		{"combo exceeds long press", func(c *Config) {
			c.DoubleClick = 600 * time.Millisecond
			c.LongPress = 500 * time.Millisecond
		}, "DoubleClick"},
		{"zero long press", func(c *Config) { c.LongPress = 0 }, "LongPress"},
		{"zero scroll", func(c *Config) { c.ScrollPixelsPerLine = 0 }, "ScrollPixelsPerLine"},
		{"zero font size", func(c *Config) { c.FontSize = 0 }, "FontSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error type %T, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestConfigFluentSetters(t *testing.T) {
	cfg := DefaultConfig().
		WithTitle("demo").
		WithSize(1280, 720).
		WithPower(PowerHigh).
		WithBaseColor(Black).
		WithDoubleClick(200 * time.Millisecond).
		WithLongPress(400 * time.Millisecond).
		WithPrimaryButton(MouseRight).
		WithFontSize(18)

	if cfg.Title != "demo" || cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("fluent setters lost window fields: %+v", cfg)
	}
	if cfg.Power != PowerHigh || cfg.PrimaryButton != MouseRight {
		t.Errorf("fluent setters lost enum fields: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after setters = %v", err)
	}
}

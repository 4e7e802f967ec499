package ui

import (
	"os"
	"testing"
)

// These tests mutate process-wide theme state and environment, so they do
// not run in parallel.

// clearNoColor removes NO_COLOR for the duration of the test.
func clearNoColor(t *testing.T) {
	t.Helper()
	if v, ok := os.LookupEnv("NO_COLOR"); ok {
		os.Unsetenv("NO_COLOR")
		t.Cleanup(func() { os.Setenv("NO_COLOR", v) })
	}
}

func TestInitThemeNoColorFlag(t *testing.T) {
	prev := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(prev) })

	InitTheme(true)
	if GetCurrentTheme().Name != "none" || ColorRed() != "" || ColorReset() != "" {
		t.Errorf("expected no-color theme, got %q", GetCurrentTheme().Name)
	}
}

func TestInitThemeNoColorEnv(t *testing.T) {
	prev := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(prev) })
	t.Setenv("NO_COLOR", "1")

	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR should disable colors, got %q", GetCurrentTheme().Name)
	}
}

func TestInitThemeFromEnv(t *testing.T) {
	prev := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(prev) })
	clearNoColor(t)
	t.Setenv(ThemeEnvVar, "Light")

	InitTheme(false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("expected light theme, got %q", GetCurrentTheme().Name)
	}
	if ColorBlue() != LightTheme.Primary {
		t.Error("ColorBlue should follow the light theme")
	}

	t.Setenv(ThemeEnvVar, "neon")
	InitTheme(false)
	if GetCurrentTheme().Name != "dark" {
		t.Errorf("unknown theme should fall back to dark, got %q", GetCurrentTheme().Name)
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"dark", "LIGHT", " none "} {
		if _, ok := ThemeByName(name); !ok {
			t.Errorf("ThemeByName(%q) not found", name)
		}
	}
	if _, ok := ThemeByName("solarized"); ok {
		t.Error("unexpected theme found")
	}
}

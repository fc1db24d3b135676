package state

import (
	"context"
	"fmt"
	"strings"

	"wu/prefs"
)

const themeModeKey = "theme_mode"

// ThemeMode is the persisted appearance preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "LIGHT"
	ThemeDark   ThemeMode = "DARK"
	ThemeSystem ThemeMode = "SYSTEM"
)

// ThemeModes lists the modes in display order.
var ThemeModes = []ThemeMode{ThemeLight, ThemeDark, ThemeSystem}

func (m ThemeMode) valid() bool {
	return m == ThemeLight || m == ThemeDark || m == ThemeSystem
}

// Label is the name shown in the theme picker.
func (m ThemeMode) Label() string {
	switch m {
	case ThemeLight:
		return "浅色"
	case ThemeDark:
		return "深色"
	default:
		return "跟随系统"
	}
}

// ParseThemeMode accepts the stored names in any case, plus "follow".
func ParseThemeMode(s string) (ThemeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	case "system", "follow":
		return ThemeSystem, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// UseDark resolves a mode against the platform's current dark signal.
func UseDark(mode ThemeMode, systemDark bool) bool {
	switch mode {
	case ThemeLight:
		return false
	case ThemeDark:
		return true
	default:
		return systemDark
	}
}

// ThemeStore persists the theme preference.
type ThemeStore struct {
	prefs prefs.Prefs
}

// NewThemeStore returns a ThemeStore over the given preference area.
func NewThemeStore(p prefs.Prefs) *ThemeStore {
	return &ThemeStore{prefs: p}
}

// Mode returns the stored mode. Nothing stored, an unknown value or a read
// failure all mean ThemeSystem.
func (s *ThemeStore) Mode(ctx context.Context) ThemeMode {
	v, err := s.prefs.GetString(ctx, themeModeKey, string(ThemeSystem))
	if err != nil {
		return ThemeSystem
	}
	mode := ThemeMode(v)
	if !mode.valid() {
		return ThemeSystem
	}
	return mode
}

// SetMode stores mode.
func (s *ThemeStore) SetMode(ctx context.Context, mode ThemeMode) error {
	if !mode.valid() {
		return fmt.Errorf("invalid theme mode %q", mode)
	}
	return s.prefs.PutString(ctx, themeModeKey, string(mode))
}

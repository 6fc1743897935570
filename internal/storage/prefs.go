package storage

import (
	"errors"
	"fmt"
)

// Theme values shared with the web front end
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func (a *Adapter) soundKey() string { return a.namespace + "-sound" }
func (a *Adapter) themeKey() string { return a.namespace + "-theme" }

// SoundEnabled returns the global sound preference. Unset means off.
func (a *Adapter) SoundEnabled() (bool, error) {
	v, err := a.store.Get(a.soundKey())
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "on", nil
}

// SetSoundEnabled stores the sound preference as "on" or "off"
func (a *Adapter) SetSoundEnabled(on bool) error {
	v := "off"
	if on {
		v = "on"
	}
	return a.store.Set(a.soundKey(), v)
}

// Theme returns the stored theme, defaulting to light
func (a *Adapter) Theme() (string, error) {
	v, err := a.store.Get(a.themeKey())
	if errors.Is(err, ErrNotFound) {
		return ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if v != ThemeLight && v != ThemeDark {
		return ThemeLight, nil
	}
	return v, nil
}

// SetTheme stores "light" or "dark"
func (a *Adapter) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme: %s (available: light, dark)", theme)
	}
	return a.store.Set(a.themeKey(), theme)
}

// RestorePreference copies a sound or theme value from another store
func (a *Adapter) RestorePreference(key, value string) (bool, error) {
	switch key {
	case a.soundKey():
		return true, a.SetSoundEnabled(value == "on")
	case a.themeKey():
		return true, a.SetTheme(value)
	}
	return false, nil
}

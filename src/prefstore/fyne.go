package prefstore

import (
	"context"

	fyne "fyne.io/fyne/v2"
)

// Fyne stores values in the application's preferences, the desktop viewer's default.
type Fyne struct {
	prefs fyne.Preferences
}

func NewFyne(prefs fyne.Preferences) *Fyne { return &Fyne{prefs: prefs} }

// Get treats an empty string as absent since fyne has no explicit "missing" state.
func (f *Fyne) Get(_ context.Context, key string) (string, error) {
	v := f.prefs.StringWithFallback(key, "")
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *Fyne) Set(_ context.Context, key, value string) error {
	f.prefs.SetString(key, value)
	return nil
}

func (f *Fyne) Close() error { return nil }

package library

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"newsfeed/internal/store"
)

// Preferences holds display settings.
type Preferences struct {
	store store.Store
}

func NewPreferences(s store.Store) *Preferences {
	return &Preferences{store: s}
}

// DarkMode reports the saved theme. Unset or unreadable means light.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	data, err := p.store.Get(ctx, store.DarkModeKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	dark, err := strconv.ParseBool(string(data))
	if err != nil {
		return false, nil
	}
	return dark, nil
}

func (p *Preferences) SetDarkMode(ctx context.Context, dark bool) error {
	if err := p.store.Set(ctx, store.DarkModeKey, []byte(strconv.FormatBool(dark))); err != nil {
		return fmt.Errorf("saving %s: %w", store.DarkModeKey, err)
	}
	return nil
}

// ToggleDarkMode flips the theme and returns the new value.
func (p *Preferences) ToggleDarkMode(ctx context.Context) (bool, error) {
	dark, err := p.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	dark = !dark
	return dark, p.SetDarkMode(ctx, dark)
}

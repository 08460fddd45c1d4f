package config

import (
	"fmt"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const (
	uiSortKey  = "cm:ui:sort"
	uiTagKey   = "cm:ui:tag"
	uiThemeKey = "cm:theme"
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UIState is the last feed selection and theme, kept in the device store.
type UIState struct {
	Sort  domain.SortMode
	Tag   string
	Theme string
}

// LoadUIState reads the persisted UI state. Missing or unknown values fall
// back to recent, no tag and the dark theme.
func LoadUIState(kv app.KV) (UIState, error) {
	st := UIState{Sort: domain.SortRecent, Theme: ThemeDark}

	raw, ok, err := kv.Get(uiSortKey)
	if err != nil {
		return st, fmt.Errorf("reading ui state: %w", err)
	}
	if ok {
		if mode, err := domain.ParseSortMode(raw); err == nil {
			st.Sort = mode
		}
	}
	if raw, ok, err = kv.Get(uiTagKey); err != nil {
		return st, fmt.Errorf("reading ui state: %w", err)
	} else if ok {
		st.Tag = domain.NormalizeTag(raw)
	}
	if raw, ok, err = kv.Get(uiThemeKey); err != nil {
		return st, fmt.Errorf("reading ui state: %w", err)
	} else if ok && raw == ThemeLight {
		st.Theme = ThemeLight
	}
	return st, nil
}

// SaveUIState persists st. An empty tag is deleted rather than stored.
func SaveUIState(kv app.KV, st UIState) error {
	if err := kv.Set(uiSortKey, string(st.Sort)); err != nil {
		return fmt.Errorf("saving ui state: %w", err)
	}
	tag := domain.NormalizeTag(st.Tag)
	var err error
	if tag == "" {
		err = kv.Delete(uiTagKey)
	} else {
		err = kv.Set(uiTagKey, tag)
	}
	if err != nil {
		return fmt.Errorf("saving ui state: %w", err)
	}
	theme := ThemeDark
	if st.Theme == ThemeLight {
		theme = ThemeLight
	}
	if err := kv.Set(uiThemeKey, theme); err != nil {
		return fmt.Errorf("saving ui state: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"strings"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// PreferenceEntry is a preference with its effective value.
type PreferenceEntry struct {
	Key         string
	Value       string
	Description string
	ReadOnly    bool
}

// ListPreferences is the use case for showing all known preferences.
type ListPreferences struct {
	prefs *domain.Preferences
}

// NewListPreferences creates a new ListPreferences use case.
func NewListPreferences(prefs *domain.Preferences) *ListPreferences {
	return &ListPreferences{prefs: prefs}
}

// Execute returns the documented preferences in a fixed order.
func (uc *ListPreferences) Execute(_ context.Context) ([]PreferenceEntry, error) {
	specs := domain.PreferenceSpecs()
	out := make([]PreferenceEntry, 0, len(specs))
	for _, s := range specs {
		v, err := uc.prefs.Value(s.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, PreferenceEntry{
			Key:         s.Key,
			Value:       v,
			Description: s.Description,
			ReadOnly:    s.ReadOnly,
		})
	}
	return out, nil
}

// GetPreference is the use case for reading one preference.
type GetPreference struct {
	prefs *domain.Preferences
}

// NewGetPreference creates a new GetPreference use case.
func NewGetPreference(prefs *domain.Preferences) *GetPreference {
	return &GetPreference{prefs: prefs}
}

// Execute returns the effective value of key.
func (uc *GetPreference) Execute(_ context.Context, key string) (string, error) {
	return uc.prefs.Value(strings.TrimSpace(key))
}

// SetPreferenceInput contains the parameters for changing a preference.
type SetPreferenceInput struct {
	Key   string
	Value string
}

// SetPreference is the use case for changing one preference.
type SetPreference struct {
	prefs *domain.Preferences
}

// NewSetPreference creates a new SetPreference use case.
func NewSetPreference(prefs *domain.Preferences) *SetPreference {
	return &SetPreference{prefs: prefs}
}

// Execute validates and stores the value. It returns the stored value.
func (uc *SetPreference) Execute(_ context.Context, in SetPreferenceInput) (string, error) {
	key := strings.TrimSpace(in.Key)
	if err := uc.prefs.SetValue(key, strings.TrimSpace(in.Value)); err != nil {
		return "", err
	}
	return uc.prefs.Value(key)
}

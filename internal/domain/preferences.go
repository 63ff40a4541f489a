package domain

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Preference keys. They are stable across versions and devices.
const (
	KeyCompassCheckTimeHour   = "compassCheckTimeHour"
	KeyCompassCheckTimeMinute = "compassCheckTimeMinute"
	KeyExpiryAfter            = "expiryAfter"
	KeyAccentColor            = "accentColor"
	KeyDaysOfCompassCheck     = "daysOfCompassCheck"
	KeyLongestStreak          = "longestStreak"
	KeyLastCompassCheck       = "lastCompassCheck"
	KeyCalendarIdentifier     = "calendarIdentifier"
	KeyNotificationsEnabled   = "notificationsEnabled"
	KeyProgressStep           = "compassCheck.progress.step"
	KeyProgressPeriodStart    = "compassCheck.progress.periodStart"

	stepKeyPrefix = "compassCheck.step."
)

// Preference defaults.
const (
	DefaultCompassCheckHour   = 18
	DefaultCompassCheckMinute = 0
	DefaultExpiryAfter        = 30
	DefaultAccentColor        = "orange"
)

// PreferenceDateLayout is the medium-date, short-time layout used for stored dates.
// Dates are kept human readable so they can be inspected on any device.
const PreferenceDateLayout = "Jan 2, 2006 at 3:04 PM"

// PreferenceKind is the value type of a preference.
type PreferenceKind string

// Preference kinds.
const (
	KindInt    PreferenceKind = "int"
	KindString PreferenceKind = "string"
	KindBool   PreferenceKind = "bool"
	KindDate   PreferenceKind = "date"
)

// PreferenceSpec describes a user-visible preference.
type PreferenceSpec struct {
	Key         string
	Kind        PreferenceKind
	Description string
	ReadOnly    bool
}

// PreferenceSpecs lists the preferences that can be shown and edited.
func PreferenceSpecs() []PreferenceSpec {
	return []PreferenceSpec{
		{Key: KeyCompassCheckTimeHour, Kind: KindInt, Description: "hour of the daily Compass Check"},
		{Key: KeyCompassCheckTimeMinute, Kind: KindInt, Description: "minute of the daily Compass Check"},
		{Key: KeyExpiryAfter, Kind: KindInt, Description: "days after which untouched open tasks move to the graveyard"},
		{Key: KeyAccentColor, Kind: KindString, Description: "accent color"},
		{Key: KeyCalendarIdentifier, Kind: KindString, Description: "calendar used for scheduled tasks"},
		{Key: KeyNotificationsEnabled, Kind: KindBool, Description: "remind about the Compass Check"},
		{Key: KeyDaysOfCompassCheck, Kind: KindInt, Description: "current streak (stored value)", ReadOnly: true},
		{Key: KeyLongestStreak, Kind: KindInt, Description: "longest streak", ReadOnly: true},
		{Key: KeyLastCompassCheck, Kind: KindDate, Description: "last completed Compass Check", ReadOnly: true},
	}
}

// CompassCheckProgress records where an interrupted Compass Check stopped.
type CompassCheckProgress struct {
	PeriodStart time.Time
	StepID      string
}

// Preferences provides typed access to settings stored in a KeyValueStore.
// It is constructed once and shared by every consumer.
// Fields are ordered to minimize memory padding.
type Preferences struct {
	store       KeyValueStore
	loc         *time.Location
	stepToggles map[string]bool
	listeners   []func(changed []string)
	unsubscribe func()
	mu          sync.Mutex
}

// NewPreferences creates Preferences over store. Dates are interpreted in loc.
// It subscribes to external changes to invalidate cached values.
func NewPreferences(store KeyValueStore, loc *time.Location) *Preferences {
	if loc == nil {
		loc = time.Local
	}
	p := &Preferences{
		store:       store,
		loc:         loc,
		stepToggles: make(map[string]bool),
	}
	p.unsubscribe = store.Subscribe(p.handleExternalChange)
	return p
}

// Close removes the store subscription.
func (p *Preferences) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// OnChange registers fn to be called after an external change was applied.
func (p *Preferences) OnChange(fn func(changed []string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Preferences) handleExternalChange(changed []string) {
	p.mu.Lock()
	p.stepToggles = make(map[string]bool)
	listeners := append([]func([]string){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(changed)
	}
}

// === Typed accessors ===

func (p *Preferences) getInt(key string, def int) int {
	raw, ok := p.store.Get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func (p *Preferences) setInt(key string, v int) error {
	return p.store.Set(key, strconv.Itoa(v))
}

func (p *Preferences) getString(key, def string) string {
	raw, ok := p.store.Get(key)
	if !ok {
		return def
	}
	return raw
}

func (p *Preferences) getBool(key string, def bool) bool {
	raw, ok := p.store.Get(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func (p *Preferences) setBool(key string, v bool) error {
	return p.store.Set(key, strconv.FormatBool(v))
}

func (p *Preferences) getDate(key string) (time.Time, bool) {
	raw, ok := p.store.Get(key)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(PreferenceDateLayout, raw, p.loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (p *Preferences) setDate(key string, t time.Time) error {
	return p.store.Set(key, t.In(p.loc).Format(PreferenceDateLayout))
}

// CompassCheckTime returns the configured time of day for the review.
func (p *Preferences) CompassCheckTime() (hour, minute int) {
	hour = min(max(p.getInt(KeyCompassCheckTimeHour, DefaultCompassCheckHour), 0), 23)
	minute = min(max(p.getInt(KeyCompassCheckTimeMinute, DefaultCompassCheckMinute), 0), 59)
	return hour, minute
}

// SetCompassCheckTime stores the review time, clamped to a valid wall-clock time.
func (p *Preferences) SetCompassCheckTime(hour, minute int) error {
	if err := p.setInt(KeyCompassCheckTimeHour, min(max(hour, 0), 23)); err != nil {
		return err
	}
	return p.setInt(KeyCompassCheckTimeMinute, min(max(minute, 0), 59))
}

// ExpiryAfter returns the number of days after which open tasks expire.
func (p *Preferences) ExpiryAfter() int {
	v := p.getInt(KeyExpiryAfter, DefaultExpiryAfter)
	if v <= 0 {
		return DefaultExpiryAfter
	}
	return v
}

// SetExpiryAfter stores the expiry threshold in days.
func (p *Preferences) SetExpiryAfter(days int) error {
	if days <= 0 {
		return fmt.Errorf("expiry must be positive, got %d", days)
	}
	return p.setInt(KeyExpiryAfter, days)
}

// AccentColor returns the accent color name.
func (p *Preferences) AccentColor() string {
	return p.getString(KeyAccentColor, DefaultAccentColor)
}

// CalendarIdentifier returns the calendar used for scheduling, or "".
func (p *Preferences) CalendarIdentifier() string {
	return p.getString(KeyCalendarIdentifier, "")
}

// NotificationsEnabled reports whether review reminders are on.
func (p *Preferences) NotificationsEnabled() bool {
	return p.getBool(KeyNotificationsEnabled, true)
}

// LastCompassCheck returns when the last review was completed.
func (p *Preferences) LastCompassCheck() (time.Time, bool) {
	return p.getDate(KeyLastCompassCheck)
}

// StoredDaysOfCompassCheck returns the stored streak counter, even if the streak is broken.
func (p *Preferences) StoredDaysOfCompassCheck() int {
	return p.getInt(KeyDaysOfCompassCheck, 0)
}

// LongestStreak returns the longest streak so far.
func (p *Preferences) LongestStreak() int {
	return p.getInt(KeyLongestStreak, 0)
}

// === Step toggles ===

// StepKey returns the preference key of a step toggle.
func StepKey(stepID string) string {
	return stepKeyPrefix + stepID
}

// IsStepEnabled reports whether the user enabled a step. def applies when unset.
func (p *Preferences) IsStepEnabled(stepID string, def bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.stepToggles[stepID]; ok {
		return v
	}
	v := p.getBool(StepKey(stepID), def)
	p.stepToggles[stepID] = v
	return v
}

// SetStepEnabled stores a step toggle.
func (p *Preferences) SetStepEnabled(stepID string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.setBool(StepKey(stepID), enabled); err != nil {
		return err
	}
	p.stepToggles[stepID] = enabled
	return nil
}

// === Compass Check progress ===

// LoadProgress returns the persisted progress of an interrupted review.
func (p *Preferences) LoadProgress() (CompassCheckProgress, bool) {
	step, ok := p.store.Get(KeyProgressStep)
	if !ok || step == "" {
		return CompassCheckProgress{}, false
	}
	start, ok := p.getDate(KeyProgressPeriodStart)
	if !ok {
		return CompassCheckProgress{}, false
	}
	return CompassCheckProgress{StepID: step, PeriodStart: start}, true
}

// SaveProgress persists the step a review paused at.
func (p *Preferences) SaveProgress(progress CompassCheckProgress) error {
	if err := p.store.Set(KeyProgressStep, progress.StepID); err != nil {
		return err
	}
	return p.setDate(KeyProgressPeriodStart, progress.PeriodStart)
}

// ClearProgress removes any persisted progress.
func (p *Preferences) ClearProgress() error {
	if err := p.store.Remove(KeyProgressStep); err != nil {
		return err
	}
	return p.store.Remove(KeyProgressPeriodStart)
}

// === Generic access ===

func findSpec(key string) (PreferenceSpec, bool) {
	for _, s := range PreferenceSpecs() {
		if s.Key == key {
			return s, true
		}
	}
	return PreferenceSpec{}, false
}

// Value returns the effective value of a known preference formatted for display.
func (p *Preferences) Value(key string) (string, error) {
	switch key {
	case KeyCompassCheckTimeHour:
		h, _ := p.CompassCheckTime()
		return strconv.Itoa(h), nil
	case KeyCompassCheckTimeMinute:
		_, m := p.CompassCheckTime()
		return strconv.Itoa(m), nil
	case KeyExpiryAfter:
		return strconv.Itoa(p.ExpiryAfter()), nil
	case KeyAccentColor:
		return p.AccentColor(), nil
	case KeyCalendarIdentifier:
		return p.CalendarIdentifier(), nil
	case KeyNotificationsEnabled:
		return strconv.FormatBool(p.NotificationsEnabled()), nil
	case KeyDaysOfCompassCheck:
		return strconv.Itoa(p.StoredDaysOfCompassCheck()), nil
	case KeyLongestStreak:
		return strconv.Itoa(p.LongestStreak()), nil
	case KeyLastCompassCheck:
		if t, ok := p.LastCompassCheck(); ok {
			return t.Format(PreferenceDateLayout), nil
		}
		return "", nil
	}
	if strings.HasPrefix(key, stepKeyPrefix) {
		raw, _ := p.store.Get(key)
		return raw, nil
	}
	return "", ErrUnknownPreference
}

// SetValue parses raw according to the preference kind and stores it.
func (p *Preferences) SetValue(key, raw string) error {
	if strings.HasPrefix(key, stepKeyPrefix) {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		return p.SetStepEnabled(strings.TrimPrefix(key, stepKeyPrefix), v)
	}

	spec, ok := findSpec(key)
	if !ok {
		return ErrUnknownPreference
	}
	if spec.ReadOnly {
		return fmt.Errorf("%s is read-only", key)
	}

	switch spec.Kind {
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects a number: %w", key, err)
		}
		switch key {
		case KeyExpiryAfter:
			return p.SetExpiryAfter(v)
		case KeyCompassCheckTimeHour:
			_, m := p.CompassCheckTime()
			return p.SetCompassCheckTime(v, m)
		case KeyCompassCheckTimeMinute:
			h, _ := p.CompassCheckTime()
			return p.SetCompassCheckTime(h, v)
		}
		return p.setInt(key, v)
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		return p.setBool(key, v)
	default:
		return p.store.Set(key, raw)
	}
}

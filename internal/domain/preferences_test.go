package domain

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is a minimal KeyValueStore for domain tests.
type memKV struct {
	values map[string]string
	subs   map[int]func([]string)
	nextID int
	mu     sync.Mutex
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string), subs: make(map[int]func([]string))}
}

func (m *memKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memKV) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memKV) Subscribe(fn func([]string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// external simulates another device writing key.
func (m *memKV) external(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	subs := make([]func([]string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn([]string{key})
	}
}

func TestPreferences_Defaults(t *testing.T) {
	p := NewPreferences(newMemKV(), time.UTC)

	h, m := p.CompassCheckTime()
	assert.Equal(t, 18, h)
	assert.Equal(t, 0, m)
	assert.Equal(t, 30, p.ExpiryAfter())
	assert.Equal(t, "orange", p.AccentColor())
	assert.True(t, p.NotificationsEnabled())
	assert.Equal(t, 0, p.LongestStreak())

	_, ok := p.LastCompassCheck()
	assert.False(t, ok)
}

func TestPreferences_CompassCheckTime_Clamped(t *testing.T) {
	p := NewPreferences(newMemKV(), time.UTC)

	require.NoError(t, p.SetCompassCheckTime(30, -4))
	h, m := p.CompassCheckTime()
	assert.Equal(t, 23, h)
	assert.Equal(t, 0, m)
}

func TestPreferences_ExpiryAfter(t *testing.T) {
	kv := newMemKV()
	p := NewPreferences(kv, time.UTC)

	require.NoError(t, p.SetExpiryAfter(7))
	assert.Equal(t, 7, p.ExpiryAfter())
	assert.Error(t, p.SetExpiryAfter(0))

	// Garbage in the store falls back to the default
	require.NoError(t, kv.Set(KeyExpiryAfter, "soon"))
	assert.Equal(t, DefaultExpiryAfter, p.ExpiryAfter())
}

func TestPreferences_StepToggleCache(t *testing.T) {
	kv := newMemKV()
	p := NewPreferences(kv, time.UTC)

	assert.True(t, p.IsStepEnabled("review", true))
	assert.False(t, p.IsStepEnabled("plan", false))

	require.NoError(t, p.SetStepEnabled("review", false))
	assert.False(t, p.IsStepEnabled("review", true))

	v, ok := kv.Get(StepKey("review"))
	require.True(t, ok)
	assert.Equal(t, "false", v)
}

func TestPreferences_ExternalChangeInvalidatesCache(t *testing.T) {
	kv := newMemKV()
	p := NewPreferences(kv, time.UTC)

	var notified []string
	p.OnChange(func(changed []string) { notified = append(notified, changed...) })

	assert.True(t, p.IsStepEnabled("review", true))

	kv.external(StepKey("review"), "false")

	assert.False(t, p.IsStepEnabled("review", true))
	assert.Equal(t, []string{StepKey("review")}, notified)
}

func TestPreferences_Close_Unsubscribes(t *testing.T) {
	kv := newMemKV()
	p := NewPreferences(kv, time.UTC)
	p.Close()

	called := false
	p.OnChange(func([]string) { called = true })
	kv.external("accentColor", "blue")
	assert.False(t, called)
}

func TestPreferences_Progress(t *testing.T) {
	p := NewPreferences(newMemKV(), time.UTC)

	_, ok := p.LoadProgress()
	assert.False(t, ok)

	start := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.SaveProgress(CompassCheckProgress{StepID: "review", PeriodStart: start}))

	got, ok := p.LoadProgress()
	require.True(t, ok)
	assert.Equal(t, "review", got.StepID)
	assert.True(t, start.Equal(got.PeriodStart))

	require.NoError(t, p.ClearProgress())
	_, ok = p.LoadProgress()
	assert.False(t, ok)
}

func TestPreferences_DateFormat(t *testing.T) {
	kv := newMemKV()
	p := NewPreferences(kv, time.UTC)

	require.NoError(t, p.setDate(KeyLastCompassCheck, time.Date(2025, 1, 15, 18, 5, 0, 0, time.UTC)))
	raw, _ := kv.Get(KeyLastCompassCheck)
	assert.Equal(t, "Jan 15, 2025 at 6:05 PM", raw)
}

func TestPreferences_SetValue(t *testing.T) {
	p := NewPreferences(newMemKV(), time.UTC)

	tests := []struct {
		name    string
		key     string
		raw     string
		wantErr bool
	}{
		{"int", KeyExpiryAfter, "14", false},
		{"int invalid", KeyExpiryAfter, "two weeks", true},
		{"string", KeyAccentColor, "blue", false},
		{"bool", KeyNotificationsEnabled, "false", false},
		{"step toggle", StepKey("plan"), "true", false},
		{"step toggle invalid", StepKey("plan"), "maybe", true},
		{"read only", KeyLongestStreak, "99", true},
		{"unknown", "colour", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.SetValue(tt.key, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := p.Value(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, got)
		})
	}

	_, err := p.Value("colour")
	assert.ErrorIs(t, err, ErrUnknownPreference)
}

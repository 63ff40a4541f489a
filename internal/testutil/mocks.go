// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// NewFixedTime returns a FixedTimeProvider set to t with Monday as first weekday.
func NewFixedTime(t time.Time) *domain.FixedTimeProvider {
	return &domain.FixedTimeProvider{Time: t, Weekday: time.Monday}
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks   map[int]*domain.Task
	SaveErr error
	GetErr  error
	NextIDN int
	Saves   int // Number of successful Save calls
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:   make(map[int]*domain.Task),
		NextIDN: 1,
	}
}

// Add stores tasks directly and moves NextIDN past their IDs.
func (m *MockTaskRepository) Add(tasks ...*domain.Task) {
	for _, t := range tasks {
		m.Tasks[t.ID] = t
		if t.ID >= m.NextIDN {
			m.NextIDN = t.ID + 1
		}
	}
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(id int) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns the tasks matching filter, ordered by ID.
func (m *MockTaskRepository) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int { return a.ID - b.ID })
	return tasks, nil
}

// Save saves a task.
func (m *MockTaskRepository) Save(task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Tasks[task.ID] = task
	m.Saves++
	return nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(id int) error {
	delete(m.Tasks, id)
	return nil
}

// NextID returns the next available task ID.
func (m *MockTaskRepository) NextID() (int, error) {
	id := m.NextIDN
	m.NextIDN++
	return id, nil
}

// MockTaskRepositoryWithNextIDError extends MockTaskRepository to return error on NextID.
type MockTaskRepositoryWithNextIDError struct {
	*MockTaskRepository
	NextIDErr error
}

// NextID returns an error if configured.
func (m *MockTaskRepositoryWithNextIDError) NextID() (int, error) {
	if m.NextIDErr != nil {
		return 0, m.NextIDErr
	}
	return m.MockTaskRepository.NextID()
}

// MockTaskRepositoryWithListError extends MockTaskRepository to return error on List.
type MockTaskRepositoryWithListError struct {
	*MockTaskRepository
	ListErr error
}

// List returns an error if configured.
func (m *MockTaskRepositoryWithListError) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.MockTaskRepository.List(filter)
}

// MockTaskRepositoryWithDeleteError extends MockTaskRepository to return error on Delete.
type MockTaskRepositoryWithDeleteError struct {
	*MockTaskRepository
	DeleteErr error
}

// Delete returns an error if configured.
func (m *MockTaskRepositoryWithDeleteError) Delete(id int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.MockTaskRepository.Delete(id)
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store initialized. Returns true on the first call.
func (m *MockStoreInitializer) Initialize() (bool, error) {
	if m.InitErr != nil {
		return false, m.InitErr
	}
	if m.Initialized {
		return false, nil
	}
	m.Initialized = true
	return true, nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// MemoryKV is an in-memory domain.KeyValueStore.
// Local writes do not notify subscribers; use SimulateExternalChange for that.
type MemoryKV struct {
	Values map[string]string
	SetErr error
	subs   map[int]func([]string)
	nextID int
	mu     sync.Mutex
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		Values: make(map[string]string),
		subs:   make(map[int]func([]string)),
	}
}

// Get returns the value for key.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Values[key]
	return v, ok
}

// Set stores a value.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values[key] = value
	return nil
}

// Remove deletes a key.
func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Values, key)
	return nil
}

// Keys returns all keys in sorted order.
func (m *MemoryKV) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribe registers fn for external changes.
func (m *MemoryKV) Subscribe(fn func([]string)) func() {
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

// SimulateExternalChange writes key as another device would and notifies subscribers.
// An empty value removes the key.
func (m *MemoryKV) SimulateExternalChange(key, value string) {
	m.mu.Lock()
	if value == "" {
		delete(m.Values, key)
	} else {
		m.Values[key] = value
	}
	subs := make([]func([]string), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn([]string{key})
	}
}

// LogEntry is a captured log line.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// RecordingLogger is a domain.Logger that keeps every entry.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) record(level string, taskID int, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (l *RecordingLogger) Info(taskID int, category, msg string) {
	l.record("INFO", taskID, category, msg)
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(taskID int, category, msg string) {
	l.record("DEBUG", taskID, category, msg)
}

// Warn records a warn entry.
func (l *RecordingLogger) Warn(taskID int, category, msg string) {
	l.record("WARN", taskID, category, msg)
}

// Error records an error entry.
func (l *RecordingLogger) Error(taskID int, category, msg string) {
	l.record("ERROR", taskID, category, msg)
}

// Messages returns the messages logged at level.
func (l *RecordingLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// MockCalendar is a test double for domain.Calendar.
// Fields are ordered to minimize memory padding.
type MockCalendar struct {
	Events    map[string]domain.Event
	AccessErr error
	CreateErr error
	FetchErr  error
	nextID    int
	Granted   bool
	Requests  int // Number of RequestAccess calls
}

// NewMockCalendar creates a MockCalendar with access granted.
func NewMockCalendar() *MockCalendar {
	return &MockCalendar{
		Events:  make(map[string]domain.Event),
		Granted: true,
	}
}

// RequestAccess returns the configured grant.
func (m *MockCalendar) RequestAccess(_ context.Context) (bool, error) {
	m.Requests++
	if m.AccessErr != nil {
		return false, m.AccessErr
	}
	return m.Granted, nil
}

// FetchEvents returns events overlapping [from, to) ordered by start.
func (m *MockCalendar) FetchEvents(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var out []domain.Event
	for _, e := range m.Events {
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// CreateEvent stores a new event.
func (m *MockCalendar) CreateEvent(_ context.Context, draft domain.EventDraft) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.nextID++
	id := fmt.Sprintf("event-%d", m.nextID)
	m.Events[id] = domain.Event{
		ID:       id,
		Title:    draft.Title,
		Notes:    draft.Notes,
		URL:      draft.URL,
		Calendar: draft.Calendar,
		Start:    draft.Start,
		End:      draft.Start.Add(draft.Duration),
	}
	return id, nil
}

// UpdateEvent moves an event.
func (m *MockCalendar) UpdateEvent(_ context.Context, id string, start time.Time, duration time.Duration) (bool, error) {
	e, ok := m.Events[id]
	if !ok {
		return false, nil
	}
	e.Start = start
	e.End = start.Add(duration)
	m.Events[id] = e
	return true, nil
}

// DeleteEvent removes an event.
func (m *MockCalendar) DeleteEvent(_ context.Context, id string) (bool, error) {
	if _, ok := m.Events[id]; !ok {
		return false, nil
	}
	delete(m.Events, id)
	return true, nil
}

// EventStart returns the start of an event.
func (m *MockCalendar) EventStart(_ context.Context, id string) (*time.Time, error) {
	e, ok := m.Events[id]
	if !ok {
		return nil, nil
	}
	start := e.Start
	return &start, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitDataErr   error
	InitGlobalErr error
	DataInfo      domain.ConfigInfo
	GlobalInfo    domain.ConfigInfo
	InitDataN     int
	InitGlobalN   int
}

// GetDataConfigInfo returns the configured data config info.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo {
	return m.DataInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// InitDataConfig records the call.
func (m *MockConfigManager) InitDataConfig() error {
	m.InitDataN++
	return m.InitDataErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalN++
	return m.InitGlobalErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config, or the defaults.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal behaves like Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

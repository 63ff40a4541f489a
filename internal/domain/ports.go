package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	// Returns true if the store was newly created.
	Initialize() (bool, error)

	// IsInitialized reports whether the store exists.
	IsInitialized() bool
}

// TaskRepository manages task persistence.
// Comments and attachments are stored with their task.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(id int) (*Task, error)

	// List retrieves tasks matching the filter, ordered by ID.
	List(filter TaskFilter) ([]*Task, error)

	// Save creates or updates a task.
	Save(task *Task) error

	// Delete removes a task by ID together with its comments and attachments.
	Delete(id int) error

	// NextID returns the next available task ID.
	NextID() (int, error)
}

// TaskFilter specifies criteria for listing tasks.
// Fields are ordered to minimize memory padding.
type TaskFilter struct {
	States []State  // Empty = all states
	Tags   []string // Filter by tags (AND condition)
}

// Matches reports whether the task satisfies the filter.
func (f TaskFilter) Matches(t *Task) bool {
	if len(f.States) > 0 {
		found := false
		for _, s := range f.States {
			if t.State == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// DataManager is the task facade used by the Compass Check.
type DataManager interface {
	// List returns the tasks in the given state.
	List(state State) ([]*Task, error)

	// AllTasks returns every task.
	AllTasks() ([]*Task, error)

	// Move changes the state of a task and persists it.
	Move(task *Task, state State) error

	// Update persists other mutations of a task.
	Update(task *Task) error

	// KillOldTasks moves expired open tasks to the graveyard and returns how many moved.
	KillOldTasks(expireAfter int, now time.Time) (int, error)

	// AddAndSelect creates a new open task and makes it the selected task.
	AddAndSelect(title string) (*Task, error)

	// Selected returns the currently selected task, or nil.
	Selected() *Task
}

// KeyValueStore is a string key-value store whose contents may change externally.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool)

	// Set stores a value.
	Set(key, value string) error

	// Remove deletes a key. Removing a missing key is not an error.
	Remove(key string) error

	// Keys returns all keys in sorted order.
	Keys() []string

	// Subscribe registers fn to be called with the changed keys after an external change.
	// The returned function removes the subscription.
	Subscribe(fn func(changed []string)) (unsubscribe func())
}

// Event is an entry in the external calendar.
// Fields are ordered to minimize memory padding.
type Event struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Notes    string    `json:"notes,omitempty"`
	URL      string    `json:"url,omitempty"`
	Calendar string    `json:"calendar,omitempty"`
}

// EventDraft describes an event to create.
type EventDraft struct {
	Start    time.Time
	Title    string
	Notes    string
	URL      string
	Calendar string
	Duration time.Duration
}

// Calendar provides access to an external calendar.
// Not-found conditions are reported as false/nil results rather than errors.
type Calendar interface {
	// RequestAccess asks for permission. It may block until the user decides.
	RequestAccess(ctx context.Context) (bool, error)

	// FetchEvents returns events overlapping [from, to).
	FetchEvents(ctx context.Context, from, to time.Time) ([]Event, error)

	// CreateEvent creates an event and returns its ID.
	CreateEvent(ctx context.Context, draft EventDraft) (string, error)

	// UpdateEvent moves an event. Returns false if the event no longer exists.
	UpdateEvent(ctx context.Context, id string, start time.Time, duration time.Duration) (bool, error)

	// DeleteEvent removes an event. Returns false if the event no longer exists.
	DeleteEvent(ctx context.Context, id string) (bool, error)

	// EventStart returns the start of an event, or nil if it no longer exists.
	EventStart(ctx context.Context, id string) (*time.Time, error)
}

// Logger provides logging functionality.
// taskID 0 logs only to the global log.
type Logger interface {
	Info(taskID int, category, msg string)
	Debug(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetDataConfigInfo returns information about the data directory config file.
	GetDataConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitDataConfig creates the data directory config file with the default template.
	InitDataConfig() error

	// InitGlobalConfig creates the global config file with the default template.
	InitGlobalConfig() error
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// CommandExecutor runs external programs.
type CommandExecutor interface {
	// ExecuteInteractive runs cmd attached to the terminal and waits for it to exit.
	ExecuteInteractive(cmd *ExecCommand) error
}

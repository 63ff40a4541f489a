// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/datamanager"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/infra/calendar"
	"github.com/runoshun/three-daily-goals/internal/infra/config"
	"github.com/runoshun/three-daily-goals/internal/infra/gitstore"
	"github.com/runoshun/three-daily-goals/internal/infra/jsonstore"
	"github.com/runoshun/three-daily-goals/internal/infra/kvstore"
	"github.com/runoshun/three-daily-goals/internal/infra/logging"
	"github.com/runoshun/three-daily-goals/internal/infra/sqlitestore"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// EnvHome overrides the data directory.
const EnvHome = "TDG_HOME"

// Config holds the application paths.
type Config struct {
	DataDir      string // Root of all application data
	PrefsPath    string // Path to preferences.yaml
	CalendarPath string // Path to calendar.json
}

// newConfig derives the paths below dataDir.
func newConfig(dataDir string) Config {
	return Config{
		DataDir:      dataDir,
		PrefsPath:    filepath.Join(dataDir, domain.PrefsFileName),
		CalendarPath: filepath.Join(dataDir, domain.CalendarFileName),
	}
}

// DefaultDataDir resolves the data directory:
// $TDG_HOME, then $XDG_DATA_HOME/three-daily-goals, then ~/.local/share/three-daily-goals.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, domain.AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", domain.AppDirName), nil
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Clock            domain.TimeProvider
	Calendar         domain.Calendar
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	TaskLogger       domain.Logger
	TaskLogs         usecase.TaskLogReader

	// Pointer fields
	Prefs     *domain.Preferences
	KV        *kvstore.Store // nil when preferences are not file-backed
	Logger    *slog.Logger
	AppConfig *domain.Config

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a Container over the data directory.
func New(dataDir string) (*Container, error) {
	cfg := newConfig(dataDir)

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		// Fall back to defaults and surface the error as a warning.
		appConfig = domain.NewDefaultConfig()
		appConfig.Warnings = append(appConfig.Warnings, err.Error())
	}

	clock := domain.SystemTimeProvider{Loc: appConfig.Location()}
	logger := logging.NewSlogger(os.Stderr, logging.ParseLevel(appConfig.Log.Level))
	taskLogger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level)).WithClock(clock)

	tasks, storeInit, err := OpenStore(dataDir, appConfig.Store)
	if err != nil {
		return nil, err
	}

	kv, err := kvstore.Open(cfg.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	c := &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		Calendar:         calendar.New(cfg.CalendarPath, appConfig.Calendar.Enabled),
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManager(dataDir, compass.DefaultStepIDs()),
		TaskLogger:       taskLogger,
		TaskLogs:         taskLogger,
		Prefs:            domain.NewPreferences(kv, clock.Location()),
		KV:               kv,
		Logger:           logger,
		AppConfig:        appConfig,
		Config:           cfg,
	}
	c.closers = append(c.closers, taskLogger)
	if closer, ok := tasks.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}

	logger.Debug("container ready", "dataDir", dataDir, "store", appConfig.Store.Type)
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer, clock domain.TimeProvider, prefs *domain.Preferences, logger *slog.Logger) *Container {
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Clock:            clock,
		Prefs:            prefs,
		TaskLogger:       domain.NopLogger{},
		Logger:           logger,
		AppConfig:        domain.NewDefaultConfig(),
		Config:           cfg,
	}
}

// OpenStore opens the task store described by sc below dataDir.
func OpenStore(dataDir string, sc domain.StoreConfig) (domain.TaskRepository, domain.StoreInitializer, error) {
	switch sc.Type {
	case domain.StoreTypeSQLite:
		s := sqlitestore.New(filepath.Join(dataDir, domain.TasksSQLiteName))
		return s, s, nil
	case domain.StoreTypeGit:
		s, err := gitstore.New(filepath.Join(dataDir, domain.TasksGitDirName), sc.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case domain.StoreTypeJSON, "":
		s := jsonstore.New(filepath.Join(dataDir, domain.TasksJSONName))
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", sc.Type)
	}
}

// Close releases open files and database handles.
func (c *Container) Close() error {
	var errs []error
	if c.Prefs != nil {
		c.Prefs.Close()
	}
	for _, closer := range c.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// DataManager returns a task manager for the Compass Check.
func (c *Container) DataManager() domain.DataManager {
	return datamanager.New(c.Tasks, c.Clock, c.TaskLogger)
}

// CompassEnv returns the environment Compass Check steps run in.
func (c *Container) CompassEnv() *compass.Env {
	return &compass.Env{
		Data:                      c.DataManager(),
		Time:                      c.Clock,
		Logger:                    c.TaskLogger,
		Prefs:                     c.Prefs,
		DueWindowDays:             c.AppConfig.Compass.DueWindowDays,
		ClassificationMinAgeHours: c.AppConfig.Compass.ClassificationMinAgeHours,
		Desktop:                   c.AppConfig.IsDesktop(),
	}
}

// CompassSteps returns the configured step sequence.
func (c *Container) CompassSteps() ([]compass.Step, error) {
	if len(c.AppConfig.Compass.Steps) == 0 {
		return compass.DefaultSequence(), nil
	}
	return compass.Sequence(c.AppConfig.Compass.Steps)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Clock, c.TaskLogger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Calendar, c.TaskLogs, c.TaskLogger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Clock, c.TaskLogger)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Tasks, c.Clock, c.TaskLogger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Calendar, c.TaskLogger)
}

// CopyTaskUseCase returns a new CopyTask use case.
func (c *Container) CopyTaskUseCase() *usecase.CopyTask {
	return usecase.NewCopyTask(c.Tasks, c.Clock, c.TaskLogger)
}

// TagTaskUseCase returns a new TagTask use case.
func (c *Container) TagTaskUseCase() *usecase.TagTask {
	return usecase.NewTagTask(c.Tasks, c.Clock)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Clock, c.TaskLogger)
}

// AddCommentUseCase returns a new AddComment use case.
func (c *Container) AddCommentUseCase() *usecase.AddComment {
	return usecase.NewAddComment(c.Tasks, c.Clock)
}

// EditCommentUseCase returns a new EditComment use case.
func (c *Container) EditCommentUseCase() *usecase.EditComment {
	return usecase.NewEditComment(c.Tasks, c.Clock)
}

// ListCommentsUseCase returns a new ListComments use case.
func (c *Container) ListCommentsUseCase() *usecase.ListComments {
	return usecase.NewListComments(c.Tasks)
}

// AddAttachmentUseCase returns a new AddAttachment use case.
func (c *Container) AddAttachmentUseCase() *usecase.AddAttachment {
	return usecase.NewAddAttachment(c.Tasks, c.Clock, c.TaskLogger)
}

// PurgeAttachmentUseCase returns a new PurgeAttachment use case.
func (c *Container) PurgeAttachmentUseCase() *usecase.PurgeAttachment {
	return usecase.NewPurgeAttachment(c.Tasks, c.Clock, c.TaskLogger)
}

// KillOldTasksUseCase returns a new KillOldTasks use case.
func (c *Container) KillOldTasksUseCase() *usecase.KillOldTasks {
	return usecase.NewKillOldTasks(c.DataManager(), c.Prefs, c.Clock)
}

// PruneTasksUseCase returns a new PruneTasks use case.
func (c *Container) PruneTasksUseCase() *usecase.PruneTasks {
	return usecase.NewPruneTasks(c.Tasks, c.Calendar, c.TaskLogger)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Tasks, c.Config.DataDir)
}

// MigrateStoreUseCase returns a MigrateStore use case copying the current
// store into a store of another type.
func (c *Container) MigrateStoreUseCase(dest domain.TaskRepository, destInit domain.StoreInitializer) *usecase.MigrateStore {
	return usecase.NewMigrateStore(c.Tasks, dest, destInit, c.TaskLogger)
}

// ScheduleTaskUseCase returns a new ScheduleTask use case.
func (c *Container) ScheduleTaskUseCase() *usecase.ScheduleTask {
	return usecase.NewScheduleTask(c.Tasks, c.Calendar, c.Prefs, c.TaskLogger, c.AppConfig.EventDuration())
}

// UnscheduleTaskUseCase returns a new UnscheduleTask use case.
func (c *Container) UnscheduleTaskUseCase() *usecase.UnscheduleTask {
	return usecase.NewUnscheduleTask(c.Tasks, c.Calendar, c.TaskLogger)
}

// ListEventsUseCase returns a new ListEvents use case.
func (c *Container) ListEventsUseCase() *usecase.ListEvents {
	return usecase.NewListEvents(c.Tasks, c.Calendar, c.Clock)
}

// ExportCalendarUseCase returns a new ExportCalendar use case.
func (c *Container) ExportCalendarUseCase() *usecase.ExportCalendar {
	return usecase.NewExportCalendar(c.Calendar, c.Clock, calendar.ExportICS)
}

// RunCompassCheckUseCase returns a new RunCompassCheck use case.
func (c *Container) RunCompassCheckUseCase() (*usecase.RunCompassCheck, error) {
	steps, err := c.CompassSteps()
	if err != nil {
		return nil, err
	}
	return usecase.NewRunCompassCheck(c.CompassEnv(), steps), nil
}

// CompassStatusUseCase returns a new CompassStatus use case.
func (c *Container) CompassStatusUseCase() *usecase.CompassStatus {
	return usecase.NewCompassStatus(c.Prefs, c.Clock)
}

// ListStepsUseCase returns a new ListSteps use case.
func (c *Container) ListStepsUseCase() (*usecase.ListSteps, error) {
	steps, err := c.CompassSteps()
	if err != nil {
		return nil, err
	}
	return usecase.NewListSteps(c.Prefs, steps), nil
}

// SetStepEnabledUseCase returns a new SetStepEnabled use case.
func (c *Container) SetStepEnabledUseCase() *usecase.SetStepEnabled {
	return usecase.NewSetStepEnabled(c.Prefs)
}

// ShowStreakUseCase returns a new ShowStreak use case.
func (c *Container) ShowStreakUseCase() *usecase.ShowStreak {
	return usecase.NewShowStreak(c.Prefs, c.Clock)
}

// ListPreferencesUseCase returns a new ListPreferences use case.
func (c *Container) ListPreferencesUseCase() *usecase.ListPreferences {
	return usecase.NewListPreferences(c.Prefs)
}

// GetPreferenceUseCase returns a new GetPreference use case.
func (c *Container) GetPreferenceUseCase() *usecase.GetPreference {
	return usecase.NewGetPreference(c.Prefs)
}

// SetPreferenceUseCase returns a new SetPreference use case.
func (c *Container) SetPreferenceUseCase() *usecase.SetPreference {
	return usecase.NewSetPreference(c.Prefs)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// WatchPreferences polls the preferences file for external changes until ctx
// is done. It returns immediately for containers without a file-backed store.
func (c *Container) WatchPreferences(ctx context.Context, interval time.Duration) {
	if c.KV == nil {
		return
	}
	c.KV.Watch(ctx, interval, func(err error) {
		c.Logger.Warn("reload preferences", "error", err)
	})
}

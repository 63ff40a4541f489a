// Package sqlitestore provides a SQLite implementation of TaskRepository.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// SchemaVersion is the highest migration this build knows.
const SchemaVersion = 2

// timeLayout is used for every timestamp column.
const timeLayout = time.RFC3339Nano

// migrations[i] upgrades the schema from version i to i+1.
var migrations = []string{
	// 0 -> 1: tasks, comments, id allocation
	`
	CREATE TABLE IF NOT EXISTS tasks (
		id       INTEGER PRIMARY KEY,
		title    TEXT NOT NULL DEFAULT '',
		details  TEXT NOT NULL DEFAULT '',
		url      TEXT NOT NULL DEFAULT '',
		state    TEXT NOT NULL DEFAULT '',
		due      TEXT,
		created  TEXT NOT NULL DEFAULT '',
		changed  TEXT NOT NULL DEFAULT '',
		closed   TEXT,
		event_id TEXT NOT NULL DEFAULT '',
		tags     TEXT NOT NULL DEFAULT '[]'
	);
	CREATE TABLE IF NOT EXISTS comments (
		seq     INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		time    TEXT NOT NULL,
		text    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id);
	CREATE TABLE IF NOT EXISTS meta (
		next_task_id INTEGER NOT NULL
	);
	INSERT INTO meta (next_task_id) SELECT 1 WHERE NOT EXISTS (SELECT 1 FROM meta);
	`,
	// 1 -> 2: attachments
	`
	CREATE TABLE IF NOT EXISTS attachments (
		id           TEXT PRIMARY KEY,
		task_id      INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		filename     TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		caption      TEXT NOT NULL DEFAULT '',
		size         INTEGER NOT NULL DEFAULT 0,
		sort_index   INTEGER NOT NULL DEFAULT 0,
		created      TEXT NOT NULL DEFAULT '',
		purged       TEXT,
		data         BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_attachments_task ON attachments(task_id);
	`,
}

const (
	selectTasksQuery = `SELECT id, title, details, url, state, due, created, changed, closed, event_id, tags FROM tasks`

	upsertTaskQuery = `
INSERT INTO tasks (id, title, details, url, state, due, created, changed, closed, event_id, tags)
VALUES (:id, :title, :details, :url, :state, :due, :created, :changed, :closed, :event_id, :tags)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  details = excluded.details,
  url = excluded.url,
  state = excluded.state,
  due = excluded.due,
  created = excluded.created,
  changed = excluded.changed,
  closed = excluded.closed,
  event_id = excluded.event_id,
  tags = excluded.tags
`

	insertCommentQuery = `INSERT INTO comments (task_id, time, text) VALUES (:task_id, :time, :text)`

	insertAttachmentQuery = `
INSERT INTO attachments (id, task_id, filename, content_type, caption, size, sort_index, created, purged, data)
VALUES (:id, :task_id, :filename, :content_type, :caption, :size, :sort_index, :created, :purged, :data)
`
)

type taskRow struct {
	Due     sql.NullString `db:"due"`
	Closed  sql.NullString `db:"closed"`
	Title   string         `db:"title"`
	Details string         `db:"details"`
	URL     string         `db:"url"`
	State   string         `db:"state"`
	Created string         `db:"created"`
	Changed string         `db:"changed"`
	EventID string         `db:"event_id"`
	Tags    string         `db:"tags"`
	ID      int            `db:"id"`
}

type commentRow struct {
	Time   string `db:"time"`
	Text   string `db:"text"`
	TaskID int    `db:"task_id"`
}

type attachmentRow struct {
	Purged      sql.NullString `db:"purged"`
	ID          string         `db:"id"`
	Filename    string         `db:"filename"`
	ContentType string         `db:"content_type"`
	Caption     string         `db:"caption"`
	Created     string         `db:"created"`
	Data        []byte         `db:"data"`
	Size        int64          `db:"size"`
	SortIndex   int            `db:"sort_index"`
	TaskID      int            `db:"task_id"`
}

// Store implements domain.TaskRepository on a SQLite database file.
type Store struct {
	db   *sqlx.DB
	path string
	mu   sync.Mutex
}

// New creates a Store for the database at path.
// The database is opened on first use; Initialize creates it.
func New(path string) *Store {
	return &Store{path: path}
}

// Close closes the database connection if it was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// IsInitialized reports whether the database file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates the database and applies all migrations.
// Returns true if the database file was newly created.
func (s *Store) Initialize() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	created := !s.IsInitialized()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.openLocked(); err != nil {
		return false, err
	}
	return created, nil
}

// conn returns the open database, migrating it on first use.
func (s *Store) conn() (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	return s.openLocked()
}

func (s *Store) openLocked() (*sqlx.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sqlx.Open("sqlite3", s.path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	return db, nil
}

// migrate applies pending migrations inside one transaction.
func migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return domain.NewCorruptStoreError(fmt.Errorf("create schema_version: %w", err))
	}

	var versions []int
	if err := db.Select(&versions, `SELECT version FROM schema_version`); err != nil {
		return domain.NewCorruptStoreError(fmt.Errorf("read schema version: %w", err))
	}
	version := 0
	for _, v := range versions {
		version = max(version, v)
	}
	if version > SchemaVersion {
		return domain.NewUpgradeRequiredError(version, SchemaVersion)
	}
	if version == SchemaVersion {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for v := version; v < SchemaVersion; v++ {
		if _, err := tx.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate schema %d -> %d: %w", v, v+1, err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return tx.Commit()
}

// Get retrieves a task by ID.
func (s *Store) Get(id int) (*domain.Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := db.Select(&rows, selectTasksQuery+` WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	tasks, err := s.hydrate(db, rows)
	if err != nil {
		return nil, err
	}
	return tasks[0], nil
}

// List retrieves tasks matching the filter, ordered by ID.
func (s *Store) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := selectTasksQuery
	var args []any
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, st := range filter.States {
			states[i] = string(st)
		}
		query, args, err = sqlx.In(selectTasksQuery+` WHERE state IN (?)`, states)
		if err != nil {
			return nil, fmt.Errorf("build query: %w", err)
		}
		query = db.Rebind(query)
	}

	var rows []taskRow
	if err := db.Select(&rows, query+` ORDER BY id`, args...); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}

	tasks, err := s.hydrate(db, rows)
	if err != nil {
		return nil, err
	}

	// Tags are stored as JSON, so they are matched in Go.
	out := tasks[:0]
	for _, t := range tasks {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// hydrate maps rows to tasks and loads their comments and attachments.
func (s *Store) hydrate(db *sqlx.DB, rows []taskRow) ([]*domain.Task, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int, len(rows))
	byID := make(map[int]*domain.Task, len(rows))
	tasks := make([]*domain.Task, 0, len(rows))
	for i, row := range rows {
		t, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		ids[i] = row.ID
		byID[row.ID] = t
		tasks = append(tasks, t)
	}

	query, args, err := sqlx.In(`SELECT task_id, time, text FROM comments WHERE task_id IN (?) ORDER BY seq`, ids)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var comments []commentRow
	if err := db.Select(&comments, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	for _, c := range comments {
		if t, ok := byID[c.TaskID]; ok {
			t.Comments = append(t.Comments, domain.Comment{Time: parseTime(c.Time), Text: c.Text})
		}
	}

	query, args, err = sqlx.In(`SELECT id, task_id, filename, content_type, caption, size, sort_index, created, purged, data
FROM attachments WHERE task_id IN (?) ORDER BY sort_index`, ids)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var attachments []attachmentRow
	if err := db.Select(&attachments, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select attachments: %w", err)
	}
	for _, a := range attachments {
		if t, ok := byID[a.TaskID]; ok {
			t.Attachments = append(t.Attachments, mapAttachmentRow(a))
		}
	}

	for _, t := range tasks {
		domain.FillDefaults(t)
	}
	return tasks, nil
}

// Save creates or updates a task with its comments and attachments.
func (s *Store) Save(task *domain.Task) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	row, err := mapDomainTaskToRow(task)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExec(upsertTaskQuery, row); err != nil {
		return fmt.Errorf("save task: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE task_id = ?`, task.ID); err != nil {
		return fmt.Errorf("clear comments: %w", err)
	}
	for _, c := range task.Comments {
		if _, err := tx.NamedExec(insertCommentQuery, commentRow{TaskID: task.ID, Time: formatTime(c.Time), Text: c.Text}); err != nil {
			return fmt.Errorf("save comment: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM attachments WHERE task_id = ?`, task.ID); err != nil {
		return fmt.Errorf("clear attachments: %w", err)
	}
	for _, a := range task.Attachments {
		if _, err := tx.NamedExec(insertAttachmentQuery, mapAttachmentToRow(task.ID, a)); err != nil {
			return fmt.Errorf("save attachment: %w", err)
		}
	}

	return tx.Commit()
}

// Delete removes a task by ID. Comments and attachments go with it.
func (s *Store) Delete(id int) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM comments WHERE task_id = ?`,
		`DELETE FROM attachments WHERE task_id = ?`,
		`DELETE FROM tasks WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
	}
	return tx.Commit()
}

// NextID returns the next available task ID.
// IDs already present in the tasks table are never handed out.
func (s *Store) NextID() (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next, maxID int
	if err := tx.Get(&next, `SELECT next_task_id FROM meta LIMIT 1`); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("read next id: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO meta (next_task_id) VALUES (1)`); err != nil {
			return 0, fmt.Errorf("init next id: %w", err)
		}
		next = 1
	}
	if err := tx.Get(&maxID, `SELECT COALESCE(MAX(id), 0) FROM tasks`); err != nil {
		return 0, fmt.Errorf("read max id: %w", err)
	}
	next = max(next, maxID+1)

	if _, err := tx.Exec(`UPDATE meta SET next_task_id = ?`, next+1); err != nil {
		return 0, fmt.Errorf("update next id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit next id: %w", err)
	}
	return next, nil
}

func mapTaskRowToDomainTask(row taskRow) (*domain.Task, error) {
	task := &domain.Task{
		ID:      row.ID,
		Title:   row.Title,
		Details: row.Details,
		URL:     row.URL,
		State:   domain.State(row.State),
		EventID: row.EventID,
		Created: parseTime(row.Created),
		Changed: parseTime(row.Changed),
	}

	if row.Due.Valid && row.Due.String != "" {
		value := parseTime(row.Due.String)
		task.Due = &value
	}
	if row.Closed.Valid && row.Closed.String != "" {
		value := parseTime(row.Closed.String)
		task.Closed = &value
	}

	if tags := strings.TrimSpace(row.Tags); tags != "" {
		if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
			return nil, domain.NewCorruptStoreError(fmt.Errorf("decode tags of task %d: %w", row.ID, err))
		}
	}
	return task, nil
}

func mapDomainTaskToRow(t *domain.Task) (taskRow, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode tags: %w", err)
	}
	return taskRow{
		ID:      t.ID,
		Title:   t.Title,
		Details: t.Details,
		URL:     t.URL,
		State:   string(t.State),
		Due:     nullTime(t.Due),
		Created: formatTime(t.Created),
		Changed: formatTime(t.Changed),
		Closed:  nullTime(t.Closed),
		EventID: t.EventID,
		Tags:    string(encoded),
	}, nil
}

func mapAttachmentRow(row attachmentRow) domain.Attachment {
	a := domain.Attachment{
		ID:          row.ID,
		Filename:    row.Filename,
		ContentType: row.ContentType,
		Caption:     row.Caption,
		Size:        row.Size,
		SortIndex:   row.SortIndex,
		Created:     parseTime(row.Created),
		Data:        row.Data,
	}
	if row.Purged.Valid && row.Purged.String != "" {
		value := parseTime(row.Purged.String)
		a.Purged = &value
		a.Data = nil
	}
	return a
}

func mapAttachmentToRow(taskID int, a domain.Attachment) attachmentRow {
	row := attachmentRow{
		ID:          a.ID,
		TaskID:      taskID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Caption:     a.Caption,
		Size:        a.Size,
		SortIndex:   a.SortIndex,
		Created:     formatTime(a.Created),
		Purged:      nullTime(a.Purged),
	}
	if !a.IsPurged() {
		row.Data = a.Data
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// parseTime returns the zero time for empty or unreadable values; FillDefaults repairs them.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// Ensure Store implements TaskRepository.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

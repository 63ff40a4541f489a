package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidTag           = errors.New("invalid tag")
	ErrNotInitialized       = errors.New("store not initialized (run 'tdg init' first)")
	ErrAlreadyInitialized   = errors.New("store already initialized")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrUnknownStep          = errors.New("unknown compass check step")
	ErrNoSession            = errors.New("no compass check in progress")
	ErrCalendarAccessDenied = errors.New("calendar access denied")
	ErrEventNotFound        = errors.New("calendar event not found")
	ErrNotScheduled         = errors.New("task is not scheduled")
	ErrConfigExists         = errors.New("config file already exists")
	ErrUnknownPreference    = errors.New("unknown preference key")
	ErrEmptyFile            = errors.New("file is empty")
	ErrNoTasksInFile        = errors.New("no tasks found in file")
	ErrMigrationConflict    = errors.New("destination already holds a different task")
)

// MigrationError reports a persisted store that this binary cannot read.
// It is fatal for the session and is shown to the user as "update required".
type MigrationError struct {
	Err             error
	Title           string
	Message         string
	UpgradeRequired bool
}

// NewUpgradeRequiredError returns a MigrationError for a store written by a newer version.
func NewUpgradeRequiredError(storeVersion, supported int) *MigrationError {
	return &MigrationError{
		Title:           "Update required",
		Message:         fmt.Sprintf("Your data was saved by a newer version (schema %d, this build supports %d). Please update tdg.", storeVersion, supported),
		UpgradeRequired: true,
	}
}

// NewCorruptStoreError returns a MigrationError for a store that cannot be decoded.
func NewCorruptStoreError(err error) *MigrationError {
	return &MigrationError{
		Err:     err,
		Title:   "Cannot read data",
		Message: "The task store could not be loaded. It may have been written by a newer version.",
		// Unknown content is most likely a newer layout.
		UpgradeRequired: true,
	}
}

func (e *MigrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// AsMigrationError returns the MigrationError in err's chain, if any.
func AsMigrationError(err error) (*MigrationError, bool) {
	var me *MigrationError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

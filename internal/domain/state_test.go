package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state  State
		active bool
	}{
		{StateOpen, true},
		{StatePriority, true},
		{StatePendingResponse, true},
		{StateClosed, false},
		{StateDead, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.state.IsActive())
			assert.True(t, tt.state.IsValid())
		})
	}
}

func TestState_IsValid_Unknown(t *testing.T) {
	assert.False(t, State("todo").IsValid())
	assert.False(t, State("").IsValid())
}

func TestParseState(t *testing.T) {
	tests := []struct {
		input string
		want  State
	}{
		{"open", StateOpen},
		{"Priority", StatePriority},
		{"pending", StatePendingResponse},
		{"pendingResponse", StatePendingResponse},
		{"closed", StateClosed},
		{"graveyard", StateDead},
		{" dead ", StateDead},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseState(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseState("someday")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestState_Display(t *testing.T) {
	assert.Equal(t, "Pending Response", StatePendingResponse.Display())
	assert.Equal(t, "Graveyard", StateDead.Display())
	assert.Equal(t, "custom", State("custom").Display())
}

func TestMigrationError(t *testing.T) {
	err := NewUpgradeRequiredError(3, 2)
	assert.True(t, err.UpgradeRequired)
	assert.Contains(t, err.Error(), "Update required")

	wrapped := NewCorruptStoreError(ErrTaskNotFound)
	assert.ErrorIs(t, wrapped, ErrTaskNotFound)

	me, ok := AsMigrationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Cannot read data", me.Title)

	_, ok = AsMigrationError(ErrTaskNotFound)
	assert.False(t, ok)
}

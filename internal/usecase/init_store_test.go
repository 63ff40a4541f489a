package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestInitStore_Execute(t *testing.T) {
	store := &testutil.MockStoreInitializer{}
	uc := NewInitStore(store)

	out, err := uc.Execute(context.Background(), InitStoreInput{})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.True(t, store.IsInitialized())

	out, err = uc.Execute(context.Background(), InitStoreInput{})
	require.NoError(t, err)
	assert.False(t, out.Created, "initializing twice is not an error")
}

func TestInitStore_Execute_Error(t *testing.T) {
	uc := NewInitStore(&testutil.MockStoreInitializer{InitErr: errors.New("read-only file system")})

	_, err := uc.Execute(context.Background(), InitStoreInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize store")
}

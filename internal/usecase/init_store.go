package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// InitStoreInput contains the parameters for initializing the task store.
type InitStoreInput struct{}

// InitStoreOutput contains the result of initializing the task store.
type InitStoreOutput struct {
	Created bool // False if the store already existed
}

// InitStore is the use case for creating the task store.
type InitStore struct {
	store domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(store domain.StoreInitializer) *InitStore {
	return &InitStore{store: store}
}

// Execute creates the store. Running it on an existing store is not an error.
func (uc *InitStore) Execute(_ context.Context, _ InitStoreInput) (*InitStoreOutput, error) {
	created, err := uc.store.Initialize()
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return &InitStoreOutput{Created: created}, nil
}

// Package store caches the last known state of each item, so polls
// only publish changes (and so those states survive restarts).
package store

import (
	"context"
	"sync"
	"time"
)

// ItemState is an item's last known state as stored in a Storage
// system.
type ItemState struct {
	// Item is the item's name.
	Item string `json:"item"`

	// Value is the state's canonical text.
	Value string `json:"value"`

	// At is when the state was observed.
	At time.Time `json:"at"`
}

// Storage is a persistence interface for item states.
type Storage interface {
	Open(ctx context.Context) error

	Close(ctx context.Context) error

	// GetState returns the item's last known state (nil if none).
	GetState(ctx context.Context, itemName string) (*ItemState, error)

	// PutState records the item's state, replacing any previous
	// one.
	PutState(ctx context.Context, s *ItemState) error

	// RemState forgets the item's state.
	RemState(ctx context.Context, itemName string) error
}

// MemStorage is an in-memory Storage.
type MemStorage struct {
	sync.Mutex
	states map[string]*ItemState
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		states: make(map[string]*ItemState, 32),
	}
}

func (s *MemStorage) Open(ctx context.Context) error {
	return nil
}

func (s *MemStorage) Close(ctx context.Context) error {
	return nil
}

func (s *MemStorage) GetState(ctx context.Context, itemName string) (*ItemState, error) {
	s.Lock()
	state := s.states[itemName]
	s.Unlock()
	return state, nil
}

func (s *MemStorage) PutState(ctx context.Context, state *ItemState) error {
	s.Lock()
	s.states[state.Item] = state
	s.Unlock()
	return nil
}

func (s *MemStorage) RemState(ctx context.Context, itemName string) error {
	s.Lock()
	delete(s.states, itemName)
	s.Unlock()
	return nil
}

// Package bolt is a bbolt-backed store.Storage.
package bolt

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Comcast/httpbind/store"

	bolt "go.etcd.io/bbolt"
)

var stateBucket = []byte("states")

type Storage struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db

	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
}

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("bolt Storage."+format, args...)
	}
}

func (s *Storage) GetState(ctx context.Context, itemName string) (*store.ItemState, error) {
	s.logf("GetState %s", itemName)

	var state *store.ItemState
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(stateBucket).Get([]byte(itemName))
		if bs == nil {
			return nil
		}
		var x store.ItemState
		if err := json.Unmarshal(bs, &x); err != nil {
			return err
		}
		x.Item = itemName
		state = &x
		return nil
	})
	if err != nil {
		return nil, err
	}

	return state, nil
}

func (s *Storage) PutState(ctx context.Context, state *store.ItemState) error {
	s.logf("PutState %s %s", state.Item, state.Value)

	// To save some space, remove the item name from the value.
	js, err := json.Marshal(&store.ItemState{
		Value: state.Value,
		At:    state.At,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(state.Item), js)
	})
}

func (s *Storage) RemState(ctx context.Context, itemName string) error {
	s.logf("RemState %s", itemName)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Delete([]byte(itemName))
	})
}

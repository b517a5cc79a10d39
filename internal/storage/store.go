// Package storage is the client's local storage: a small bbolt file holding
// the access token and other per-user values.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// TokenKey is the key the access token lives under.
const TokenKey = "token"

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("key not found")

	localBucket = []byte("Local")
)

type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(localBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(localBucket).Put([]byte(key), []byte(value))
	})
}

// GetItem returns the value under key or ErrNotFound.
func (s *Store) GetItem(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(localBucket).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		value = string(v)
		return nil
	})
	return value, err
}

// RemoveItem deletes key; removing a missing key is not an error.
func (s *Store) RemoveItem(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(localBucket).Delete([]byte(key))
	})
}

// Token implements requester.TokenSource.
func (s *Store) Token() (string, error) {
	token, err := s.GetItem(TokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// SetToken persists the access token.
func (s *Store) SetToken(token string) error {
	return s.SetItem(TokenKey, token)
}

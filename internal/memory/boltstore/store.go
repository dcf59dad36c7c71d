// Package boltstore persists confirmed product matches in an embedded bbolt
// database. One bucket, one key per normalized POS name, JSON-encoded entry
// values. Writes are single transactions, so an upsert is atomic and
// concurrent confirmations resolve last-write-wins per key.
package boltstore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"restock-service/internal/reconcile/model"
)

var bucketMatches = []byte("confirmed_matches")

// Store is a bbolt-backed match memory.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures the matches
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open match memory: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMatches)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init match memory: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the remembered production name for a normalized POS name.
func (s *Store) Lookup(posNameNormalized string) (string, bool, error) {
	var entry model.MemoryEntry
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMatches).Get([]byte(posNameNormalized))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("decode entry %q: %w", posNameNormalized, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return entry.ProductionNameNormalized, found, nil
}

// Confirm upserts the mapping for a POS name, overwriting any prior one.
func (s *Store) Confirm(posNameNormalized, productionNameNormalized string) error {
	if posNameNormalized == "" || productionNameNormalized == "" {
		return fmt.Errorf("confirm: empty name")
	}
	entry := model.MemoryEntry{
		PosNameNormalized:        posNameNormalized,
		ProductionNameNormalized: productionNameNormalized,
		ConfirmedAt:              s.now().UTC(),
	}
	v, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMatches).Put([]byte(posNameNormalized), v)
	})
}

// Entries returns all persisted confirmations in key order.
func (s *Store) Entries() ([]model.MemoryEntry, error) {
	var out []model.MemoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMatches).ForEach(func(k, v []byte) error {
			var e model.MemoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %q: %w", k, err)
			}
			out = append(out, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

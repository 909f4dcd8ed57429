// Package store is the key-value persistence adapter of the service. It maps
// flat, field-addressable records onto BadgerDB: every record field lives
// under its own sub-key, so writes are last-writer-wins per field with no
// transactions across record keys and no optimistic concurrency token. A
// read-modify-write without isolation is an accepted limitation of this
// store, not something callers should try to compensate for.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// fieldSeparator joins a record key and a field name into a Badger key.
// Record keys are kind-prefixed identifiers (uuid charset plus ':') and can
// never contain it.
const fieldSeparator = "#"

// KeyValueStore is the persistence contract the repositories build on. Any
// implementation offering per-key field read/write and prefix enumeration
// satisfies it.
type KeyValueStore interface {
	// Put writes the given fields of one record. Fields not named are left
	// untouched; each named field is overwritten, last writer wins.
	Put(key string, fields map[string]string) error
	// GetField reads a single field of a record. A missing field reports
	// ok=false, not an error.
	GetField(key, field string) (string, bool, error)
	// ScanKeys enumerates the distinct record keys sharing a literal prefix,
	// in lexicographic order.
	ScanKeys(prefix string) ([]string, error)
}

type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Put(key string, fields map[string]string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for field, value := range fields {
			if err := txn.Set([]byte(key+fieldSeparator+field), []byte(value)); err != nil {
				return fmt.Errorf("set %s.%s: %w", key, field, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) GetField(key, field string) (string, bool, error) {
	var value string
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key + fieldSeparator + field))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return "", false, fmt.Errorf("get %s.%s: %w", key, field, err)
	}
	return value, found, nil
}

func (s *BadgerStore) ScanKeys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		last := ""
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			k := string(it.Item().Key())
			idx := strings.Index(k, fieldSeparator)
			if idx < 0 {
				continue
			}
			// Badger iterates in key order, so the sub-keys of one record
			// are adjacent and a single look-behind deduplicates them.
			record := k[:idx]
			if record != last {
				keys = append(keys, record)
				last = record
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", prefix, err)
	}
	return keys, nil
}

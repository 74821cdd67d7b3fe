// Package storage persists the election/question/registration/location
// schema of spec §6.3 on top of the same prefixed key-value engine the
// teacher repo uses: go.vocdoni.io/dvote/db plus db/prefixeddb for
// namespacing and gob for on-disk encoding.
//
// Writes to a (voter, question) registration only ever happen inside the
// initialization transaction; the encrypted-location row is writable only
// during initialization; commitments are write-once; the cancellation
// share write happens once per question at close-of-voting (spec §5).
package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	ErrKeyAlreadyExists = fmt.Errorf("key already exists")
	ErrNotFound         = fmt.Errorf("key not found")
	ErrNoMoreElements   = fmt.Errorf("no more elements")
)

// Storage fronts the persistent store used by collector and mediator
// processes. electionLock serializes election-wide writes, matching the
// spec's "orchestrator gates concurrent writes to the same election by
// construction" policy at the storage boundary too.
type Storage struct {
	db           db.Database
	electionLock sync.Mutex
}

// New creates a Storage instance over an already-open db.Database.
func New(d db.Database) *Storage {
	return &Storage{db: d}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

// Lock / Unlock serialize election-wide multi-key writes (e.g. election
// initialization writing an election, its questions and every
// registration). They do not make those writes atomic: each write commits
// in its own transaction.
func (s *Storage) Lock()   { s.electionLock.Lock() }
func (s *Storage) Unlock() { s.electionLock.Unlock() }

func encode(v any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("storage: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// setValue gob-encodes v and writes it under prefix/key in its own
// transaction, failing with ErrKeyAlreadyExists if overwrite is false and
// something is already stored there.
func setValue[T any](s *Storage, prefix, key []byte, v T, overwrite bool) error {
	data, err := encode(v)
	if err != nil {
		return err
	}

	if !overwrite {
		if _, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key); err == nil {
			return ErrKeyAlreadyExists
		}
	}

	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		return fmt.Errorf("storage: writing: %w", err)
	}
	return wTx.Commit()
}

// getValue reads and gob-decodes the value stored at prefix/key into a T.
func getValue[T any](s *Storage, prefix, key []byte) (T, error) {
	var zero T
	data, err := prefixeddb.NewPrefixedReader(s.db, prefix).Get(key)
	if err != nil {
		return zero, ErrNotFound
	}

	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return zero, fmt.Errorf("storage: decoding: %w", err)
	}
	return v, nil
}

// iterateValues calls fn for every value under prefix whose key starts
// with innerPrefix, stopping early if fn returns false.
func iterateValues[T any](s *Storage, prefix, innerPrefix []byte, fn func(key []byte, v T) bool) error {
	var decodeErr error
	prefixeddb.NewPrefixedReader(s.db, prefix).Iterate(innerPrefix, func(k, data []byte) bool {
		var v T
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
			decodeErr = fmt.Errorf("storage: decoding: %w", err)
			return false
		}
		return fn(k, v)
	})
	return decodeErr
}

func deleteValue(s *Storage, prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		return fmt.Errorf("storage: deleting: %w", err)
	}
	return wTx.Commit()
}

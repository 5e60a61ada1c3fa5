// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage provides typed, namespaced slots and maps on top of an
// opaque byte-oriented key-value store.
//
// Every namespace is claimed through a Registry. Claiming the same namespace
// twice fails, so two entities can never end up writing through the same key
// prefix.
package storage

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrKeyCollision = errors.New("storage key collision")
	ErrStorage      = errors.New("storage error")

	errWrongVersion = errors.New("wrong codec version")
)

// Reader is the read-only half of a storage handle.
type Reader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// Writer is the mutating half of a storage handle.
type Writer interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Store is a full storage handle. Any database.Database is a Store.
type Store interface {
	Reader
	Writer
}

var _ Store = database.Database(nil)

func get(r Reader, reg *Registry, key []byte, dst interface{}) error {
	raw, err := r.Get(key)
	switch {
	case err == database.ErrNotFound:
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("%w: get: %v", ErrStorage, err)
	}
	return reg.unmarshal(raw, dst)
}

func has(r Reader, key []byte) (bool, error) {
	ok, err := r.Has(key)
	if err != nil {
		return false, fmt.Errorf("%w: has: %v", ErrStorage, err)
	}
	return ok, nil
}

func put(w Writer, reg *Registry, key []byte, src interface{}) error {
	raw, err := reg.marshal(src)
	if err != nil {
		return err
	}
	if err := w.Put(key, raw); err != nil {
		return fmt.Errorf("%w: put: %v", ErrStorage, err)
	}
	return nil
}

func remove(w Writer, key []byte) error {
	if err := w.Delete(key); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrStorage, err)
	}
	return nil
}

// update reads [key], hands the current value to [fn] (nil when missing) and
// writes what [fn] returns. Nothing is written if [fn] fails.
func update[T any](s Store, reg *Registry, key []byte, fn func(current *T) (T, error)) (T, error) {
	var zero T

	current := new(T)
	err := get(s, reg, key, current)
	switch {
	case err == ErrNotFound:
		current = nil
	case err != nil:
		return zero, err
	}

	next, err := fn(current)
	if err != nil {
		return zero, err
	}
	if err := put(s, reg, key, &next); err != nil {
		return zero, err
	}
	return next, nil
}

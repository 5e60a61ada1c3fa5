// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// KeyEncoder turns a map key into the bytes appended to the map's prefix.
type KeyEncoder[K any] func(K) []byte

// Uint64Key encodes ids big-endian so entries sort numerically.
func Uint64Key(k uint64) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, k)
	return b
}

// Map stores values keyed by K under its namespace. Entries live at
// len(namespace) | namespace | encode(key), so they can only overlap with
// another map or item of the same namespace, which the Registry forbids.
type Map[K any, V any] struct {
	namespace string
	prefix    []byte
	encode    KeyEncoder[K]
	reg       *Registry
}

func NewMap[K any, V any](reg *Registry, namespace string, encode KeyEncoder[K]) (*Map[K, V], error) {
	prefix, err := reg.claim(namespace)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{
		namespace: namespace,
		prefix:    prefix,
		encode:    encode,
		reg:       reg,
	}, nil
}

func (m *Map[K, V]) Namespace() string { return m.namespace }

func (m *Map[K, V]) key(k K) []byte {
	sub := m.encode(k)
	out := make([]byte, 0, len(m.prefix)+len(sub))
	out = append(out, m.prefix...)
	return append(out, sub...)
}

func (m *Map[K, V]) Save(w Writer, k K, value V) error {
	return put(w, m.reg, m.key(k), &value)
}

// Load returns ErrNotFound for a missing entry. Callers that treat a missing
// entry as a default value must say so themselves.
func (m *Map[K, V]) Load(r Reader, k K) (V, error) {
	var value V
	if err := get(r, m.reg, m.key(k), &value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

func (m *Map[K, V]) Has(r Reader, k K) (bool, error) {
	return has(r, m.key(k))
}

// Update passes the entry to [fn], or nil if it is missing, and saves the
// result. If [fn] returns an error the entry is left untouched.
func (m *Map[K, V]) Update(s Store, k K, fn func(current *V) (V, error)) (V, error) {
	return update(s, m.reg, m.key(k), fn)
}

func (m *Map[K, V]) Remove(w Writer, k K) error {
	return remove(w, m.key(k))
}

// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// Registry hands out namespaces and encodes the values stored under them.
type Registry struct {
	codec        codec.Manager
	codecVersion uint16

	claimed    map[string]struct{}
	namespaces []string
}

func NewRegistry(c codec.Manager, codecVersion uint16) *Registry {
	return &Registry{
		codec:        c,
		codecVersion: codecVersion,
		claimed:      make(map[string]struct{}),
	}
}

// Namespaces returns every claimed namespace in registration order.
func (r *Registry) Namespaces() []string {
	out := make([]string, len(r.namespaces))
	copy(out, r.namespaces)
	return out
}

// claim reserves [namespace] and returns the prefix of every key stored
// under it: len(namespace) as a big-endian uint16 followed by namespace. No
// prefix is a prefix of another's keys unless the namespaces are equal.
func (r *Registry) claim(namespace string) ([]byte, error) {
	switch {
	case namespace == "":
		return nil, fmt.Errorf("%w: empty namespace", ErrKeyCollision)
	case len(namespace) > math.MaxUint16:
		return nil, fmt.Errorf("%w: namespace %.16q... is %d bytes", ErrKeyCollision, namespace, len(namespace))
	}
	if _, ok := r.claimed[namespace]; ok {
		return nil, fmt.Errorf("%w: namespace %q already claimed", ErrKeyCollision, namespace)
	}
	r.claimed[namespace] = struct{}{}
	r.namespaces = append(r.namespaces, namespace)

	prefix := make([]byte, wrappers.ShortLen, wrappers.ShortLen+len(namespace))
	binary.BigEndian.PutUint16(prefix, uint16(len(namespace)))
	return append(prefix, namespace...), nil
}

func (r *Registry) marshal(src interface{}) ([]byte, error) {
	raw, err := r.codec.Marshal(r.codecVersion, src)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrStorage, err)
	}
	return raw, nil
}

func (r *Registry) unmarshal(raw []byte, dst interface{}) error {
	parsedVersion, err := r.codec.Unmarshal(raw, dst)
	if err != nil {
		return fmt.Errorf("%w: unmarshal: %v", ErrStorage, err)
	}
	if parsedVersion != r.codecVersion {
		return fmt.Errorf("%w: %v: got %d, expected %d", ErrStorage, errWrongVersion, parsedVersion, r.codecVersion)
	}
	return nil
}

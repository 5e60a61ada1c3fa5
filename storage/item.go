// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Item is a single value slot stored under its namespace.
type Item[T any] struct {
	namespace string
	key       []byte
	reg       *Registry
}

func NewItem[T any](reg *Registry, namespace string) (*Item[T], error) {
	key, err := reg.claim(namespace)
	if err != nil {
		return nil, err
	}
	return &Item[T]{
		namespace: namespace,
		key:       key,
		reg:       reg,
	}, nil
}

func (i *Item[T]) Namespace() string { return i.namespace }

func (i *Item[T]) Save(w Writer, value T) error {
	return put(w, i.reg, i.key, &value)
}

// Load returns ErrNotFound if the slot was never written.
func (i *Item[T]) Load(r Reader) (T, error) {
	var value T
	if err := get(r, i.reg, i.key, &value); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func (i *Item[T]) Has(r Reader) (bool, error) {
	return has(r, i.key)
}

// Update passes the current value to [fn], or nil if the slot is empty, and
// saves the result. If [fn] returns an error the slot is left untouched.
func (i *Item[T]) Update(s Store, fn func(current *T) (T, error)) (T, error) {
	return update(s, i.reg, i.key, fn)
}

func (i *Item[T]) Remove(w Writer) error {
	return remove(w, i.key)
}

// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Count uint64 `serialize:"true"`
	Label string `serialize:"true"`
}

var errBoom = errors.New("boom")

func newTestManager(t *testing.T, versions ...uint16) codec.Manager {
	m := codec.NewDefaultManager()
	for _, v := range versions {
		require.NoError(t, m.RegisterCodec(v, linearcodec.NewDefault()))
	}
	return m
}

func newTestRegistry(t *testing.T) *Registry {
	return NewRegistry(newTestManager(t, 0), 0)
}

// brokenStore fails every operation after the first [okOps] calls.
type brokenStore struct {
	Store
	okOps int
}

func (b *brokenStore) step() error {
	if b.okOps <= 0 {
		return errBoom
	}
	b.okOps--
	return nil
}

func (b *brokenStore) Get(key []byte) ([]byte, error) {
	if err := b.step(); err != nil {
		return nil, err
	}
	return b.Store.Get(key)
}

func (b *brokenStore) Put(key, value []byte) error {
	if err := b.step(); err != nil {
		return err
	}
	return b.Store.Put(key, value)
}

func TestRegistryRejectsDuplicateNamespaces(t *testing.T) {
	assert := assert.New(t)
	reg := newTestRegistry(t)

	_, err := NewItem[record](reg, "bal")
	assert.NoError(err)

	_, err = NewItem[[]byte](reg, "bal")
	assert.ErrorIs(err, ErrKeyCollision)

	_, err = NewMap[uint64, record](reg, "bal", Uint64Key)
	assert.ErrorIs(err, ErrKeyCollision)

	_, err = NewMap[uint64, record](reg, "backup", Uint64Key)
	assert.NoError(err)

	assert.Equal([]string{"bal", "backup"}, reg.Namespaces())
}

func TestRegistryRejectsBadNamespaces(t *testing.T) {
	assert := assert.New(t)
	reg := newTestRegistry(t)

	_, err := NewItem[record](reg, "")
	assert.ErrorIs(err, ErrKeyCollision)

	_, err = NewItem[record](reg, strings.Repeat("x", 1<<16))
	assert.ErrorIs(err, ErrKeyCollision)

	assert.Empty(reg.Namespaces())
}

func TestItemLifecycle(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	item, err := NewItem[record](newTestRegistry(t), "config")
	require.NoError(t, err)

	_, err = item.Load(db)
	assert.ErrorIs(err, ErrNotFound)
	ok, err := item.Has(db)
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(item.Save(db, record{Count: 7, Label: "seven"}))
	got, err := item.Load(db)
	assert.NoError(err)
	assert.Equal(record{Count: 7, Label: "seven"}, got)

	assert.NoError(item.Remove(db))
	_, err = item.Load(db)
	assert.ErrorIs(err, ErrNotFound)
}

func TestItemUpdate(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	item, err := NewItem[uint64](newTestRegistry(t), "seq")
	require.NoError(t, err)

	// missing slot reaches fn as nil
	next, err := item.Update(db, func(current *uint64) (uint64, error) {
		assert.Nil(current)
		return 1, nil
	})
	assert.NoError(err)
	assert.Equal(uint64(1), next)

	next, err = item.Update(db, func(current *uint64) (uint64, error) {
		require.NotNil(t, current)
		return *current + 1, nil
	})
	assert.NoError(err)
	assert.Equal(uint64(2), next)

	// failed update leaves the slot as it was
	_, err = item.Update(db, func(*uint64) (uint64, error) {
		return 99, errBoom
	})
	assert.ErrorIs(err, errBoom)
	got, err := item.Load(db)
	assert.NoError(err)
	assert.Equal(uint64(2), got)
}

func TestMapEntriesAreIsolated(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	reg := newTestRegistry(t)

	bal, err := NewMap[[]byte, uint64](reg, "bal", func(k []byte) []byte { return k })
	require.NoError(t, err)
	balance, err := NewMap[[]byte, uint64](reg, "balance", func(k []byte) []byte { return k })
	require.NoError(t, err)
	single, err := NewItem[uint64](reg, "balx")
	require.NoError(t, err)

	// "bal"+"ance..." and "balance"+"..." must not alias
	assert.NoError(bal.Save(db, []byte("ancex"), 1))
	assert.NoError(balance.Save(db, []byte("x"), 2))
	assert.NoError(single.Save(db, 3))

	got, err := bal.Load(db, []byte("ancex"))
	assert.NoError(err)
	assert.Equal(uint64(1), got)
	got, err = balance.Load(db, []byte("x"))
	assert.NoError(err)
	assert.Equal(uint64(2), got)

	_, err = balance.Load(db, []byte("ancex"))
	assert.ErrorIs(err, ErrNotFound)
	_, err = bal.Load(db, []byte("x"))
	assert.ErrorIs(err, ErrNotFound)
}

// An item whose name spells out the raw key of a map entry still gets a
// slot of its own.
func TestItemNamedLikeMapEntry(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	reg := newTestRegistry(t)

	account := bytes.Repeat([]byte{0xab}, 20)
	bal, err := NewMap[[]byte, uint64](reg, "bal", func(k []byte) []byte { return k })
	require.NoError(t, err)
	lookalike, err := NewItem[uint64](reg, "\x00\x03bal"+string(account))
	require.NoError(t, err)

	assert.NoError(bal.Save(db, account, 1))
	assert.NoError(lookalike.Save(db, 2))

	got, err := bal.Load(db, account)
	assert.NoError(err)
	assert.Equal(uint64(1), got)
	got, err = lookalike.Load(db)
	assert.NoError(err)
	assert.Equal(uint64(2), got)

	assert.NoError(lookalike.Remove(db))
	ok, err := bal.Has(db, account)
	assert.NoError(err)
	assert.True(ok)
}

func TestMapUpdateWithCallerDefault(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	m, err := NewMap[uint64, record](newTestRegistry(t), "proposal", Uint64Key)
	require.NoError(t, err)

	bump := func(current *record) (record, error) {
		r := record{Label: "fresh"}
		if current != nil {
			r = *current
		}
		r.Count++
		return r, nil
	}

	_, err = m.Update(db, 4, bump)
	assert.NoError(err)
	got, err := m.Update(db, 4, bump)
	assert.NoError(err)
	assert.Equal(record{Count: 2, Label: "fresh"}, got)

	_, err = m.Update(db, 5, func(*record) (record, error) { return record{}, errBoom })
	assert.ErrorIs(err, errBoom)
	ok, err := m.Has(db, 5)
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(m.Remove(db, 4))
	_, err = m.Load(db, 4)
	assert.ErrorIs(err, ErrNotFound)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	assert := assert.New(t)
	item, err := NewItem[uint64](newTestRegistry(t), "seq")
	require.NoError(t, err)

	_, err = item.Load(&brokenStore{Store: memdb.New()})
	assert.ErrorIs(err, ErrStorage)
	assert.NotErrorIs(err, ErrNotFound)

	assert.ErrorIs(item.Save(&brokenStore{Store: memdb.New()}, 1), ErrStorage)

	// the read succeeds, the write fails: the error surfaces and nothing lands
	db := memdb.New()
	_, err = item.Update(&brokenStore{Store: db, okOps: 1}, func(*uint64) (uint64, error) { return 1, nil })
	assert.ErrorIs(err, ErrStorage)
	ok, err := item.Has(db)
	assert.NoError(err)
	assert.False(ok)
}

func TestCodecVersionMismatch(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	m := newTestManager(t, 0, 1)

	v1, err := NewItem[uint64](NewRegistry(m, 1), "seq")
	require.NoError(t, err)
	v0, err := NewItem[uint64](NewRegistry(m, 0), "seq")
	require.NoError(t, err)

	assert.NoError(v1.Save(db, 10))
	_, err = v0.Load(db)
	assert.ErrorIs(err, ErrStorage)
}

func TestUint64KeyOrdering(t *testing.T) {
	assert := assert.New(t)
	assert.Len(Uint64Key(1), 8)
	assert.Equal(-1, strings.Compare(string(Uint64Key(255)), string(Uint64Key(256))))
}

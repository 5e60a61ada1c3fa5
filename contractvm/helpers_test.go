// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/contractvm/storage"
)

const (
	testHRP   = "contract"
	testDenom = "utoken"
)

func testIdentity(seed string) Identity {
	return Identity(hashing.ComputeHash160Array([]byte(seed)))
}

type testEnv struct {
	t        *testing.T
	contract *Contract
	db       *memdb.Database
	addrs    AddressCodec

	alice, bob, governance, relayer Identity
}

func newTestEnv(t *testing.T) *testEnv {
	addrs, err := NewAddressCodec(testHRP)
	require.NoError(t, err)
	e := &testEnv{
		t:          t,
		db:         memdb.New(),
		addrs:      addrs,
		alice:      testIdentity("alice"),
		bob:        testIdentity("bob"),
		governance: testIdentity("governance"),
		relayer:    testIdentity("relayer"),
	}
	e.contract, err = New(Params{
		HRP:        testHRP,
		Denom:      testDenom,
		Governance: e.addr(e.governance),
		Relayer:    e.addr(e.relayer),
	})
	require.NoError(t, err)
	return e
}

// newInstantiatedEnv is newTestEnv with alice as admin.
func newInstantiatedEnv(t *testing.T) *testEnv {
	e := newTestEnv(t)
	_, err := e.contract.Instantiate(e.db, MessageInfo{Sender: e.alice}, InstantiateMsg{})
	require.NoError(t, err)
	return e
}

func (e *testEnv) addr(id Identity) string {
	s, err := e.addrs.Humanize(id)
	require.NoError(e.t, err)
	return s
}

func (e *testEnv) execute(sender Identity, msg ExecuteMsg) (*Response, error) {
	return e.contract.Execute(e.db, MessageInfo{Sender: sender}, msg)
}

func (e *testEnv) mint(to Identity, amount uint64) {
	_, err := e.execute(e.alice, ExecuteMsg{Mint: &MintMsg{Amount: NewAmount(amount), Recipient: e.addr(to)}})
	require.NoError(e.t, err)
}

func (e *testEnv) config() Config {
	cfg, err := e.contract.state.Config.Load(e.db)
	require.NoError(e.t, err)
	return cfg
}

func (e *testEnv) balance(id Identity) Amount {
	bal, err := e.contract.state.balanceOf(e.db, id)
	require.NoError(e.t, err)
	return bal
}

// snapshot copies every key/value in the store.
func (e *testEnv) snapshot() map[string]string {
	out := make(map[string]string)
	it := e.db.NewIterator()
	defer it.Release()
	for it.Next() {
		out[string(it.Key())] = string(it.Value())
	}
	require.NoError(e.t, it.Error())
	return out
}

// spyStore counts writes that reach the underlying store.
type spyStore struct {
	storage.Store
	writes int
}

func (s *spyStore) Put(key, value []byte) error {
	s.writes++
	return s.Store.Put(key, value)
}

func (s *spyStore) Delete(key []byte) error {
	s.writes++
	return s.Store.Delete(key)
}

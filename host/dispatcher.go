// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/contractvm"
)

var errEmptyMsg = errors.New("message has no variant set")

// Dispatcher executes the messages a contract emits. The returned data is
// handed to the contract's Reply when one was requested.
type Dispatcher interface {
	Dispatch(from contractvm.Identity, msg contractvm.CosmosMsg) ([]byte, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(from contractvm.Identity, msg contractvm.CosmosMsg) ([]byte, error)

func (f DispatcherFunc) Dispatch(from contractvm.Identity, msg contractvm.CosmosMsg) ([]byte, error) {
	return f(from, msg)
}

// LogDispatcher accepts every well formed message and only logs it.
type LogDispatcher struct {
	log log.Logger
}

func NewLogDispatcher(logger log.Logger) *LogDispatcher {
	return &LogDispatcher{log: logger}
}

func (d *LogDispatcher) Dispatch(from contractvm.Identity, msg contractvm.CosmosMsg) ([]byte, error) {
	switch {
	case msg.Bank != nil && msg.Bank.Send != nil:
		d.log.Info("bank send", "from", from, "to", msg.Bank.Send.ToAddress, "amount", msg.Bank.Send.Amount)
	case msg.Wasm != nil && msg.Wasm.Execute != nil:
		d.log.Info("wasm execute", "from", from, "contract", msg.Wasm.Execute.ContractAddr, "msg", string(msg.Wasm.Execute.Msg))
	case msg.IBC != nil && msg.IBC.Transfer != nil:
		t := msg.IBC.Transfer
		d.log.Info("ibc transfer", "from", from, "channel", t.ChannelID, "to", t.ToAddress, "amount", t.Amount, "sequence", t.Sequence)
	default:
		return nil, errEmptyMsg
	}
	return nil, nil
}

func msgKind(msg contractvm.CosmosMsg) string {
	switch {
	case msg.Bank != nil:
		return "bank"
	case msg.Wasm != nil:
		return "wasm"
	case msg.IBC != nil:
		return "ibc"
	default:
		return "unknown"
	}
}

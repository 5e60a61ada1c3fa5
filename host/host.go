// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package host runs a contract the way a chain would: every call is atomic,
// emitted messages are dispatched, and their outcomes are fed back through
// Reply.
package host

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/contractvm"
	"github.com/ava-labs/contractvm/storage"
)

// MaxDepth bounds how deep replies may nest submessages of their own.
const MaxDepth = 8

var (
	ErrDepthExceeded = errors.New("submessage depth exceeded")
	ErrDispatch      = errors.New("dispatch failed")
)

// Event is the attribute set one invocation produced.
type Event struct {
	Entry      string                 `json:"entry"`
	Attributes []contractvm.Attribute `json:"attributes"`
}

// Outcome is what a committed transaction produced. Data is the last data
// set by the top level call or any reply under it.
type Outcome struct {
	Events     []Event                `json:"events"`
	Dispatched []contractvm.CosmosMsg `json:"dispatched"`
	Data       []byte                 `json:"data,omitempty"`
}

// Host owns one contract instance and its partition of the database.
type Host struct {
	lock sync.Mutex

	address    contractvm.Identity
	db         database.Database
	contract   *contractvm.Contract
	dispatcher Dispatcher
	metrics    *metrics
	log        log.Logger
}

// New partitions [db] under [address] and serves [contract] from it. A nil
// [dispatcher] logs messages and reports success.
func New(
	db database.Database,
	address contractvm.Identity,
	contract *contractvm.Contract,
	dispatcher Dispatcher,
	registerer prometheus.Registerer,
) (*Host, error) {
	if address.IsEmpty() {
		return nil, fmt.Errorf("%w: missing contract address", contractvm.ErrInvalidAddress)
	}
	logger := log.New("module", "host", "contract", address)
	if dispatcher == nil {
		dispatcher = &LogDispatcher{log: logger}
	}
	m, err := newMetrics("contractvm", registerer)
	if err != nil {
		return nil, err
	}
	return &Host{
		address:    address,
		db:         prefixdb.New(address.Bytes(), db),
		contract:   contract,
		dispatcher: dispatcher,
		metrics:    m,
		log:        logger,
	}, nil
}

func (h *Host) Address() contractvm.Identity    { return h.address }
func (h *Host) Contract() *contractvm.Contract { return h.contract }

// entryFunc runs one entry point against one invocation layer.
type entryFunc func(s storage.Store) (*contractvm.Response, error)

func (h *Host) Instantiate(sender contractvm.Identity, msg contractvm.InstantiateMsg) (*Outcome, error) {
	info := contractvm.MessageInfo{Sender: sender}
	return h.transact("instantiate", func(s storage.Store) (*contractvm.Response, error) {
		return h.contract.Instantiate(s, info, msg)
	})
}

func (h *Host) Execute(sender contractvm.Identity, msg contractvm.ExecuteMsg) (*Outcome, error) {
	info := contractvm.MessageInfo{Sender: sender}
	return h.transact("execute_"+msg.Action(), func(s storage.Store) (*contractvm.Response, error) {
		return h.contract.Execute(s, info, msg)
	})
}

func (h *Host) Migrate(sender contractvm.Identity, msg contractvm.MigrateMsg) (*Outcome, error) {
	info := contractvm.MessageInfo{Sender: sender}
	return h.transact("migrate", func(s storage.Store) (*contractvm.Response, error) {
		return h.contract.Migrate(s, info, msg)
	})
}

// PacketTimeout reports, on behalf of [sender], that an outbound transfer
// timed out. Only the contract's relayer is accepted.
func (h *Host) PacketTimeout(sender contractvm.Identity, msg contractvm.PacketTimeoutMsg) (*Outcome, error) {
	info := contractvm.MessageInfo{Sender: sender}
	return h.transact("packet_timeout", func(s storage.Store) (*contractvm.Response, error) {
		return h.contract.PacketTimeout(s, info, msg)
	})
}

func (h *Host) PacketAck(sender contractvm.Identity, msg contractvm.PacketAckMsg) (*Outcome, error) {
	info := contractvm.MessageInfo{Sender: sender}
	return h.transact("packet_ack", func(s storage.Store) (*contractvm.Response, error) {
		return h.contract.PacketAck(s, info, msg)
	})
}

// Query reads committed state only.
func (h *Host) Query(msg contractvm.QueryMsg) ([]byte, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	start := time.Now()
	res, err := h.contract.Query(h.db, msg)
	h.metrics.observe("query", start, err)
	return res, err
}

// transact runs [entry] and everything it dispatches as one transaction. The
// partition sees either all of its writes or none.
func (h *Host) transact(entry string, fn entryFunc) (*Outcome, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	start := time.Now()
	tx := versiondb.New(h.db)
	out := &Outcome{}
	err := h.invoke(tx, out, 0, entry, fn)
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		tx.Abort()
		h.metrics.observe(entry, start, err)
		h.log.Info("transaction aborted", "entry", entry, "kind", contractvm.ErrorKind(err), "err", err)
		return nil, err
	}
	h.metrics.observe(entry, start, nil)
	h.log.Debug("transaction committed", "entry", entry, "events", len(out.Events), "dispatched", len(out.Dispatched))
	return out, nil
}

// invoke runs [fn] in its own layer over [parent]. The layer reaches
// [parent] only if [fn] succeeds. Its messages are dispatched after that,
// each reply in a fresh layer of its own.
func (h *Host) invoke(parent database.Database, out *Outcome, depth int, entry string, fn entryFunc) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: %d", ErrDepthExceeded, depth)
	}

	layer := versiondb.New(parent)
	resp, err := fn(layer)
	if err != nil {
		layer.Abort()
		return err
	}
	if err := layer.Commit(); err != nil {
		return fmt.Errorf("%w: %v", contractvm.ErrStorage, err)
	}

	out.Events = append(out.Events, Event{Entry: entry, Attributes: resp.Attributes})
	if resp.Data != nil {
		out.Data = resp.Data
	}

	for _, sub := range resp.Messages {
		reply, err := h.dispatch(out, sub)
		if err != nil {
			return err
		}
		if reply == nil {
			continue
		}
		err = h.invoke(parent, out, depth+1, "reply", func(s storage.Store) (*contractvm.Response, error) {
			return h.contract.Reply(s, *reply)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// dispatch hands [sub] to the dispatcher and returns the reply owed to the
// contract, if any. A failure nobody asked to hear about aborts the
// transaction.
func (h *Host) dispatch(out *Outcome, sub contractvm.SubMsg) (*contractvm.Reply, error) {
	kind := msgKind(sub.Msg)
	data, err := h.dispatcher.Dispatch(h.address, sub.Msg)
	h.metrics.dispatched(kind, err)
	if err == nil {
		out.Dispatched = append(out.Dispatched, sub.Msg)
	}

	switch {
	case err == nil && sub.ReplyOn.OnSuccess():
		return &contractvm.Reply{
			ID:     sub.ID,
			Result: contractvm.SubMsgResult{Ok: &contractvm.SubMsgResponse{Data: data}},
		}, nil
	case err != nil && sub.ReplyOn.OnError():
		reason := err.Error()
		return &contractvm.Reply{
			ID:     sub.ID,
			Result: contractvm.SubMsgResult{Err: &reason},
		}, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %v", ErrDispatch, kind, err)
	default:
		return nil, nil
	}
}

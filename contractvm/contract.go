// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"
	"fmt"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/storage"
)

const Name = "contractvm"

// Version is the code version recorded at instantiate and checked by Migrate.
var Version = "v1.0.0"

var errMissingDenom = errors.New("denom is required")

// Params configure a Contract. Governance is the only principal allowed to
// migrate. Relayer is the only principal allowed to report the fate of
// outbound packets.
type Params struct {
	HRP        string
	Denom      string
	Governance string
	Relayer    string
}

// MessageInfo describes who is calling. Sender is already authenticated by
// the host.
type MessageInfo struct {
	Sender Identity
}

// Contract implements the entry points. It holds no state between calls;
// every entry point reads and writes only through the store it is given.
type Contract struct {
	state      *State
	addrs      AddressCodec
	denom      string
	governance Identity
	relayer    Identity
	replies    *correlator
	log        log.Logger
}

func New(params Params) (*Contract, error) {
	addrs, err := NewAddressCodec(params.HRP)
	if err != nil {
		return nil, err
	}
	governance, err := addrs.ValidateIdentity(params.Governance)
	if err != nil {
		return nil, fmt.Errorf("governance: %w", err)
	}
	relayer, err := addrs.ValidateIdentity(params.Relayer)
	if err != nil {
		return nil, fmt.Errorf("relayer: %w", err)
	}
	if params.Denom == "" {
		return nil, errMissingDenom
	}
	state, err := NewState()
	if err != nil {
		return nil, err
	}

	c := &Contract{
		state:      state,
		addrs:      addrs,
		denom:      params.Denom,
		governance: governance,
		relayer:    relayer,
		log:        log.New("module", Name),
	}
	c.replies = newCorrelator(state, map[ReplyKind]replyHandler{
		ReplySwap: c.swapReplied,
	})
	return c, nil
}

func (c *Contract) State() *State              { return c.state }
func (c *Contract) AddressCodec() AddressCodec { return c.addrs }
func (c *Contract) Denom() string              { return c.denom }

// plan is the result of a handler's check phase: the writes it wants and the
// messages to emit once they have landed. Building a plan never touches
// storage.
type plan struct {
	writes   []func(storage.Store) error
	messages []SubMsg
	attrs    []Attribute
	data     []byte

	// next id to hand out in this invocation, 0 until first use
	nextReplyID uint64
}

func newPlan(action string) *plan {
	p := &plan{}
	p.attr("action", action)
	return p
}

func (p *plan) write(w func(storage.Store) error) { p.writes = append(p.writes, w) }
func (p *plan) emit(msg SubMsg)                   { p.messages = append(p.messages, msg) }
func (p *plan) attr(key, value string) {
	p.attrs = append(p.attrs, Attribute{Key: key, Value: value})
}

// commit applies the plan's writes in order, then hands back the messages.
func (c *Contract) commit(s storage.Store, p *plan) (*Response, error) {
	for _, w := range p.writes {
		if err := w(s); err != nil {
			return nil, err
		}
	}
	resp := &Response{
		Messages:   p.messages,
		Attributes: p.attrs,
		Data:       p.data,
	}
	c.log.Debug("committed", "action", p.attrs[0].Value, "writes", len(p.writes), "messages", len(p.messages))
	return resp, nil
}

func (c *Contract) Instantiate(s storage.Store, info MessageInfo, msg InstantiateMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	p, err := c.checkInstantiate(s, info, msg)
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

func (c *Contract) Execute(s storage.Store, info MessageInfo, msg ExecuteMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   *plan
		err error
	)
	switch {
	case msg.UpdateConfig != nil:
		p, err = c.checkUpdateConfig(s, info, msg.UpdateConfig)
	case msg.Mint != nil:
		p, err = c.checkMint(s, info, msg.Mint)
	case msg.Withdraw != nil:
		p, err = c.checkWithdraw(s, info, msg.Withdraw)
	case msg.FinalizeProposal != nil:
		p, err = c.checkFinalizeProposal(s, msg.FinalizeProposal)
	case msg.Swap != nil:
		p, err = c.checkSwap(s, info, msg.Swap)
	case msg.Transfer != nil:
		p, err = c.checkTransfer(s, info, msg.Transfer)
	}
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

func (c *Contract) Migrate(s storage.Store, info MessageInfo, msg MigrateMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	p, err := c.checkMigrate(s, info)
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

func (c *Contract) Reply(s storage.Store, msg Reply) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	p, err := c.checkReply(s, msg)
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

func (c *Contract) PacketTimeout(s storage.Store, info MessageInfo, msg PacketTimeoutMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	p, err := c.checkRefund(s, info, msg.Sequence, "timeout")
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

func (c *Contract) PacketAck(s storage.Store, info MessageInfo, msg PacketAckMsg) (*Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   *plan
		err error
	)
	if msg.Error != "" {
		p, err = c.checkRefund(s, info, msg.Sequence, "ack_error")
	} else {
		p, err = c.checkAck(s, info, msg.Sequence)
	}
	if err != nil {
		return nil, err
	}
	return c.commit(s, p)
}

// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Msg is any message an entry point accepts.
type Msg interface {
	Validate() error
}

// DecodeMsg decodes a JSON message into [dst]. Unknown fields, trailing data
// and messages that fail Validate are rejected.
func DecodeMsg(raw []byte, dst Msg) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrArithmeticOverflow) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return fmt.Errorf("%w: trailing data", ErrInvalidMessage)
	}
	return dst.Validate()
}

func exactlyOne(what string, set ...bool) error {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: %s must set exactly one variant, got %d", ErrInvalidMessage, what, n)
	}
	return nil
}

// InstantiateMsg may name an admin, which must be a valid address. The admin
// of a new instance is always the instantiator.
type InstantiateMsg struct {
	Admin *string `json:"admin,omitempty"`
}

func (InstantiateMsg) Validate() error { return nil }

// ExecuteMsg is a closed union: exactly one field is set.
type ExecuteMsg struct {
	UpdateConfig     *UpdateConfigMsg     `json:"update_config,omitempty"`
	Mint             *MintMsg             `json:"mint,omitempty"`
	Withdraw         *WithdrawMsg         `json:"withdraw,omitempty"`
	FinalizeProposal *FinalizeProposalMsg `json:"finalize_proposal,omitempty"`
	Swap             *SwapMsg             `json:"swap,omitempty"`
	Transfer         *TransferMsg         `json:"transfer,omitempty"`
}

type UpdateConfigMsg struct {
	NewAdmin string `json:"new_admin"`
}

// MintMsg raises the total supply and credits [Recipient] with the same
// amount.
type MintMsg struct {
	Amount    Amount `json:"amount"`
	Recipient string `json:"recipient"`
}

type WithdrawMsg struct {
	Amount Amount `json:"amount"`
}

type FinalizeProposalMsg struct {
	ProposalID uint64 `json:"proposal_id"`
}

// SwapMsg sends [Amount] of the caller's balance to [Contract]. The outcome
// comes back through Reply.
type SwapMsg struct {
	Amount   Amount `json:"amount"`
	Contract string `json:"contract"`
}

// TransferMsg moves [Amount] of the caller's balance to [Receiver] on the
// chain behind [Channel]. The outcome comes back through PacketAck or
// PacketTimeout.
type TransferMsg struct {
	Amount   Amount `json:"amount"`
	Channel  string `json:"channel"`
	Receiver string `json:"receiver"`
}

func (m ExecuteMsg) Validate() error {
	return exactlyOne("execute msg",
		m.UpdateConfig != nil,
		m.Mint != nil,
		m.Withdraw != nil,
		m.FinalizeProposal != nil,
		m.Swap != nil,
		m.Transfer != nil,
	)
}

// Action names the variant that is set.
func (m ExecuteMsg) Action() string {
	switch {
	case m.UpdateConfig != nil:
		return "update_config"
	case m.Mint != nil:
		return "mint"
	case m.Withdraw != nil:
		return "withdraw"
	case m.FinalizeProposal != nil:
		return "finalize_proposal"
	case m.Swap != nil:
		return "swap"
	case m.Transfer != nil:
		return "transfer"
	default:
		return ""
	}
}

type QueryMsg struct {
	Config       *struct{}      `json:"config,omitempty"`
	Balance      *BalanceQuery  `json:"balance,omitempty"`
	Proposal     *ProposalQuery `json:"proposal,omitempty"`
	ContractInfo *struct{}      `json:"contract_info,omitempty"`
}

type BalanceQuery struct {
	Address string `json:"address"`
}

type ProposalQuery struct {
	ProposalID uint64 `json:"proposal_id"`
}

func (m QueryMsg) Validate() error {
	return exactlyOne("query msg",
		m.Config != nil,
		m.Balance != nil,
		m.Proposal != nil,
		m.ContractInfo != nil,
	)
}

type ConfigResponse struct {
	Admin       string `json:"admin"`
	TotalSupply Amount `json:"total_supply"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance Amount `json:"balance"`
}

type ProposalResponse struct {
	ProposalID uint64         `json:"proposal_id"`
	Status     ProposalStatus `json:"status"`
}

type MigrateMsg struct{}

func (MigrateMsg) Validate() error { return nil }

// Reply carries the outcome of a submessage back to the contract.
type Reply struct {
	ID     uint64       `json:"id"`
	Result SubMsgResult `json:"result"`
}

// SubMsgResult is either Ok or Err.
type SubMsgResult struct {
	Ok  *SubMsgResponse `json:"ok,omitempty"`
	Err *string         `json:"error,omitempty"`
}

type SubMsgResponse struct {
	Data []byte `json:"data,omitempty"`
}

func (m Reply) Validate() error {
	return exactlyOne("reply result", m.Result.Ok != nil, m.Result.Err != nil)
}

type PacketTimeoutMsg struct {
	Sequence uint64 `json:"sequence"`
}

func (PacketTimeoutMsg) Validate() error { return nil }

// PacketAckMsg acknowledges a packet. A non-empty Error means the remote
// side refused it.
type PacketAckMsg struct {
	Sequence uint64 `json:"sequence"`
	Error    string `json:"error,omitempty"`
}

func (PacketAckMsg) Validate() error { return nil }

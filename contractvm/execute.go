// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/mod/semver"

	"github.com/ava-labs/contractvm/storage"
)

// Every check* function only reads. It returns the plan that commit applies,
// or the first error it finds.

func (c *Contract) checkInstantiate(r storage.Reader, info MessageInfo, msg InstantiateMsg) (*plan, error) {
	if info.Sender.IsEmpty() {
		return nil, fmt.Errorf("%w: missing sender", ErrInvalidAddress)
	}
	if msg.Admin != nil {
		if _, err := c.addrs.ValidateIdentity(*msg.Admin); err != nil {
			return nil, fmt.Errorf("admin: %w", err)
		}
	}
	exists, err := c.state.Config.Has(r)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: already instantiated", ErrInvalidState)
	}
	admin, err := c.addrs.Humanize(info.Sender)
	if err != nil {
		return nil, err
	}

	cfg := Config{Admin: info.Sender}
	contractInfo := ContractInfo{Contract: Name, Version: Version}

	p := newPlan("instantiate")
	p.write(func(s storage.Store) error { return c.state.Config.Save(s, cfg) })
	p.write(func(s storage.Store) error { return c.state.ContractInfo.Save(s, contractInfo) })
	p.attr("admin", admin)
	p.attr("version", Version)
	return p, nil
}

func (c *Contract) checkUpdateConfig(r storage.Reader, info MessageInfo, msg *UpdateConfigMsg) (*plan, error) {
	cfg, err := c.state.Config.Load(r)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := RequireCaller(info.Sender, cfg.Admin); err != nil {
		return nil, err
	}
	newAdmin, err := c.addrs.ValidateIdentity(msg.NewAdmin)
	if err != nil {
		return nil, err
	}

	cfg.Admin = newAdmin

	p := newPlan("update_config")
	p.write(func(s storage.Store) error { return c.state.Config.Save(s, cfg) })
	p.attr("new_admin", msg.NewAdmin)
	return p, nil
}

func (c *Contract) checkMint(r storage.Reader, info MessageInfo, msg *MintMsg) (*plan, error) {
	cfg, err := c.state.Config.Load(r)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := RequireCaller(info.Sender, cfg.Admin); err != nil {
		return nil, err
	}
	if msg.Amount.IsZero() {
		return nil, fmt.Errorf("%w: mint amount must be positive", ErrInvalidMessage)
	}
	recipient, err := c.addrs.ValidateIdentity(msg.Recipient)
	if err != nil {
		return nil, err
	}
	supply, err := cfg.TotalSupply.CheckedAdd(msg.Amount)
	if err != nil {
		return nil, err
	}
	bal, err := c.state.balanceOf(r, recipient)
	if err != nil {
		return nil, err
	}
	bal, err = bal.CheckedAdd(msg.Amount)
	if err != nil {
		return nil, err
	}

	cfg.TotalSupply = supply

	p := newPlan("mint")
	p.write(func(s storage.Store) error { return c.state.Config.Save(s, cfg) })
	p.write(func(s storage.Store) error { return c.state.Balances.Save(s, recipient, bal) })
	p.attr("recipient", msg.Recipient)
	p.attr("amount", msg.Amount.String())
	p.attr("total_supply", supply.String())
	return p, nil
}

// debit checks that [owner] can spend [amount] and returns what is left.
func (c *Contract) debit(r storage.Reader, owner Identity, amount Amount) (Amount, error) {
	if amount.IsZero() {
		return Amount{}, fmt.Errorf("%w: amount must be positive", ErrInvalidMessage)
	}
	bal, err := c.state.balanceOf(r, owner)
	if err != nil {
		return Amount{}, err
	}
	if bal.Lt(amount) {
		return Amount{}, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, bal, amount)
	}
	return bal.CheckedSub(amount)
}

func (c *Contract) checkWithdraw(r storage.Reader, info MessageInfo, msg *WithdrawMsg) (*plan, error) {
	rest, err := c.debit(r, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	to, err := c.addrs.Humanize(info.Sender)
	if err != nil {
		return nil, err
	}

	sender := info.Sender
	p := newPlan("withdraw")
	p.write(func(s storage.Store) error { return c.state.Balances.Save(s, sender, rest) })
	p.emit(SubMsg{
		Msg: CosmosMsg{Bank: &BankMsg{Send: &BankSend{
			ToAddress: to,
			Amount:    []Coin{{Denom: c.denom, Amount: msg.Amount}},
		}}},
		ReplyOn: ReplyNever,
	})
	p.attr("to", to)
	p.attr("amount", msg.Amount.String())
	return p, nil
}

func (c *Contract) checkFinalizeProposal(r storage.Reader, msg *FinalizeProposalMsg) (*plan, error) {
	id := msg.ProposalID
	prop, err := c.state.Proposals.Load(r, id)
	if err != nil {
		return nil, fmt.Errorf("proposal %d: %w", id, err)
	}
	if prop.Status != ProposalPassed {
		return nil, fmt.Errorf("%w: proposal %d is %s", ErrInvalidState, id, prop.Status)
	}

	prop.Status = ProposalRejected

	p := newPlan("finalize_proposal")
	p.write(func(s storage.Store) error { return c.state.Proposals.Save(s, id, prop) })
	p.attr("proposal_id", strconv.FormatUint(id, 10))
	p.attr("status", prop.Status.String())
	return p, nil
}

func (c *Contract) checkSwap(r storage.Reader, info MessageInfo, msg *SwapMsg) (*plan, error) {
	target, err := c.addrs.ValidateIdentity(msg.Contract)
	if err != nil {
		return nil, err
	}
	rest, err := c.debit(r, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}

	sender := info.Sender
	p := newPlan("swap")
	p.write(func(s storage.Store) error { return c.state.Balances.Save(s, sender, rest) })

	id, err := c.replies.dispatch(r, p,
		PendingReply{
			Kind:   ReplySwap,
			Sender: sender,
			Amount: msg.Amount,
			Target: target,
		},
		CosmosMsg{Wasm: &WasmMsg{Execute: &WasmExecute{
			ContractAddr: msg.Contract,
			Msg:          json.RawMessage(`{"swap":{}}`),
			Funds:        []Coin{{Denom: c.denom, Amount: msg.Amount}},
		}}},
		ReplyAlways,
	)
	if err != nil {
		return nil, err
	}
	p.attr("contract", msg.Contract)
	p.attr("amount", msg.Amount.String())
	p.attr("reply_id", strconv.FormatUint(id, 10))
	return p, nil
}

func (c *Contract) checkTransfer(r storage.Reader, info MessageInfo, msg *TransferMsg) (*plan, error) {
	if msg.Channel == "" || msg.Receiver == "" {
		return nil, fmt.Errorf("%w: channel and receiver are required", ErrInvalidMessage)
	}
	rest, err := c.debit(r, info.Sender, msg.Amount)
	if err != nil {
		return nil, err
	}
	last, err := lastSeq(r, c.state.PacketSeq)
	if err != nil {
		return nil, err
	}
	if last == ^uint64(0) {
		return nil, fmt.Errorf("%w: packet sequence exhausted", ErrArithmeticOverflow)
	}
	seq := last + 1

	sender := info.Sender
	pkt := Packet{
		Sender:   sender,
		Amount:   msg.Amount,
		Channel:  msg.Channel,
		Receiver: msg.Receiver,
	}

	p := newPlan("transfer")
	p.write(func(s storage.Store) error { return c.state.Balances.Save(s, sender, rest) })
	p.write(func(s storage.Store) error { return c.state.Packets.Save(s, seq, pkt) })
	p.write(func(s storage.Store) error { return c.state.PacketSeq.Save(s, seq) })
	p.emit(SubMsg{
		Msg: CosmosMsg{IBC: &IBCMsg{Transfer: &IBCTransfer{
			ChannelID: msg.Channel,
			ToAddress: msg.Receiver,
			Amount:    Coin{Denom: c.denom, Amount: msg.Amount},
			Sequence:  seq,
		}}},
		ReplyOn: ReplyNever,
	})
	p.attr("channel", msg.Channel)
	p.attr("amount", msg.Amount.String())
	p.attr("packet_sequence", strconv.FormatUint(seq, 10))
	return p, nil
}

func (c *Contract) checkMigrate(r storage.Reader, info MessageInfo) (*plan, error) {
	if err := RequireCaller(info.Sender, c.governance); err != nil {
		return nil, err
	}
	stored, err := c.state.ContractInfo.Load(r)
	if err != nil {
		return nil, fmt.Errorf("contract info: %w", err)
	}
	if stored.Contract != Name {
		return nil, fmt.Errorf("%w: state belongs to %q", ErrInvalidState, stored.Contract)
	}
	if !semver.IsValid(stored.Version) {
		return nil, fmt.Errorf("%w: stored version %q", ErrInvalidState, stored.Version)
	}
	if semver.Compare(stored.Version, Version) > 0 {
		return nil, fmt.Errorf("%w: cannot migrate from %s down to %s", ErrInvalidState, stored.Version, Version)
	}

	upgraded := ContractInfo{Contract: Name, Version: Version}

	p := newPlan("migrate")
	p.write(func(s storage.Store) error { return c.state.ContractInfo.Save(s, upgraded) })
	p.attr("from_version", stored.Version)
	p.attr("to_version", Version)
	return p, nil
}

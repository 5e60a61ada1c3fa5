// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"fmt"
	"strconv"

	"github.com/ava-labs/contractvm/storage"
)

// checkRefund plans the refund of an outstanding packet. Only the relayer
// can report that a transfer failed, and the packet must still be on record
// so it is refunded at most once.
func (c *Contract) checkRefund(r storage.Reader, info MessageInfo, seq uint64, reason string) (*plan, error) {
	if err := RequireCaller(info.Sender, c.relayer); err != nil {
		return nil, err
	}
	pkt, err := c.state.Packets.Load(r, seq)
	if err != nil {
		return nil, fmt.Errorf("packet %d: %w", seq, err)
	}
	bal, err := c.state.balanceOf(r, pkt.Sender)
	if err != nil {
		return nil, err
	}
	refunded, err := bal.CheckedAdd(pkt.Amount)
	if err != nil {
		return nil, err
	}
	sender, err := c.addrs.Humanize(pkt.Sender)
	if err != nil {
		return nil, err
	}

	p := newPlan("refund")
	p.write(func(s storage.Store) error { return c.state.Packets.Remove(s, seq) })
	p.write(func(s storage.Store) error { return c.state.Balances.Save(s, pkt.Sender, refunded) })
	p.attr("packet_sequence", strconv.FormatUint(seq, 10))
	p.attr("reason", reason)
	p.attr("sender", sender)
	p.attr("amount", pkt.Amount.String())
	return p, nil
}

func (c *Contract) checkAck(r storage.Reader, info MessageInfo, seq uint64) (*plan, error) {
	if err := RequireCaller(info.Sender, c.relayer); err != nil {
		return nil, err
	}
	exists, err := c.state.Packets.Has(r, seq)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("packet %d: %w", seq, storage.ErrNotFound)
	}

	p := newPlan("ack")
	p.write(func(s storage.Store) error { return c.state.Packets.Remove(s, seq) })
	p.attr("packet_sequence", strconv.FormatUint(seq, 10))
	return p, nil
}

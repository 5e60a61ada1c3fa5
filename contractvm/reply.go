// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ava-labs/contractvm/storage"
)

// ReplyKind identifies which handler a reply id belongs to.
type ReplyKind uint8

const (
	ReplySwap ReplyKind = iota + 1
)

// ReplyKinds lists every kind a handler may dispatch. Each one needs an
// entry in the correlator's handler table.
var ReplyKinds = []ReplyKind{ReplySwap}

func (k ReplyKind) String() string {
	switch k {
	case ReplySwap:
		return "swap"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var errReplyNever = errors.New("dispatch needs a reply mode other than never")

// replyHandler is the success branch for one reply kind. Errors never reach
// it: Reply turns them into ErrSubMsgFailed.
type replyHandler func(r storage.Reader, id uint64, pending PendingReply, resp SubMsgResponse) (*plan, error)

// correlator hands out reply ids and remembers what each one was for.
type correlator struct {
	seq      *storage.Item[uint64]
	pending  *storage.Map[uint64, PendingReply]
	handlers map[ReplyKind]replyHandler
}

func newCorrelator(state *State, handlers map[ReplyKind]replyHandler) *correlator {
	return &correlator{
		seq:      state.ReplySeq,
		pending:  state.PendingReplies,
		handlers: handlers,
	}
}

func (c *correlator) handles(kind ReplyKind) bool {
	_, ok := c.handlers[kind]
	return ok
}

// dispatch adds [msg] to [p] as a submessage under a fresh reply id and plans
// the write of [pending] under that id. Kinds without a handler are refused
// here, before anything is written.
func (c *correlator) dispatch(r storage.Reader, p *plan, pending PendingReply, msg CosmosMsg, on ReplyOn) (uint64, error) {
	if on == ReplyNever {
		return 0, errReplyNever
	}
	if !c.handles(pending.Kind) {
		return 0, fmt.Errorf("%w: %s", ErrUnhandledReply, pending.Kind)
	}
	if p.nextReplyID == 0 {
		last, err := lastSeq(r, c.seq)
		if err != nil {
			return 0, err
		}
		p.nextReplyID = last + 1
	}
	id := p.nextReplyID
	if id == 0 {
		return 0, fmt.Errorf("%w: reply ids exhausted", ErrArithmeticOverflow)
	}
	p.nextReplyID++

	p.write(func(s storage.Store) error { return c.pending.Save(s, id, pending) })
	p.write(func(s storage.Store) error { return c.seq.Save(s, id) })
	p.emit(SubMsg{ID: id, Msg: msg, ReplyOn: on})
	return id, nil
}

func (c *Contract) checkReply(r storage.Reader, msg Reply) (*plan, error) {
	pending, err := c.state.PendingReplies.Load(r, msg.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%w: %d", ErrUnknownReply, msg.ID)
	case err != nil:
		return nil, err
	}
	handler, ok := c.replies.handlers[pending.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s (reply %d)", ErrUnhandledReply, pending.Kind, msg.ID)
	}
	if msg.Result.Err != nil {
		return nil, fmt.Errorf("%w: %s reply %d: %s", ErrSubMsgFailed, pending.Kind, msg.ID, *msg.Result.Err)
	}
	return handler(r, msg.ID, pending, *msg.Result.Ok)
}

func (c *Contract) swapReplied(_ storage.Reader, id uint64, pending PendingReply, resp SubMsgResponse) (*plan, error) {
	target, err := c.addrs.Humanize(pending.Target)
	if err != nil {
		return nil, err
	}

	p := newPlan("swap_reply")
	p.write(func(s storage.Store) error { return c.state.PendingReplies.Remove(s, id) })
	p.data = resp.Data
	p.attr("reply_id", strconv.FormatUint(id, 10))
	p.attr("contract", target)
	p.attr("amount", pending.Amount.String())
	return p, nil
}

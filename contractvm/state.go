// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"

	"github.com/ava-labs/contractvm/storage"
)

// Storage namespaces. Each stored entity gets its own; the registry refuses
// to hand one out twice.
const (
	ConfigNamespace       = "config"
	BalanceNamespace      = "bal"
	ProposalNamespace     = "proposal"
	ContractInfoNamespace = "contract_info"
	ReplySeqNamespace     = "reply_seq"
	PendingReplyNamespace = "pending_reply"
	PacketSeqNamespace    = "packet_seq"
	PacketNamespace       = "packet"
)

// State holds one handle per stored entity. Handles carry no data of their
// own; every call takes the storage handle of the current invocation.
type State struct {
	registry *storage.Registry

	Config         *storage.Item[Config]
	Balances       *storage.Map[Identity, Amount]
	Proposals      *storage.Map[uint64, Proposal]
	ContractInfo   *storage.Item[ContractInfo]
	ReplySeq       *storage.Item[uint64]
	PendingReplies *storage.Map[uint64, PendingReply]
	PacketSeq      *storage.Item[uint64]
	Packets        *storage.Map[uint64, Packet]
}

func NewState() (*State, error) {
	reg := storage.NewRegistry(Codec, CodecVersion)
	s := &State{registry: reg}

	var err error
	if s.Config, err = storage.NewItem[Config](reg, ConfigNamespace); err != nil {
		return nil, err
	}
	if s.Balances, err = storage.NewMap[Identity, Amount](reg, BalanceNamespace, identityKey); err != nil {
		return nil, err
	}
	if s.Proposals, err = storage.NewMap[uint64, Proposal](reg, ProposalNamespace, storage.Uint64Key); err != nil {
		return nil, err
	}
	if s.ContractInfo, err = storage.NewItem[ContractInfo](reg, ContractInfoNamespace); err != nil {
		return nil, err
	}
	if s.ReplySeq, err = storage.NewItem[uint64](reg, ReplySeqNamespace); err != nil {
		return nil, err
	}
	if s.PendingReplies, err = storage.NewMap[uint64, PendingReply](reg, PendingReplyNamespace, storage.Uint64Key); err != nil {
		return nil, err
	}
	if s.PacketSeq, err = storage.NewItem[uint64](reg, PacketSeqNamespace); err != nil {
		return nil, err
	}
	if s.Packets, err = storage.NewMap[uint64, Packet](reg, PacketNamespace, storage.Uint64Key); err != nil {
		return nil, err
	}
	return s, nil
}

// Namespaces lists every namespace this state occupies.
func (s *State) Namespaces() []string { return s.registry.Namespaces() }

// balanceOf reads a balance, counting a missing entry as zero.
func (s *State) balanceOf(r storage.Reader, id Identity) (Amount, error) {
	bal, err := s.Balances.Load(r, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Amount{}, nil
	}
	return bal, err
}

// lastSeq reads a sequence counter, counting a missing one as zero.
func lastSeq(r storage.Reader, seq *storage.Item[uint64]) (uint64, error) {
	last, err := seq.Load(r)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	return last, err
}

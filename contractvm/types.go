// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import "fmt"

// Config is the contract-wide configuration. There is exactly one per
// instance, written by Instantiate.
type Config struct {
	Admin       Identity `serialize:"true"`
	TotalSupply Amount   `serialize:"true"`
}

type ProposalStatus uint8

const (
	ProposalPending ProposalStatus = iota
	ProposalPassed
	ProposalRejected
)

var proposalStatusNames = map[ProposalStatus]string{
	ProposalPending:  "pending",
	ProposalPassed:   "passed",
	ProposalRejected: "rejected",
}

func (s ProposalStatus) String() string {
	if name, ok := proposalStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s ProposalStatus) MarshalText() ([]byte, error) {
	name, ok := proposalStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: unknown proposal status %d", ErrInvalidState, uint8(s))
	}
	return []byte(name), nil
}

func (s *ProposalStatus) UnmarshalText(b []byte) error {
	for status, name := range proposalStatusNames {
		if name == string(b) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("%w: unknown proposal status %q", ErrInvalidMessage, b)
}

type Proposal struct {
	Status ProposalStatus `serialize:"true"`
}

// ContractInfo records which code wrote the state, so Migrate can refuse
// foreign state and downgrades.
type ContractInfo struct {
	Contract string `serialize:"true" json:"contract"`
	Version  string `serialize:"true" json:"version"`
}

// PendingReply is stored under a reply id until the submessage it belongs to
// reports back.
type PendingReply struct {
	Kind   ReplyKind `serialize:"true"`
	Sender Identity  `serialize:"true"`
	Amount Amount    `serialize:"true"`
	Target Identity  `serialize:"true"`
}

// Packet is an outbound cross-chain transfer awaiting acknowledgement or
// timeout.
type Packet struct {
	Sender   Identity `serialize:"true"`
	Amount   Amount   `serialize:"true"`
	Channel  string   `serialize:"true"`
	Receiver string   `serialize:"true"`
}

// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/contractvm/storage"
)

// Query answers read-only questions about the contract. It needs no
// authorization and never writes.
func (c *Contract) Query(r storage.Reader, msg QueryMsg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var (
		result interface{}
		err    error
	)
	switch {
	case msg.Config != nil:
		result, err = c.queryConfig(r)
	case msg.Balance != nil:
		result, err = c.queryBalance(r, msg.Balance.Address)
	case msg.Proposal != nil:
		result, err = c.queryProposal(r, msg.Proposal.ProposalID)
	case msg.ContractInfo != nil:
		result, err = c.state.ContractInfo.Load(r)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (c *Contract) queryConfig(r storage.Reader) (*ConfigResponse, error) {
	cfg, err := c.state.Config.Load(r)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	admin, err := c.addrs.Humanize(cfg.Admin)
	if err != nil {
		return nil, err
	}
	return &ConfigResponse{Admin: admin, TotalSupply: cfg.TotalSupply}, nil
}

func (c *Contract) queryBalance(r storage.Reader, address string) (*BalanceResponse, error) {
	id, err := c.addrs.ValidateIdentity(address)
	if err != nil {
		return nil, err
	}
	bal, err := c.state.balanceOf(r, id)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{Address: address, Balance: bal}, nil
}

func (c *Contract) queryProposal(r storage.Reader, id uint64) (*ProposalResponse, error) {
	prop, err := c.state.Proposals.Load(r, id)
	if err != nil {
		return nil, fmt.Errorf("proposal %d: %w", id, err)
	}
	return &ProposalResponse{ProposalID: id, Status: prop.Status}, nil
}

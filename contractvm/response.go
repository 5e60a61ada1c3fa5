// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"fmt"
)

// ReplyOn tells the host when to deliver a submessage's outcome to Reply.
type ReplyOn uint8

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

var replyOnNames = []string{"never", "success", "error", "always"}

func (r ReplyOn) String() string {
	if int(r) < len(replyOnNames) {
		return replyOnNames[r]
	}
	return fmt.Sprintf("reply_on(%d)", uint8(r))
}

func (r ReplyOn) MarshalText() ([]byte, error) {
	if int(r) >= len(replyOnNames) {
		return nil, fmt.Errorf("%w: unknown reply_on %d", ErrInvalidMessage, uint8(r))
	}
	return []byte(replyOnNames[r]), nil
}

func (r *ReplyOn) UnmarshalText(b []byte) error {
	for i, name := range replyOnNames {
		if name == string(b) {
			*r = ReplyOn(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown reply_on %q", ErrInvalidMessage, b)
}

func (r ReplyOn) OnSuccess() bool { return r == ReplySuccess || r == ReplyAlways }
func (r ReplyOn) OnError() bool   { return r == ReplyError || r == ReplyAlways }

type Coin struct {
	Denom  string `json:"denom"`
	Amount Amount `json:"amount"`
}

// CosmosMsg is a message for the host to dispatch. Exactly one field is set.
type CosmosMsg struct {
	Bank *BankMsg `json:"bank,omitempty"`
	Wasm *WasmMsg `json:"wasm,omitempty"`
	IBC  *IBCMsg  `json:"ibc,omitempty"`
}

type BankMsg struct {
	Send *BankSend `json:"send,omitempty"`
}

type BankSend struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

type WasmMsg struct {
	Execute *WasmExecute `json:"execute,omitempty"`
}

type WasmExecute struct {
	ContractAddr string          `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        []Coin          `json:"funds"`
}

type IBCMsg struct {
	Transfer *IBCTransfer `json:"transfer,omitempty"`
}

type IBCTransfer struct {
	ChannelID string `json:"channel_id"`
	ToAddress string `json:"to_address"`
	Amount    Coin   `json:"amount"`
	Sequence  uint64 `json:"sequence"`
}

// SubMsg wraps a CosmosMsg. ID is zero unless ReplyOn asks for a reply.
type SubMsg struct {
	ID      uint64    `json:"id"`
	Msg     CosmosMsg `json:"msg"`
	ReplyOn ReplyOn   `json:"reply_on"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is everything an entry point asks of the host: messages to
// dispatch, attributes to record and optional data for the caller.
type Response struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Data       []byte      `json:"data,omitempty"`
}

// Attribute returns the first value recorded under [key].
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

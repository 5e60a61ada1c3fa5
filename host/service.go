// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/contractvm/contractvm"
)

const (
	// ServiceName is the prefix of every method, as in "contract.execute".
	ServiceName = "contract"
	// Endpoint is the path the service is mounted at.
	Endpoint = "/ext/contract"
)

// Service is the JSON-RPC API of a Host
type Service struct{ host *Host }

// NewHandler serves [h] over JSON-RPC.
func NewHandler(h *Host) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(&Service{host: h}, ServiceName)
}

// CallArgs are the arguments of every state changing call. Packet callbacks
// carry the relayer as sender.
type CallArgs struct {
	// Sender is the bech32 address of the caller
	Sender string          `json:"sender"`
	Msg    json.RawMessage `json:"msg"`
}

type QueryArgs struct {
	Msg json.RawMessage `json:"msg"`
}

type QueryReply struct {
	Result json.RawMessage `json:"result"`
}

type InfoReply struct {
	Address  string `json:"address"`
	Contract string `json:"contract"`
	Version  string `json:"version"`
	HRP      string `json:"hrp"`
	Denom    string `json:"denom"`
}

// Info describes the hosted contract
func (s *Service) Info(_ *http.Request, _ *struct{}, reply *InfoReply) error {
	c := s.host.Contract()
	addr, err := c.AddressCodec().Humanize(s.host.Address())
	if err != nil {
		return rpcError(err)
	}
	*reply = InfoReply{
		Address:  addr,
		Contract: contractvm.Name,
		Version:  contractvm.Version,
		HRP:      c.AddressCodec().HRP(),
		Denom:    c.Denom(),
	}
	return nil
}

func (s *Service) Instantiate(_ *http.Request, args *CallArgs, reply *Outcome) error {
	var msg contractvm.InstantiateMsg
	return s.call(args, &msg, reply, func(sender contractvm.Identity) (*Outcome, error) {
		return s.host.Instantiate(sender, msg)
	})
}

func (s *Service) Execute(_ *http.Request, args *CallArgs, reply *Outcome) error {
	var msg contractvm.ExecuteMsg
	return s.call(args, &msg, reply, func(sender contractvm.Identity) (*Outcome, error) {
		return s.host.Execute(sender, msg)
	})
}

func (s *Service) Migrate(_ *http.Request, args *CallArgs, reply *Outcome) error {
	var msg contractvm.MigrateMsg
	return s.call(args, &msg, reply, func(sender contractvm.Identity) (*Outcome, error) {
		return s.host.Migrate(sender, msg)
	})
}

func (s *Service) PacketTimeout(_ *http.Request, args *CallArgs, reply *Outcome) error {
	var msg contractvm.PacketTimeoutMsg
	return s.call(args, &msg, reply, func(sender contractvm.Identity) (*Outcome, error) {
		return s.host.PacketTimeout(sender, msg)
	})
}

func (s *Service) PacketAck(_ *http.Request, args *CallArgs, reply *Outcome) error {
	var msg contractvm.PacketAckMsg
	return s.call(args, &msg, reply, func(sender contractvm.Identity) (*Outcome, error) {
		return s.host.PacketAck(sender, msg)
	})
}

func (s *Service) Query(_ *http.Request, args *QueryArgs, reply *QueryReply) error {
	var msg contractvm.QueryMsg
	if err := contractvm.DecodeMsg(args.Msg, &msg); err != nil {
		return rpcError(err)
	}
	res, err := s.host.Query(msg)
	if err != nil {
		return rpcError(err)
	}
	reply.Result = res
	return nil
}

// call validates the sender and decodes the message before [run] sees
// either.
func (s *Service) call(args *CallArgs, msg contractvm.Msg, reply *Outcome, run func(contractvm.Identity) (*Outcome, error)) error {
	sender, err := s.host.Contract().AddressCodec().ValidateIdentity(args.Sender)
	if err != nil {
		return rpcError(err)
	}
	if err := contractvm.DecodeMsg(args.Msg, msg); err != nil {
		return rpcError(err)
	}
	return s.finish(reply)(run(sender))
}

func (s *Service) finish(reply *Outcome) func(*Outcome, error) error {
	return func(out *Outcome, err error) error {
		if err != nil {
			return rpcError(err)
		}
		*reply = *out
		return nil
	}
}

// rpcError carries the error kind in the data field so clients can match on
// it.
func rpcError(err error) error {
	return &json2.Error{
		Code:    json2.E_SERVER,
		Message: err.Error(),
		Data:    contractvm.ErrorKind(err),
	}
}

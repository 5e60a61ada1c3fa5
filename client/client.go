// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/contractvm/contractvm"
	"github.com/ava-labs/contractvm/host"
)

// Client defines contract service operations. Senders are bech32 addresses.
type Client interface {
	// Info describes the hosted contract
	Info(ctx context.Context) (*host.InfoReply, error)

	Instantiate(ctx context.Context, sender string, msg contractvm.InstantiateMsg) (*host.Outcome, error)
	Execute(ctx context.Context, sender string, msg contractvm.ExecuteMsg) (*host.Outcome, error)
	Migrate(ctx context.Context, sender string, msg contractvm.MigrateMsg) (*host.Outcome, error)

	// Query returns the JSON answer of the contract
	Query(ctx context.Context, msg contractvm.QueryMsg) (json.RawMessage, error)

	// PacketTimeout and PacketAck report packet outcomes as [relayer]
	PacketTimeout(ctx context.Context, relayer string, msg contractvm.PacketTimeoutMsg) (*host.Outcome, error)
	PacketAck(ctx context.Context, relayer string, msg contractvm.PacketAckMsg) (*host.Outcome, error)
}

// Error is a failure reported by the service. errors.Is matches it against
// the contract's sentinel errors.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return contractvm.KindError(e.Kind) }

// New creates a new client object for the node at [uri], for example
// "http://127.0.0.1:9650".
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri, host.Endpoint, host.ServiceName)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Info(ctx context.Context) (*host.InfoReply, error) {
	resp := new(host.InfoReply)
	return resp, cli.send(ctx, "info", struct{}{}, resp)
}

func (cli *client) Instantiate(ctx context.Context, sender string, msg contractvm.InstantiateMsg) (*host.Outcome, error) {
	return cli.call(ctx, "instantiate", sender, msg)
}

func (cli *client) Execute(ctx context.Context, sender string, msg contractvm.ExecuteMsg) (*host.Outcome, error) {
	return cli.call(ctx, "execute", sender, msg)
}

func (cli *client) Migrate(ctx context.Context, sender string, msg contractvm.MigrateMsg) (*host.Outcome, error) {
	return cli.call(ctx, "migrate", sender, msg)
}

func (cli *client) Query(ctx context.Context, msg contractvm.QueryMsg) (json.RawMessage, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	resp := new(host.QueryReply)
	if err := cli.send(ctx, "query", &host.QueryArgs{Msg: raw}, resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (cli *client) PacketTimeout(ctx context.Context, relayer string, msg contractvm.PacketTimeoutMsg) (*host.Outcome, error) {
	return cli.call(ctx, "packetTimeout", relayer, msg)
}

func (cli *client) PacketAck(ctx context.Context, relayer string, msg contractvm.PacketAckMsg) (*host.Outcome, error) {
	return cli.call(ctx, "packetAck", relayer, msg)
}

func (cli *client) call(ctx context.Context, method, sender string, msg contractvm.Msg) (*host.Outcome, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	resp := new(host.Outcome)
	if err := cli.send(ctx, method, &host.CallArgs{Sender: sender, Msg: raw}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// send issues [method] and turns service errors into *Error.
func (cli *client) send(ctx context.Context, method string, args, reply interface{}) error {
	err := cli.req.SendRequest(ctx, method, args, reply)
	var rpcErr *json2.Error
	if errors.As(err, &rpcErr) {
		kind, _ := rpcErr.Data.(string)
		return &Error{Kind: kind, Message: rpcErr.Message}
	}
	return err
}

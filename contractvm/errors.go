// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"errors"

	"github.com/ava-labs/contractvm/storage"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrUnknownReply       = errors.New("unknown reply id")
	ErrUnhandledReply     = errors.New("reply kind has no handler")
	ErrSubMsgFailed       = errors.New("submessage failed")

	ErrNotFound     = storage.ErrNotFound
	ErrKeyCollision = storage.ErrKeyCollision
	ErrStorage      = storage.ErrStorage
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrInvalidAddress, "InvalidAddress"},
	{ErrArithmeticOverflow, "ArithmeticOverflow"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrInvalidState, "InvalidState"},
	{ErrInvalidMessage, "InvalidMessage"},
	{ErrUnknownReply, "UnknownReply"},
	{ErrUnhandledReply, "UnhandledReply"},
	{ErrSubMsgFailed, "SubMsgFailed"},
	{ErrKeyCollision, "KeyCollision"},
	{ErrStorage, "StorageError"},
	{ErrNotFound, "NotFound"},
}

// KindError returns the sentinel for a taxonomy name, or nil if [kind] is
// not one.
func KindError(kind string) error {
	for _, k := range errorKinds {
		if k.kind == kind {
			return k.err
		}
	}
	return nil
}

// ErrorKind names the taxonomy entry [err] belongs to, or "Internal" if it
// matches none of them.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Internal"
}

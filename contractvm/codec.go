// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// CodecVersion prefixes every value the contract stores. Values written
// under any other version fail to load.
const CodecVersion = 0

// Codec encodes contract state. Stored types are concrete structs, so no
// type registrations are needed.
var Codec = newCodec()

func newCodec() codec.Manager {
	m := codec.NewDefaultManager()

	errs := wrappers.Errs{}
	errs.Add(
		m.RegisterCodec(CodecVersion, linearcodec.NewDefault()),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
	return m
}

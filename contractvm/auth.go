// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import "fmt"

// RequireCaller fails with ErrUnauthorized unless [actual] is [expected].
// Privileged handlers call it before they read anything else or write.
func RequireCaller(actual, expected Identity) error {
	if expected.IsEmpty() || actual != expected {
		return fmt.Errorf("%w: caller %s", ErrUnauthorized, actual)
	}
	return nil
}

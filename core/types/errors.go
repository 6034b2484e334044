package types

import "errors"

// ErrInvalidBloom is returned by NewReceipt when an explicitly supplied
// bloom disagrees with the one derived from the receipt's logs (spec.md
// §4.3, §9 open question 2 — resolved as always an error).
var ErrInvalidBloom = errors.New("types: explicit bloom disagrees with derived bloom")

// ErrPoWFailed is returned by Header.CheckPoW when the mix digest or the
// difficulty target check fails.
var ErrPoWFailed = errors.New("types: proof of work verification failed")

// ErrMalformedHeader is returned for structurally invalid header input
// (wrong-length nonce passed to CheckPoW, oversized extra data). A
// coinbase is a fixed 20-byte Address and is never rejected here.
var ErrMalformedHeader = errors.New("types: header field malformed")

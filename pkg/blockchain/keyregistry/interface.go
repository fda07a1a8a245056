package keyregistry

import "context"

// IVerifier asserts that a signer key is registered for a fid. The webhook
// handler fails closed when Verify returns an error.
type IVerifier interface {
	Verify(ctx context.Context, fid uint64, key []byte) (bool, error)
}

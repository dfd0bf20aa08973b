package catalog

import (
	"context"
)

// Verification compares a fresh compilation with the stored artifact.
type Verification struct {
	Expected string
	Actual   string
	Result   *Result
}

// Stale reports whether the stored artifact differs from the sources.
func (v *Verification) Stale() bool {
	return v.Expected != v.Actual
}

// Verify compiles the sources in memory and compares the digest with the
// stored artifact bytes. Nothing is written.
func (b *Builder) Verify(ctx context.Context, stored []byte) (*Verification, error) {
	_, result, err := b.Compile(ctx)
	if err != nil {
		return nil, err
	}
	return &Verification{
		Expected: result.Digest,
		Actual:   DigestBytes(stored),
		Result:   result,
	}, nil
}

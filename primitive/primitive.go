// Package primitive defines the contract between the PKCS#1 v1.5 padding
// engine and the raw RSA modular-exponentiation primitive it sits on top
// of. The engine never inspects key material itself; it only learns the
// modulus size from MaxSize and dispatches Encrypt/Decrypt calls carrying
// already-padded, key-size-aligned octet strings.
package primitive

import (
	"context"
	"crypto/rsa"
)

// Primitive is the Key/Primitive Adapter the padding engine is built
// against. Implementations are provided by a collaborator; this package
// only declares the shape. primitive/softprimitive and
// primitive/pkcs11primitive are two concrete implementations.
//
// Encrypt always applies the public exponent (used by the engine's own
// Encrypt, and by Verify, since both operate in the public-key direction).
// Decrypt always applies the private exponent (used by the engine's
// Decrypt and Sign). This collapses the four named RSA primitive operations
// (encrypt, decrypt, sign, verify) down to two directional ones: RSA itself
// is symmetric in shape between sign/verify and encrypt/decrypt, and only
// the padding differs, which is the engine's job, not the primitive's.
type Primitive interface {
	// SetPublicKey installs a public key. It must be called before Encrypt.
	SetPublicKey(pub *rsa.PublicKey) error

	// SetPrivateKey installs a private key. It must be called before
	// Decrypt. Implementations that only ever wrap a public key (e.g. a
	// pure verifier) may return a fixed error here.
	SetPrivateKey(priv *rsa.PrivateKey) error

	// MaxSize returns the modulus length in octets, or 0 if no key has
	// been installed yet.
	MaxSize() int

	// Encrypt computes in^e mod n over the installed public key. in must
	// be exactly MaxSize() octets; the returned slice is at most MaxSize()
	// octets (leading zero octets of the result are never produced).
	Encrypt(ctx context.Context, in []byte) ([]byte, error)

	// Decrypt computes in^d mod n over the installed private key, with the
	// same length conventions as Encrypt.
	Decrypt(ctx context.Context, in []byte) ([]byte, error)
}

// MaxKeySize bounds the modulus size the padding engine will accept; the
// engine checks it before every dispatch, the primitives themselves do not.
// A kernel crypto API implementation enforces a single host I/O page;
// userspace Go has no such constraint, so this is a generous, documented
// ceiling whose only purpose is to keep the not-supported error path
// reachable and testable rather than to model a real hardware limit.
const MaxKeySize = 1 << 20 // 1 MiB modulus, far beyond any real RSA key

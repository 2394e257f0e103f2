package blockpad

import "fmt"

// Normalize left-pads a raw RSA primitive output to exactly k octets. A
// modexp result the primitive returns may be shorter than k because leading
// zero octets of a big-endian integer are never produced by the
// arithmetic; this restores them so downstream code always sees a
// fixed-width, key-size-aligned buffer. Used on all four operations: the
// encrypt/sign completion paths normalize before returning ciphertext or
// signature bytes to the caller, and the decrypt/verify paths normalize
// before checking that the restored leading octet is the expected 0x00.
func Normalize(k int, primitiveOut []byte) ([]byte, error) {
	if len(primitiveOut) > k {
		return nil, fmt.Errorf("blockpad: primitive output is %d octets, exceeds modulus size %d", len(primitiveOut), k)
	}
	out := make([]byte, k)
	copy(out[k-len(primitiveOut):], primitiveOut)
	return out, nil
}

// Package blockpad builds and parses the EME-PKCS1-v1_5 (block type 02) and
// EMSA-PKCS1-v1_5 (block type 01) octet strings that sit between a plaintext
// or digest and the raw RSA modexp. It has no notion of keys, primitives, or
// hash algorithms beyond the DigestInfo prefix bytes it is handed; those
// concerns belong to the caller (the padding engine).
package blockpad

import (
	"errors"
	"fmt"
	"io"
)

// ErrInputTooLarge is returned by BuildEncrypt/BuildSign when the payload
// (plus any DigestInfo prefix) does not leave room for at least 8 octets of
// padding string and the required framing bytes.
var ErrInputTooLarge = errors.New("blockpad: input too large for this modulus")

// minPadLen is the minimum padding-string length the PKCS#1 v1.5 encoding
// requires (RFC 8017 §7.2.1 / §9.2): 11 framing+padding octets total, 3 of
// which are block type, separator and (conceptually) the leading zero that
// the normalizer restores, leaving 8 for PS.
const minPadLen = 8

// BuildEncrypt constructs a type-02 encryption block for a k-octet modulus:
//
//	0x02 || PS || 0x00 || message
//
// PS is k-len(message)-3 bytes, each sampled uniformly from [1,255] so that
// no padding octet is ever zero (the decoder uses the first zero octet
// after the header to locate the message). The returned slice has length
// k-1; the caller's primitive/normalizer is responsible for the restored
// leading zero octet that brings an RSA-sized buffer to length k.
func BuildEncrypt(rand io.Reader, k int, message []byte) ([]byte, error) {
	if k-len(message) < minPadLen+3 {
		return nil, fmt.Errorf("%w: message is %d bytes, modulus leaves %d", ErrInputTooLarge, len(message), k-11)
	}

	em := make([]byte, k-1)
	em[0] = 0x02
	psLen := k - len(message) - 3
	ps := em[1 : 1+psLen]
	if err := fillNonZeroRandom(rand, ps); err != nil {
		return nil, fmt.Errorf("blockpad: generating padding string: %w", err)
	}
	em[1+psLen] = 0x00
	copy(em[2+psLen:], message)
	return em, nil
}

// fillNonZeroRandom fills buf with uniformly random nonzero bytes. It
// over-reads and rejects zero bytes rather than remapping them, so the
// output remains uniform over [1,255] instead of biased toward 1 (a
// remap-zero-to-one scheme would double the probability of producing 0x01).
func fillNonZeroRandom(rand io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	chunk := make([]byte, len(buf))
	filled := 0
	for filled < len(buf) {
		n, err := io.ReadFull(rand, chunk[:len(buf)-filled])
		if err != nil {
			return err
		}
		for _, b := range chunk[:n] {
			if b != 0x00 {
				buf[filled] = b
				filled++
			}
		}
	}
	return nil
}

// BuildSign constructs a type-01 signature block for a k-octet modulus:
//
//	0x01 || PS || 0x00 || prefix || payload
//
// prefix is the DigestInfo DER prefix for a configured hash, or nil/empty
// for a raw (unhashed) signature. PS is entirely 0xFF, length
// k-len(prefix)-len(payload)-3. The returned slice has length k-1, the same
// convention as BuildEncrypt.
func BuildSign(k int, prefix, payload []byte) ([]byte, error) {
	tLen := len(prefix) + len(payload)
	if k-tLen < minPadLen+3 {
		return nil, fmt.Errorf("%w: digest+prefix is %d bytes, modulus leaves %d", ErrInputTooLarge, tLen, k-11)
	}

	em := make([]byte, k-1)
	em[0] = 0x01
	psLen := k - tLen - 3
	for i := 1; i < 1+psLen; i++ {
		em[i] = 0xFF
	}
	em[1+psLen] = 0x00
	copy(em[2+psLen:], prefix)
	copy(em[2+psLen+len(prefix):], payload)
	return em, nil
}

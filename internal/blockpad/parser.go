package blockpad

import "errors"

// ErrInvalidEncoding is returned for any structurally malformed type-02
// block. A single sentinel is used for every failure mode (missing 0x02
// marker, missing separator, short padding string, ...) so that decrypt
// callers cannot distinguish which check failed from the error alone.
// PKCS#1 v1.5 decryption oracles are built from exactly that kind of
// distinguishability.
var ErrInvalidEncoding = errors.New("blockpad: invalid type-02 block encoding")

// ErrBadSignature is the equivalent sentinel for verify: any structural
// failure of a type-01 block, or a DigestInfo prefix mismatch, reports this
// single error.
var ErrBadSignature = errors.New("blockpad: signature block does not verify")

// ParseDecrypt extracts the plaintext from em, a k-1 octet buffer that is
// the modexp output with its always-zero leading octet already stripped
// (by the RSA primitive or by the caller). It enforces:
//
//  1. len(em) == k-1
//  2. em[0] == 0x02
//  3. some index p in [1, k-2] has em[p] == 0x00
//  4. p >= 9 (padding string is at least 8 octets)
//
// On success it returns em[p+1:]. All failures collapse to
// ErrInvalidEncoding.
func ParseDecrypt(k int, em []byte) ([]byte, error) {
	if len(em) != k-1 {
		return nil, ErrInvalidEncoding
	}
	if em[0] != 0x02 {
		return nil, ErrInvalidEncoding
	}

	sep := -1
	for i := 1; i < len(em); i++ {
		if em[i] == 0x00 {
			sep = i
			break
		}
	}
	if sep == -1 || sep < 9 {
		return nil, ErrInvalidEncoding
	}
	return em[sep+1:], nil
}

// ParseVerify extracts the recovered message from em, a k-1 octet buffer
// that is the modexp output with its leading zero octet stripped. It
// enforces:
//
//  1. len(em) == k-1
//  2. em[0] == 0x01
//  3. every byte in [1, p) is 0xFF, then em[p] == 0x00, with p >= 9
//  4. if prefix is non-empty, em[p+1:p+1+len(prefix)] == prefix exactly
//
// On success it returns the bytes after the padding (and, when prefix is
// non-empty, after the matched DigestInfo prefix too). All failures
// collapse to ErrBadSignature.
func ParseVerify(k int, em []byte, prefix []byte) ([]byte, error) {
	if len(em) != k-1 {
		return nil, ErrBadSignature
	}
	if em[0] != 0x01 {
		return nil, ErrBadSignature
	}

	sep := -1
	for i := 1; i < len(em); i++ {
		if em[i] == 0x00 {
			sep = i
			break
		}
		if em[i] != 0xFF {
			return nil, ErrBadSignature
		}
	}
	if sep == -1 || sep < 9 {
		return nil, ErrBadSignature
	}

	rest := em[sep+1:]
	if len(prefix) == 0 {
		return rest, nil
	}
	if len(rest) < len(prefix) {
		return nil, ErrBadSignature
	}
	for i, b := range prefix {
		if rest[i] != b {
			return nil, ErrBadSignature
		}
	}
	return rest[len(prefix):], nil
}

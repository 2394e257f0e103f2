// Package digestasn1 sanity-checks the embedded DigestInfo prefixes in
// internal/digestinfo against their expected ASN.1 DER shape:
//
//	SEQUENCE {
//	  SEQUENCE { OID digestAlgorithm, NULL },
//	  OCTET STRING (length only, no content: the digest is appended later)
//	}
//
// This does not replace the literal hex table: the DigestInfo prefixes are
// fixed byte sequences from RFC 8017 §9.2, not something to regenerate at
// runtime. It catches a transcription error in that table at package load.
//
// A prefix is, by construction, an incomplete DER element: its outer
// SEQUENCE declares a length that includes a digest which hasn't been
// appended yet. golang.org/x/crypto/cryptobyte enforces that a SEQUENCE's
// declared length matches the bytes actually present, so it can only be
// used on the fully self-contained AlgorithmIdentifier child; the outer
// header and trailing OCTET STRING tag/length are decoded by hand.
package digestasn1

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	casn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// CheckPrefix verifies prefix against the expected partial-DigestInfo shape
// and that its declared lengths are internally consistent with a prefix
// that is missing only its trailing digest bytes.
func CheckPrefix(prefix []byte) error {
	if len(prefix) < 2 || prefix[0] != byte(casn1.SEQUENCE) {
		return fmt.Errorf("digestasn1: missing outer SEQUENCE tag")
	}
	outerLen, headerLen, err := readLength(prefix[1:])
	if err != nil {
		return fmt.Errorf("digestasn1: outer length: %w", err)
	}
	headerLen++ // account for the tag byte itself

	body := prefix[headerLen:]
	algIDBytes, rest, err := readElement(body)
	if err != nil {
		return fmt.Errorf("digestasn1: AlgorithmIdentifier: %w", err)
	}
	if err := checkAlgorithmIdentifier(algIDBytes); err != nil {
		return err
	}

	// What remains must be exactly an OCTET STRING tag + one short-form
	// length byte (every supported hash digest is well under 128 bytes),
	// and no digest content.
	if len(rest) != 2 {
		return fmt.Errorf("digestasn1: expected a bare OCTET STRING tag/length after AlgorithmIdentifier, got %d trailing bytes", len(rest))
	}
	if rest[0] != byte(casn1.OCTET_STRING) {
		return fmt.Errorf("digestasn1: element after AlgorithmIdentifier is not an OCTET STRING")
	}
	octetLen := int(rest[1])
	if octetLen&0x80 != 0 {
		return fmt.Errorf("digestasn1: OCTET STRING length must be short-form for a digest this size")
	}

	wantOuterLen := len(algIDBytes) + 2 + octetLen
	if outerLen != wantOuterLen {
		return fmt.Errorf("digestasn1: outer SEQUENCE declares length %d, want %d once the digest is appended", outerLen, wantOuterLen)
	}
	return nil
}

func checkAlgorithmIdentifier(b []byte) error {
	algID := cryptobyte.String(b)
	var seq cryptobyte.String
	if !algID.ReadASN1(&seq, casn1.SEQUENCE) {
		return fmt.Errorf("digestasn1: AlgorithmIdentifier is not a SEQUENCE")
	}
	if !algID.Empty() {
		return fmt.Errorf("digestasn1: trailing bytes after AlgorithmIdentifier")
	}

	var oid cryptobyte.String
	if !seq.ReadASN1(&oid, casn1.OBJECT_IDENTIFIER) {
		return fmt.Errorf("digestasn1: AlgorithmIdentifier does not start with an OID")
	}

	var null cryptobyte.String
	if !seq.ReadASN1(&null, casn1.NULL) || len(null) != 0 {
		return fmt.Errorf("digestasn1: AlgorithmIdentifier parameters are not an empty NULL")
	}
	if !seq.Empty() {
		return fmt.Errorf("digestasn1: unexpected trailing element in AlgorithmIdentifier")
	}
	return nil
}

// readLength decodes a DER length field starting at b[0] and returns the
// declared length, the number of bytes the length field itself occupied,
// and an error. It accepts short form and multi-byte long form; indefinite
// length (BER-only) is rejected since DigestInfo prefixes are always DER.
func readLength(b []byte) (length int, fieldLen int, err error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("truncated length")
	}
	first := b[0]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	numBytes := int(first & 0x7F)
	if numBytes == 0 {
		return 0, 0, fmt.Errorf("indefinite length not allowed in DER")
	}
	if numBytes > 4 || len(b) < 1+numBytes {
		return 0, 0, fmt.Errorf("unsupported or truncated long-form length")
	}
	length = 0
	for _, bb := range b[1 : 1+numBytes] {
		length = length<<8 | int(bb)
	}
	return length, 1 + numBytes, nil
}

// readElement splits b into the bytes of its first complete TLV element
// (tag + length + content) and the remaining bytes after it.
func readElement(b []byte) (element, rest []byte, err error) {
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("truncated element")
	}
	length, fieldLen, err := readLength(b[1:])
	if err != nil {
		return nil, nil, err
	}
	headerLen := 1 + fieldLen
	end := headerLen + length
	if end > len(b) {
		return nil, nil, fmt.Errorf("truncated element content")
	}
	return b[:end], b[end:], nil
}

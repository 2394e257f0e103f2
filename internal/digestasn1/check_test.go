package digestasn1

import "testing"

func TestCheckPrefixAcceptsAllRecognizedPrefixes(t *testing.T) {
	prefixes := map[string][]byte{
		"md5": {
			0x30, 0x20, 0x30, 0x0C, 0x06, 0x08, 0x2A, 0x86, 0x48, 0x86,
			0xF7, 0x0D, 0x02, 0x05, 0x05, 0x00, 0x04, 0x10,
		},
		"sha1": {
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2B, 0x0E, 0x03, 0x02,
			0x1A, 0x05, 0x00, 0x04, 0x14,
		},
		"sha256": {
			0x30, 0x31, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
			0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
		},
		"sha512": {
			0x30, 0x51, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
			0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40,
		},
	}
	for name, prefix := range prefixes {
		if err := CheckPrefix(prefix); err != nil {
			t.Errorf("CheckPrefix(%s) = %v, want nil", name, err)
		}
	}
}

func TestCheckPrefixRejectsWrongOuterTag(t *testing.T) {
	b := []byte{0x31, 0x02, 0x30, 0x00}
	if err := CheckPrefix(b); err == nil {
		t.Fatal("expected error when outer tag is not SEQUENCE")
	}
}

func TestCheckPrefixRejectsInconsistentOuterLength(t *testing.T) {
	// sha256 prefix with the outer length byte corrupted from 0x31 to 0x32.
	b := []byte{
		0x30, 0x32, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
		0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
	}
	if err := CheckPrefix(b); err == nil {
		t.Fatal("expected error for an outer length inconsistent with the OCTET STRING length")
	}
}

func TestCheckPrefixRejectsMissingOctetStringTag(t *testing.T) {
	// sha1 prefix with the OCTET STRING tag 0x04 replaced by a NULL tag.
	b := []byte{
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2B, 0x0E, 0x03, 0x02,
		0x1A, 0x05, 0x00, 0x05, 0x14,
	}
	if err := CheckPrefix(b); err == nil {
		t.Fatal("expected error when the OCTET STRING tag is missing")
	}
}

func TestCheckPrefixRejectsTruncatedAlgorithmIdentifier(t *testing.T) {
	b := []byte{0x30, 0x31, 0x30, 0x0D, 0x06, 0x09}
	if err := CheckPrefix(b); err == nil {
		t.Fatal("expected error for a truncated AlgorithmIdentifier")
	}
}

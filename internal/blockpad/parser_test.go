package blockpad

import (
	"bytes"
	"errors"
	"testing"
)

func block(k int, fill func(em []byte)) []byte {
	em := make([]byte, k-1)
	fill(em)
	return em
}

func TestParseDecryptValid(t *testing.T) {
	const k = 32
	want := []byte("hi")
	em := block(k, func(em []byte) {
		em[0] = 0x02
		for i := 1; i < k-1-1-len(want); i++ {
			em[i] = byte(i) | 0x01 // anything nonzero
		}
		em[k-1-1-len(want)] = 0x00
		copy(em[k-len(want)-1:], want)
	})

	got, err := ParseDecrypt(k, em)
	if err != nil {
		t.Fatalf("ParseDecrypt: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseDecryptWrongLength(t *testing.T) {
	const k = 32
	if _, err := ParseDecrypt(k, make([]byte, k-2)); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestParseDecryptWrongBlockType(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x01
	if _, err := ParseDecrypt(k, em); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestParseDecryptPSTooShort(t *testing.T) {
	// 0x02 followed by only 7 nonzero bytes then 0x00: one short of the
	// 8-octet minimum padding string.
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x02
	for i := 1; i <= 7; i++ {
		em[i] = byte(i)
	}
	em[8] = 0x00 // separator at index 8, p < 9
	if _, err := ParseDecrypt(k, em); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestParseDecryptMissingSeparator(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x02
	for i := 1; i < len(em); i++ {
		em[i] = 0xAB // never zero
	}
	if _, err := ParseDecrypt(k, em); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestParseDecryptEmptyPlaintextAllowed(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x02
	for i := 1; i < k-2; i++ {
		em[i] = 0xFF
	}
	em[k-2] = 0x00 // separator at the last index; zero-length plaintext follows
	got, err := ParseDecrypt(k, em)
	if err != nil {
		t.Fatalf("ParseDecrypt: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
}

func buildVerifyBlock(k int, prefix, payload []byte) []byte {
	em := make([]byte, k-1)
	em[0] = 0x01
	psLen := k - len(prefix) - len(payload) - 3
	for i := 1; i < 1+psLen; i++ {
		em[i] = 0xFF
	}
	em[1+psLen] = 0x00
	copy(em[2+psLen:], prefix)
	copy(em[2+psLen+len(prefix):], payload)
	return em
}

func TestParseVerifyValidWithPrefix(t *testing.T) {
	const k = 64
	prefix := []byte{0x30, 0x31, 0x30, 0x0D}
	payload := bytes.Repeat([]byte{0xAA}, 32)
	em := buildVerifyBlock(k, prefix, payload)

	got, err := ParseVerify(k, em, prefix)
	if err != nil {
		t.Fatalf("ParseVerify: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %x, want %x", got, payload)
	}
}

func TestParseVerifyValidRawMode(t *testing.T) {
	const k = 64
	payload := bytes.Repeat([]byte{0x11}, 20)
	em := buildVerifyBlock(k, nil, payload)

	got, err := ParseVerify(k, em, nil)
	if err != nil {
		t.Fatalf("ParseVerify: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %x, want %x", got, payload)
	}
}

func TestParseVerifyPrefixMismatch(t *testing.T) {
	const k = 64
	signedWith := []byte{0x30, 0x31, 0x30, 0x0D} // e.g. sha256-shaped
	configured := []byte{0x30, 0x21, 0x30, 0x09} // e.g. sha1-shaped
	payload := bytes.Repeat([]byte{0xAA}, 32)
	em := buildVerifyBlock(k, signedWith, payload)

	if _, err := ParseVerify(k, em, configured); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestParseVerifyNonFFByteBeforeSeparator(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x01
	for i := 1; i < k-2; i++ {
		em[i] = 0xFF
	}
	em[5] = 0xAB // not 0xFF and not the 0x00 separator
	em[k-2] = 0x00
	if _, err := ParseVerify(k, em, nil); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestParseVerifyPSTooShort(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x01
	for i := 1; i <= 7; i++ {
		em[i] = 0xFF
	}
	em[8] = 0x00
	if _, err := ParseVerify(k, em, nil); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestParseVerifyWrongBlockType(t *testing.T) {
	const k = 32
	em := make([]byte, k-1)
	em[0] = 0x02
	if _, err := ParseVerify(k, em, nil); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

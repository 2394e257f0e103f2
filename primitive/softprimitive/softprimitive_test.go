package softprimitive

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"math/big"
	"testing"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	s := New()
	if err := s.SetPrivateKey(key); err != nil {
		t.Fatalf("SetPrivateKey: %v", err)
	}
	if err := s.SetPublicKey(&key.PublicKey); err != nil {
		t.Fatalf("SetPublicKey: %v", err)
	}

	plain := new(big.Int).SetBytes([]byte("a modexp input, not PKCS#1-padded here")).Bytes()
	ctx := context.Background()

	enc, err := s.Encrypt(ctx, plain)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	dec, err := s.Decrypt(ctx, enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(dec, plain) {
		t.Fatalf("round trip mismatch: got %x, want %x", dec, plain)
	}
}

func TestMaxSizeZeroUntilKeyed(t *testing.T) {
	s := New()
	if got := s.MaxSize(); got != 0 {
		t.Fatalf("MaxSize() = %d before any key installed, want 0", got)
	}
	key := testKey(t)
	if err := s.SetPublicKey(&key.PublicKey); err != nil {
		t.Fatalf("SetPublicKey: %v", err)
	}
	if got, want := s.MaxSize(), key.PublicKey.Size(); got != want {
		t.Fatalf("MaxSize() = %d, want %d", got, want)
	}
}

func TestEncryptWithoutKey(t *testing.T) {
	s := New()
	if _, err := s.Encrypt(context.Background(), []byte{1}); !errors.Is(err, ErrNoPublicKey) {
		t.Fatalf("err = %v, want ErrNoPublicKey", err)
	}
}

func TestDecryptWithoutKey(t *testing.T) {
	s := New()
	if _, err := s.Decrypt(context.Background(), []byte{1}); !errors.Is(err, ErrNoPrivateKey) {
		t.Fatalf("err = %v, want ErrNoPrivateKey", err)
	}
}

func TestCRTAndPlainPathsAgree(t *testing.T) {
	key := testKey(t)
	s := New()
	if err := s.SetPrivateKey(key); err != nil {
		t.Fatalf("SetPrivateKey: %v", err)
	}

	c := new(big.Int).SetBytes([]byte("some ciphertext-shaped bytes")).Bytes()
	viaCRT, err := s.Decrypt(context.Background(), c)
	if err != nil {
		t.Fatalf("Decrypt (CRT): %v", err)
	}

	noCRT := &rsa.PrivateKey{
		PublicKey: key.PublicKey,
		D:         key.D,
		Primes:    key.Primes,
	}
	s2 := New()
	if err := s2.SetPrivateKey(noCRT); err != nil {
		t.Fatalf("SetPrivateKey: %v", err)
	}
	viaPlain, err := s2.Decrypt(context.Background(), c)
	if err != nil {
		t.Fatalf("Decrypt (plain): %v", err)
	}
	if !bytes.Equal(viaCRT, viaPlain) {
		t.Fatalf("CRT and plain decrypt disagree: %x vs %x", viaCRT, viaPlain)
	}
}

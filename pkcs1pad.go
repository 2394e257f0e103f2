// Package pkcs1pad implements the PKCS#1 v1.5 padding layer (RFC 8017
// §7.2, §9.2) wrapped around an external RSA primitive: EME-PKCS1-v1_5
// encrypt/decrypt and EMSA-PKCS1-v1_5 sign/verify, with the associated
// DigestInfo handling, octet-string boundary checks, and key-size-aligned
// output normalization. The raw modular exponentiation is supplied by a
// primitive.Primitive collaborator (see primitive/softprimitive and
// primitive/pkcs11primitive); this package owns only the padding.
package pkcs1pad

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/vocdoni/gofirma/pkcs1pad/internal/blockpad"
	"github.com/vocdoni/gofirma/pkcs1pad/internal/digestinfo"
	"github.com/vocdoni/gofirma/pkcs1pad/primitive"
)

// Transform is one configured padding instance, analogous to a kernel
// crypto API tfm/transform context. hashName and its cached DigestInfo
// prefix are immutable once set at construction; the underlying key
// changes only on a new key install, which the caller must serialize
// against any in-flight operation.
type Transform struct {
	mu sync.RWMutex

	prim     primitive.Primitive
	hashName string
	prefix   []byte // nil in raw (unhashed) mode

	logger     *log.Logger
	randSource io.Reader
}

// New returns a Transform in raw-signature mode: Sign/Verify operate on
// caller-supplied bytes with no DigestInfo prefix, matching a kernel crypto
// API instance registered as "pkcs1pad(rsa)".
func New(prim primitive.Primitive) *Transform {
	return &Transform{
		prim:       prim,
		logger:     log.Default(),
		randSource: rand.Reader,
	}
}

// NewWithHash returns a Transform whose Sign/Verify prepend/expect the
// ASN.1 DigestInfo prefix for hashName, matching a kernel crypto API
// instance registered as "pkcs1pad(rsa,<hash>)". hashName must be one of
// the names in internal/digestinfo (md5, sha1, rmd160, sha224, sha256,
// sha384, sha512).
func NewWithHash(prim primitive.Primitive, hashName string) (*Transform, error) {
	entry, ok := digestinfo.Lookup(hashName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, hashName)
	}
	t := New(prim)
	t.hashName = hashName
	t.prefix = entry.Prefix
	return t, nil
}

// SetLogger overrides the default logger (log.Default()). Passing nil
// disables debug logging entirely.
func (t *Transform) SetLogger(l *log.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = l
}

// Name returns the kernel-crypto-API-style instance name for this
// Transform: "pkcs1pad(rsa)" in raw mode, or "pkcs1pad(rsa,<hash>)" when
// constructed with NewWithHash.
func (t *Transform) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.hashName == "" {
		return "pkcs1pad(rsa)"
	}
	return fmt.Sprintf("pkcs1pad(rsa,%s)", t.hashName)
}

// SetPublicKey installs a public key and updates MaxSize. Callers must not
// call this concurrently with an in-flight operation on the same
// Transform.
func (t *Transform) SetPublicKey(pub *rsa.PublicKey) error {
	return t.prim.SetPublicKey(pub)
}

// SetPrivateKey installs a private key and updates MaxSize. Callers must
// not call this concurrently with an in-flight operation on the same
// Transform.
func (t *Transform) SetPrivateKey(priv *rsa.PrivateKey) error {
	return t.prim.SetPrivateKey(priv)
}

// MaxSize returns the modulus length in octets, or 0 if no key has been
// installed.
func (t *Transform) MaxSize() int {
	return t.prim.MaxSize()
}

func (t *Transform) keySize() (int, error) {
	k := t.MaxSize()
	if k == 0 {
		return 0, ErrNoKey
	}
	if k > primitive.MaxKeySize {
		return 0, ErrNotSupported
	}
	return k, nil
}

func (t *Transform) logf(corrID uuid.UUID, format string, args ...any) {
	t.mu.RLock()
	l := t.logger
	t.mu.RUnlock()
	if l == nil {
		return
	}
	l.Printf("DEBUG[%s] "+format, append([]any{corrID}, args...)...)
}

// Encrypt builds a type-02 EME-PKCS1-v1_5 block for message, dispatches it
// to the primitive's public-key direction, normalizes the output to
// MaxSize() octets and writes it to dst. It returns the number of octets
// written (always MaxSize() on success).
//
// message must be at most MaxSize()-11 octets, or ErrInputTooLarge is
// returned without dispatching to the primitive. If dst is shorter than
// MaxSize(), an *OutputOverflowError wrapping ErrOutputOverflow is
// returned reporting the required length, and dst is left untouched.
func (t *Transform) Encrypt(ctx context.Context, dst, message []byte) (int, error) {
	corrID := uuid.New()
	k, err := t.keySize()
	if err != nil {
		t.logf(corrID, "encrypt rejected before dispatch: %v", err)
		return 0, err
	}
	t.logf(corrID, "encrypt dispatched: key_size=%d message_len=%d", k, len(message))

	if len(dst) < k {
		return 0, &OutputOverflowError{Required: k}
	}

	req := newRequest(false)
	built, err := blockpad.BuildEncrypt(t.randSource, k, message)
	if err != nil {
		t.logf(corrID, "encrypt build failed: %v", err)
		return 0, mapBuildErr(err)
	}
	// BuildEncrypt omits the leading 0x00 octet (it's the high octet of the
	// k-octet modexp input, not part of the k-1 octet block it constructs);
	// restore it here so the primitive always receives a full k-octet input,
	// matching primitive.Primitive's documented contract.
	em, err := blockpad.Normalize(k, built)
	if err != nil {
		t.logf(corrID, "encrypt build failed: %v", err)
		return 0, ErrInvalidEncoding
	}
	req.dispatch(em)
	defer req.release()

	out, err := t.prim.Encrypt(ctx, em)
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "encrypt primitive failed: %v", err)
		return 0, err
	}

	full, err := blockpad.Normalize(k, out)
	req.complete(full, err)
	if err != nil {
		t.logf(corrID, "encrypt normalize failed: %v", err)
		return 0, ErrInvalidEncoding
	}
	n := copy(dst, full)
	t.logf(corrID, "encrypt completed: ciphertext_len=%d", n)
	return n, nil
}

// Decrypt parses ciphertext (which must be exactly MaxSize() octets) as a
// type-02 EME-PKCS1-v1_5 block after dispatching it to the primitive's
// private-key direction, and writes the recovered plaintext to dst.
//
// If dst is shorter than the plaintext, an *OutputOverflowError is
// returned reporting the required length, and dst is left untouched. Any
// structural failure reports the single sentinel ErrInvalidEncoding,
// deliberately not distinguishing which check failed.
func (t *Transform) Decrypt(ctx context.Context, dst, ciphertext []byte) (int, error) {
	corrID := uuid.New()
	k, err := t.keySize()
	if err != nil {
		t.logf(corrID, "decrypt rejected before dispatch: %v", err)
		return 0, err
	}
	if len(ciphertext) != k {
		t.logf(corrID, "decrypt rejected: ciphertext length %d != key size %d", len(ciphertext), k)
		return 0, ErrInvalidEncoding
	}
	t.logf(corrID, "decrypt dispatched: key_size=%d", k)

	req := newRequest(false)
	req.dispatch(nil)
	defer req.release()

	out, err := t.prim.Decrypt(ctx, ciphertext)
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "decrypt primitive failed: %v", err)
		return 0, ErrInvalidEncoding
	}

	em, err := normalizeForUnpad(k, out)
	zero(out) // out's content is now either copied into em or discarded; either way it's done with
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "decrypt output malformed: %v", err)
		return 0, ErrInvalidEncoding
	}

	plain, err := blockpad.ParseDecrypt(k, em)
	req.complete(em, err) // em is zeroized on release either way: it may hold plaintext even when parsing then fails late
	if err != nil {
		t.logf(corrID, "decrypt rejected: invalid encoding")
		return 0, ErrInvalidEncoding
	}

	if len(dst) < len(plain) {
		t.logf(corrID, "decrypt output overflow: need %d", len(plain))
		return 0, &OutputOverflowError{Required: len(plain)}
	}
	n := copy(dst, plain)
	t.logf(corrID, "decrypt completed: plaintext_len=%d", n)
	return n, nil
}

// Sign builds a type-01 EMSA-PKCS1-v1_5 block for digest (prefixed with
// this Transform's configured DigestInfo, or used as-is in raw mode),
// dispatches it to the primitive's private-key direction, normalizes the
// output and writes it to dst.
//
// digest must be at most MaxSize()-11-len(prefix) octets, or
// ErrInputTooLarge is returned without dispatching. dst too short reports
// *OutputOverflowError with the required length (MaxSize()).
func (t *Transform) Sign(ctx context.Context, dst, digest []byte) (int, error) {
	corrID := uuid.New()
	k, err := t.keySize()
	if err != nil {
		t.logf(corrID, "sign rejected before dispatch: %v", err)
		return 0, err
	}
	t.logf(corrID, "sign dispatched: key_size=%d digest_len=%d hash=%q", k, len(digest), t.hashName)

	if len(dst) < k {
		return 0, &OutputOverflowError{Required: k}
	}

	req := newRequest(true) // sign's in_buf contains the digest block: zeroize on release
	built, err := blockpad.BuildSign(k, t.prefix, digest)
	if err != nil {
		t.logf(corrID, "sign build failed: %v", err)
		return 0, mapBuildErr(err)
	}
	// Restore the leading 0x00 octet BuildSign omits, same as Encrypt: the
	// primitive always receives a full k-octet input. Normalize allocates a
	// fresh buffer, so built (which holds the digest) needs its own
	// zeroization; only the new, dispatched buffer is tracked by req.
	em, err := blockpad.Normalize(k, built)
	zero(built)
	if err != nil {
		t.logf(corrID, "sign build failed: %v", err)
		return 0, ErrInvalidEncoding
	}
	req.dispatch(em)
	defer req.release()

	out, err := t.prim.Decrypt(ctx, em) // private-exponent direction
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "sign primitive failed: %v", err)
		return 0, err
	}

	full, err := blockpad.Normalize(k, out)
	req.complete(full, err)
	if err != nil {
		t.logf(corrID, "sign normalize failed: %v", err)
		return 0, ErrInvalidEncoding
	}
	n := copy(dst, full)
	t.logf(corrID, "sign completed: signature_len=%d", n)
	return n, nil
}

// Verify parses signature as a type-01 EMSA-PKCS1-v1_5 block after
// dispatching it to the primitive's public-key direction, checks the
// configured DigestInfo prefix (when this Transform was built with
// NewWithHash), and writes the recovered message/digest to dst.
//
// signature may be longer than MaxSize(): only the trailing MaxSize()
// octets are consumed, the same tolerance kernel crypto API callers rely on
// when a signature buffer is padded to a fixed size before the verify
// call. Any structural failure or a DigestInfo mismatch reports the
// single sentinel ErrBadSignature.
func (t *Transform) Verify(ctx context.Context, dst, signature []byte) (int, error) {
	corrID := uuid.New()
	k, err := t.keySize()
	if err != nil {
		t.logf(corrID, "verify rejected before dispatch: %v", err)
		return 0, err
	}
	if len(signature) < k {
		t.logf(corrID, "verify rejected: signature shorter than key size")
		return 0, ErrBadSignature
	}
	sig := signature[len(signature)-k:]
	t.logf(corrID, "verify dispatched: key_size=%d hash=%q", k, t.hashName)

	req := newRequest(false)
	req.dispatch(nil)
	defer req.release()

	out, err := t.prim.Encrypt(ctx, sig) // public-exponent direction
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "verify primitive failed: %v", err)
		return 0, ErrBadSignature
	}

	em, err := normalizeForUnpad(k, out)
	if err != nil {
		req.complete(nil, err)
		t.logf(corrID, "verify output malformed: %v", err)
		return 0, ErrBadSignature
	}

	msg, err := blockpad.ParseVerify(k, em, t.prefix)
	req.complete(em, err)
	if err != nil {
		t.logf(corrID, "verify rejected: signature does not verify")
		return 0, ErrBadSignature
	}

	if len(dst) < len(msg) {
		t.logf(corrID, "verify output overflow: need %d", len(msg))
		return 0, &OutputOverflowError{Required: len(msg)}
	}
	n := copy(dst, msg)
	t.logf(corrID, "verify completed: message_len=%d", n)
	return n, nil
}

// normalizeForUnpad turns a primitive's raw decrypt/verify output (at most
// k octets, with the always-zero top octet typically absent) into the k-1
// octet buffer ParseDecrypt/ParseVerify expect. An output-overflow signal
// from the primitive in this direction is remapped to an invalid-encoding
// error, since no well-formed block can legitimately need more than k
// octets here.
func normalizeForUnpad(k int, out []byte) ([]byte, error) {
	if len(out) > k {
		return nil, ErrInvalidEncoding
	}
	full, err := blockpad.Normalize(k, out)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	if full[0] != 0x00 {
		return nil, ErrInvalidEncoding
	}
	return full[1:], nil
}

func mapBuildErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blockpad.ErrInputTooLarge) {
		return ErrInputTooLarge
	}
	// A failure generating the random padding string (BuildEncrypt only):
	// propagate verbatim rather than misreport it as a size error.
	return err
}

//go:build cgo

// Package pkcs11primitive implements primitive.Primitive against a
// PKCS#11 token, for callers whose private key lives in an HSM or smart
// card rather than in process memory.
//
// Unlike a token signer configured for the padding-aware CKM_RSA_PKCS
// mechanism, the padding engine in this module already builds the
// EME/EMSA block itself, so the token must be asked for the *unpadded*
// raw RSA operation instead. CKM_RSA_X_509 is the PKCS#11 mechanism for
// that: it performs modexp on exactly the bytes handed to it, with no
// padding or unpadding of its own.
package pkcs11primitive

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/miekg/pkcs11"
)

// ErrPublicKeyOnly is returned by Decrypt: this primitive delegates the
// private-key operation to the token and never holds private key material,
// so a caller that only installed a public key cannot use it for
// decrypt/sign.
var ErrPublicKeyOnly = errors.New("pkcs11primitive: no private-key object configured for this session")

// Token identifies the session and private-key object to use for the
// private-exponent (Decrypt) direction. The public-exponent direction
// (Encrypt) never needs the token: it is computed locally against the
// installed *rsa.PublicKey, since the public key's modexp carries no
// confidentiality requirement that justifies a token round trip.
type Token struct {
	LibPath string
	Slot    uint
	// PIN unlocks the session; pass nil for a token that allows
	// CKU_USER login with an empty PIN.
	PIN []byte
	// ID is the CKA_ID of the private key object to use.
	ID []byte
}

// PKCS11 is a primitive.Primitive backed by a PKCS#11 token for the
// private-key direction and local math/big for the public-key direction.
type PKCS11 struct {
	mu     sync.Mutex
	token  Token
	pub    *rsa.PublicKey
	ctx    *pkcs11.Ctx
	logger *log.Logger
}

// New returns a primitive bound to the given token. The token is opened
// on each Decrypt call, and closed again once that call completes,
// the same fresh-session-per-operation pattern a PKCS#11-backed signer
// uses rather than holding one session open for the object's lifetime.
func New(token Token) *PKCS11 {
	return &PKCS11{token: token, logger: log.Default()}
}

// SetLogger overrides the default logger (log.Default()). Passing nil
// disables debug logging entirely.
func (p *PKCS11) SetLogger(l *log.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = l
}

func (p *PKCS11) logf(format string, args ...any) {
	p.mu.Lock()
	l := p.logger
	p.mu.Unlock()
	if l == nil {
		return
	}
	l.Printf("DEBUG: "+format, args...)
}

func (p *PKCS11) SetPublicKey(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil || pub.E == 0 {
		return errors.New("pkcs11primitive: invalid public key")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pub = pub
	return nil
}

// SetPrivateKey is not supported: private key material for this primitive
// never leaves the token. Configure Token.ID instead.
func (p *PKCS11) SetPrivateKey(*rsa.PrivateKey) error {
	return errors.New("pkcs11primitive: private keys are not imported; configure Token.ID instead")
}

func (p *PKCS11) MaxSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pub == nil {
		return 0
	}
	return p.pub.Size()
}

// Encrypt computes in^e mod n locally; see the Token doc comment for why
// the public-key direction never touches the token.
func (p *PKCS11) Encrypt(_ context.Context, in []byte) ([]byte, error) {
	p.mu.Lock()
	pub := p.pub
	p.mu.Unlock()
	if pub == nil {
		return nil, errors.New("pkcs11primitive: no public key installed")
	}
	c := new(big.Int).SetBytes(in)
	if c.Cmp(pub.N) >= 0 {
		return nil, errors.New("pkcs11primitive: input out of range for modulus")
	}
	m := new(big.Int).Exp(c, big.NewInt(int64(pub.E)), pub.N)
	return m.Bytes(), nil
}

// Decrypt performs the raw, unpadded private-key modexp on the token via
// CKM_RSA_X_509, keyed by Token.ID.
func (p *PKCS11) Decrypt(_ context.Context, in []byte) ([]byte, error) {
	if len(p.token.ID) == 0 {
		return nil, ErrPublicKeyOnly
	}

	ctx := pkcs11.New(p.token.LibPath)
	if ctx == nil {
		return nil, fmt.Errorf("pkcs11primitive: failed to load PKCS#11 module %q", p.token.LibPath)
	}
	if err := ctx.Initialize(); err != nil {
		return nil, fmt.Errorf("pkcs11primitive: initialize: %w", err)
	}
	defer ctx.Finalize()

	p.logf("opening session on slot %d", p.token.Slot)
	session, err := ctx.OpenSession(p.token.Slot, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		p.logf("open session failed: %v", err)
		return nil, fmt.Errorf("pkcs11primitive: open session: %w", err)
	}
	defer ctx.CloseSession(session)

	pin := string(p.token.PIN)
	if err := ctx.Login(session, pkcs11.CKU_USER, pin); err != nil {
		p.logf("login failed: %v", err)
		return nil, fmt.Errorf("pkcs11primitive: login: %w", err)
	}
	defer ctx.Logout(session)

	if err := ctx.FindObjectsInit(session, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_ID, p.token.ID),
	}); err != nil {
		return nil, fmt.Errorf("pkcs11primitive: find objects init: %w", err)
	}
	objs, _, err := ctx.FindObjects(session, 1)
	ctx.FindObjectsFinal(session)
	if err != nil {
		return nil, fmt.Errorf("pkcs11primitive: find objects: %w", err)
	}
	if len(objs) == 0 {
		p.logf("no private key object for configured CKA_ID")
		return nil, fmt.Errorf("pkcs11primitive: no private key object with the configured CKA_ID")
	}
	p.logf("private key object found, decrypting via CKM_RSA_X_509")

	mechanism := pkcs11.NewMechanism(pkcs11.CKM_RSA_X_509, nil)
	if err := ctx.DecryptInit(session, []*pkcs11.Mechanism{mechanism}, objs[0]); err != nil {
		return nil, fmt.Errorf("pkcs11primitive: decrypt init: %w", err)
	}
	out, err := ctx.Decrypt(session, in)
	if err != nil {
		p.logf("decrypt failed: %v", err)
		return nil, fmt.Errorf("pkcs11primitive: decrypt: %w", err)
	}
	return out, nil
}

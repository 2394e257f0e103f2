//go:build !cgo

package pkcs11primitive

import (
	"context"
	"crypto/rsa"
	"errors"
	"log"
)

// ErrUnavailable is returned by every PKCS11 method in a build without
// cgo, since github.com/miekg/pkcs11 requires it.
var ErrUnavailable = errors.New("pkcs11primitive: unavailable in this build (cgo disabled)")

// Token mirrors the cgo build's Token so callers can compile against a
// single API regardless of build tags.
type Token struct {
	LibPath string
	Slot    uint
	PIN     []byte
	ID      []byte
}

// PKCS11 is a non-functional stand-in used when cgo is disabled.
type PKCS11 struct{}

// New returns a PKCS11 primitive that fails every operation with
// ErrUnavailable.
func New(Token) *PKCS11 { return &PKCS11{} }

func (p *PKCS11) SetLogger(*log.Logger)               {}
func (p *PKCS11) SetPublicKey(*rsa.PublicKey) error   { return ErrUnavailable }
func (p *PKCS11) SetPrivateKey(*rsa.PrivateKey) error { return ErrUnavailable }
func (p *PKCS11) MaxSize() int                        { return 0 }

func (p *PKCS11) Encrypt(context.Context, []byte) ([]byte, error) {
	return nil, ErrUnavailable
}
func (p *PKCS11) Decrypt(context.Context, []byte) ([]byte, error) {
	return nil, ErrUnavailable
}

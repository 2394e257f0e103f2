// Package softprimitive implements primitive.Primitive with plain
// math/big modular exponentiation against *rsa.PublicKey/*rsa.PrivateKey.
// It is a software-only collaborator with no padding opinions of its own:
// new(big.Int).Exp(c, e, n) against the installed key, with a CRT
// shortcut on the private-key path when precomputed parameters are
// available.
package softprimitive

import (
	"context"
	"crypto/rsa"
	"errors"
	"math/big"
)

// ErrNoPublicKey and ErrNoPrivateKey are returned by Encrypt/Decrypt when
// the corresponding key has not been installed.
var (
	ErrNoPublicKey  = errors.New("softprimitive: no public key installed")
	ErrNoPrivateKey = errors.New("softprimitive: no private key installed")
)

// Soft is a software-only RSA primitive. The zero value has no key
// installed and MaxSize reports 0.
type Soft struct {
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

// New returns an unkeyed software primitive.
func New() *Soft {
	return &Soft{}
}

func (s *Soft) SetPublicKey(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil || pub.E == 0 {
		return errors.New("softprimitive: invalid public key")
	}
	s.pub = pub
	return nil
}

func (s *Soft) SetPrivateKey(priv *rsa.PrivateKey) error {
	if priv == nil || priv.N == nil || priv.D == nil {
		return errors.New("softprimitive: invalid private key")
	}
	s.priv = priv
	s.pub = &priv.PublicKey
	return nil
}

// MaxSize returns the installed modulus length in octets, preferring the
// private key's modulus when both are set (they must agree; SetPrivateKey
// keeps the derived public key in sync).
func (s *Soft) MaxSize() int {
	switch {
	case s.priv != nil:
		return s.priv.Size()
	case s.pub != nil:
		return s.pub.Size()
	default:
		return 0
	}
}

// Encrypt computes in^e mod n and returns its minimal big-endian bytes, no
// longer than the modulus size. The returned slice may be shorter than the
// modulus when the big-endian result has leading zero octets; the caller's
// normalizer restores them.
func (s *Soft) Encrypt(_ context.Context, in []byte) ([]byte, error) {
	if s.pub == nil {
		return nil, ErrNoPublicKey
	}
	c := new(big.Int).SetBytes(in)
	if c.Cmp(s.pub.N) >= 0 {
		return nil, errors.New("softprimitive: input out of range for modulus")
	}
	m := new(big.Int).Exp(c, big.NewInt(int64(s.pub.E)), s.pub.N)
	return m.Bytes(), nil
}

// Decrypt computes in^d mod n using CRT parameters when available, falling
// back to plain modexp, matching the shape of crypto/rsa's own decrypt
// path.
func (s *Soft) Decrypt(_ context.Context, in []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, ErrNoPrivateKey
	}
	c := new(big.Int).SetBytes(in)
	if c.Cmp(s.priv.N) >= 0 {
		return nil, errors.New("softprimitive: input out of range for modulus")
	}

	if s.priv.Precomputed.Dp == nil || len(s.priv.Primes) < 2 {
		m := new(big.Int).Exp(c, s.priv.D, s.priv.N)
		return m.Bytes(), nil
	}

	p, q := s.priv.Primes[0], s.priv.Primes[1]
	m1 := new(big.Int).Exp(c, s.priv.Precomputed.Dp, p)
	m2 := new(big.Int).Exp(c, s.priv.Precomputed.Dq, q)

	h := new(big.Int).Sub(m1, m2)
	h.Mod(h, p)
	h.Mul(h, s.priv.Precomputed.Qinv)
	h.Mod(h, p)

	m := new(big.Int).Mul(h, q)
	m.Add(m, m2)
	return m.Bytes(), nil
}

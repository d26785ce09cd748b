/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"

	bls12381 "github.com/kilic/bls12-381"
)

// Signature defines a BBS+ signature. A is a point of G1, e and s are scalars
// binding the signed messages to the signer key.
type Signature struct {
	A *bls12381.PointG1
	E *bls12381.Fr
	S *bls12381.Fr
}

// ParseSignature parses a Signature from bytes.
func ParseSignature(sigBytes []byte) (*Signature, error) {
	if len(sigBytes) != bls12381SignatureLen {
		return nil, fmt.Errorf("invalid size of signature: %w", ErrMalformedEncoding)
	}

	pointG1, err := g1.FromCompressed(sigBytes[:g1CompressedSize])
	if err != nil {
		return nil, fmt.Errorf("deserialize G1 compressed signature: %w", ErrMalformedEncoding)
	}

	e := parseFr(sigBytes[g1CompressedSize : g1CompressedSize+frCompressedSize])
	s := parseFr(sigBytes[g1CompressedSize+frCompressedSize:])

	return &Signature{
		A: pointG1,
		E: e,
		S: s,
	}, nil
}

// ToBytes converts signature to bytes using compression of G1 point and
// canonical marshalling of e and s scalars.
func (s *Signature) ToBytes() ([]byte, error) {
	bytes := make([]byte, bls12381SignatureLen)

	copy(bytes, g1.ToCompressed(s.A))
	copy(bytes[g1CompressedSize:g1CompressedSize+frCompressedSize], frToRepr(s.E).ToBytes())
	copy(bytes[g1CompressedSize+frCompressedSize:], frToRepr(s.S).ToBytes())

	return bytes, nil
}

// Verify checks the pairing equation e(A, w + g2^e) == e(b, g2).
func (s *Signature) Verify(messages []*SignatureMessage, pubKey *PublicKeyWithGenerators) error {
	if len(messages) != pubKey.messagesCount {
		return fmt.Errorf("%d messages for %d generators: %w",
			len(messages), pubKey.messagesCount, ErrMessageCountMismatch)
	}

	p1 := s.A

	q1 := g2.One()
	g2.MulScalar(q1, q1, frToRepr(s.E))
	g2.Add(q1, q1, pubKey.w)

	p2 := computeB(s.S, messages, pubKey)
	g1.Neg(p2, p2)

	if !compareTwoPairings(p1, q1, p2, g2.One()) {
		return ErrInvalidSignature
	}

	return nil
}

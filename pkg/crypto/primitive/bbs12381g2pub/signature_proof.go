/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"errors"
	"fmt"

	bls12381 "github.com/kilic/bls12-381"
)

// PoKOfSignatureProof defines BLS signature proof.
// It is the actual proof that is sent from prover to verifier.
type PoKOfSignatureProof struct {
	aPrime *bls12381.PointG1
	aBar   *bls12381.PointG1
	d      *bls12381.PointG1

	challenge *bls12381.Fr

	proofVC1 *ProofG1
	proofVC2 *ProofG1
}

// GetBytesForChallenge creates the transcript bytes of the proof that is used
// in challenge generation. It must produce the same bytes as ToBytes of the
// PoKOfSignature the proof was generated from.
func (sp *PoKOfSignatureProof) GetBytesForChallenge(revealedMessages map[int]*SignatureMessage,
	pubKey *PublicKeyWithGenerators) []byte {
	challengeBytes := g1.ToUncompressed(sp.aPrime)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(sp.aBar)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(sp.d)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(sp.proofVC1.commitment)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(sp.proofVC2.commitment)...)

	challengeBytes = append(challengeBytes, revealedToBytes(revealedMessages)...)

	return challengeBytes
}

// Challenge returns the challenge scalar carried by the proof.
func (sp *PoKOfSignatureProof) Challenge() *bls12381.Fr {
	return sp.challenge
}

// Verify verifies PoKOfSignatureProof.
func (sp *PoKOfSignatureProof) Verify(challenge *bls12381.Fr, pubKey *PublicKeyWithGenerators,
	revealedMessages map[int]*SignatureMessage) error {
	if g1.IsZero(sp.aPrime) {
		return fmt.Errorf("aPrime is the identity element: %w", ErrInvalidProof)
	}

	aBarNeg := g1.New()
	g1.Neg(aBarNeg, sp.aBar)

	if !compareTwoPairings(sp.aPrime, pubKey.w, aBarNeg, g2.One()) {
		return fmt.Errorf("bad signature pairing: %w", ErrInvalidProof)
	}

	err := sp.verifyVC1Proof(challenge, pubKey)
	if err != nil {
		return err
	}

	return sp.verifyVC2Proof(challenge, pubKey, revealedMessages)
}

// verifyVC1Proof checks the sigma protocol statement
// aBar - d == aPrime*(-e) + h0*r2.
func (sp *PoKOfSignatureProof) verifyVC1Proof(challenge *bls12381.Fr, pubKey *PublicKeyWithGenerators) error {
	basesVC1 := []*bls12381.PointG1{sp.aPrime, pubKey.h0}

	aBarD := g1.New()
	g1.Sub(aBarD, sp.aBar, sp.d)

	err := sp.proofVC1.Verify(basesVC1, aBarD, challenge)
	if err != nil {
		return fmt.Errorf("verify VC1 proof: %w", ErrInvalidProof)
	}

	return nil
}

// verifyVC2Proof checks the sigma protocol statement
// g1 + sum of revealed h_i*m_i == d*r3 + h0*(-sPrime) + sum of hidden h_i*(-m_i).
func (sp *PoKOfSignatureProof) verifyVC2Proof(challenge *bls12381.Fr, pubKey *PublicKeyWithGenerators,
	revealedMessages map[int]*SignatureMessage) error {
	revealedMessagesCount := len(revealedMessages)

	basesVC2 := make([]*bls12381.PointG1, 0, 2+pubKey.messagesCount-revealedMessagesCount) //nolint:gomnd
	basesVC2 = append(basesVC2, sp.d, pubKey.h0)

	basesDisclosed := make([]*bls12381.PointG1, 0, 1+revealedMessagesCount)
	exponents := make([]*bls12381.Fr, 0, 1+revealedMessagesCount)

	basesDisclosed = append(basesDisclosed, g1.One())
	exponents = append(exponents, bls12381.NewFr().One())

	for i := 0; i < pubKey.messagesCount; i++ {
		if revealedMessage, ok := revealedMessages[i]; ok {
			basesDisclosed = append(basesDisclosed, pubKey.h[i])
			exponents = append(exponents, revealedMessage.FR)

			continue
		}

		basesVC2 = append(basesVC2, pubKey.h[i])
	}

	pr := sumOfG1Products(basesDisclosed, exponents)

	err := sp.proofVC2.Verify(basesVC2, pr, challenge)
	if err != nil {
		return fmt.Errorf("verify VC2 proof: %w", ErrInvalidProof)
	}

	return nil
}

// ToBytes converts PoKOfSignatureProof to bytes.
func (sp *PoKOfSignatureProof) ToBytes() []byte {
	bytes := make([]byte, 0)

	bytes = append(bytes, g1.ToCompressed(sp.aPrime)...)
	bytes = append(bytes, g1.ToCompressed(sp.aBar)...)
	bytes = append(bytes, g1.ToCompressed(sp.d)...)
	bytes = append(bytes, frToRepr(sp.challenge).ToBytes()...)

	proof1Bytes := sp.proofVC1.ToBytes()
	lenBytes := make([]byte, 4)
	copy(lenBytes, uint32ToBytes(uint32(len(proof1Bytes))))
	bytes = append(bytes, lenBytes...)
	bytes = append(bytes, proof1Bytes...)

	bytes = append(bytes, sp.proofVC2.ToBytes()...)

	return bytes
}

// ParseSignatureProof parses a signature proof.
func ParseSignatureProof(sigProofBytes []byte) (*PoKOfSignatureProof, error) {
	if len(sigProofBytes) < g1CompressedSize*3+frCompressedSize+4 {
		return nil, fmt.Errorf("invalid size of signature proof: %w", ErrMalformedEncoding)
	}

	g1Points := make([]*bls12381.PointG1, 3) //nolint:gomnd
	offset := 0

	for i := range g1Points {
		g1Point, err := g1.FromCompressed(sigProofBytes[offset : offset+g1CompressedSize])
		if err != nil {
			return nil, fmt.Errorf("parse G1 point: %w", ErrMalformedEncoding)
		}

		g1Points[i] = g1Point
		offset += g1CompressedSize
	}

	challenge := parseFr(sigProofBytes[offset : offset+frCompressedSize])
	offset += frCompressedSize

	proof1BytesLen := int(uint32FromBytes(sigProofBytes[offset : offset+4]))
	offset += 4

	if len(sigProofBytes) < offset+proof1BytesLen {
		return nil, fmt.Errorf("invalid size of signature proof: %w", ErrMalformedEncoding)
	}

	proofVc1, err := ParseProofG1(sigProofBytes[offset : offset+proof1BytesLen])
	if err != nil {
		return nil, fmt.Errorf("parse G1 proof: %w", err)
	}

	offset += proof1BytesLen

	proofVc2, err := ParseProofG1(sigProofBytes[offset:])
	if err != nil {
		return nil, fmt.Errorf("parse G1 proof: %w", err)
	}

	return &PoKOfSignatureProof{
		aPrime:    g1Points[0],
		aBar:      g1Points[1],
		d:         g1Points[2],
		challenge: challenge,
		proofVC1:  proofVc1,
		proofVC2:  proofVc2,
	}, nil
}

// ProofG1 is a proof of knowledge of the scalar exponents behind a vector
// commitment in G1.
type ProofG1 struct {
	commitment *bls12381.PointG1
	responses  []*bls12381.Fr
}

// NewProofG1 creates a new ProofG1.
func NewProofG1(commitment *bls12381.PointG1, responses []*bls12381.Fr) *ProofG1 {
	return &ProofG1{
		commitment: commitment,
		responses:  responses,
	}
}

// Verify checks that the responses open commitment over the bases, i.e.
// sum of bases[i]*responses[i] - commitment*challenge == pg1.commitment.
func (pg1 *ProofG1) Verify(bases []*bls12381.PointG1, commitment *bls12381.PointG1,
	challenge *bls12381.Fr) error {
	if len(bases) != len(pg1.responses) {
		return fmt.Errorf("%d responses for %d bases: %w", len(pg1.responses), len(bases), ErrMalformedEncoding)
	}

	contribution := sumOfG1Products(bases, pg1.responses)

	commitmentChallenge := g1.New()
	g1.MulScalar(commitmentChallenge, commitment, frToRepr(challenge))
	g1.Sub(contribution, contribution, commitmentChallenge)

	g1.Sub(contribution, contribution, pg1.commitment)

	if !g1.IsZero(contribution) {
		return errors.New("contribution is not zero")
	}

	return nil
}

// ToBytes converts ProofG1 to bytes.
func (pg1 *ProofG1) ToBytes() []byte {
	bytes := make([]byte, 0)

	commitmentBytes := g1.ToCompressed(pg1.commitment)
	bytes = append(bytes, commitmentBytes...)

	lenBytes := uint32ToBytes(uint32(len(pg1.responses)))
	bytes = append(bytes, lenBytes...)

	for i := range pg1.responses {
		responseBytes := frToRepr(pg1.responses[i]).ToBytes()
		bytes = append(bytes, responseBytes...)
	}

	return bytes
}

// ParseProofG1 parses ProofG1 from bytes.
func ParseProofG1(bytes []byte) (*ProofG1, error) {
	if len(bytes) < g1CompressedSize+4 {
		return nil, fmt.Errorf("invalid size of G1 signature proof: %w", ErrMalformedEncoding)
	}

	offset := 0

	commitment, err := g1.FromCompressed(bytes[offset : offset+g1CompressedSize])
	if err != nil {
		return nil, fmt.Errorf("parse G1 point: %w", ErrMalformedEncoding)
	}

	offset += g1CompressedSize
	length := int(uint32FromBytes(bytes[offset : offset+4]))
	offset += 4

	if len(bytes) < g1CompressedSize+4+length*frCompressedSize {
		return nil, fmt.Errorf("invalid size of G1 signature proof: %w", ErrMalformedEncoding)
	}

	responses := make([]*bls12381.Fr, length)
	for i := 0; i < length; i++ {
		responses[i] = parseFr(bytes[offset : offset+frCompressedSize])
		offset += frCompressedSize
	}

	return NewProofG1(commitment, responses), nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"
	"io"
	"sort"

	bls12381 "github.com/kilic/bls12-381"
)

// PoKOfSignature is Proof of Knowledge of a Signature that is used by the prover to construct PoKOfSignatureProof.
type PoKOfSignature struct {
	aPrime *bls12381.PointG1
	aBar   *bls12381.PointG1
	d      *bls12381.PointG1

	pokVC1   *ProverCommittedG1
	secrets1 []*bls12381.Fr

	pokVC2   *ProverCommittedG1
	secrets2 []*bls12381.Fr

	revealedMessages map[int]*SignatureMessage
}

// NewPoKOfSignature creates a new PoKOfSignature. revealedIndexes must be
// sorted, in range and free of duplicates.
func NewPoKOfSignature(signature *Signature, messages []*SignatureMessage, revealedIndexes []int,
	pubKey *PublicKeyWithGenerators, rnd io.Reader) (*PoKOfSignature, error) {
	err := signature.Verify(messages, pubKey)
	if err != nil {
		return nil, fmt.Errorf("verify input signature: %w", err)
	}

	r1, err := createRandNonZeroFr(rnd)
	if err != nil {
		return nil, err
	}

	r2, err := createRandSignatureFr(rnd)
	if err != nil {
		return nil, err
	}

	b := computeB(signature.S, messages, pubKey)

	r3 := bls12381.NewFr()
	r3.Inverse(r1)

	aPrime := g1.New()
	g1.MulScalar(aPrime, signature.A, frToRepr(r1))

	aBar := g1.New()
	aBarDenom := g1.New()
	g1.MulScalar(aBarDenom, aPrime, frToRepr(signature.E))
	g1.MulScalar(aBar, b, frToRepr(r1))
	g1.Sub(aBar, aBar, aBarDenom)

	// d = b*r1 - h0*r2
	r2Neg := bls12381.NewFr()
	r2Neg.Neg(r2)

	commitmentBasesCount := 2
	cbD := newCommitmentBuilder(commitmentBasesCount)
	cbD.add(b, r1)
	cbD.add(pubKey.h0, r2Neg)
	d := cbD.build()

	// sPrime = s - r2*r3
	sPrime := bls12381.NewFr()
	sPrime.Mul(r2, r3)
	sPrime.Neg(sPrime)
	sPrime.Add(sPrime, signature.S)

	// The secrets vectors hold copies, so the locals can be wiped on every
	// exit path.
	defer zeroizeFr(r1, r2, r2Neg, r3, sPrime)

	pokVC1, secrets1, err := newVC1Signature(aPrime, pubKey.h0, signature.E, r2, rnd)
	if err != nil {
		return nil, err
	}

	revealedMessages := make(map[int]*SignatureMessage, len(revealedIndexes))

	if len(messages) < len(revealedIndexes) {
		return nil, fmt.Errorf("%d revealed indexes is larger than %d messages: %w",
			len(revealedIndexes), len(messages), ErrInvalidPartition)
	}

	for _, ind := range revealedIndexes {
		revealedMessages[ind] = messages[ind]
	}

	pokVC2, secrets2, err := newVC2Signature(d, r3, pubKey, sPrime, messages, revealedMessages, rnd)
	if err != nil {
		return nil, err
	}

	return &PoKOfSignature{
		aPrime:           aPrime,
		aBar:             aBar,
		d:                d,
		pokVC1:           pokVC1,
		secrets1:         secrets1,
		pokVC2:           pokVC2,
		secrets2:         secrets2,
		revealedMessages: revealedMessages,
	}, nil
}

// newVC1Signature commits to the secrets (-e, r2) over the bases (aPrime, h0),
// proving knowledge of aBar - d.
func newVC1Signature(aPrime *bls12381.PointG1, h0 *bls12381.PointG1,
	e, r2 *bls12381.Fr, rnd io.Reader) (*ProverCommittedG1, []*bls12381.Fr, error) {
	committing1 := NewProverCommittingG1(rnd)
	secrets1 := make([]*bls12381.Fr, 2) //nolint:gomnd

	err := committing1.Commit(aPrime)
	if err != nil {
		return nil, nil, err
	}

	eNeg := bls12381.NewFr()
	eNeg.Neg(e)
	secrets1[0] = eNeg

	err = committing1.Commit(h0)
	if err != nil {
		return nil, nil, err
	}

	secrets1[1] = bls12381.NewFr().Set(r2)

	pokVC1 := committing1.Finish()

	return pokVC1, secrets1, nil
}

// newVC2Signature commits to the secrets (r3, -sPrime, -m_i for hidden i) over
// the bases (d, h0, h_i), proving knowledge of g1 + sum of revealed h_i*m_i.
func newVC2Signature(d *bls12381.PointG1, r3 *bls12381.Fr, pubKey *PublicKeyWithGenerators, sPrime *bls12381.Fr,
	messages []*SignatureMessage, revealedMessages map[int]*SignatureMessage,
	rnd io.Reader) (*ProverCommittedG1, []*bls12381.Fr, error) {
	messagesCount := len(messages)
	committing2 := NewProverCommittingG1(rnd)
	baseSecretsCount := 2
	secrets2 := make([]*bls12381.Fr, 0, baseSecretsCount+messagesCount)

	err := committing2.Commit(d)
	if err != nil {
		return nil, nil, err
	}

	secrets2 = append(secrets2, bls12381.NewFr().Set(r3))

	err = committing2.Commit(pubKey.h0)
	if err != nil {
		return nil, nil, err
	}

	sPrimeNeg := bls12381.NewFr()
	sPrimeNeg.Neg(sPrime)
	secrets2 = append(secrets2, sPrimeNeg)

	for i := 0; i < messagesCount; i++ {
		if _, ok := revealedMessages[i]; ok {
			continue
		}

		err = committing2.Commit(pubKey.h[i])
		if err != nil {
			return nil, nil, err
		}

		hiddenFRNeg := bls12381.NewFr()
		hiddenFRNeg.Neg(messages[i].FR)

		secrets2 = append(secrets2, hiddenFRNeg)
	}

	pokVC2 := committing2.Finish()

	return pokVC2, secrets2, nil
}

// ToBytes converts PoKOfSignature to bytes used for challenge generation.
func (pos *PoKOfSignature) ToBytes() []byte {
	challengeBytes := g1.ToUncompressed(pos.aPrime)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(pos.aBar)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(pos.d)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(pos.pokVC1.commitment)...)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(pos.pokVC2.commitment)...)

	challengeBytes = append(challengeBytes, revealedToBytes(pos.revealedMessages)...)

	return challengeBytes
}

// revealedToBytes encodes the disclosed part of the transcript in the index
// order, keeping challenge generation deterministic.
func revealedToBytes(revealedMessages map[int]*SignatureMessage) []byte {
	indexes := make([]int, 0, len(revealedMessages))
	for ind := range revealedMessages {
		indexes = append(indexes, ind)
	}

	sort.Ints(indexes)

	bytes := i2os8(uint64(len(indexes)))

	for _, ind := range indexes {
		bytes = append(bytes, i2os8(uint64(ind))...)
		bytes = append(bytes, frToRepr(revealedMessages[ind].FR).ToBytes()...)
	}

	return bytes
}

// GenerateProof generates PoKOfSignatureProof proof from PoKOfSignature signature.
func (pos *PoKOfSignature) GenerateProof(challengeHash *bls12381.Fr) *PoKOfSignatureProof {
	return &PoKOfSignatureProof{
		aPrime:    pos.aPrime,
		aBar:      pos.aBar,
		d:         pos.d,
		challenge: bls12381.NewFr().Set(challengeHash),
		proofVC1:  pos.pokVC1.GenerateProof(challengeHash, pos.secrets1),
		proofVC2:  pos.pokVC2.GenerateProof(challengeHash, pos.secrets2),
	}
}

// Zeroize wipes the secrets and blinding factors once the proof is generated.
func (pos *PoKOfSignature) Zeroize() {
	zeroizeFr(pos.secrets1...)
	zeroizeFr(pos.secrets2...)

	pos.pokVC1.Zeroize()
	pos.pokVC2.Zeroize()
}

// ProverCommittedG1 helps to generate a ProofG1.
type ProverCommittedG1 struct {
	bases           []*bls12381.PointG1
	blindingFactors []*bls12381.Fr
	commitment      *bls12381.PointG1
}

// ToBytes converts ProverCommittedG1 to bytes.
func (g *ProverCommittedG1) ToBytes() []byte {
	bytes := make([]byte, 0)

	for _, base := range g.bases {
		bytes = append(bytes, g1.ToUncompressed(base)...)
	}

	return append(bytes, g1.ToUncompressed(g.commitment)...)
}

// GenerateProof generates proof ProofG1 for all secrets.
func (g *ProverCommittedG1) GenerateProof(challenge *bls12381.Fr, secrets []*bls12381.Fr) *ProofG1 {
	responses := make([]*bls12381.Fr, len(g.bases))

	for i := range g.blindingFactors {
		c := bls12381.NewFr()
		c.Mul(challenge, secrets[i])

		s := bls12381.NewFr()
		s.Add(g.blindingFactors[i], c)
		responses[i] = s
	}

	return &ProofG1{
		commitment: g.commitment,
		responses:  responses,
	}
}

// Zeroize wipes the blinding factors.
func (g *ProverCommittedG1) Zeroize() {
	zeroizeFr(g.blindingFactors...)
}

// ProverCommittingG1 is a proof of knowledge of messages in a vector commitment.
type ProverCommittingG1 struct {
	bases           []*bls12381.PointG1
	blindingFactors []*bls12381.Fr

	rnd io.Reader
}

// NewProverCommittingG1 creates a new ProverCommittingG1.
func NewProverCommittingG1(rnd io.Reader) *ProverCommittingG1 {
	return &ProverCommittingG1{
		bases:           make([]*bls12381.PointG1, 0),
		blindingFactors: make([]*bls12381.Fr, 0),
		rnd:             rnd,
	}
}

// Commit appends a base point and randomly generated blinding factor.
func (pc *ProverCommittingG1) Commit(base *bls12381.PointG1) error {
	r, err := createRandSignatureFr(pc.rnd)
	if err != nil {
		return err
	}

	pc.bases = append(pc.bases, base)
	pc.blindingFactors = append(pc.blindingFactors, r)

	return nil
}

// Finish helps to generate ProverCommittedG1 after commitment of all base points.
func (pc *ProverCommittingG1) Finish() *ProverCommittedG1 {
	commitment := sumOfG1Products(pc.bases, pc.blindingFactors)

	return &ProverCommittedG1{
		bases:           pc.bases,
		blindingFactors: pc.blindingFactors,
		commitment:      commitment,
	}
}

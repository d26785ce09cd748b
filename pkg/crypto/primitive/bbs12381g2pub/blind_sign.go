/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"fmt"

	bls12381 "github.com/kilic/bls12-381"
)

// BlindedMessages represents a set of messages prepared
// (blinded) to be submitted to a signer for a blind signature.
type BlindedMessages struct {
	PK  *PublicKeyWithGenerators
	S   *bls12381.Fr
	C   *bls12381.PointG1
	PoK *POKOfBlindedMessages
}

// Bytes converts BlindedMessages to bytes.
func (b *BlindedMessages) Bytes() []byte {
	bytes := make([]byte, 0)

	bytes = append(bytes, g1.ToCompressed(b.C)...)
	bytes = append(bytes, g1.ToCompressed(b.PoK.C)...)
	bytes = append(bytes, b.PoK.ProofC.ToBytes()...)

	return bytes
}

// ParseBlindedMessages parses BlindedMessages from bytes.
func ParseBlindedMessages(bytes []byte) (*BlindedMessages, error) {
	if len(bytes) < g1CompressedSize*2 {
		return nil, fmt.Errorf("invalid size of blinded messages: %w", ErrMalformedEncoding)
	}

	offset := 0

	c, err := g1.FromCompressed(bytes[offset : offset+g1CompressedSize])
	if err != nil {
		return nil, fmt.Errorf("parse G1 point (C): %w", ErrMalformedEncoding)
	}

	offset += g1CompressedSize

	pokC, err := g1.FromCompressed(bytes[offset : offset+g1CompressedSize])
	if err != nil {
		return nil, fmt.Errorf("parse G1 point (PoKC): %w", ErrMalformedEncoding)
	}

	offset += g1CompressedSize

	proof, err := ParseProofG1(bytes[offset:])
	if err != nil {
		return nil, fmt.Errorf("parse G1 proof: %w", err)
	}

	return &BlindedMessages{
		C: c,
		PoK: &POKOfBlindedMessages{
			C:      pokC,
			ProofC: proof,
		},
	}, nil
}

// POKOfBlindedMessages is the zero-knowledge proof that the
// requester knows the messages they have submitted for blind
// signature in the form of a Pedersen commitment.
type POKOfBlindedMessages struct {
	C      *bls12381.PointG1
	ProofC *ProofG1
}

// VerifyProof verifies the correctness of the zero knowledge
// proof against the supplied commitment, challenge and public key.
func (b *POKOfBlindedMessages) VerifyProof(messages []bool, commitment *bls12381.PointG1,
	challenge *bls12381.Fr, pubKey *PublicKey) error {
	pubKeyWithGenerators, err := pubKey.ToPublicKeyWithGenerators(len(messages))
	if err != nil {
		return fmt.Errorf("build generators from public key: %w", err)
	}

	bases := []*bls12381.PointG1{pubKeyWithGenerators.h0}

	for i, in := range messages {
		if !in {
			continue
		}

		bases = append(bases, pubKeyWithGenerators.h[i])
	}

	err = b.ProofC.Verify(bases, commitment, challenge)
	if err != nil {
		return fmt.Errorf("verify proof of blinded messages: %w", ErrInvalidProof)
	}

	return nil
}

// VerifyBlinding verifies that msgCommit is a valid
// commitment of a set of messages against the appropriate bases.
func VerifyBlinding(messageBitmap []bool, msgCommit *bls12381.PointG1, bmProof *POKOfBlindedMessages,
	pubKey *PublicKey, nonce []byte) error {
	challengeBytes := g1.ToUncompressed(msgCommit)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(bmProof.C)...)
	challengeBytes = append(challengeBytes, nonce...)

	return bmProof.VerifyProof(messageBitmap, msgCommit, frFromOKM(challengeBytes), pubKey)
}

// BlindMessages constructs a commitment to a set of messages
// that need to be blinded before signing, and generates the
// corresponding ZKP. Messages with empty bytes are left for the signer.
func (bbs *BBSG2Pub) BlindMessages(messages [][]byte, pubKey *PublicKey, blindedMsgCount int,
	nonce []byte) (*BlindedMessages, error) {
	frs := make([]*bls12381.Fr, len(messages))

	for i, msg := range messages {
		if len(msg) == 0 {
			continue
		}

		frs[i] = frFromOKM(msg)
	}

	return bbs.BlindMessagesFr(frs, pubKey, blindedMsgCount, nonce)
}

// BlindMessagesFr constructs a commitment to a set of message scalars
// that need to be blinded before signing, and generates the
// corresponding ZKP. Nil scalars are left for the signer.
func (bbs *BBSG2Pub) BlindMessagesFr(frs []*bls12381.Fr, pubKey *PublicKey, blindedMsgCount int,
	nonce []byte) (*BlindedMessages, error) {
	pubKeyWithGenerators, err := pubKey.ToPublicKeyWithGenerators(len(frs))
	if err != nil {
		return nil, fmt.Errorf("build generators from public key: %w", err)
	}

	commit := NewProverCommittingG1(bbs.rnd)
	cb := newCommitmentBuilder(blindedMsgCount + 1)
	secrets := make([]*bls12381.Fr, 0, blindedMsgCount+1)

	s, err := createRandSignatureFr(bbs.rnd)
	if err != nil {
		return nil, err
	}

	err = commit.Commit(pubKeyWithGenerators.h0)
	if err != nil {
		return nil, err
	}

	cb.add(pubKeyWithGenerators.h0, s)
	secrets = append(secrets, s)

	for i, fr := range frs {
		if fr == nil {
			continue
		}

		err = commit.Commit(pubKeyWithGenerators.h[i])
		if err != nil {
			return nil, err
		}

		cb.add(pubKeyWithGenerators.h[i], fr)
		secrets = append(secrets, fr)
	}

	c := cb.build()
	u := commit.Finish()

	challengeBytes := g1.ToUncompressed(c)
	challengeBytes = append(challengeBytes, g1.ToUncompressed(u.commitment)...)
	challengeBytes = append(challengeBytes, nonce...)

	return &BlindedMessages{
		PK: pubKeyWithGenerators,
		S:  s,
		C:  c,
		PoK: &POKOfBlindedMessages{
			C:      u.commitment,
			ProofC: u.GenerateProof(frFromOKM(challengeBytes), secrets),
		},
	}, nil
}

// BlindSign signs a commitment to blinded messages along with clearMessages,
// the messages submitted in clear, keyed by their index. The resulting
// signature verifies against the full message vector only after the requester
// unblinds it with the blinding factor of the commitment.
func (bbs *BBSG2Pub) BlindSign(clearMessages map[int][]byte, messagesCount int,
	commitment *bls12381.PointG1, privKey *PrivateKey) ([]byte, error) {
	if privKey.FR.IsZero() {
		return nil, fmt.Errorf("private key is zero: %w", ErrDegenerateSecretKey)
	}

	for ind := range clearMessages {
		if ind < 0 || ind >= messagesCount {
			return nil, fmt.Errorf("clear message index %d for %d messages: %w",
				ind, messagesCount, ErrInvalidPartition)
		}
	}

	pubKey := privKey.PublicKey()

	pubKeyWithGenerators, err := pubKey.ToPublicKeyWithGenerators(messagesCount)
	if err != nil {
		return nil, fmt.Errorf("build generators from public key: %w", err)
	}

	e, err := createRandSignatureFr(bbs.rnd)
	if err != nil {
		return nil, err
	}

	s, err := createRandSignatureFr(bbs.rnd)
	if err != nil {
		return nil, err
	}

	exp := bls12381.NewFr().Set(privKey.FR)
	exp.Add(exp, e)

	if exp.IsZero() {
		return nil, fmt.Errorf("signature scalar e negates the private key: %w", ErrDegenerateSecretKey)
	}

	exp.Inverse(exp)

	cb := newCommitmentBuilder(len(clearMessages) + 3) //nolint:gomnd
	cb.add(g1.One(), bls12381.NewFr().One())
	cb.add(pubKeyWithGenerators.h0, s)
	cb.add(commitment, bls12381.NewFr().One())

	for ind, msg := range clearMessages {
		cb.add(pubKeyWithGenerators.h[ind], ParseSignatureMessage(msg).FR)
	}

	sig := g1.New()
	g1.MulScalar(sig, cb.build(), frToRepr(exp))

	zeroizeFr(exp)

	signature := &Signature{
		A: sig,
		E: e,
		S: s,
	}

	return signature.ToBytes()
}

// UnblindSign completes a blind signature with the blinding factor
// of the message commitment it was created over.
func UnblindSign(sigBytes []byte, blinding *bls12381.Fr) ([]byte, error) {
	signature, err := ParseSignature(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}

	s := bls12381.NewFr()
	s.Add(signature.S, blinding)
	signature.S = s

	return signature.ToBytes()
}

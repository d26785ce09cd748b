/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub_test

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

//nolint:gochecknoglobals
var testMessages = [][]byte{
	[]byte("alice"),
	[]byte("2024"),
	[]byte("admin"),
}

func generateTestKeys(t *testing.T) ([]byte, []byte) {
	t.Helper()

	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	pubKey, privKey, err := bbs.GenerateKeyPair(sha256.New, seed)
	require.NoError(t, err)

	pubKeyBytes, err := pubKey.Marshal()
	require.NoError(t, err)

	privKeyBytes, err := privKey.Marshal()
	require.NoError(t, err)

	return pubKeyBytes, privKeyBytes
}

func TestBBSG2Pub_SignVerify(t *testing.T) {
	pubKeyBytes, privKeyBytes := generateTestKeys(t)

	bls := bbs.New()

	signatureBytes, err := bls.Sign(testMessages, privKeyBytes)
	require.NoError(t, err)
	require.Len(t, signatureBytes, 112)

	require.NoError(t, bls.Verify(testMessages, signatureBytes, pubKeyBytes))

	t.Run("single message", func(t *testing.T) {
		sig, errSign := bls.Sign([][]byte{[]byte("single message")}, privKeyBytes)
		require.NoError(t, errSign)
		require.NoError(t, bls.Verify([][]byte{[]byte("single message")}, sig, pubKeyBytes))
	})

	t.Run("no messages", func(t *testing.T) {
		sig, errSign := bls.Sign([][]byte{}, privKeyBytes)
		require.Error(t, errSign)
		require.ErrorIs(t, errSign, bbs.ErrMessageCountMismatch)
		require.Nil(t, sig)
	})

	t.Run("modified message", func(t *testing.T) {
		modifiedMessages := [][]byte{
			[]byte("mallory"),
			[]byte("2024"),
			[]byte("admin"),
		}

		err = bls.Verify(modifiedMessages, signatureBytes, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
	})

	t.Run("fewer messages than signed", func(t *testing.T) {
		// generators are derived from the verifier's message count, so a
		// shorter message list fails the pairing check
		err = bls.Verify(testMessages[:2], signatureBytes, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
	})

	t.Run("tampered signature", func(t *testing.T) {
		tampered := make([]byte, len(signatureBytes))
		copy(tampered, signatureBytes)
		// a flipped bit in the e scalar keeps the encoding well-formed
		tampered[60] ^= 1

		err = bls.Verify(testMessages, tampered, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
	})

	t.Run("malformed signature", func(t *testing.T) {
		err = bls.Verify(testMessages, signatureBytes[:64], pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrMalformedEncoding)
	})

	t.Run("wrong public key", func(t *testing.T) {
		otherPubKeyBytes, _ := generateTestKeys(t)

		err = bls.Verify(testMessages, signatureBytes, otherPubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
	})

	t.Run("identity public key", func(t *testing.T) {
		identityPubKeyBytes := make([]byte, 96)
		identityPubKeyBytes[0] = 0xc0

		err = bls.Verify(testMessages, signatureBytes, identityPubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidPublicKey)
	})
}

func TestBBSG2Pub_DeriveProof(t *testing.T) {
	pubKeyBytes, privKeyBytes := generateTestKeys(t)

	bls := bbs.New()

	signatureBytes, err := bls.Sign(testMessages, privKeyBytes)
	require.NoError(t, err)

	nonce := []byte("proof nonce")
	revealedIndexes := []int{0, 1}

	proofBytes, err := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, revealedIndexes)
	require.NoError(t, err)
	require.NotEmpty(t, proofBytes)

	revealedMessages := [][]byte{testMessages[0], testMessages[1]}

	require.NoError(t, bls.VerifyProof(revealedMessages, proofBytes, nonce, pubKeyBytes))

	t.Run("wrong nonce", func(t *testing.T) {
		err = bls.VerifyProof(revealedMessages, proofBytes, []byte("other nonce"), pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrChallengeMismatch)
	})

	t.Run("modified disclosed message", func(t *testing.T) {
		err = bls.VerifyProof([][]byte{[]byte("mallory"), testMessages[1]}, proofBytes, nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrChallengeMismatch)
	})

	t.Run("disclosure mismatch", func(t *testing.T) {
		err = bls.VerifyProof(revealedMessages[:1], proofBytes, nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrDisclosureMismatch)
	})

	t.Run("tampered proof", func(t *testing.T) {
		tampered := make([]byte, len(proofBytes))
		copy(tampered, proofBytes)
		// a flipped bit in the last VC2 response scalar
		tampered[len(tampered)-16] ^= 1

		err = bls.VerifyProof(revealedMessages, tampered, nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidProof)
	})

	t.Run("tampered challenge", func(t *testing.T) {
		tampered := make([]byte, len(proofBytes))
		copy(tampered, proofBytes)

		payloadLen := 2 + len(testMessages)/8 + 1
		challengeOffset := payloadLen + 3*48
		tampered[challengeOffset+5] ^= 1

		err = bls.VerifyProof(revealedMessages, tampered, nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrChallengeMismatch)
	})

	t.Run("truncated proof", func(t *testing.T) {
		err = bls.VerifyProof(revealedMessages, proofBytes[:10], nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrMalformedEncoding)
	})

	t.Run("invalid partition", func(t *testing.T) {
		proof, errDerive := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{0, 5})
		require.Error(t, errDerive)
		require.ErrorIs(t, errDerive, bbs.ErrInvalidPartition)
		require.Nil(t, proof)

		proof, errDerive = bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{1, 1})
		require.Error(t, errDerive)
		require.ErrorIs(t, errDerive, bbs.ErrInvalidPartition)
		require.Nil(t, proof)
	})

	t.Run("empty disclosure", func(t *testing.T) {
		proof, errDerive := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, nil)
		require.NoError(t, errDerive)

		require.NoError(t, bls.VerifyProof([][]byte{}, proof, nonce, pubKeyBytes))
	})

	t.Run("full disclosure", func(t *testing.T) {
		proof, errDerive := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{0, 1, 2})
		require.NoError(t, errDerive)

		require.NoError(t, bls.VerifyProof(testMessages, proof, nonce, pubKeyBytes))
	})

	t.Run("single disclosed index", func(t *testing.T) {
		proof, errDerive := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{1})
		require.NoError(t, errDerive)

		require.NoError(t, bls.VerifyProof([][]byte{testMessages[1]}, proof, nonce, pubKeyBytes))

		err = bls.VerifyProof([][]byte{[]byte("2025")}, proof, nonce, pubKeyBytes)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrChallengeMismatch)
	})

	t.Run("unordered indexes", func(t *testing.T) {
		proof, errDerive := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{1, 0})
		require.NoError(t, errDerive)

		require.NoError(t, bls.VerifyProof(revealedMessages, proof, nonce, pubKeyBytes))
	})
}

func TestBBSG2Pub_DeriveProofUnlinkability(t *testing.T) {
	pubKeyBytes, privKeyBytes := generateTestKeys(t)

	bls := bbs.New()

	signatureBytes, err := bls.Sign(testMessages, privKeyBytes)
	require.NoError(t, err)

	nonce := []byte("proof nonce")

	proof1, err := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{0})
	require.NoError(t, err)

	proof2, err := bls.DeriveProof(testMessages, signatureBytes, nonce, pubKeyBytes, []int{0})
	require.NoError(t, err)

	// proofs over the same signature are re-randomized on every run
	require.NotEqual(t, proof1, proof2)

	require.NoError(t, bls.VerifyProof([][]byte{testMessages[0]}, proof1, nonce, pubKeyBytes))
	require.NoError(t, bls.VerifyProof([][]byte{testMessages[0]}, proof2, nonce, pubKeyBytes))
}

type failingReader struct {
	reads int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.reads == 0 {
		return 0, errors.New("exhausted")
	}

	r.reads--

	return rand.Read(p)
}

func TestBBSG2Pub_InsufficientRandomness(t *testing.T) {
	pubKeyBytes, privKeyBytes := generateTestKeys(t)

	bls := bbs.NewWithReader(&failingReader{})

	signatureBytes, err := bls.Sign(testMessages, privKeyBytes)
	require.Error(t, err)
	require.ErrorIs(t, err, bbs.ErrInsufficientRandomness)
	require.Nil(t, signatureBytes)

	signatureBytes, err = bbs.New().Sign(testMessages, privKeyBytes)
	require.NoError(t, err)

	proofBytes, err := bls.DeriveProof(testMessages, signatureBytes, []byte("nonce"), pubKeyBytes, []int{0})
	require.Error(t, err)
	require.ErrorIs(t, err, bbs.ErrInsufficientRandomness)
	require.Nil(t, proofBytes)
}

func TestBBSG2Pub_SignWithKeyPair(t *testing.T) {
	pubKey, privKey, err := bbs.GenerateKeyPair(sha256.New, nil)
	require.NoError(t, err)

	bls := bbs.New()

	signatureBytes, err := bls.SignWithKey(testMessages, privKey)
	require.NoError(t, err)
	require.Len(t, signatureBytes, 112)

	pubKeyBytes, err := pubKey.Marshal()
	require.NoError(t, err)

	require.NoError(t, bls.Verify(testMessages, signatureBytes, pubKeyBytes))
}

func TestBBSG2Pub_DeterministicReader(t *testing.T) {
	pubKeyBytes, privKeyBytes := generateTestKeys(t)

	newZeroReader := func() io.Reader {
		return &countingReader{}
	}

	sig1, err := bbs.NewWithReader(newZeroReader()).Sign(testMessages, privKeyBytes)
	require.NoError(t, err)

	sig2, err := bbs.NewWithReader(newZeroReader()).Sign(testMessages, privKeyBytes)
	require.NoError(t, err)

	// the same randomness source state produces the same signature
	require.Equal(t, sig1, sig2)

	require.NoError(t, bbs.New().Verify(testMessages, sig1, pubKeyBytes))
}

type countingReader struct {
	counter byte
}

func (r *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		r.counter++
		p[i] = r.counter
	}

	return len(p), nil
}

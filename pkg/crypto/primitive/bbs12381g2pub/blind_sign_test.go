/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

func TestBlindSign(t *testing.T) {
	pubKey, privKey, err := generateKeyPairRandom()
	require.NoError(t, err)

	pubKeyBytes, err := pubKey.Marshal()
	require.NoError(t, err)

	bls := bbs.New()

	// the first message is a secret the signer never sees
	messages := [][]byte{
		[]byte("link secret"),
		[]byte("alice"),
		[]byte("admin"),
	}

	blindedMessages := [][]byte{
		messages[0],
		nil,
		nil,
	}

	nonce := []byte("blinding nonce")

	blinded, err := bls.BlindMessages(blindedMessages, pubKey, 1, nonce)
	require.NoError(t, err)
	require.NotNil(t, blinded)

	// the signer checks the commitment before signing
	bitmap := []bool{true, false, false}
	require.NoError(t, bbs.VerifyBlinding(bitmap, blinded.C, blinded.PoK, pubKey, nonce))

	clearMessages := map[int][]byte{
		1: messages[1],
		2: messages[2],
	}

	blindSig, err := bls.BlindSign(clearMessages, len(messages), blinded.C, privKey)
	require.NoError(t, err)

	// the blind signature does not verify before unblinding
	require.Error(t, bls.Verify(messages, blindSig, pubKeyBytes))

	signatureBytes, err := bbs.UnblindSign(blindSig, blinded.S)
	require.NoError(t, err)

	require.NoError(t, bls.Verify(messages, signatureBytes, pubKeyBytes))

	t.Run("derive proof hiding the blinded message", func(t *testing.T) {
		proofNonce := []byte("proof nonce")

		proof, errDerive := bls.DeriveProof(messages, signatureBytes, proofNonce, pubKeyBytes, []int{1, 2})
		require.NoError(t, errDerive)

		require.NoError(t, bls.VerifyProof([][]byte{messages[1], messages[2]}, proof, proofNonce, pubKeyBytes))
	})

	t.Run("wrong blinding nonce", func(t *testing.T) {
		err = bbs.VerifyBlinding(bitmap, blinded.C, blinded.PoK, pubKey, []byte("other nonce"))
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidProof)
	})

	t.Run("wrong bitmap", func(t *testing.T) {
		err = bbs.VerifyBlinding([]bool{false, true, false}, blinded.C, blinded.PoK, pubKey, nonce)
		require.Error(t, err)
		require.ErrorIs(t, err, bbs.ErrInvalidProof)
	})

	t.Run("clear message index out of range", func(t *testing.T) {
		blindSigOut, errSign := bls.BlindSign(map[int][]byte{5: []byte("oops")}, len(messages), blinded.C, privKey)
		require.Error(t, errSign)
		require.ErrorIs(t, errSign, bbs.ErrInvalidPartition)
		require.Nil(t, blindSigOut)
	})
}

func TestBlindedMessages_Bytes(t *testing.T) {
	pubKey, _, err := generateKeyPairRandom()
	require.NoError(t, err)

	bls := bbs.New()

	blinded, err := bls.BlindMessages([][]byte{[]byte("link secret"), nil}, pubKey, 1, []byte("nonce"))
	require.NoError(t, err)

	bytes := blinded.Bytes()
	require.NotEmpty(t, bytes)

	parsed, err := bbs.ParseBlindedMessages(bytes)
	require.NoError(t, err)
	require.Equal(t, bytes, parsed.Bytes())

	// commitment and proof survive the round trip
	bitmap := []bool{true, false}
	require.NoError(t, bbs.VerifyBlinding(bitmap, parsed.C, parsed.PoK, pubKey, []byte("nonce")))

	_, err = bbs.ParseBlindedMessages(bytes[:40])
	require.Error(t, err)
	require.ErrorIs(t, err, bbs.ErrMalformedEncoding)
}

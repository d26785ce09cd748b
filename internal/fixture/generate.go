/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fixture

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"

	bbs "github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

// GenerateConfig drives vector generation.
type GenerateConfig struct {
	// Groups is the number of scenario groups, each with its own key pair
	// and message vector.
	Groups int

	// Messages is the number of signed messages per group. At least 2.
	Messages int

	// Seed makes the key pairs and messages deterministic. Signatures and
	// proofs still re-randomize on every run.
	Seed []byte

	// Rand is the source of randomness for signing. Defaults to crypto/rand.
	Rand io.Reader
}

// Generate builds a fixture file with valid vectors and systematically broken
// variants covering every verification failure kind.
func Generate(cfg GenerateConfig) (*File, error) {
	if cfg.Groups <= 0 {
		cfg.Groups = 1
	}

	if cfg.Messages < 2 { //nolint:gomnd
		cfg.Messages = 5
	}

	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}

	bls := bbs.NewWithReader(cfg.Rand)

	f := &File{}

	for group := 0; group < cfg.Groups; group++ {
		vectors, err := generateGroup(bls, cfg, group)
		if err != nil {
			return nil, errors.Wrapf(err, "generate group %d", group)
		}

		f.Vectors = append(f.Vectors, vectors...)
	}

	return f, nil
}

//nolint:funlen
func generateGroup(bls *bbs.BBSG2Pub, cfg GenerateConfig, group int) ([]Vector, error) {
	pubKeyBytes, privKey, err := groupKeyPair(cfg, group, 0)
	if err != nil {
		return nil, err
	}

	defer privKey.Zeroize()

	otherPubKeyBytes, otherPrivKey, err := groupKeyPair(cfg, group, 1)
	if err != nil {
		return nil, err
	}

	otherPrivKey.Zeroize()

	messages, err := groupMessages(cfg, group)
	if err != nil {
		return nil, err
	}

	signature, err := bls.SignWithKey(messages, privKey)
	if err != nil {
		return nil, errors.Wrap(err, "sign messages")
	}

	identityPubKeyBytes := make([]byte, 96) //nolint:gomnd
	identityPubKeyBytes[0] = 0xc0

	modifiedMessages := copyMessages(messages)
	modifiedMessages[0][0] ^= 1

	vectors := []Vector{
		signatureVector("signature/valid", pubKeyBytes, messages, signature, OutcomeValid, ""),
		signatureVector("signature/modified-message", pubKeyBytes, modifiedMessages, signature,
			OutcomeInvalid, "InvalidSignature"),
		signatureVector("signature/truncated", pubKeyBytes, messages, signature[:64],
			OutcomeInvalid, "MalformedEncoding"),
		signatureVector("signature/wrong-public-key", otherPubKeyBytes, messages, signature,
			OutcomeInvalid, "InvalidSignature"),
		signatureVector("signature/identity-public-key", identityPubKeyBytes, messages, signature,
			OutcomeInvalid, "InvalidPublicKey"),
	}

	nonce := []byte("bbs fixture nonce")

	disclosed := make([]int, 0, len(messages)/2+1)
	for i := 0; i < len(messages); i += 2 {
		disclosed = append(disclosed, i)
	}

	proof, err := bls.DeriveProof(messages, signature, nonce, pubKeyBytes, disclosed)
	if err != nil {
		return nil, errors.Wrap(err, "derive proof")
	}

	disclosedMessages := make([][]byte, len(disclosed))
	for i, ind := range disclosed {
		disclosedMessages[i] = messages[ind]
	}

	modifiedDisclosed := copyMessages(disclosedMessages)
	modifiedDisclosed[0][0] ^= 1

	tamperedProof := make([]byte, len(proof))
	copy(tamperedProof, proof)
	tamperedProof[len(tamperedProof)-16] ^= 1

	emptyProof, err := bls.DeriveProof(messages, signature, nonce, pubKeyBytes, nil)
	if err != nil {
		return nil, errors.Wrap(err, "derive proof with empty disclosure")
	}

	vectors = append(vectors,
		proofVector("proof/valid", pubKeyBytes, disclosed, disclosedMessages, proof, nonce,
			OutcomeValid, ""),
		proofVector("proof/wrong-nonce", pubKeyBytes, disclosed, disclosedMessages, proof,
			[]byte("unrelated nonce"), OutcomeInvalid, "ChallengeMismatch"),
		proofVector("proof/modified-disclosed-message", pubKeyBytes, disclosed, modifiedDisclosed, proof, nonce,
			OutcomeInvalid, "ChallengeMismatch"),
		proofVector("proof/disclosure-mismatch", pubKeyBytes, disclosed, disclosedMessages[:len(disclosedMessages)-1],
			proof, nonce, OutcomeInvalid, "DisclosureMismatch"),
		proofVector("proof/truncated", pubKeyBytes, disclosed, disclosedMessages, proof[:10], nonce,
			OutcomeInvalid, "MalformedEncoding"),
		proofVector("proof/tampered-response", pubKeyBytes, disclosed, disclosedMessages, tamperedProof, nonce,
			OutcomeInvalid, "InvalidProof"),
		proofVector("proof/empty-disclosure", pubKeyBytes, nil, nil, emptyProof, nonce,
			OutcomeValid, ""),
	)

	return vectors, nil
}

func signatureVector(label string, pubKey []byte, messages [][]byte, signature []byte,
	expected Outcome, expectedError string) Vector {
	return Vector{
		ID:            newVectorID(),
		Label:         label,
		Kind:          KindSignature,
		PublicKey:     hex.EncodeToString(pubKey),
		Messages:      encodeMessages(messages),
		Signature:     hex.EncodeToString(signature),
		Expected:      expected,
		ExpectedError: expectedError,
	}
}

func proofVector(label string, pubKey []byte, disclosed []int, disclosedMessages [][]byte,
	proof, nonce []byte, expected Outcome, expectedError string) Vector {
	return Vector{
		ID:                newVectorID(),
		Label:             label,
		Kind:              KindProof,
		PublicKey:         hex.EncodeToString(pubKey),
		Nonce:             hex.EncodeToString(nonce),
		DisclosedIndexes:  disclosed,
		DisclosedMessages: encodeMessages(disclosedMessages),
		Proof:             hex.EncodeToString(proof),
		Expected:          expected,
		ExpectedError:     expectedError,
	}
}

// groupKeyPair derives the group's key pair, deterministically when a seed is
// configured.
func groupKeyPair(cfg GenerateConfig, group, keyIdx int) ([]byte, *bbs.PrivateKey, error) {
	var keySeed []byte

	if len(cfg.Seed) > 0 {
		scalar, err := bbs.Hash2scalar(seedLabel(cfg.Seed, "keys", group, keyIdx))
		if err != nil {
			return nil, nil, errors.Wrap(err, "derive key seed")
		}

		keySeed = scalar.ToBytes()
	}

	pubKey, privKey, err := bbs.GenerateKeyPairWithReader(sha256.New, keySeed, cfg.Rand)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generate key pair")
	}

	pubKeyBytes, err := pubKey.Marshal()
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal public key")
	}

	return pubKeyBytes, privKey, nil
}

// groupMessages derives the group's message vector, deterministically when a
// seed is configured.
func groupMessages(cfg GenerateConfig, group int) ([][]byte, error) {
	if len(cfg.Seed) == 0 {
		messages := make([][]byte, cfg.Messages)

		for i := range messages {
			messages[i] = make([]byte, 32) //nolint:gomnd

			_, err := io.ReadFull(cfg.Rand, messages[i])
			if err != nil {
				return nil, errors.Wrap(err, "read random message")
			}
		}

		return messages, nil
	}

	scalars, err := bbs.Hash2scalars(seedLabel(cfg.Seed, "messages", group, 0), cfg.Messages)
	if err != nil {
		return nil, errors.Wrap(err, "derive messages")
	}

	messages := make([][]byte, len(scalars))
	for i, scalar := range scalars {
		messages[i] = scalar.ToBytes()
	}

	return messages, nil
}

func seedLabel(seed []byte, domain string, group, idx int) []byte {
	label := make([]byte, 0, len(seed)+len(domain)+2) //nolint:gomnd
	label = append(label, seed...)
	label = append(label, domain...)
	label = append(label, uint8(group), uint8(idx))

	return label
}

func copyMessages(messages [][]byte) [][]byte {
	copied := make([][]byte, len(messages))

	for i, m := range messages {
		copied[i] = make([]byte, len(m))
		copy(copied[i], m)
	}

	return copied
}

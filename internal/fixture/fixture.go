/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fixture defines JSON test vectors for the BBS+ primitives, shared
// between the vector generator and checker tools.
package fixture

import (
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	bbs "github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

// Outcome is the expected result of replaying a vector.
type Outcome string

const (
	// OutcomeValid marks a vector that must verify.
	OutcomeValid Outcome = "valid"
	// OutcomeInvalid marks a vector that must fail with ExpectedError.
	OutcomeInvalid Outcome = "invalid"
)

// Vector kinds.
const (
	KindSignature = "signature"
	KindProof     = "proof"
)

// Vector is a single replayable test case. All binary fields are hex encoded.
type Vector struct {
	ID                string   `json:"id"`
	Label             string   `json:"label,omitempty"`
	Kind              string   `json:"kind"`
	PublicKey         string   `json:"publicKey"`
	Messages          []string `json:"messages,omitempty"`
	Signature         string   `json:"signature,omitempty"`
	Nonce             string   `json:"nonce,omitempty"`
	DisclosedIndexes  []int    `json:"disclosedIndexes,omitempty"`
	DisclosedMessages []string `json:"disclosedMessages,omitempty"`
	Proof             string   `json:"proof,omitempty"`
	Expected          Outcome  `json:"expected"`
	ExpectedError     string   `json:"expectedError,omitempty"`
}

// File is a set of vectors as stored on disk.
type File struct {
	Vectors []Vector `json:"vectors"`
}

// Load reads a fixture file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "read fixture file")
	}

	var f File

	err = json.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal fixture file")
	}

	return &f, nil
}

// Save writes the fixture file to path.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal fixture file")
	}

	return errors.Wrap(os.WriteFile(path, data, 0o600), "write fixture file")
}

// Check replays the vector and compares the result with the expectation.
func (v *Vector) Check(bls *bbs.BBSG2Pub) error {
	replayErr, err := v.replay(bls)
	if err != nil {
		return err
	}

	switch v.Expected {
	case OutcomeValid:
		if replayErr != nil {
			return errors.Wrapf(replayErr, "vector %s (%s): expected valid", v.ID, v.Label)
		}
	case OutcomeInvalid:
		if replayErr == nil {
			return errors.Errorf("vector %s (%s): expected %s failure, verification passed",
				v.ID, v.Label, v.ExpectedError)
		}

		if v.ExpectedError != "" && ErrorKind(replayErr) != v.ExpectedError {
			return errors.Errorf("vector %s (%s): expected %s failure, got %s: %s",
				v.ID, v.Label, v.ExpectedError, ErrorKind(replayErr), replayErr)
		}
	default:
		return errors.Errorf("vector %s: unknown expected outcome %q", v.ID, v.Expected)
	}

	return nil
}

// replay runs the vector. The first return value is the verification outcome,
// the second one reports a broken vector encoding.
func (v *Vector) replay(bls *bbs.BBSG2Pub) (error, error) { //nolint:golint
	pubKeyBytes, err := hex.DecodeString(v.PublicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "vector %s: decode public key", v.ID)
	}

	switch v.Kind {
	case KindSignature:
		messages, err := decodeMessages(v.Messages)
		if err != nil {
			return nil, errors.Wrapf(err, "vector %s", v.ID)
		}

		signature, err := hex.DecodeString(v.Signature)
		if err != nil {
			return nil, errors.Wrapf(err, "vector %s: decode signature", v.ID)
		}

		return bls.Verify(messages, signature, pubKeyBytes), nil
	case KindProof:
		disclosed, err := decodeMessages(v.DisclosedMessages)
		if err != nil {
			return nil, errors.Wrapf(err, "vector %s", v.ID)
		}

		proof, err := hex.DecodeString(v.Proof)
		if err != nil {
			return nil, errors.Wrapf(err, "vector %s: decode proof", v.ID)
		}

		nonce, err := hex.DecodeString(v.Nonce)
		if err != nil {
			return nil, errors.Wrapf(err, "vector %s: decode nonce", v.ID)
		}

		return bls.VerifyProof(disclosed, proof, nonce, pubKeyBytes), nil
	default:
		return nil, errors.Errorf("vector %s: unknown kind %q", v.ID, v.Kind)
	}
}

// ErrorKind names the sentinel behind a verification error.
func ErrorKind(err error) string {
	kinds := []struct {
		sentinel error
		name     string
	}{
		{bbs.ErrInsufficientRandomness, "InsufficientRandomness"},
		{bbs.ErrDegenerateSecretKey, "DegenerateSecretKey"},
		{bbs.ErrInvalidPublicKey, "InvalidPublicKey"},
		{bbs.ErrMessageCountMismatch, "MessageCountMismatch"},
		{bbs.ErrMalformedEncoding, "MalformedEncoding"},
		{bbs.ErrInvalidPartition, "InvalidPartition"},
		{bbs.ErrInvalidSignature, "InvalidSignature"},
		{bbs.ErrInvalidProof, "InvalidProof"},
		{bbs.ErrChallengeMismatch, "ChallengeMismatch"},
		{bbs.ErrDisclosureMismatch, "DisclosureMismatch"},
	}

	for _, kind := range kinds {
		if stderrors.Is(err, kind.sentinel) {
			return kind.name
		}
	}

	return "Unknown"
}

func newVectorID() string {
	return uuid.NewString()
}

func decodeMessages(encoded []string) ([][]byte, error) {
	messages := make([][]byte, len(encoded))

	for i, m := range encoded {
		decoded, err := hex.DecodeString(m)
		if err != nil {
			return nil, errors.Wrapf(err, "decode message %d", i)
		}

		messages[i] = decoded
	}

	return messages, nil
}

func encodeMessages(messages [][]byte) []string {
	if len(messages) == 0 {
		return nil
	}

	encoded := make([]string, len(messages))

	for i, m := range messages {
		encoded[i] = hex.EncodeToString(m)
	}

	return encoded
}

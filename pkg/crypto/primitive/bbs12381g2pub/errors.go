/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import "errors"

// Sentinel errors returned by the signing and proving operations. Callers match
// them with errors.Is; the wrapping text carries the operation context.
var (
	// ErrInsufficientRandomness is returned when the configured randomness source
	// fails to produce the bytes needed for a scalar or a nonce.
	ErrInsufficientRandomness = errors.New("insufficient randomness")

	// ErrDegenerateSecretKey is returned when a secret key is zero or collides
	// with a signature scalar so that the signing exponent is not invertible.
	ErrDegenerateSecretKey = errors.New("degenerate secret key")

	// ErrInvalidPublicKey is returned when a public key is the identity element
	// or lies outside the proper subgroup of G2.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrMessageCountMismatch is returned when the number of messages does not
	// match the generators the operation was prepared for.
	ErrMessageCountMismatch = errors.New("message count mismatch")

	// ErrMalformedEncoding is returned when serialized material cannot be
	// deserialized: wrong length, a point off the curve or a scalar overflow.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrInvalidPartition is returned when disclosed indexes are out of range
	// or repeated.
	ErrInvalidPartition = errors.New("invalid disclosure partition")

	// ErrInvalidSignature is returned when the signature pairing check fails.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidProof is returned when a proof of knowledge fails verification.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrChallengeMismatch is returned when the challenge carried by a proof
	// does not match the one recomputed from the proof transcript.
	ErrChallengeMismatch = errors.New("challenge mismatch")

	// ErrDisclosureMismatch is returned when the presented messages do not line
	// up with the disclosed indexes carried by a proof.
	ErrDisclosureMismatch = errors.New("disclosure mismatch")
)

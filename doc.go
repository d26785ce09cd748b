/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bbs provides a BBS+ multi-message signature scheme over the BLS12-381 curve.
//
// Packages for end developer usage
//
// pkg/crypto/primitive/bbs12381g2pub: Signing, verification, selective-disclosure proof
// derivation and verification, plus blind signing of partially hidden message sets.
//
// internal/fixture: Generation and replay of JSON test vector files, used by the
// bbs-fixture-gen and bbs-fixture-check commands under cmd/.
package bbs

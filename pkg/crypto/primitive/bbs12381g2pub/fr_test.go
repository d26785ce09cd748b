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

func TestHash2scalar(t *testing.T) {
	msg := []byte("test message")

	scalar, err := bbs.Hash2scalar(msg)
	require.NoError(t, err)
	require.NotNil(t, scalar)
	require.False(t, scalar.IsZero())

	// the mapping is deterministic
	scalar2, err := bbs.Hash2scalar(msg)
	require.NoError(t, err)
	require.Equal(t, scalar, scalar2)

	// distinct messages map to distinct scalars
	other, err := bbs.Hash2scalar([]byte("other message"))
	require.NoError(t, err)
	require.NotEqual(t, scalar, other)
}

func TestHash2scalars(t *testing.T) {
	msg := []byte("test message")

	scalars, err := bbs.Hash2scalars(msg, 10)
	require.NoError(t, err)
	require.Len(t, scalars, 10)

	for i, scalar := range scalars {
		require.False(t, scalar.IsZero())

		for j := i + 1; j < len(scalars); j++ {
			require.NotEqual(t, scalar, scalars[j])
		}
	}

	// requested count is part of the expansion, a prefix is not reused
	scalars2, err := bbs.Hash2scalars(msg, 2)
	require.NoError(t, err)
	require.NotEqual(t, scalars[0], scalars2[0])
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandMessageXMD(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHA256-128")

	t.Run("IRTF H2C draft16 K1 abc", func(t *testing.T) {
		out, err := expandMsgXMD(sha256.New, []byte("abc"), dst, 0x20)
		require.NoError(t, err)
		require.Equal(t, "d8ccab23b5985ccea865c6c97b6e5b8350e794e603b4b97902f53a8a0d605615",
			hex.EncodeToString(out))
	})

	t.Run("IRTF H2C draft16 K1 abcdef0123456789", func(t *testing.T) {
		out, err := expandMsgXMD(sha256.New, []byte("abcdef0123456789"), dst, 0x20)
		require.NoError(t, err)
		require.Equal(t, "eff31487c770a893cfb36f912fbfcbff40d5661771ca4b2cb4eafe524333f5c1",
			hex.EncodeToString(out))
	})

	t.Run("multi-block output", func(t *testing.T) {
		out, err := expandMsgXMD(sha256.New, []byte("abc"), dst, 100)
		require.NoError(t, err)
		require.Len(t, out, 100)
	})
}

func TestExpandMessageXOF(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHAKE256")

	t.Run("IRTF H2C draft16 K6 abc", func(t *testing.T) {
		out := expandMsgXOF([]byte("abc"), dst, 0x20)
		require.Equal(t, "b39e493867e2767216792abce1f2676c197c0692aed061560ead251821808e07",
			hex.EncodeToString(out))
	})

	t.Run("IRTF H2C draft16 K6 abcdef0123456789", func(t *testing.T) {
		out := expandMsgXOF([]byte("abcdef0123456789"), dst, 0x20)
		require.Equal(t, "245389cf44a13f0e70af8665fe5337ec2dcd138890bb7901c4ad9cfceb054b65",
			hex.EncodeToString(out))
	})
}

func Test_hashToG1(t *testing.T) {
	p1, err := hashToG1([]byte("hello"))
	require.NoError(t, err)
	require.False(t, g1.IsZero(p1))
	require.True(t, g1.InCorrectSubgroup(p1))

	p2, err := hashToG1([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, g1.ToCompressed(p1), g1.ToCompressed(p2))

	p3, err := hashToG1([]byte("hello!"))
	require.NoError(t, err)
	require.True(t, g1.InCorrectSubgroup(p3))
	require.NotEqual(t, g1.ToCompressed(p1), g1.ToCompressed(p3))
}

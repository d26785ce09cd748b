/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"

	bls12381 "github.com/kilic/bls12-381"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	csID   = "BBS_BLS12381G1_XOF:SHAKE-256_SSWU_RO_"
	h2sDST = csID + "H2S_"

	// Bit length of the subgroup order and the security level used for
	// uniform scalar expansion.
	logR2 = 255
	k     = 128

	expandLen = (logR2 + k + 7) / 8 //nolint:gomnd

	// Rejection sampling rounds before hash2scalars gives up. The round
	// counter is a single octet, and a zero scalar per round happens with
	// probability ~2^-255, so this bound is never reached in practice.
	maxHash2ScalarsRounds = 255
)

func parseFr(data []byte) *bls12381.Fr {
	return bls12381.NewFr().FromBytes(data)
}

func f2192() *bls12381.Fr {
	return &bls12381.Fr{0, 0, 0, 1}
}

func frFromOKM(message []byte) *bls12381.Fr {
	const (
		eightBytes = 8
		okmMiddle  = 24
	)

	// We pass a null key so error is impossible here.
	h, _ := blake2b.New384(nil) //nolint:errcheck

	// blake2b.digest() does not return an error.
	_, _ = h.Write(message)
	okm := h.Sum(nil)
	emptyEightBytes := make([]byte, eightBytes)

	elm := bls12381.NewFr().FromBytes(append(emptyEightBytes, okm[:okmMiddle]...))
	elm.Mul(elm, f2192())

	fr := bls12381.NewFr().FromBytes(append(emptyEightBytes, okm[okmMiddle:]...))
	elm.Add(elm, fr)

	return elm
}

func frToRepr(fr *bls12381.Fr) *bls12381.Fr {
	frRepr := bls12381.NewFr()
	frRepr.Mul(fr, &bls12381.Fr{1})

	return frRepr
}

func createRandSignatureFr(rnd io.Reader) (*bls12381.Fr, error) {
	fr, err := bls12381.NewFr().Rand(rnd)
	if err != nil {
		return nil, fmt.Errorf("create random scalar: %w", ErrInsufficientRandomness)
	}

	return frToRepr(fr), nil
}

// frEqual compares two scalars by their canonical byte representation.
func frEqual(a, b *bls12381.Fr) bool {
	return bytes.Equal(frToRepr(a).ToBytes(), frToRepr(b).ToBytes())
}

func createRandNonZeroFr(rnd io.Reader) (*bls12381.Fr, error) {
	for i := 0; i < maxHash2ScalarsRounds; i++ {
		fr, err := createRandSignatureFr(rnd)
		if err != nil {
			return nil, err
		}

		if !fr.IsZero() {
			return fr, nil
		}
	}

	return nil, fmt.Errorf("random scalar is persistently zero: %w", ErrInsufficientRandomness)
}

// zeroizeFr wipes scalar values that held secret material.
func zeroizeFr(frs ...*bls12381.Fr) {
	for _, fr := range frs {
		if fr != nil {
			*fr = bls12381.Fr{}
		}
	}
}

// Hash2scalar converts a message represented in bytes to Fr.
func Hash2scalar(message []byte) (*bls12381.Fr, error) {
	scalars, err := Hash2scalars(message, 1)
	if err != nil {
		return nil, err
	}

	return scalars[0], nil
}

// Hash2scalars converts a message represented in bytes to cnt scalars in Fr,
// rejecting and re-expanding zero outputs.
func Hash2scalars(msg []byte, cnt int) ([]*bls12381.Fr, error) {
	return hash2scalars(msg, []byte(h2sDST), cnt)
}

func hash2scalars(msg, dst []byte, cnt int) ([]*bls12381.Fr, error) {
	bufLen := cnt * expandLen
	msgLen := len(msg)
	roundSz := 1
	msgLenSz := 4

	msgExt := make([]byte, msgLen+roundSz+msgLenSz)
	// msgExt is a concatenation of: msg || I2OSP(round, 1) || I2OSP(cnt, 4)
	copy(msgExt, msg)
	copy(msgExt[msgLen+1:], uint32ToBytes(uint32(cnt)))

	out := make([]*bls12381.Fr, cnt)

	for round := 0; round < maxHash2ScalarsRounds; round++ {
		msgExt[msgLen] = byte(round)
		buf := expandMsgXOF(msgExt, dst, bufLen)

		ok := true
		for i := 0; i < cnt && ok; i++ {
			out[i] = bls12381.NewFr().FromBytes(buf[i*expandLen : (i+1)*expandLen])
			ok = !out[i].IsZero()
		}

		if ok {
			return out, nil
		}
	}

	return nil, fmt.Errorf("hash to scalar rejection rounds exhausted: %w", ErrInsufficientRandomness)
}

// expandMsgXOF implements expand_message_xof from RFC 9380, section 5.3.3,
// with SHAKE-256.
func expandMsgXOF(msg, dst []byte, outLen int) []byte {
	h := sha3.NewShake256()

	// Write() and Read() of sha3 state never return an error.
	_, _ = h.Write(msg)
	_, _ = h.Write([]byte{uint8(outLen >> 8), uint8(outLen)}) //nolint:gomnd
	_, _ = h.Write(dst)
	_, _ = h.Write([]byte{uint8(len(dst))})

	out := make([]byte, outLen)
	_, _ = h.Read(out)

	return out
}

// expandMsgXMD implements expand_message_xmd from RFC 9380, section 5.3.1,
// over the hash function f.
func expandMsgXMD(f func() hash.Hash, msg, dst []byte, outLen int) ([]byte, error) {
	h := f()

	if len(dst) > 255 {
		return nil, errors.New("invalid domain length")
	}

	ell := (outLen + h.Size() - 1) / h.Size()
	if ell > 255 {
		return nil, errors.New("invalid output length")
	}

	dstPrime := append(dst[:len(dst):len(dst)], uint8(len(dst)))

	// b_0 = H(Z_pad || msg || l_i_b_str || I2OSP(0, 1) || DST_prime)
	_, _ = h.Write(make([]byte, h.BlockSize()))
	_, _ = h.Write(msg)
	_, _ = h.Write([]byte{uint8(outLen >> 8), uint8(outLen)}) //nolint:gomnd
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(dstPrime)
	b0 := h.Sum(nil)

	// b_i = H(strxor(b_0, b_(i-1)) || I2OSP(i, 1) || DST_prime)
	out := make([]byte, 0, ell*h.Size())
	bi := b0

	for i := 1; i <= ell; i++ {
		h.Reset()

		if i == 1 {
			_, _ = h.Write(b0)
		} else {
			tmp := make([]byte, h.Size())
			for j := range tmp {
				tmp[j] = b0[j] ^ bi[j]
			}

			_, _ = h.Write(tmp)
		}

		_, _ = h.Write([]byte{uint8(i)})
		_, _ = h.Write(dstPrime)

		bi = h.Sum(nil)
		out = append(out, bi...)
	}

	return out[:outLen], nil
}

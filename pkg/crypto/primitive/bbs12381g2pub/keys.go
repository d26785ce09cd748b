/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"
	"math/big"

	bls12381 "github.com/kilic/bls12-381"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

const (
	seedSize        = frCompressedSize
	generateKeySalt = "BBS-SIG-KEYGEN-SALT-"

	// Domain separation tag of hash-to-curve used for generator derivation.
	dstG1 = "BLS12381G1_XMD:BLAKE2B_SSWU_RO_BBS+_SIGNATURES:1_0_0"

	// Sizes of a base field element and of the wide value hash-to-field
	// reduces into one.
	fieldElementSize     = 48
	wideFieldElementSize = 64
)

// PublicKey defines BLS Public Key.
type PublicKey struct {
	PointG2 *bls12381.PointG2
}

// PrivateKey defines BLS Private Key.
type PrivateKey struct {
	FR *bls12381.Fr
}

// PublicKeyWithGenerators extends PublicKey with a blinding generator h0 and a
// per-message generator vector derived for a fixed messages count.
type PublicKeyWithGenerators struct {
	h0 *bls12381.PointG1
	h  []*bls12381.PointG1

	w *bls12381.PointG2

	messagesCount int
}

// UnmarshalPrivateKey unmarshals PrivateKey.
func UnmarshalPrivateKey(privKeyBytes []byte) (*PrivateKey, error) {
	if len(privKeyBytes) != frCompressedSize {
		return nil, fmt.Errorf("invalid size of private key: %w", ErrMalformedEncoding)
	}

	fr := parseFr(privKeyBytes)

	return &PrivateKey{
		FR: fr,
	}, nil
}

// Marshal marshals PrivateKey.
func (k *PrivateKey) Marshal() ([]byte, error) {
	bytes := k.FR.ToBytes()
	return bytes, nil
}

// PublicKey returns a Public Key as G2 point generated from the Private Key.
func (k *PrivateKey) PublicKey() *PublicKey {
	pointG2 := g2.One()
	g2.MulScalar(pointG2, pointG2, frToRepr(k.FR))

	return &PublicKey{pointG2}
}

// Zeroize wipes the private key material.
func (k *PrivateKey) Zeroize() {
	zeroizeFr(k.FR)
}

// UnmarshalPublicKey parses a PublicKey from bytes.
func UnmarshalPublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != bls12381G2PublicKeyLen {
		return nil, fmt.Errorf("invalid size of public key: %w", ErrMalformedEncoding)
	}

	pointG2, err := g2.FromCompressed(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("deserialize public key: %w", ErrMalformedEncoding)
	}

	return &PublicKey{
		PointG2: pointG2,
	}, nil
}

// Marshal marshals PublicKey.
func (pk *PublicKey) Marshal() ([]byte, error) {
	pkBytes := g2.ToCompressed(pk.PointG2)

	return pkBytes, nil
}

// Validate rejects the identity element and points outside the proper
// subgroup of G2. FromCompressed already guarantees the point is on the curve.
func (pk *PublicKey) Validate() error {
	if g2.IsZero(pk.PointG2) {
		return fmt.Errorf("public key is the identity element: %w", ErrInvalidPublicKey)
	}

	if !g2.InCorrectSubgroup(pk.PointG2) {
		return fmt.Errorf("public key is not in the expected subgroup: %w", ErrInvalidPublicKey)
	}

	return nil
}

// ToPublicKeyWithGenerators derives the blinding generator h0 and messagesCount
// per-message generators from the public key.
func (pk *PublicKey) ToPublicKeyWithGenerators(messagesCount int) (*PublicKeyWithGenerators, error) {
	offset := g2UncompressedSize + 1

	data := calcData(pk, messagesCount)

	h0, err := hashToG1(data)
	if err != nil {
		return nil, fmt.Errorf("create G1 point from hash: %w", err)
	}

	h := make([]*bls12381.PointG1, messagesCount)

	for i := 1; i <= messagesCount; i++ {
		dataCopy := make([]byte, len(data))
		copy(dataCopy, data)

		iBytes := uint32ToBytes(uint32(i))

		for j := 0; j < len(iBytes); j++ {
			dataCopy[j+offset] = iBytes[j]
		}

		h[i-1], err = hashToG1(dataCopy)
		if err != nil {
			return nil, fmt.Errorf("create G1 point from hash: %w", err)
		}
	}

	return &PublicKeyWithGenerators{
		h0:            h0,
		h:             h,
		w:             pk.PointG2,
		messagesCount: messagesCount,
	}, nil
}

func calcData(key *PublicKey, messagesCount int) []byte {
	data := g2.ToUncompressed(key.PointG2)

	data = append(data, 0, 0, 0, 0, 0, 0)

	mcBytes := uint32ToBytes(uint32(messagesCount))

	data = append(data, mcBytes...)

	return data
}

// hashToG1 implements hash_to_curve from RFC 9380, section 3, with BLAKE2b-512
// message expansion. MapToCurve applies the SSWU map, the isogeny and cofactor
// clearing per field element; both are group homomorphisms, so mapping the two
// elements separately and adding gives the random-oracle construction.
func hashToG1(data []byte) (*bls12381.PointG1, error) {
	uniform, err := expandMsgXMD(newBlake2b, data, []byte(dstG1), 2*wideFieldElementSize)
	if err != nil {
		return nil, err
	}

	p0, err := g1.MapToCurve(reduceWideFieldElement(uniform[:wideFieldElementSize]))
	if err != nil {
		return nil, err
	}

	p1, err := g1.MapToCurve(reduceWideFieldElement(uniform[wideFieldElementSize:]))
	if err != nil {
		return nil, err
	}

	g1.Add(p0, p0, p1)

	return g1.Affine(p0), nil
}

func newBlake2b() hash.Hash {
	// We pass a null key so error is impossible here.
	h, _ := blake2b.New512(nil) //nolint:errcheck
	return h
}

// fieldModulus is the base field modulus of BLS12-381.
//
//nolint:gochecknoglobals,lll
var fieldModulus, _ = new(big.Int).SetString(
	"1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 16)

// reduceWideFieldElement reduces a wide hash output modulo the base field
// order, producing the field element bytes MapToCurve expects.
func reduceWideFieldElement(in []byte) []byte {
	wide := new(big.Int).SetBytes(in)
	wide.Mod(wide, fieldModulus)

	out := make([]byte, fieldElementSize)
	wide.FillBytes(out)

	return out
}

// GenerateKeyPair generates BBS+ PublicKey and PrivateKey pair. A nil seed
// draws key material from crypto/rand.
func GenerateKeyPair(h func() hash.Hash, seed []byte) (*PublicKey, *PrivateKey, error) {
	return GenerateKeyPairWithReader(h, seed, rand.Reader)
}

// GenerateKeyPairWithReader generates a BBS+ key pair, drawing the seed from
// rnd when no seed is given.
func GenerateKeyPairWithReader(h func() hash.Hash, seed []byte, rnd io.Reader) (*PublicKey, *PrivateKey, error) {
	if len(seed) != 0 && len(seed) != seedSize {
		return nil, nil, fmt.Errorf("invalid size of seed: %w", ErrMalformedEncoding)
	}

	okm, err := generateOKM(seed, h, rnd)
	if err != nil {
		return nil, nil, err
	}

	privKeyFr := frFromOKM(okm)
	if privKeyFr.IsZero() {
		return nil, nil, fmt.Errorf("derived secret key is zero: %w", ErrDegenerateSecretKey)
	}

	privKey := &PrivateKey{privKeyFr}
	pubKey := privKey.PublicKey()

	return pubKey, privKey, nil
}

func generateOKM(ikm []byte, h func() hash.Hash, rnd io.Reader) ([]byte, error) {
	salt := []byte(generateKeySalt)
	info := make([]byte, 2)

	if ikm != nil {
		ikm = append(ikm, 0)
	} else {
		ikm = make([]byte, seedSize+1)

		_, err := io.ReadFull(rnd, ikm[:seedSize])
		if err != nil {
			return nil, fmt.Errorf("read seed material: %w", ErrInsufficientRandomness)
		}
	}

	return newHKDF(h, ikm, salt, info, frUncompressedSize)
}

func newHKDF(h func() hash.Hash, ikm, salt, info []byte, length int) ([]byte, error) {
	reader := hkdf.New(h, ikm, salt, info)
	result := make([]byte, length)

	_, err := io.ReadFull(reader, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

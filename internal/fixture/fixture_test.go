/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

func TestGenerateAndCheck(t *testing.T) {
	f, err := Generate(GenerateConfig{
		Groups:   2,
		Messages: 5,
		Seed:     []byte("fixture test seed"),
	})
	require.NoError(t, err)
	require.Len(t, f.Vectors, 24)

	bls := bbs.New()

	for _, vector := range f.Vectors {
		vector := vector
		t.Run(vector.Label, func(t *testing.T) {
			require.NoError(t, vector.Check(bls))
		})
	}
}

func TestGenerateDefaults(t *testing.T) {
	f, err := Generate(GenerateConfig{})
	require.NoError(t, err)
	require.NotEmpty(t, f.Vectors)

	bls := bbs.New()

	for _, vector := range f.Vectors {
		require.NoError(t, vector.Check(bls))
	}
}

func TestCheckDetectsWrongExpectation(t *testing.T) {
	f, err := Generate(GenerateConfig{Messages: 3})
	require.NoError(t, err)

	bls := bbs.New()

	valid := f.Vectors[0]
	require.Equal(t, OutcomeValid, valid.Expected)

	valid.Expected = OutcomeInvalid
	valid.ExpectedError = "InvalidSignature"
	require.Error(t, valid.Check(bls))

	invalid := f.Vectors[1]
	require.Equal(t, OutcomeInvalid, invalid.Expected)

	invalid.Expected = OutcomeValid
	require.Error(t, invalid.Check(bls))

	// mismatched error kind is a failure too
	invalid = f.Vectors[1]
	invalid.ExpectedError = "ChallengeMismatch"
	require.Error(t, invalid.Check(bls))
}

func TestFileSaveLoad(t *testing.T) {
	f, err := Generate(GenerateConfig{Messages: 3, Seed: []byte("save load seed")})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vectors.json")

	require.NoError(t, f.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, f, loaded)

	bls := bbs.New()

	for _, vector := range loaded.Vectors {
		require.NoError(t, vector.Check(bls))
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestErrorKind(t *testing.T) {
	require.Equal(t, "InvalidSignature", ErrorKind(bbs.ErrInvalidSignature))
	require.Equal(t, "ChallengeMismatch", ErrorKind(bbs.ErrChallengeMismatch))
	require.Equal(t, "Unknown", ErrorKind(errTest))
}

//nolint:gochecknoglobals
var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "test error" }

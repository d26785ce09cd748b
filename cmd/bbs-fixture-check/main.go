/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main (bbs-fixture-check) replays BBS+ test vector files.
package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dorakemon/bbs-go/internal/fixture"
	"github.com/dorakemon/bbs-go/pkg/crypto/primitive/bbs12381g2pub"
)

const (
	inFlagName  = "in"
	inEnvKey    = "BBS_FIXTURE_IN"
	inFlagUsage = "Path of the fixture file to check." +
		" Alternatively, this can be set with the following environment variable: " + inEnvKey
)

var errVectorsFailed = errors.New("one or more vectors failed")

func main() {
	logger := logrus.WithField("app", "bbs-fixture-check")

	if err := newCheckCmd(logger).Execute(); err != nil {
		logger.WithError(err).Fatal("failed to run bbs-fixture-check")
	}
}

func newCheckCmd(logger *logrus.Entry) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bbs-fixture-check",
		Short:        "Replays BBS+ signature and proof test vectors",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, logger)
		},
	}

	cmd.Flags().StringP(inFlagName, "i", "", inFlagUsage)

	return cmd
}

func runCheck(cmd *cobra.Command, logger *logrus.Entry) error {
	in := stringVar(cmd, inFlagName, inEnvKey, "bbs-vectors.json")

	f, err := fixture.Load(in)
	if err != nil {
		return err
	}

	bls := bbs12381g2pub.New()
	failed := 0

	for i := range f.Vectors {
		vector := &f.Vectors[i]

		vectorLogger := logger.WithFields(logrus.Fields{
			"id":    vector.ID,
			"label": vector.Label,
		})

		if checkErr := vector.Check(bls); checkErr != nil {
			failed++

			vectorLogger.WithError(checkErr).Error("vector failed")

			continue
		}

		vectorLogger.Debug("vector passed")
	}

	logger.WithFields(logrus.Fields{
		"in":      in,
		"vectors": len(f.Vectors),
		"failed":  failed,
	}).Info("fixture check finished")

	if failed > 0 {
		return errVectorsFailed
	}

	return nil
}

// stringVar reads a flag value, falling back to the environment and then to
// defaultValue.
func stringVar(cmd *cobra.Command, flagName, envKey, defaultValue string) string {
	if cmd.Flags().Changed(flagName) {
		value, _ := cmd.Flags().GetString(flagName) //nolint:errcheck
		return value
	}

	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	return defaultValue
}

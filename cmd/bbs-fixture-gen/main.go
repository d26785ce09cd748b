/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main (bbs-fixture-gen) generates BBS+ test vector files.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dorakemon/bbs-go/internal/fixture"
)

const (
	outFlagName  = "out"
	outEnvKey    = "BBS_FIXTURE_OUT"
	outFlagUsage = "Path of the fixture file to write." +
		" Alternatively, this can be set with the following environment variable: " + outEnvKey

	groupsFlagName  = "groups"
	groupsEnvKey    = "BBS_FIXTURE_GROUPS"
	groupsFlagUsage = "Number of scenario groups, each with its own key pair and messages (default 4)." +
		" Alternatively, this can be set with the following environment variable: " + groupsEnvKey

	messagesFlagName  = "messages"
	messagesEnvKey    = "BBS_FIXTURE_MESSAGES"
	messagesFlagUsage = "Number of signed messages per group (default 5)." +
		" Alternatively, this can be set with the following environment variable: " + messagesEnvKey

	seedFlagName  = "seed"
	seedEnvKey    = "BBS_FIXTURE_SEED"
	seedFlagUsage = "Optional seed making key pairs and messages deterministic." +
		" Alternatively, this can be set with the following environment variable: " + seedEnvKey
)

func main() {
	logger := logrus.WithField("app", "bbs-fixture-gen")

	if err := newGenCmd(logger).Execute(); err != nil {
		logger.WithError(err).Fatal("failed to run bbs-fixture-gen")
	}
}

func newGenCmd(logger *logrus.Entry) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bbs-fixture-gen",
		Short:        "Generates BBS+ signature and proof test vectors",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, logger)
		},
	}

	cmd.Flags().StringP(outFlagName, "o", "", outFlagUsage)
	cmd.Flags().Int(groupsFlagName, 4, groupsFlagUsage)     //nolint:gomnd
	cmd.Flags().Int(messagesFlagName, 5, messagesFlagUsage) //nolint:gomnd
	cmd.Flags().String(seedFlagName, "", seedFlagUsage)

	return cmd
}

func runGen(cmd *cobra.Command, logger *logrus.Entry) error {
	out := stringVar(cmd, outFlagName, outEnvKey, "bbs-vectors.json")
	seed := stringVar(cmd, seedFlagName, seedEnvKey, "")

	groups, err := cmd.Flags().GetInt(groupsFlagName)
	if err != nil {
		return err
	}

	messages, err := cmd.Flags().GetInt(messagesFlagName)
	if err != nil {
		return err
	}

	cfg := fixture.GenerateConfig{
		Groups:   groups,
		Messages: messages,
	}

	if seed != "" {
		cfg.Seed = []byte(seed)
	}

	f, err := fixture.Generate(cfg)
	if err != nil {
		return err
	}

	err = f.Save(out)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"out":     out,
		"vectors": len(f.Vectors),
	}).Info("fixture file written")

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

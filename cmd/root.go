// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package cmd implements the command-line interface for env2params.
//
// env2params does exactly one thing, so the cobra root command carries the
// push operation directly instead of dispatching to subcommands. The package
// handles flag parsing, merging with the optional .env2params.yaml config
// file, input validation, and dispatching to the store clients.
//
// Flags:
//   - --profile: AWS shared-config profile (required)
//   - --tag: namespace prefix for pushed items (required)
//   - --target: ssm (default) or secretsmanager
//   - --env-file: path of the env file, default .env
//   - --region, --role: optional AWS overrides
//   - --verbose / --loglevel: logging verbosity
//   - --version: display version information
package cmd

import (
	"fmt"

	"git.sr.ht/~wombelix/env2params/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Build information, set via ldflags during build
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Command-line flags
	logLevel    string
	showVersion bool
	verbose     bool
	flagProfile string
	flagTag     string
	flagTarget  string
	flagEnvFile string
	flagRegion  string
	flagRole    string

	// rootCmd is the one and only command: push an env file to AWS.
	rootCmd = &cobra.Command{
		Use:   "env2params",
		Short: "Push .env variables to AWS SSM Parameter Store or Secrets Manager",
		Long: `env2params is a command-line tool that parses a local .env file and pushes
every variable to AWS SSM Parameter Store or Secrets Manager, namespaced by
a user-supplied tag. Existing items are updated in place, new items are
created with descriptive tags. Keys that look sensitive (password, secret,
key, token) are stored as SecureString parameters.`,
		Example: `  env2params --profile my-profile --tag myapp
  env2params --profile my-profile --tag myapp --target secretsmanager --env-file ./config/.env
  env2params --profile my-profile --tag myapp --env-file ./prod.env --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// init registers all flags and the persistent pre-run hook that configures
// logging before any work happens.
func init() {
	// RunE is assigned here rather than in the composite literal to avoid an
	// initialization cycle: runPush refers back to rootCmd.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("env2params version %s (commit %s, built on %s)\n", version, commit, date)
			return nil
		}
		return runPush(cmd.Context())
	}

	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "AWS profile name to use (required)")
	rootCmd.Flags().StringVar(&flagTag, "tag", "", "Tag to use as namespace prefix for pushed items (required)")
	rootCmd.Flags().StringVar(&flagTarget, "target", "", "Target service: ssm or secretsmanager (default \"ssm\")")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", "", "Path to .env file (default \".env\")")
	rootCmd.Flags().StringVar(&flagRegion, "region", "", "AWS region (optional, default: from AWS config or environment)")
	rootCmd.Flags().StringVar(&flagRole, "role", "", "AWS role ARN to assume (optional)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (same as --loglevel debug)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "Show version information")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			logLevel = "debug"
		}
		logger.InitLogger(logLevel)
		return nil
	}
}

// Execute runs the root command. This is called by main.main().
// If there is an error, it will be returned to the caller.
func Execute() error {
	return rootCmd.Execute()
}

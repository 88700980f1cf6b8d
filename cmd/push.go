// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.sr.ht/~wombelix/env2params/internal/aws"
	"git.sr.ht/~wombelix/env2params/internal/config"
	"git.sr.ht/~wombelix/env2params/internal/envfile"
	"git.sr.ht/~wombelix/env2params/internal/logger"
	"git.sr.ht/~wombelix/env2params/internal/push"
	"git.sr.ht/~wombelix/env2params/internal/validation"
	"github.com/fatih/color"
)

const (
	targetSSM            = "ssm"
	targetSecretsManager = "secretsmanager"

	defaultEnvFile = ".env"
)

var (
	successMark = color.New(color.FgGreen).Sprint("✓")
	failureMark = color.New(color.FgRed).Sprint("✗")
)

// runPush is the whole pipeline: merge configuration, parse the env file,
// resolve the AWS session, and upsert every variable into the chosen store.
// Fatal setup errors are returned; per-item push failures are reported but
// never turn into a non-zero exit.
func runPush(ctx context.Context) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
	}

	// Merge config with flags (flags take precedence)
	profile, tag, target, envFile := flagProfile, flagTag, flagTarget, flagEnvFile
	region, role := flagRegion, flagRole
	if cfg != nil {
		if profile == "" {
			profile = cfg.Profile
		}
		if tag == "" {
			tag = cfg.Tag
		}
		if target == "" {
			target = cfg.Target
		}
		if envFile == "" {
			envFile = cfg.EnvFile
		}
		if region == "" {
			region = cfg.Region
		}
		if role == "" {
			role = cfg.Role
		}
		// Config-file loglevel applies unless --loglevel or --verbose overrode it
		if cfg.LogLevel != "" && !verbose && !rootCmd.PersistentFlags().Changed("loglevel") {
			logLevel = cfg.LogLevel
		}
	}
	if target == "" {
		target = targetSSM
	}
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	// Check required flags
	if profile == "" {
		return fmt.Errorf("required flag \"profile\" not set")
	}
	if tag == "" {
		return fmt.Errorf("required flag \"tag\" not set")
	}

	// Validate inputs before touching the network
	if err := validation.ValidateProfile(profile); err != nil {
		return err
	}
	if err := validation.ValidateTag(tag); err != nil {
		return err
	}
	if err := validation.ValidateTarget(target); err != nil {
		return err
	}
	if err := validation.ValidateRegion(region); err != nil {
		return err
	}
	if err := validation.ValidateRoleARN(role); err != nil {
		return err
	}

	// Reinitialize logging with the file tee now that a real run starts
	logger.InitFileLogger(logLevel, logger.DefaultLogFile)

	slog.Info("Resolved configuration", "profile", profile, "tag", tag, "target", target, "env_file", envFile)

	// Parse env file
	vars, err := envfile.ParseFile(envFile)
	if err != nil {
		return err
	}
	if len(vars) == 0 {
		return fmt.Errorf("no environment variables found in %s", envFile)
	}

	// Resolve AWS session
	slog.Info("Creating AWS session", "profile", profile)
	sess, err := aws.NewSession(ctx, profile, region, role)
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}
	slog.Info("Session created successfully", "region", sess.Region)
	slog.Debug("Session credentials",
		"access_key", sess.AccessKeyFingerprint(),
		"secret_key", sess.SecretKeyFingerprint(),
		"session_token", sess.TokenFingerprint(),
	)

	var store push.Store
	switch target {
	case targetSSM:
		store = aws.NewParameterStore(sess, tag)
	case targetSecretsManager:
		store = aws.NewSecretsStore(sess, tag)
	}

	fmt.Printf("Using AWS profile: %s\n", profile)
	fmt.Printf("Tag: %s\n", tag)
	fmt.Printf("Found %d environment variables to push\n", len(vars))
	fmt.Printf("AWS Region: %s\n", sess.Region)
	fmt.Printf("Target: %s\n", store.Name())

	// Push all variables, reporting progress per item
	_, summary := push.All(ctx, store, vars, func(res push.Result) {
		if res.Err != nil {
			fmt.Printf("%s Failed to push %s: %v\n", failureMark, res.Name, res.Err)
			return
		}
		fmt.Printf("%s Pushed: %s\n", successMark, res.Name)
	})

	fmt.Printf("\nCompleted pushing %d items to %s", summary.Attempted, store.Name())
	fmt.Printf(" (%d created, %d updated, %d failed)\n", summary.Created, summary.Updated, summary.Failed)

	printRegionInfo(store, sess.Region)

	return nil
}

// printRegionInfo mirrors the closing console hint of the original tool so
// users can find their items in the AWS Console.
func printRegionInfo(store push.Store, region string) {
	fmt.Printf("\n=== AWS Region Information ===\n")
	fmt.Printf("Items were stored in region: %s\n", region)
	fmt.Printf("To view them in the AWS Console, make sure you're in the correct region\n")
	fmt.Printf("and look in %s for the prefix: %s\n", store.Name(), store.ItemName(""))
	fmt.Printf("===============================\n")
}

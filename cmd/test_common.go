// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~wombelix/env2params/internal/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
)

// testSetup provides common test setup functionality
type testSetup struct {
	tmpDir            string
	origHome          string
	origWd            string
	origRegion        string
	origNewSession    aws.NewSessionFunc
	origNewParamStore aws.NewParameterStoreFunc
	origNewSecrets    aws.NewSecretsStoreFunc
}

// setupTest creates a common test environment: a temp working directory,
// a fake HOME, a fixed region, and restorable client constructor overrides.
func setupTest(t *testing.T) *testSetup {
	tmpDir, err := os.MkdirTemp("", "env2params-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	ts := &testSetup{
		tmpDir:            tmpDir,
		origHome:          os.Getenv("HOME"),
		origWd:            origWd,
		origRegion:        os.Getenv("AWS_REGION"),
		origNewSession:    aws.NewSession,
		origNewParamStore: aws.NewParameterStore,
		origNewSecrets:    aws.NewSecretsStore,
	}

	os.Setenv("HOME", tmpDir)
	os.Setenv("AWS_REGION", "us-west-2")
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(ts.origWd)
		os.Setenv("HOME", ts.origHome)
		os.Setenv("AWS_REGION", ts.origRegion)
		aws.NewSession = ts.origNewSession
		aws.NewParameterStore = ts.origNewParamStore
		aws.NewSecretsStore = ts.origNewSecrets
		os.RemoveAll(tmpDir)
	})

	return ts
}

// setupMockSession makes session resolution succeed without touching AWS.
func (ts *testSetup) setupMockSession() {
	aws.NewSession = func(ctx context.Context, profile, region, role string) (*aws.Session, error) {
		return mockSession(profile, "us-west-2"), nil
	}
}

// setupMockStores points the store constructors at the given mock clients.
func (ts *testSetup) setupMockStores(ssmMock *aws.MockSSMClient, smMock *aws.MockSecretsManagerClient) {
	aws.NewParameterStore = func(sess *aws.Session, namespace string) *aws.ParameterStore {
		return &aws.ParameterStore{Client: ssmMock, Namespace: namespace}
	}
	aws.NewSecretsStore = func(sess *aws.Session, namespace string) *aws.SecretsStore {
		return &aws.SecretsStore{Client: smMock, Namespace: namespace}
	}
}

// writeEnvFile writes an env file into the temp dir and returns its path.
func (ts *testSetup) writeEnvFile(t *testing.T, name, content string) string {
	path := filepath.Join(ts.tmpDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

// resetFlags restores all command flags to their defaults between tests.
func resetFlags() {
	logLevel = "info"
	showVersion = false
	verbose = false
	flagProfile = ""
	flagTag = ""
	flagTarget = ""
	flagEnvFile = ""
	flagRegion = ""
	flagRole = ""

	// Cobra's auto-registered help flag keeps its parsed value across
	// Execute calls; clear it so a prior --help run doesn't short-circuit
	// later subtests.
	if f := rootCmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
}

// mockSession returns a Session usable by the command pipeline in tests.
func mockSession(profile, region string) *aws.Session {
	return &aws.Session{
		Config:  awssdk.Config{Region: region},
		Profile: profile,
		Region:  region,
	}
}

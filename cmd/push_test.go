// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.sr.ht/~wombelix/env2params/internal/aws"
	"git.sr.ht/~wombelix/env2params/internal/logger"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// happySSMMock returns a mock where nothing exists yet and every put succeeds.
func happySSMMock() *aws.MockSSMClient {
	return &aws.MockSSMClient{
		GetParamFunc: func(ctx context.Context, input *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			return nil, &ssmtypes.ParameterNotFound{}
		},
		PutParamFunc: func(ctx context.Context, input *ssm.PutParameterInput, opts ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			return &ssm.PutParameterOutput{}, nil
		},
	}
}

func happySecretsMock() *aws.MockSecretsManagerClient {
	return &aws.MockSecretsManagerClient{
		DescribeSecretFunc: func(ctx context.Context, input *secretsmanager.DescribeSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
			return nil, &smtypes.ResourceNotFoundException{}
		},
		CreateSecretFunc: func(ctx context.Context, input *secretsmanager.CreateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
			return &secretsmanager.CreateSecretOutput{}, nil
		},
		UpdateSecretFunc: func(ctx context.Context, input *secretsmanager.UpdateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error) {
			return &secretsmanager.UpdateSecretOutput{}, nil
		},
	}
}

func TestRunPush(t *testing.T) {
	tests := []struct {
		name        string
		profile     string
		tag         string
		target      string
		envContent  string
		noEnvFile   bool
		wantErr     bool
		errContains string
	}{
		{
			name:        "missing profile",
			tag:         "myapp",
			envContent:  "FOO=bar\n",
			wantErr:     true,
			errContains: `required flag "profile" not set`,
		},
		{
			name:        "missing tag",
			profile:     "my-profile",
			envContent:  "FOO=bar\n",
			wantErr:     true,
			errContains: `required flag "tag" not set`,
		},
		{
			name:        "invalid target",
			profile:     "my-profile",
			tag:         "myapp",
			target:      "dynamodb",
			envContent:  "FOO=bar\n",
			wantErr:     true,
			errContains: "invalid target",
		},
		{
			name:        "invalid tag",
			profile:     "my-profile",
			tag:         "/myapp",
			envContent:  "FOO=bar\n",
			wantErr:     true,
			errContains: "tag must not start with '/'",
		},
		{
			name:        "missing env file",
			profile:     "my-profile",
			tag:         "myapp",
			noEnvFile:   true,
			wantErr:     true,
			errContains: "failed to open env file",
		},
		{
			name:        "empty env file",
			profile:     "my-profile",
			tag:         "myapp",
			envContent:  "# only a comment\n",
			wantErr:     true,
			errContains: "no environment variables found",
		},
		{
			name:       "push to ssm",
			profile:    "my-profile",
			tag:        "myapp",
			envContent: "FOO=bar\nDB_PASSWORD=hunter2\n",
			wantErr:    false,
		},
		{
			name:       "push to secretsmanager",
			profile:    "my-profile",
			tag:        "myapp",
			target:     "secretsmanager",
			envContent: "FOO=bar\n",
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTest(t)
			resetFlags()

			ts.setupMockSession()
			ts.setupMockStores(happySSMMock(), happySecretsMock())

			flagProfile = tt.profile
			flagTag = tt.tag
			flagTarget = tt.target
			if !tt.noEnvFile {
				flagEnvFile = ts.writeEnvFile(t, ".env", tt.envContent)
			} else {
				flagEnvFile = ts.tmpDir + "/does-not-exist.env"
			}

			err := runPush(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("runPush() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("runPush() error = %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}

func TestRunPushSessionFailureIsFatal(t *testing.T) {
	ts := setupTest(t)
	resetFlags()

	aws.NewSession = func(ctx context.Context, profile, region, role string) (*aws.Session, error) {
		return nil, fmt.Errorf("profile not found")
	}

	flagProfile = "broken-profile"
	flagTag = "myapp"
	flagEnvFile = ts.writeEnvFile(t, ".env", "FOO=bar\n")

	err := runPush(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to create AWS session") {
		t.Errorf("runPush() error = %v, want session failure", err)
	}
}

func TestRunPushMissingFileBeforeNetwork(t *testing.T) {
	ts := setupTest(t)
	resetFlags()

	sessionCalled := false
	aws.NewSession = func(ctx context.Context, profile, region, role string) (*aws.Session, error) {
		sessionCalled = true
		return mockSession(profile, "us-west-2"), nil
	}

	flagProfile = "my-profile"
	flagTag = "myapp"
	flagEnvFile = ts.tmpDir + "/does-not-exist.env"

	if err := runPush(context.Background()); err == nil {
		t.Fatal("runPush() expected error for missing env file, got nil")
	}
	if sessionCalled {
		t.Error("runPush() resolved an AWS session before reading the env file")
	}
}

func TestRunPushPerItemFailuresExitZero(t *testing.T) {
	ts := setupTest(t)
	resetFlags()

	ts.setupMockSession()

	// Every put fails, the run itself must still succeed
	failingSSM := &aws.MockSSMClient{
		GetParamFunc: func(ctx context.Context, input *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			return nil, &ssmtypes.ParameterNotFound{}
		},
		PutParamFunc: func(ctx context.Context, input *ssm.PutParameterInput, opts ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			return nil, fmt.Errorf("access denied")
		},
	}
	ts.setupMockStores(failingSSM, happySecretsMock())

	flagProfile = "my-profile"
	flagTag = "myapp"
	flagEnvFile = ts.writeEnvFile(t, ".env", "FOO=bar\nBAZ=qux\n")

	if err := runPush(context.Background()); err != nil {
		t.Errorf("runPush() error = %v, per-item failures must not fail the run", err)
	}
}

func TestRunPushUpdatesExisting(t *testing.T) {
	ts := setupTest(t)
	resetFlags()

	ts.setupMockSession()

	var putInputs []*ssm.PutParameterInput
	mixedSSM := &aws.MockSSMClient{
		GetParamFunc: func(ctx context.Context, input *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
			if *input.Name == "/myapp/X" {
				value := "old"
				return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: &value}}, nil
			}
			return nil, &ssmtypes.ParameterNotFound{}
		},
		PutParamFunc: func(ctx context.Context, input *ssm.PutParameterInput, opts ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
			putInputs = append(putInputs, input)
			return &ssm.PutParameterOutput{}, nil
		},
	}
	ts.setupMockStores(mixedSSM, happySecretsMock())
	aws.NewParameterStore = func(sess *aws.Session, namespace string) *aws.ParameterStore {
		return &aws.ParameterStore{
			Client:    mixedSSM,
			Namespace: namespace,
			Tags:      []ssmtypes.Tag{{Key: strPtr("Tag"), Value: strPtr(namespace)}},
		}
	}

	flagProfile = "my-profile"
	flagTag = "myapp"
	flagEnvFile = ts.writeEnvFile(t, ".env", "X=1\nY=2\n")

	if err := runPush(context.Background()); err != nil {
		t.Fatalf("runPush() unexpected error: %v", err)
	}

	if len(putInputs) != 2 {
		t.Fatalf("PutParameter called %d times, want 2", len(putInputs))
	}
	// X existed: update with overwrite and no tags
	if putInputs[0].Overwrite == nil || !*putInputs[0].Overwrite {
		t.Error("existing parameter X was not overwritten")
	}
	if len(putInputs[0].Tags) != 0 {
		t.Error("update of X carried tags, updates must not be tagged")
	}
	// Y was new: create with tags and no overwrite
	if putInputs[1].Overwrite != nil && *putInputs[1].Overwrite {
		t.Error("new parameter Y was created with overwrite set")
	}
	if len(putInputs[1].Tags) == 0 {
		t.Error("create of Y carried no tags")
	}
}

func TestRunPushConfigFileLogLevel(t *testing.T) {
	writeConfig := func(t *testing.T, ts *testSetup, content string) {
		path := filepath.Join(ts.tmpDir, ".env2params.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
	}

	t.Run("config loglevel takes effect", func(t *testing.T) {
		ts := setupTest(t)
		resetFlags()

		ts.setupMockSession()
		ts.setupMockStores(happySSMMock(), happySecretsMock())
		writeConfig(t, ts, "loglevel: debug\n")

		flagProfile = "my-profile"
		flagTag = "myapp"
		flagEnvFile = ts.writeEnvFile(t, ".env", "FOO=bar\n")

		if err := runPush(context.Background()); err != nil {
			t.Fatalf("runPush() unexpected error: %v", err)
		}

		if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			t.Error("config file loglevel 'debug' was not applied to the logger")
		}
	})

	t.Run("verbose flag overrides config loglevel", func(t *testing.T) {
		ts := setupTest(t)
		resetFlags()

		ts.setupMockSession()
		ts.setupMockStores(happySSMMock(), happySecretsMock())
		writeConfig(t, ts, "loglevel: error\n")

		flagProfile = "my-profile"
		flagTag = "myapp"
		flagEnvFile = ts.writeEnvFile(t, ".env", "FOO=bar\n")
		verbose = true
		logLevel = "debug" // PersistentPreRunE applies this when --verbose is set

		if err := runPush(context.Background()); err != nil {
			t.Fatalf("runPush() unexpected error: %v", err)
		}

		if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			t.Error("--verbose was overridden by the config file loglevel")
		}
	})
}

func TestRunPushLogsStartOnce(t *testing.T) {
	ts := setupTest(t)
	resetFlags()

	ts.setupMockSession()
	ts.setupMockStores(happySSMMock(), happySecretsMock())

	flagProfile = "my-profile"
	flagTag = "myapp"
	flagEnvFile = ts.writeEnvFile(t, ".env", "FOO=bar\n")

	if err := runPush(context.Background()); err != nil {
		t.Fatalf("runPush() unexpected error: %v", err)
	}

	// The log file sits in the temp working directory
	data, err := os.ReadFile(filepath.Join(ts.tmpDir, logger.DefaultLogFile))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if got := strings.Count(string(data), `msg="Starting push"`); got != 1 {
		t.Errorf(`log file contains %d "Starting push" lines, want exactly 1`, got)
	}
}

func strPtr(s string) *string {
	return &s
}

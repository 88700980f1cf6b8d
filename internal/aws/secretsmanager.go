// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// SecretsManagerAPI defines the interface for AWS Secrets Manager operations
type SecretsManagerAPI interface {
	DescribeSecret(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	UpdateSecret(ctx context.Context, params *secretsmanager.UpdateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error)
}

// SecretsStore pushes items into Secrets Manager under a namespace prefix.
// Each item becomes one secret whose payload is a one-entry JSON object,
// {"<KEY>": "<value>"}.
type SecretsStore struct {
	Client    SecretsManagerAPI
	Namespace string
	Tags      []smtypes.Tag
}

// NewSecretsStoreFunc is the type for the secrets store creation function
type NewSecretsStoreFunc func(sess *Session, namespace string) *SecretsStore

// DefaultNewSecretsStore is the default implementation of NewSecretsStoreFunc
var DefaultNewSecretsStore NewSecretsStoreFunc = func(sess *Session, namespace string) *SecretsStore {
	return &SecretsStore{
		Client:    secretsmanager.NewFromConfig(sess.Config),
		Namespace: namespace,
		Tags:      secretResourceTags(sess.Profile, namespace),
	}
}

// NewSecretsStore is the function used to create new secrets stores
var NewSecretsStore = DefaultNewSecretsStore

// secretResourceTags mirrors ssmResourceTags for the Secrets Manager tag type.
func secretResourceTags(profile, namespace string) []smtypes.Tag {
	return []smtypes.Tag{
		{Key: strPtr("Source"), Value: strPtr("env-file")},
		{Key: strPtr("Profile"), Value: strPtr(profile)},
		{Key: strPtr("Tag"), Value: strPtr(namespace)},
	}
}

// Name returns a human-readable store name for logging and reporting.
func (s *SecretsStore) Name() string {
	return "Secrets Manager"
}

// ItemName builds the secret name for a key: <namespace>/<key>
func (s *SecretsStore) ItemName(key string) string {
	return s.Namespace + "/" + key
}

// Exists checks whether a secret with the given name exists.
// A ResourceNotFoundException maps to (false, nil).
func (s *SecretsStore) Exists(ctx context.Context, name string) (bool, error) {
	input := &secretsmanager.DescribeSecretInput{
		SecretId: &name,
	}

	_, err := s.Client.DescribeSecret(ctx, input)
	if err != nil {
		var rnf *smtypes.ResourceNotFoundException
		if errors.As(err, &rnf) || apiErrorCode(err) == "ResourceNotFoundException" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check secret %s: %w", name, err)
	}
	return true, nil
}

// Create creates a new secret with the store's tag set.
func (s *SecretsStore) Create(ctx context.Context, name, key, value string, sensitive bool) error {
	payload, err := secretPayload(key, value)
	if err != nil {
		return err
	}

	input := &secretsmanager.CreateSecretInput{
		Name:         &name,
		SecretString: &payload,
		Tags:         s.Tags,
	}

	if _, err := s.Client.CreateSecret(ctx, input); err != nil {
		return fmt.Errorf("failed to create secret %s: %w", name, err)
	}
	return nil
}

// Update stores a new payload version for an existing secret. Tags are
// only attached at creation time.
func (s *SecretsStore) Update(ctx context.Context, name, key, value string, sensitive bool) error {
	payload, err := secretPayload(key, value)
	if err != nil {
		return err
	}

	input := &secretsmanager.UpdateSecretInput{
		SecretId:     &name,
		SecretString: &payload,
	}

	if _, err := s.Client.UpdateSecret(ctx, input); err != nil {
		return fmt.Errorf("failed to update secret %s: %w", name, err)
	}
	return nil
}

// secretPayload encodes a single key/value pair as a JSON object so the
// secret stays compatible with console and SDK key/value views.
func secretPayload(key, value string) (string, error) {
	data, err := json.Marshal(map[string]string{key: value})
	if err != nil {
		return "", fmt.Errorf("failed to encode secret payload for %s: %w", key, err)
	}
	return string(data), nil
}

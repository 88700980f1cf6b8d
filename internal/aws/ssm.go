// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

// SSMAPI defines the interface for AWS SSM operations
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// ParameterStore pushes items into SSM Parameter Store under a namespace
// prefix. Items classified as sensitive are stored as SecureString.
type ParameterStore struct {
	Client    SSMAPI
	Namespace string
	Tags      []ssmtypes.Tag
}

// NewParameterStoreFunc is the type for the parameter store creation function
type NewParameterStoreFunc func(sess *Session, namespace string) *ParameterStore

// DefaultNewParameterStore is the default implementation of NewParameterStoreFunc
var DefaultNewParameterStore NewParameterStoreFunc = func(sess *Session, namespace string) *ParameterStore {
	return &ParameterStore{
		Client:    ssm.NewFromConfig(sess.Config),
		Namespace: namespace,
		Tags:      ssmResourceTags(sess.Profile, namespace),
	}
}

// NewParameterStore is the function used to create new parameter stores
var NewParameterStore = DefaultNewParameterStore

// ssmResourceTags is the fixed tag set attached to newly created parameters.
// The SSM API rejects tags on overwrite, so updates never carry them.
func ssmResourceTags(profile, namespace string) []ssmtypes.Tag {
	return []ssmtypes.Tag{
		{Key: strPtr("Source"), Value: strPtr("env-file")},
		{Key: strPtr("Profile"), Value: strPtr(profile)},
		{Key: strPtr("Tag"), Value: strPtr(namespace)},
	}
}

// Name returns a human-readable store name for logging and reporting.
func (s *ParameterStore) Name() string {
	return "SSM Parameter Store"
}

// ItemName builds the parameter path for a key: /<namespace>/<key>
func (s *ParameterStore) ItemName(key string) string {
	return "/" + s.Namespace + "/" + key
}

// Exists checks whether a parameter with the given name exists.
// A ParameterNotFound response maps to (false, nil), every other error
// is returned to the caller.
func (s *ParameterStore) Exists(ctx context.Context, name string) (bool, error) {
	input := &ssm.GetParameterInput{
		Name: &name,
	}

	_, err := s.Client.GetParameter(ctx, input)
	if err != nil {
		var pnf *ssmtypes.ParameterNotFound
		if errors.As(err, &pnf) || apiErrorCode(err) == "ParameterNotFound" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check parameter %s: %w", name, err)
	}
	return true, nil
}

// Create creates a new parameter with the store's tag set. Sensitive items
// are stored as SecureString using the account's default SSM key.
func (s *ParameterStore) Create(ctx context.Context, name, key, value string, sensitive bool) error {
	input := &ssm.PutParameterInput{
		Name:  &name,
		Value: &value,
		Type:  parameterType(sensitive),
		Tags:  s.Tags,
	}

	_, err := s.Client.PutParameter(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create parameter %s: %w", name, err)
	}
	return nil
}

// Update overwrites the value of an existing parameter. No tags are sent,
// the API forbids tagging together with Overwrite.
func (s *ParameterStore) Update(ctx context.Context, name, key, value string, sensitive bool) error {
	overwrite := true
	input := &ssm.PutParameterInput{
		Name:      &name,
		Value:     &value,
		Type:      parameterType(sensitive),
		Overwrite: &overwrite,
	}

	_, err := s.Client.PutParameter(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to update parameter %s: %w", name, err)
	}
	return nil
}

func parameterType(sensitive bool) ssmtypes.ParameterType {
	if sensitive {
		return ssmtypes.ParameterTypeSecureString
	}
	return ssmtypes.ParameterTypeString
}

// apiErrorCode extracts the service error code from a smithy API error,
// or returns an empty string. Some SDK transport paths surface not-found
// responses as generic API errors instead of their typed form.
func apiErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}

func strPtr(s string) *string {
	return &s
}

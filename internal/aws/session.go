// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package aws wraps the AWS SDK clients used by env2params: a shared-config
// session resolver and thin store clients for SSM Parameter Store and
// Secrets Manager. The raw SDK calls are hidden behind small interfaces so
// tests can substitute mock clients.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Session holds a resolved AWS configuration together with the profile it
// was resolved from and the credentials retrieved for diagnostics.
type Session struct {
	Config  aws.Config
	Profile string
	Region  string

	creds aws.Credentials
}

// NewSessionFunc is the type for the session creation function
type NewSessionFunc func(ctx context.Context, profile, region, role string) (*Session, error)

// DefaultNewSession resolves credentials and region for a named profile via
// the SDK's shared-config mechanism. The region argument overrides whatever
// the profile defines; role, when set, is assumed via STS.
var DefaultNewSession NewSessionFunc = func(ctx context.Context, profile, region, role string) (*Session, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithSharedConfigProfile(profile),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	if role != "" {
		// Create an STS client to assume the role
		stsClient := sts.NewFromConfig(cfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, role)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured for profile %s, set --region or AWS_REGION", profile)
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials for profile %s: %w", profile, err)
	}

	return &Session{
		Config:  cfg,
		Profile: profile,
		Region:  cfg.Region,
		creds:   creds,
	}, nil
}

// NewSession is the function used to create new AWS sessions
var NewSession = DefaultNewSession

// AccessKeyFingerprint returns a masked form of the access key ID,
// safe for diagnostic logging.
func (s *Session) AccessKeyFingerprint() string {
	return maskCredential(s.creds.AccessKeyID)
}

// SecretKeyFingerprint returns a masked form of the secret access key,
// safe for diagnostic logging.
func (s *Session) SecretKeyFingerprint() string {
	return maskCredential(s.creds.SecretAccessKey)
}

// TokenFingerprint returns a masked form of the session token, or an
// empty string if the session has none.
func (s *Session) TokenFingerprint() string {
	if s.creds.SessionToken == "" {
		return ""
	}
	return maskCredential(s.creds.SessionToken)
}

// maskCredential keeps the first 8 and last 4 characters of a credential
// visible. Anything too short to mask meaningfully is fully redacted.
func maskCredential(s string) string {
	if len(s) <= 12 {
		return "****"
	}
	return s[:8] + "..." + s[len(s)-4:]
}

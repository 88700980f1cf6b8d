// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package validation provides validation functions for AWS resource names and other inputs.
//
// It includes validation for:
// - Namespace tags used as item path prefixes
// - AWS profile names
// - Target store names
// - AWS Region names
// - AWS IAM Role ARNs
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Regular expressions for AWS resource validation
	tagRegex     = regexp.MustCompile(`^[a-zA-Z0-9_.-]+(/[a-zA-Z0-9_.-]+)*$`)
	profileRegex = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)
	regionRegex  = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	roleArnRegex = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/[a-zA-Z0-9+=,.@_-]+(/[a-zA-Z0-9+=,.@_-]+)*$`)
)

// ValidateTag checks if the given namespace tag is valid.
// A valid tag:
// - Must not be empty
// - Can contain letters, numbers, dots, hyphens, underscores, and inner forward slashes
// - Must not start or end with a forward slash
// - Must not contain consecutive forward slashes
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if strings.HasPrefix(tag, "/") {
		return fmt.Errorf("tag must not start with '/'")
	}
	if strings.HasSuffix(tag, "/") {
		return fmt.Errorf("tag must not end with '/'")
	}
	if strings.Contains(tag, "//") {
		return fmt.Errorf("tag must not contain consecutive '/'")
	}
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("invalid tag format: %s", tag)
	}
	return nil
}

// ValidateProfile checks if the given AWS profile name is valid.
// A valid profile name contains no whitespace and only the characters
// allowed in AWS shared-config section names.
func ValidateProfile(profile string) error {
	if profile == "" {
		return fmt.Errorf("profile cannot be empty")
	}
	if !profileRegex.MatchString(profile) {
		return fmt.Errorf("invalid profile name: %s", profile)
	}
	return nil
}

// ValidateTarget checks if the given target store name is valid.
// Supported targets are "ssm" and "secretsmanager".
func ValidateTarget(target string) error {
	if target != "ssm" && target != "secretsmanager" {
		return fmt.Errorf("invalid target: %s (must be 'ssm' or 'secretsmanager')", target)
	}
	return nil
}

// ValidateRegion checks if the given AWS region name is valid.
// A valid region name:
// - Must be in the format: [a-z]{2}-[a-z]+-\d
// - Examples: us-east-1, eu-central-1, ap-southeast-2
// - Empty string is considered valid (for optional fields)
func ValidateRegion(region string) error {
	if region == "" {
		return nil
	}
	if !regionRegex.MatchString(region) {
		return fmt.Errorf("invalid region format: %s", region)
	}
	return nil
}

// ValidateRoleARN checks if the given IAM role ARN is valid.
// A valid role ARN:
// - Must be in the format: arn:aws:iam::<account-id>:role/<role-name-with-path>
// - Account ID must be 12 digits
// - Role name must follow IAM naming rules
// - Empty string is considered valid (for optional fields)
func ValidateRoleARN(arn string) error {
	if arn == "" {
		return nil
	}
	if !roleArnRegex.MatchString(arn) {
		return fmt.Errorf("invalid role ARN format: %s", arn)
	}
	return nil
}

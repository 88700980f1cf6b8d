// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// MockSecretsManagerClient implements SecretsManagerAPI for testing
type MockSecretsManagerClient struct {
	DescribeSecretFunc func(context.Context, *secretsmanager.DescribeSecretInput, ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
	CreateSecretFunc   func(context.Context, *secretsmanager.CreateSecretInput, ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	UpdateSecretFunc   func(context.Context, *secretsmanager.UpdateSecretInput, ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error)
}

func (m *MockSecretsManagerClient) DescribeSecret(ctx context.Context, input *secretsmanager.DescribeSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
	if m.DescribeSecretFunc != nil {
		return m.DescribeSecretFunc(ctx, input, opts...)
	}
	return nil, fmt.Errorf("DescribeSecret not implemented")
}

func (m *MockSecretsManagerClient) CreateSecret(ctx context.Context, input *secretsmanager.CreateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	if m.CreateSecretFunc != nil {
		return m.CreateSecretFunc(ctx, input, opts...)
	}
	return nil, fmt.Errorf("CreateSecret not implemented")
}

func (m *MockSecretsManagerClient) UpdateSecret(ctx context.Context, input *secretsmanager.UpdateSecretInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.UpdateSecretOutput, error) {
	if m.UpdateSecretFunc != nil {
		return m.UpdateSecretFunc(ctx, input, opts...)
	}
	return nil, fmt.Errorf("UpdateSecret not implemented")
}

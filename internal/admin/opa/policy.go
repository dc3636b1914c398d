package opa

import (
	"context"
	"fmt"
	"os"
)

// PolicySource supplies the Rego module evaluated on each decision.
type PolicySource interface {
	GetPolicy(ctx context.Context) (string, error)
}

type staticPolicy struct {
	policy string
}

// GetPolicy returns the fixed policy.
func (p *staticPolicy) GetPolicy(_ context.Context) (string, error) {
	return p.policy, nil
}

// NewStaticPolicy serves a policy compiled into the binary.
func NewStaticPolicy(policy string) PolicySource {
	return &staticPolicy{policy: policy}
}

type filePolicy struct {
	path string
}

// GetPolicy reads the policy file on every call so edits apply without restart.
func (p *filePolicy) GetPolicy(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fileInfo, err := os.Stat(p.path)
	if err != nil {
		return "", fmt.Errorf("policy not found: %w", err)
	}

	if fileInfo.IsDir() {
		return "", fmt.Errorf("policy path is a directory, not a file")
	}

	content, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("failed to read policy: %w", err)
	}

	return string(content), nil
}

// NewFilePolicy serves the Rego module stored at path.
func NewFilePolicy(path string) PolicySource {
	return &filePolicy{path: path}
}

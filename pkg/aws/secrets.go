package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsAPI is the part of the Secrets Manager client config lookups use.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient resolves secret references. Each secret is fetched once per
// process; JSON secrets holding several keys are parsed from the same fetch.
type SecretsClient struct {
	api SecretsAPI

	mu  sync.Mutex
	raw map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return NewSecretsClientWithAPI(secretsmanager.NewFromConfig(cfg))
}

func NewSecretsClientWithAPI(api SecretsAPI) *SecretsClient {
	return &SecretsClient{api: api, raw: make(map[string]string)}
}

// GetSecret returns the value behind ref. A plain name returns the secret
// string as stored; "name#key" reads one string field of a JSON secret, so
// a single "storefront/app" secret can carry every storefront credential.
func (s *SecretsClient) GetSecret(ctx context.Context, ref string) (string, error) {
	name, key, hasKey := strings.Cut(ref, "#")
	if name == "" {
		return "", fmt.Errorf("empty secret reference %q", ref)
	}

	value, err := s.fetch(ctx, name)
	if err != nil {
		return "", err
	}
	if !hasKey {
		return value, nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}
	field, ok := fields[key].(string)
	if !ok || field == "" {
		return "", fmt.Errorf("secret %s has no string field %q", name, key)
	}
	return field, nil
}

func (s *SecretsClient) fetch(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.raw[name]; ok {
		return v, nil
	}
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	s.raw[name] = *out.SecretString
	return *out.SecretString, nil
}

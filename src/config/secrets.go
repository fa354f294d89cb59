package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/tidwall/gjson"
)

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func NewSecretsClient(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load default aws config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// LoadSecrets overlays provider credentials stored as a JSON secret in AWS
// Secrets Manager. Keys absent from the secret keep their current value.
func LoadSecrets(ctx context.Context, cfg *Config, client SecretsClient) error {
	if cfg.AWSSecretID == "" {
		return nil
	}
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.AWSSecretID),
	})
	if err != nil {
		return fmt.Errorf("could not read secret %s: %w", cfg.AWSSecretID, err)
	}
	if out.SecretString == nil || !gjson.Valid(*out.SecretString) {
		return errors.New("secret value is not a json document")
	}
	secret := *out.SecretString
	for key, dst := range map[string]*string{
		"STRIPE_SECRET_KEY":     &cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": &cfg.StripeWebhookSecret,
		"JWT_SECRET":            &cfg.JWTSecret,
		"SMTP_PASSWORD":         &cfg.SMTPPassword,
	} {
		if v := gjson.Get(secret, key); v.Exists() && v.String() != "" {
			*dst = v.String()
		}
	}
	return nil
}

package lib

import (
	"context"
	"fmt"
	"path"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var innerApp *firebase.App
var innerAuth *auth.Client

// GetFirebaseAuth loads the admin SDK credentials from secretsDir.
func GetFirebaseAuth(ctx context.Context, secretsDir string) (*auth.Client, error) {
	if innerAuth != nil {
		return innerAuth, nil
	}
	if innerApp == nil {
		opt := option.WithCredentialsFile(path.Join(secretsDir, "admin-sdk-credentials.json"))
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			return nil, fmt.Errorf("error initializing firebase app: %w", err)
		}
		innerApp = app
	}
	client, err := innerApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase auth: %w", err)
	}
	innerAuth = client
	return client, nil
}

package account

import (
	"context"
)

type CredentialRepository interface {
	Create(ctx context.Context, c *Credential) error
	// Find reports whether any row matches both username and password.
	Find(ctx context.Context, username, password string) (bool, error)
}

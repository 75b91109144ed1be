package account

import (
	"context"
	"database/sql"
)

type credentialRepoSQLite struct{ db *sql.DB }

func NewCredentialRepoSQLite(db *sql.DB) CredentialRepository {
	return &credentialRepoSQLite{db: db}
}

func (r *credentialRepoSQLite) Create(ctx context.Context, c *Credential) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (username, password) VALUES (?, ?)`,
		c.Username, c.Password)
	return err
}

func (r *credentialRepoSQLite) Find(ctx context.Context, username, password string) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ? AND password = ?)`,
		username, password).Scan(&found)
	return found, err
}

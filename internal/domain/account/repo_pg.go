package account

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type credentialRepoPG struct{ conn queryable }

func NewCredentialRepoPG(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepoPG{conn: pool}
}

func (r *credentialRepoPG) Create(ctx context.Context, c *Credential) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO users (username, password) VALUES ($1, $2)`,
		c.Username, c.Password)
	return err
}

func (r *credentialRepoPG) Find(ctx context.Context, username, password string) (bool, error) {
	var found bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND password = $2)`,
		username, password).Scan(&found)
	return found, err
}

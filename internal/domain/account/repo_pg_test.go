package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	found bool
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.found
	return nil
}

type fakeConn struct {
	sql  []string
	args [][]interface{}
	row  fakeRow
	err  error
}

func (f *fakeConn) record(sql string, args []interface{}) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
}

func (f *fakeConn) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.record(sql, args)
	return nil, errors.New("not used")
}

func (f *fakeConn) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.record(sql, args)
	return f.row
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.record(sql, args)
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestCredentialRepoPG_Create(t *testing.T) {
	conn := &fakeConn{}
	repo := &credentialRepoPG{conn: conn}

	require.NoError(t, repo.Create(context.Background(), &Credential{Username: "kelly", Password: "pw"}))
	require.Len(t, conn.sql, 1)
	require.True(t, strings.Contains(conn.sql[0], "INSERT INTO users"))
	require.Equal(t, []interface{}{"kelly", "pw"}, conn.args[0])
}

func TestCredentialRepoPG_CreateError(t *testing.T) {
	repo := &credentialRepoPG{conn: &fakeConn{err: errors.New("connection refused")}}
	require.Error(t, repo.Create(context.Background(), &Credential{Username: "kelly"}))
}

func TestCredentialRepoPG_Find(t *testing.T) {
	conn := &fakeConn{row: fakeRow{found: true}}
	repo := &credentialRepoPG{conn: conn}

	found, err := repo.Find(context.Background(), "kelly", "pw")
	require.NoError(t, err)
	require.True(t, found)
	require.Contains(t, conn.sql[0], "SELECT EXISTS")
	require.Equal(t, []interface{}{"kelly", "pw"}, conn.args[0])

	conn.row = fakeRow{err: errors.New("timeout")}
	_, err = repo.Find(context.Background(), "kelly", "pw")
	require.Error(t, err)
}

package intake

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type patientRepoPG struct{ conn queryable }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{conn: pool}
}

func (r *patientRepoPG) Create(ctx context.Context, p *PatientRecord) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO patients (`+patientCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.Name, p.DOB, string(p.Gender), p.Height, p.Weight, p.Labs, p.Notes)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*PatientRecord, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Name != "" {
		where = ` WHERE LOWER(name) LIKE $1 ESCAPE '\'`
		args = append(args, likePattern(filter.Name))
	}

	var total int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + patientSelectCols + ` FROM patients` + where +
		` ORDER BY name, dob LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.conn.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*PatientRecord{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

package intake

import (
	"context"
	"database/sql"
)

type patientRepoSQLite struct{ db *sql.DB }

func NewPatientRepoSQLite(db *sql.DB) PatientRepository {
	return &patientRepoSQLite{db: db}
}

func (r *patientRepoSQLite) Create(ctx context.Context, p *PatientRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (`+patientCols+`)
		VALUES (?,?,?,?,?,?,?)`,
		p.Name, p.DOB, string(p.Gender), p.Height, p.Weight, p.Labs, p.Notes)
	return err
}

func (r *patientRepoSQLite) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*PatientRecord, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Name != "" {
		where = ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Name))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+patientSelectCols+` FROM patients`+where+` ORDER BY name, dob LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
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

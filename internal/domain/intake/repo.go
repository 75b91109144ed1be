package intake

import (
	"context"
	"strings"
)

type PatientRepository interface {
	Create(ctx context.Context, p *PatientRecord) error
	// List returns one page of records ordered by name then dob, and the
	// total number matching filter.
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*PatientRecord, int, error)
}

const patientCols = `name, dob, gender, height, weight, labs, notes`

// The columns carry no constraints, so NULLs read back as "".
const patientSelectCols = `COALESCE(name, ''), COALESCE(dob, ''), COALESCE(gender, ''),
	COALESCE(height, ''), COALESCE(weight, ''), COALESCE(labs, ''), COALESCE(notes, '')`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*PatientRecord, error) {
	var p PatientRecord
	var gender string
	if err := row.Scan(&p.Name, &p.DOB, &gender, &p.Height, &p.Weight, &p.Labs, &p.Notes); err != nil {
		return nil, err
	}
	p.Gender = Gender(gender)
	return &p, nil
}

// likePattern builds a substring LIKE pattern with \ as the escape
// character.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

package intake

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opp/planner/internal/domain/labs"
)

var ErrInvalidGender = errors.New("gender must be Female, Male or Other")

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
	GenderOther  Gender = "Other"
)

// ParseGender accepts the three form options case-insensitively. An empty
// value selects Female, the form's first option.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "female":
		return GenderFemale, nil
	case "male":
		return GenderMale, nil
	case "other":
		return GenderOther, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidGender, s)
}

// PatientRecord is one saved intake. Records are append-only and may repeat.
type PatientRecord struct {
	Name   string `json:"name"`
	DOB    string `json:"dob"`
	Gender Gender `json:"gender"`
	Height string `json:"height"`
	Weight string `json:"weight"`
	Labs   string `json:"labs"`
	Notes  string `json:"notes"`
}

// PatientSummary is a listed record with its lab summary decoded. LabValues
// is empty when the stored text is not a summary this version wrote.
type PatientSummary struct {
	*PatientRecord
	LabValues labs.Result `json:"lab_values"`
}

func summarize(records []*PatientRecord) []PatientSummary {
	out := make([]PatientSummary, 0, len(records))
	for _, r := range records {
		values, err := labs.ParseSummary(r.Labs)
		if err != nil {
			values = labs.Result{}
		}
		out = append(out, PatientSummary{PatientRecord: r, LabValues: values})
	}
	return out
}

// IntakeForm is the submitted form: demographics, the labs extracted from
// the uploaded report, and provider notes.
type IntakeForm struct {
	Name   string      `json:"name"`
	DOB    string      `json:"dob"`
	Gender string      `json:"gender"`
	Height string      `json:"height"`
	Weight string      `json:"weight"`
	Labs   labs.Result `json:"labs"`
	Notes  string      `json:"notes"`
}

// validate checks the lab names and resolves the gender.
func (f IntakeForm) validate() (Gender, error) {
	if err := f.Labs.Validate(); err != nil {
		return "", err
	}
	return ParseGender(f.Gender)
}

// Analysis is what an uploaded lab report yields.
type Analysis struct {
	Text       string          `json:"text"`
	Labs       labs.Result     `json:"labs"`
	Advisories []labs.Advisory `json:"advisories"`
}

type ListFilter struct {
	// Name matches a case-insensitive substring of the patient name.
	Name string
}

// CarePlanExport is returned after a care plan PDF has been generated.
type CarePlanExport struct {
	ID          string    `json:"id"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL string    `json:"download_url"`
}

package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/opp/planner/internal/domain/labs"
	"github.com/opp/planner/internal/platform/careplan"
	"github.com/opp/planner/internal/platform/exportstore"
	"github.com/opp/planner/internal/platform/pdftext"
)

type Service struct {
	patients PatientRepository
	exports  *exportstore.Store
	logger   zerolog.Logger
}

func NewService(patients PatientRepository, exports *exportstore.Store, logger zerolog.Logger) *Service {
	return &Service{patients: patients, exports: exports, logger: logger}
}

// Analyze extracts page text from an uploaded PDF, pulls lab values out of it
// and evaluates them. A document that cannot be read yields an empty
// analysis rather than an error.
func (s *Service) Analyze(ctx context.Context, r io.ReaderAt, size int64) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := pdftext.Extract(r, size)
	if err != nil {
		s.logger.Warn().Err(err).Int64("size", size).Msg("unreadable lab report, treating as empty")
		text = ""
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.analyzeText(text), nil
}

func (s *Service) analyzeText(text string) *Analysis {
	result := labs.Extract(text)
	advisories := labs.Evaluate(result)
	s.logger.Debug().Int("labs", len(result)).Int("advisories", len(advisories)).Msg("lab report analyzed")
	return &Analysis{Text: text, Labs: result, Advisories: advisories}
}

// Evaluate runs the threshold rules over labs supplied directly.
func (s *Service) Evaluate(r labs.Result) ([]labs.Advisory, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return labs.Evaluate(r), nil
}

// Save appends a patient record built from form.
func (s *Service) Save(ctx context.Context, form IntakeForm) (*PatientRecord, error) {
	gender, err := form.validate()
	if err != nil {
		return nil, err
	}
	rec := &PatientRecord{
		Name:   form.Name,
		DOB:    form.DOB,
		Gender: gender,
		Height: form.Height,
		Weight: form.Weight,
		Labs:   form.Labs.Summary(),
		Notes:  form.Notes,
	}
	if err := s.patients.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save patient: %w", err)
	}
	s.logger.Info().Int("labs", len(form.Labs)).Msg("patient record saved")
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*PatientRecord, int, error) {
	return s.patients.List(ctx, filter, limit, offset)
}

// CarePlan assembles the printable plan for form.
func (s *Service) CarePlan(form IntakeForm) (careplan.Plan, error) {
	gender, err := form.validate()
	if err != nil {
		return careplan.Plan{}, err
	}
	return careplan.Plan{
		Name:            form.Name,
		DOB:             form.DOB,
		Gender:          string(gender),
		Height:          form.Height,
		Weight:          form.Weight,
		Labs:            form.Labs,
		Advisories:      labs.Evaluate(form.Labs),
		Recommendations: labs.Recommendations(),
		Notes:           form.Notes,
	}, nil
}

// ExportCarePlan renders the care plan and keeps it in the export store
// until it is downloaded or swept.
func (s *Service) ExportCarePlan(ctx context.Context, form IntakeForm) (exportstore.Meta, error) {
	plan, err := s.CarePlan(form)
	if err != nil {
		return exportstore.Meta{}, err
	}

	var buf bytes.Buffer
	if err := careplan.Render(&buf, plan); err != nil {
		return exportstore.Meta{}, fmt.Errorf("render care plan: %w", err)
	}

	meta, err := s.exports.Save(ctx, &buf)
	if err != nil {
		return exportstore.Meta{}, err
	}
	s.logger.Info().Str("export_id", meta.ID).Int64("size", meta.Size).Msg("care plan exported")
	return meta, nil
}

// OpenExport returns a previously exported care plan. The caller closes the
// file.
func (s *Service) OpenExport(id string) (*os.File, exportstore.Meta, error) {
	return s.exports.Open(id)
}

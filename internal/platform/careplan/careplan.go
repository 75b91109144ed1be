// Package careplan renders the printable care plan handed to the patient.
package careplan

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/opp/planner/internal/domain/labs"
)

// Title is printed at the top of every care plan.
const Title = "Optimal Protocol Planner: AI Care Plan"

// Plan is everything that appears on a rendered care plan.
type Plan struct {
	Name            string
	DOB             string
	Gender          string
	Height          string
	Weight          string
	Labs            labs.Result
	Advisories      []labs.Advisory
	Recommendations []string
	Notes           string
}

// Render writes the plan as an A4 PDF to w.
func Render(w io.Writer, p Plan) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(Title, true)
	doc.SetCreator("opp-server", true)
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.CellFormat(0, 10, tr(Title), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 10, tr(fmt.Sprintf("Patient: %s, DOB: %s, Gender: %s", p.Name, p.DOB, p.Gender)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 10, tr(fmt.Sprintf("Height: %s | Weight: %s", p.Height, p.Weight)), "", 1, "L", false, 0, "")
	doc.Ln(10)

	for _, e := range p.Labs.Sorted() {
		doc.CellFormat(0, 10, tr(fmt.Sprintf("%s: %s", e.Lab, labs.FormatValue(e.Value))), "", 1, "L", false, 0, "")
	}
	doc.Ln(5)

	if len(p.Advisories) > 0 {
		doc.MultiCell(0, 10, "Lab Alerts:", "", "L", false)
		for _, a := range p.Advisories {
			doc.MultiCell(0, 10, tr("- "+a.Message), "", "L", false)
		}
		doc.Ln(5)
	}

	doc.MultiCell(0, 10, "Recommendations:", "", "L", false)
	for _, r := range p.Recommendations {
		doc.MultiCell(0, 10, tr("- "+r), "", "L", false)
	}
	doc.Ln(5)
	doc.MultiCell(0, 10, tr("Provider Notes: "+p.Notes), "", "L", false)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render care plan: %w", err)
	}
	return nil
}

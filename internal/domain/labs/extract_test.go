package labs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract_EachKeyword(t *testing.T) {
	tests := []struct {
		text string
		lab  LabName
		want float64
	}{
		{"Glucose 110", Glucose, 110},
		{"Testosterone 30", Testosterone, 30},
		{"Estradiol 45", Estradiol, 45},
		{"TSH 2.35", TSH, 2.35},
		{"Free T3 3.1", FreeT3, 3.1},
		{"Free T4 1.2", FreeT4, 1.2},
		{"TSH 3", TSH, 3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Extract("Patient report\n" + tt.text + " units\n")
			v, ok := got[tt.lab]
			if !ok {
				t.Fatalf("expected %s in result %v", tt.lab, got)
			}
			if v != tt.want {
				t.Errorf("expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestExtract_FullReport(t *testing.T) {
	text := `LabCorp Results
Glucose, Serum 94 mg/dL
Testosterone, Total 512 ng/dL
Estradiol 38.5 pg/mL
TSH 5.1 uIU/mL
Free T3 3.2 pg/mL
Free T4 1.31 ng/dL`

	want := Result{
		Glucose:      94,
		Testosterone: 512,
		Estradiol:    38.5,
		TSH:          5.1,
		FreeT3:       3.2,
		FreeT4:       1.31,
	}
	if diff := cmp.Diff(want, Extract(text)); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoKeywords(t *testing.T) {
	got := Extract("Hemoglobin 13.5 g/dL\nPlatelets 250")
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if got == nil {
		t.Error("expected non-nil empty result")
	}
}

func TestExtract_EmptyText(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	got := Extract("GLUCOSE: 120\nfree t4 0.9")
	want := Result{Glucose: 120, FreeT4: 0.9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FirstOccurrenceWins(t *testing.T) {
	got := Extract("Glucose 88\nGlucose 140")
	if got[Glucose] != 88 {
		t.Errorf("expected first occurrence 88, got %v", got[Glucose])
	}
}

func TestExtract_ValueOnNextLine(t *testing.T) {
	got := Extract("Glucose\n105\nmg/dL")
	if got[Glucose] != 105 {
		t.Errorf("expected 105, got %v", got[Glucose])
	}
}

func TestExtract_SkipsReferenceRange(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"range before value", "Glucose (70-99) 110 mg/dL", 110},
		{"range after value", "Glucose 110 mg/dL 70-99", 110},
		{"en dash range", "TSH 0.45–4.5 6.2", 6.2},
		{"spaced range", "Estradiol 15 - 350 12", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			var v float64
			for _, e := range got.Sorted() {
				v = e.Value
			}
			if v != tt.want {
				t.Errorf("expected %v, got %v (%v)", tt.want, v, got)
			}
		})
	}
}

func TestExtract_OnlyRangeFallsBackToFirstNumber(t *testing.T) {
	got := Extract("Glucose 70-99\nTSH 2.1")
	if got[Glucose] != 70 {
		t.Errorf("expected fallback to 70, got %v", got[Glucose])
	}
	if got[TSH] != 2.1 {
		t.Errorf("expected TSH 2.1, got %v", got[TSH])
	}
}

func TestExtract_FallbackSkipsReferenceRange(t *testing.T) {
	got := Extract("Glucose 70-99\nGlucose 110 mg/dL")
	if got[Glucose] != 110 {
		t.Errorf("expected 110 after the range, got %v", got[Glucose])
	}
}

func TestExtract_FallbackStopsAtNextLab(t *testing.T) {
	got := Extract("Glucose\nTSH 2.1")
	if _, ok := got[Glucose]; ok {
		t.Errorf("expected no Glucose value, got %v", got[Glucose])
	}
	if got[TSH] != 2.1 {
		t.Errorf("expected TSH 2.1, got %v", got[TSH])
	}
}

func TestExtract_KeywordWithoutNumber(t *testing.T) {
	got := Extract("Glucose pending")
	if _, ok := got[Glucose]; ok {
		t.Errorf("expected no Glucose value, got %v", got)
	}
}

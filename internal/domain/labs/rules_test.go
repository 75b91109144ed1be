package labs

import (
	"testing"
)

func TestEvaluate_ElevatedGlucose(t *testing.T) {
	got := Evaluate(Result{Glucose: 110})
	if len(got) != 1 {
		t.Fatalf("expected 1 advisory, got %d: %v", len(got), got)
	}
	if got[0].Lab != Glucose {
		t.Errorf("expected Glucose advisory, got %s", got[0].Lab)
	}
	if got[0].Message != "Elevated Glucose: Recommend Tesamorelin and MOTs-C." {
		t.Errorf("unexpected message: %s", got[0].Message)
	}
	if got[0].Severity != SeverityInfo {
		t.Errorf("expected info severity, got %s", got[0].Severity)
	}
}

func TestEvaluate_LowTestosterone(t *testing.T) {
	got := Evaluate(Result{Testosterone: 30})
	if len(got) != 1 || got[0].Lab != Testosterone {
		t.Fatalf("expected low testosterone advisory, got %v", got)
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", got[0].Severity)
	}
}

func TestEvaluate_Empty(t *testing.T) {
	got := Evaluate(Result{})
	if len(got) != 0 {
		t.Errorf("expected no advisories, got %v", got)
	}
	if got := Evaluate(nil); len(got) != 0 {
		t.Errorf("expected no advisories for nil result, got %v", got)
	}
}

func TestEvaluate_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		in      Result
		trigger bool
	}{
		{"glucose at limit", Result{Glucose: 100}, false},
		{"glucose above", Result{Glucose: 100.5}, true},
		{"testosterone at limit", Result{Testosterone: 40}, false},
		{"testosterone below", Result{Testosterone: 39.9}, true},
		{"estradiol at limit", Result{Estradiol: 20}, false},
		{"estradiol below", Result{Estradiol: 19}, true},
		{"tsh at limit", Result{TSH: 4.5}, false},
		{"tsh above", Result{TSH: 4.51}, true},
		{"free t3 has no rule", Result{FreeT3: 100}, false},
		{"free t4 has no rule", Result{FreeT4: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in)
			if (len(got) == 1) != tt.trigger {
				t.Errorf("expected trigger=%v, got %v", tt.trigger, got)
			}
		})
	}
}

func TestEvaluate_AllRulesIndependent(t *testing.T) {
	got := Evaluate(Result{Glucose: 150, Testosterone: 10, Estradiol: 5, TSH: 9, FreeT3: 2})
	msgs := Messages(got)
	want := []string{
		"Elevated Glucose: Recommend Tesamorelin and MOTs-C.",
		"Low Testosterone: Consider Testosterone Cypionate or cream.",
		"Low Estradiol: Evaluate hormone balancing.",
		"High TSH: Possible hypothyroidism.",
	}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d: expected %q, got %q", i, want[i], msgs[i])
		}
	}
}

func TestRecommendations_Copy(t *testing.T) {
	r := Recommendations()
	if len(r) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(r))
	}
	r[0] = "changed"
	if Recommendations()[0] == "changed" {
		t.Error("Recommendations must return a copy")
	}
}

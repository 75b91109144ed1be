package labs

// Severity grades an advisory.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Advisory is a recommendation triggered by a threshold rule.
type Advisory struct {
	Lab      LabName  `json:"lab"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type rule struct {
	lab      LabName
	severity Severity
	message  string
	trigger  func(v float64) bool
}

// rules are independent; a lab missing from the result never triggers its
// own rule.
var rules = []rule{
	{
		lab:      Glucose,
		severity: SeverityInfo,
		message:  "Elevated Glucose: Recommend Tesamorelin and MOTs-C.",
		trigger:  func(v float64) bool { return v > 100 },
	},
	{
		lab:      Testosterone,
		severity: SeverityWarning,
		message:  "Low Testosterone: Consider Testosterone Cypionate or cream.",
		trigger:  func(v float64) bool { return v < 40 },
	},
	{
		lab:      Estradiol,
		severity: SeverityInfo,
		message:  "Low Estradiol: Evaluate hormone balancing.",
		trigger:  func(v float64) bool { return v < 20 },
	},
	{
		lab:      TSH,
		severity: SeverityWarning,
		message:  "High TSH: Possible hypothyroidism.",
		trigger:  func(v float64) bool { return v > 4.5 },
	},
}

// Evaluate applies the threshold rules to r. The returned slice is in rule
// order and is empty when nothing triggers.
func Evaluate(r Result) []Advisory {
	out := []Advisory{}
	for _, rl := range rules {
		v, ok := r[rl.lab]
		if !ok || !rl.trigger(v) {
			continue
		}
		out = append(out, Advisory{Lab: rl.lab, Severity: rl.severity, Message: rl.message})
	}
	return out
}

// Messages returns the advisory texts.
func Messages(advisories []Advisory) []string {
	out := make([]string, 0, len(advisories))
	for _, a := range advisories {
		out = append(out, a.Message)
	}
	return out
}

var recommendations = []string{
	"Tesamorelin (3mg/ml): Reduces abdominal fat. 20 units SQ daily x6 days/week.",
	"Fat Burner Plus Blend: AOD-9604 / MOTs-C / Tesamorelin / Ipamorelin - 20 units SQ daily M-F.",
	"CJC-1295 / Ipamorelin: Promotes recovery and sleep. Inject 5 nights/week.",
	"GHK-Cu / Epithalon: Regeneration and anti-aging. Inject 20 units SQ M-F.",
	"Testosterone therapy pending lab validation.",
}

// Recommendations returns the standing care plan list printed on every plan.
func Recommendations() []string {
	out := make([]string, len(recommendations))
	copy(out, recommendations)
	return out
}

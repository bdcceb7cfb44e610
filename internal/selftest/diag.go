package selftest

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Diagnostic is the outcome of one test.
type Diagnostic struct {
	Test           Kind           `yaml:"test"`
	Severity       Severity       `yaml:"severity"`
	Code           string         `yaml:"code"`
	Summary        string         `yaml:"summary"`
	Detail         string         `yaml:"detail,omitempty"`
	LikelyCauses   []string       `yaml:"likely_causes,omitempty"`
	SuggestedFixes []string       `yaml:"suggested_fixes,omitempty"`
	Evidence       map[string]any `yaml:"evidence,omitempty"`
}

// Failed reports whether any diagnostic is an error.
func Failed(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Err {
			return true
		}
	}
	return false
}

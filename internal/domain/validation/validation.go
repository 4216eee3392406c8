// Package validation holds the severity scale and flat issue list shared by
// the CI, repo and meta validators.
package validation

// Level orders validation severity. Higher values are worse.
type Level int

const (
	Valid Level = iota
	SubOptimal
	Invalid
)

func (l Level) String() string {
	switch l {
	case SubOptimal:
		return "SUBOPTIMAL"
	case Invalid:
		return "INVALID"
	default:
		return "VALID"
	}
}

// Issue is a single validation finding.
type Issue struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Result accumulates issues and tracks the worst level seen.
type Result struct {
	level  Level
	issues []Issue
}

func (r *Result) Add(level Level, message string) {
	if level > r.level {
		r.level = level
	}
	r.issues = append(r.issues, Issue{Level: level, Message: message})
}

// MaxLevel is Valid when no issues were recorded.
func (r *Result) MaxLevel() Level {
	return r.level
}

func (r *Result) Issues() []Issue {
	return r.issues
}

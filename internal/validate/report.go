package validate

import "fmt"

// Report is the outcome of one validation call for one week. A fresh Report
// is created per call and never mutated after it is returned.
type Report struct {
	Week   int
	Valid  bool
	Issues []string
}

func newReport(week int, issues []string) *Report {
	return &Report{
		Week:   week,
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

// Summary renders the report as a single line for logs and alerts.
func (r *Report) Summary() string {
	if r.Valid {
		return fmt.Sprintf("week %d: ok", r.Week)
	}
	return fmt.Sprintf("week %d: %d issue(s): %v", r.Week, len(r.Issues), r.Issues)
}

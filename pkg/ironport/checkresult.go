package ironport

import (
	"strings"

	"github.com/consol-monitoring/check_ironport/pkg/convert"
)

// Severity is the state of a check, the numeric value is used as plugin exit code.
type Severity int64

const (
	// CheckExitOK is used for normal exits.
	CheckExitOK = Severity(0)

	// CheckExitWarning is used for warnings.
	CheckExitWarning = Severity(1)

	// CheckExitCritical is used for critical errors.
	CheckExitCritical = Severity(2)

	// CheckExitUnknown is used for when the check runs into a problem itself.
	CheckExitUnknown = Severity(3)
)

func (s Severity) String() string {
	return convert.StateString(int64(s))
}

// CheckResult is the result of a single check run.
type CheckResult struct {
	State   Severity
	Output  string
	Metrics []*CheckMetric
}

// PerfData returns the joined performance data, empty if there are no metrics.
func (cr *CheckResult) PerfData() string {
	if len(cr.Metrics) == 0 {
		return ""
	}
	perf := make([]string, 0, len(cr.Metrics))
	for _, m := range cr.Metrics {
		perf = append(perf, m.String())
	}

	return strings.Join(perf, " ")
}

// BuildPluginOutput returns the plugin output line including performance data.
func (cr *CheckResult) BuildPluginOutput() string {
	perf := cr.PerfData()
	if perf == "" {
		return cr.Output
	}

	return cr.Output + " | " + perf
}

// Render returns the output line and the exit code of this result.
func (cr *CheckResult) Render() (line string, exitCode int) {
	return cr.BuildPluginOutput(), int(cr.State)
}

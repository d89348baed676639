package ironport

import (
	"fmt"
	"strings"
)

// InstanceResult is the evaluated state of a single value, ex. one fan or
// one power supply.
type InstanceResult struct {
	Index  int // 1-based position in walk order
	State  Severity
	Label  string
	Metric *CheckMetric // optional
}

// CombineStates returns the overall state of all instances:
// any critical instance makes the result critical, otherwise the first
// warning or unknown instance sets the state. Warning and unknown are not
// ranked against each other.
func CombineStates(instances []InstanceResult) Severity {
	state := CheckExitOK
	seenProblem := false
	for i := range instances {
		switch instances[i].State {
		case CheckExitCritical:
			return CheckExitCritical
		case CheckExitWarning, CheckExitUnknown:
			if !seenProblem {
				state = instances[i].State
				seenProblem = true
			}
		case CheckExitOK:
		}
	}

	return state
}

// Combine folds all instances into a single CheckResult. Labels and metrics
// keep the instance order.
func Combine(header string, instances []InstanceResult) *CheckResult {
	result := &CheckResult{
		State: CombineStates(instances),
	}

	labels := make([]string, 0, len(instances))
	for i := range instances {
		if instances[i].Label != "" {
			labels = append(labels, instances[i].Label)
		}
		if instances[i].Metric != nil {
			result.Metrics = append(result.Metrics, instances[i].Metric)
		}
	}

	result.Output = fmt.Sprintf("%s %s - %s", header, result.State.String(), strings.Join(labels, " "))

	return result
}

// UnknownResult returns an unknown result using the error text as details.
func UnknownResult(header string, err error) *CheckResult {
	output := fmt.Sprintf("%s - %s", CheckExitUnknown.String(), err.Error())
	if header != "" {
		output = header + " " + output
	}

	return &CheckResult{
		State:  CheckExitUnknown,
		Output: output,
	}
}

package ironport

import (
	"errors"
	"fmt"

	"github.com/consol-monitoring/check_ironport/pkg/convert"
	"github.com/consol-monitoring/check_ironport/pkg/threshold"
)

var (
	// ErrNoInstances is returned if a table walk did not return any values.
	ErrNoInstances = errors.New("no instances found")

	// ErrSampleSize is returned if the number of values does not match the requested oids.
	ErrSampleSize = errors.New("unexpected number of values")
)

// Evaluate interprets the fetched values for given spec and returns the final result.
// Values must be in oid order for scalar kinds and in walk order for tables.
func Evaluate(spec *MetricSpec, values []interface{}, thresh *threshold.Threshold) (*CheckResult, error) {
	if spec.RequiresThresholds() && thresh == nil {
		return nil, threshold.ErrMissing
	}

	var instances []InstanceResult
	var err error
	switch spec.Kind {
	case KindPercentage, KindCount:
		if len(values) != 1 {
			return nil, fmt.Errorf("%w: got %d, expected 1", ErrSampleSize, len(values))
		}
		var inst InstanceResult
		inst, err = EvaluateValue(spec, values[0], thresh)
		instances = []InstanceResult{inst}
	case KindStatus:
		if len(values) != 1 {
			return nil, fmt.Errorf("%w: got %d, expected 1", ErrSampleSize, len(values))
		}
		instances = []InstanceResult{EvaluateStatus(spec.Codes, values[0])}
	case KindDualCount:
		if len(values) != 2 {
			return nil, fmt.Errorf("%w: got %d, expected 2", ErrSampleSize, len(values))
		}
		instances, err = EvaluateDual(spec, values[0], values[1], thresh)
	case KindStatusTable:
		if len(values) == 0 {
			return nil, fmt.Errorf("%w below %s", ErrNoInstances, spec.OIDs[0])
		}
		instances = EvaluateStatusTable(spec, values)
	case KindValueTable:
		if len(values) == 0 {
			return nil, fmt.Errorf("%w below %s", ErrNoInstances, spec.OIDs[0])
		}
		instances, err = EvaluateValueTable(spec, values, thresh)
	default:
		return nil, fmt.Errorf("unsupported kind: %s", spec.Kind.String())
	}
	if err != nil {
		return nil, err
	}

	return Combine(spec.Header, instances), nil
}

// EvaluateValue checks a single percentage or count value against the thresholds.
func EvaluateValue(spec *MetricSpec, raw interface{}, thresh *threshold.Threshold) (InstanceResult, error) {
	value, err := convert.Float64E(raw)
	if err != nil {
		return InstanceResult{}, fmt.Errorf("invalid value: %w", err)
	}
	num := convert.Num2String(value)
	label := num
	if spec.Detail != "" {
		label = fmt.Sprintf(spec.Detail, num)
	}
	name := spec.Type
	if len(spec.PerfLabels) > 0 {
		name = spec.PerfLabels[0]
	}

	return InstanceResult{
		Index:  1,
		State:  Severity(thresh.CheckValue(value)),
		Label:  label,
		Metric: NewCheckMetric(name, spec.Unit, value, thresh),
	}, nil
}

// EvaluateStatus maps a single status code, codes which cannot be parsed or
// are not part of the table result in an unknown state.
func EvaluateStatus(codes StatusTable, raw interface{}) InstanceResult {
	status := UnknownStatus
	if code, err := convert.Int64E(raw); err == nil {
		status = codes.Lookup(code)
	} else {
		log.Debugf("cannot parse status code: %s", err.Error())
	}

	return InstanceResult{
		Index: 1,
		State: status.State,
		Label: status.Label,
	}
}

// EvaluateDual checks the pending and outstanding counters against the same thresholds.
func EvaluateDual(spec *MetricSpec, pendingRaw, outstandingRaw interface{}, thresh *threshold.Threshold) ([]InstanceResult, error) {
	instances := make([]InstanceResult, 0, 2)
	for i, raw := range []interface{}{pendingRaw, outstandingRaw} {
		value, err := convert.Float64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.PerfLabels[i], err)
		}
		state := Severity(thresh.CheckValue(value))
		num := convert.Num2String(value)
		instances = append(instances, InstanceResult{
			Index:  i + 1,
			State:  state,
			Label:  fmt.Sprintf("%s=%s (%s)", spec.PerfLabels[i], num, state.String()),
			Metric: NewCheckMetric(spec.PerfLabels[i], spec.Unit, value, thresh),
		})
	}

	return instances, nil
}

// EvaluateStatusTable maps one status code per instance. Unknown codes only
// affect their own instance.
func EvaluateStatusTable(spec *MetricSpec, values []interface{}) []InstanceResult {
	instances := make([]InstanceResult, 0, len(values))
	for i, raw := range values {
		inst := EvaluateStatus(spec.Codes, raw)
		inst.Index = i + 1
		inst.Label = fmt.Sprintf("%s%d=%s (%s)", spec.Instance, inst.Index, inst.Label, inst.State.String())
		instances = append(instances, inst)
	}

	return instances
}

// EvaluateValueTable checks each instance value against the shared thresholds.
func EvaluateValueTable(spec *MetricSpec, values []interface{}, thresh *threshold.Threshold) ([]InstanceResult, error) {
	instances := make([]InstanceResult, 0, len(values))
	for i, raw := range values {
		name := fmt.Sprintf("%s%d", spec.Instance, i+1)
		value, err := convert.Float64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		state := Severity(thresh.CheckValue(value))
		num := convert.Num2String(value)
		if spec.Detail != "" {
			num = fmt.Sprintf(spec.Detail, num)
		}
		instances = append(instances, InstanceResult{
			Index:  i + 1,
			State:  state,
			Label:  fmt.Sprintf("%s=%s (%s)", name, num, state.String()),
			Metric: NewCheckMetric(name, spec.Unit, value, thresh),
		})
	}

	return instances, nil
}

package threshold

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/consol-monitoring/check_ironport/pkg/convert"
)

// exit codes returned by CheckValue, they match the monitoring plugin states
const (
	stateOK       = int64(0)
	stateWarning  = int64(1)
	stateCritical = int64(2)
)

// Threshold contains a warning and a critical level. Both levels are
// exclusive, a value must be strictly greater to reach the tier.
type Threshold struct {
	warning  float64
	critical float64
}

var (
	// ErrMissing is returned if one or both levels are not set.
	ErrMissing = errors.New("warning and critical thresholds are required")

	// ErrCriticalNotAboveWarning is returned if critical is not strictly bigger than warning.
	ErrCriticalNotAboveWarning = errors.New("critical threshold must be greater than warning threshold")
)

// NewThreshold constructs a new Threshold from the warning and critical
// arguments as given on the command line.
func NewThreshold(warning, critical string) (*Threshold, error) {
	warning = strings.TrimSpace(warning)
	critical = strings.TrimSpace(critical)
	if warning == "" || critical == "" {
		return nil, ErrMissing
	}

	warn, err := convert.Float64E(warning)
	if err != nil {
		return nil, fmt.Errorf("invalid warning threshold: %s", err.Error())
	}
	crit, err := convert.Float64E(critical)
	if err != nil {
		return nil, fmt.Errorf("invalid critical threshold: %s", err.Error())
	}

	return New(warn, crit)
}

// New returns a Threshold from numeric levels. Both levels must be finite.
func New(warning, critical float64) (*Threshold, error) {
	if math.IsNaN(warning) || math.IsInf(warning, 0) || math.IsNaN(critical) || math.IsInf(critical, 0) {
		return nil, fmt.Errorf("%w (warning: %v, critical: %v)", convert.ErrNotFinite, warning, critical)
	}
	if critical <= warning {
		return nil, fmt.Errorf("%w (warning: %s, critical: %s)",
			ErrCriticalNotAboveWarning, convert.Num2String(warning), convert.Num2String(critical))
	}

	return &Threshold{warning: warning, critical: critical}, nil
}

// Warning returns the warning level
func (t *Threshold) Warning() float64 {
	return t.warning
}

// Critical returns the critical level
func (t *Threshold) Critical() float64 {
	return t.critical
}

// WarningString returns the warning level formatted for performance data
func (t *Threshold) WarningString() string {
	return convert.Num2String(t.warning)
}

// CriticalString returns the critical level formatted for performance data
func (t *Threshold) CriticalString() string {
	return convert.Num2String(t.critical)
}

// String prints the Threshold
func (t Threshold) String() string {
	return fmt.Sprintf("warning > %s, critical > %s", convert.Num2String(t.warning), convert.Num2String(t.critical))
}

// CheckValue returns the plugin state for given value:
// 2 if value is above critical, 1 if value is above warning, 0 otherwise.
func (t *Threshold) CheckValue(value float64) int64 {
	switch {
	case value > t.critical:
		return stateCritical
	case value > t.warning:
		return stateWarning
	}

	return stateOK
}

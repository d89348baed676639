package ironport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/consol-monitoring/check_ironport/pkg/convert"
	"github.com/consol-monitoring/check_ironport/pkg/threshold"
)

// CheckMetric contains a single performance value.
type CheckMetric struct {
	Name     string
	Unit     string
	Value    interface{}
	Warning  string
	Critical string
}

// NewCheckMetric returns a metric with warning and critical taken from given threshold.
func NewCheckMetric(name, unit string, value interface{}, th *threshold.Threshold) *CheckMetric {
	metric := &CheckMetric{
		Name:  name,
		Unit:  unit,
		Value: value,
	}
	if th != nil {
		metric.Warning = th.WarningString()
		metric.Critical = th.CriticalString()
	}

	return metric
}

func (m *CheckMetric) String() string {
	var res bytes.Buffer

	// Unknown value
	if fmt.Sprintf("%v", m.Value) == "U" {
		return fmt.Sprintf("'%s'=U", m.Name)
	}

	res.WriteString(fmt.Sprintf("'%s'=%s%s", m.Name, convert.Num2String(m.Value), m.Unit))
	res.WriteString(";")
	res.WriteString(m.Warning)
	res.WriteString(";")
	res.WriteString(m.Critical)

	resStr := res.String()
	// strip trailing semicolons
	for strings.HasSuffix(resStr, ";") {
		resStr = strings.TrimSuffix(resStr, ";")
	}

	return resStr
}

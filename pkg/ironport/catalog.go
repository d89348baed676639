package ironport

import (
	"errors"
	"fmt"
	"sort"
)

// OIDBase is the asyncOSMailObjects subtree of the ASYNCOS-MAIL-MIB.
const OIDBase = ".1.3.6.1.4.1.15497.1.1.1"

// ErrUnknownType is returned for check types not in the catalog.
var ErrUnknownType = errors.New("unknown check type")

// Kind defines how fetched values are interpreted.
type Kind uint8

const (
	KindPercentage  Kind = iota // single numeric value in percent
	KindCount                   // single numeric value
	KindStatus                  // single enumerated status code
	KindDualCount               // two numeric values sharing the thresholds
	KindStatusTable             // one enumerated status code per instance
	KindValueTable              // one numeric value per instance
)

func (k Kind) String() string {
	switch k {
	case KindPercentage:
		return "raw-percentage"
	case KindCount:
		return "raw-count"
	case KindStatus:
		return "enumerated-status"
	case KindDualCount:
		return "dual-raw-count"
	case KindStatusTable:
		return "table-of-enumerated-status"
	case KindValueTable:
		return "table-of-raw-value"
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsTable returns true if values are fetched with a table walk.
func (k Kind) IsTable() bool {
	return k == KindStatusTable || k == KindValueTable
}

// StatusCode maps a device status code to a plugin state.
type StatusCode struct {
	State Severity
	Label string
}

// StatusTable contains all known codes of an enumerated status.
type StatusTable map[int64]StatusCode

// UnknownStatus is used for codes outside of a StatusTable.
var UnknownStatus = StatusCode{State: CheckExitUnknown, Label: "Unknown"}

// Lookup returns the status for given code.
func (st StatusTable) Lookup(code int64) StatusCode {
	if status, ok := st[code]; ok {
		return status
	}

	return UnknownStatus
}

// MetricSpec describes a single check type. Resolve hands out copies, catalog entries never change.
type MetricSpec struct {
	Type       string
	OIDs       []string
	Kind       Kind
	Header     string      // used as first word(s) of the plugin output
	Detail     string      // fmt syntax for scalar values, receives the formatted value
	PerfLabels []string    // performance data labels, one per OID for scalar kinds
	Unit       string      // performance data unit
	Instance   string      // label prefix for table instances
	Codes      StatusTable // known status codes for enumerated kinds
}

// RequiresThresholds returns true if warning and critical must be supplied.
func (m *MetricSpec) RequiresThresholds() bool {
	switch m.Kind {
	case KindPercentage, KindCount, KindDualCount, KindValueTable:
		return true
	case KindStatus, KindStatusTable:
		return false
	}

	return false
}

var (
	queueAvailabilityCodes = StatusTable{
		1: {CheckExitOK, "Space available"},
		2: {CheckExitWarning, "Space shortage"},
		3: {CheckExitCritical, "Full"},
	}

	memoryAvailabilityCodes = StatusTable{
		1: {CheckExitOK, "Memory available"},
		2: {CheckExitWarning, "Memory shortage"},
		3: {CheckExitCritical, "Memory full"},
	}

	resourceConservationCodes = StatusTable{
		1: {CheckExitOK, "No resource conservation"},
		2: {CheckExitWarning, "Memory shortage"},
		3: {CheckExitWarning, "Queue space shortage"},
		4: {CheckExitCritical, "Queue full"},
	}

	powerSupplyStatusCodes = StatusTable{
		1: {CheckExitWarning, "Not installed"},
		2: {CheckExitOK, "Healthy"},
		3: {CheckExitCritical, "No AC"},
		4: {CheckExitCritical, "Faulty"},
	}

	powerSupplyRedundancyCodes = StatusTable{
		1: {CheckExitOK, "Redundancy OK"},
		2: {CheckExitCritical, "Redundancy lost"},
	}

	raidStatusCodes = StatusTable{
		1: {CheckExitOK, "Healthy"},
		2: {CheckExitCritical, "Failure"},
		3: {CheckExitWarning, "Rebuilding"},
	}
)

var catalog = map[string]*MetricSpec{
	"mem": {
		Type: "mem", OIDs: []string{OIDBase + ".1.0"}, Kind: KindPercentage,
		Header: "Memory", Detail: "Memory utilization is %s%%", PerfLabels: []string{"mem"}, Unit: "%",
	},
	"cpu": {
		Type: "cpu", OIDs: []string{OIDBase + ".2.0"}, Kind: KindPercentage,
		Header: "CPU", Detail: "CPU utilization is %s%%", PerfLabels: []string{"cpu"}, Unit: "%",
	},
	"diskio": {
		Type: "diskio", OIDs: []string{OIDBase + ".3.0"}, Kind: KindPercentage,
		Header: "Disk I/O", Detail: "Disk I/O utilization is %s%%", PerfLabels: []string{"diskio"}, Unit: "%",
	},
	"queue": {
		Type: "queue", OIDs: []string{OIDBase + ".4.0"}, Kind: KindPercentage,
		Header: "Queue", Detail: "Queue utilization is %s%%", PerfLabels: []string{"queue"}, Unit: "%",
	},
	"queueavail": {
		Type: "queueavail", OIDs: []string{OIDBase + ".5.0"}, Kind: KindStatus,
		Header: "Queue availability", Codes: queueAvailabilityCodes,
	},
	"resourceconservation": {
		Type: "resourceconservation", OIDs: []string{OIDBase + ".6.0"}, Kind: KindStatus,
		Header: "Resource conservation", Codes: resourceConservationCodes,
	},
	"memoryavail": {
		Type: "memoryavail", OIDs: []string{OIDBase + ".7.0"}, Kind: KindStatus,
		Header: "Memory availability", Codes: memoryAvailabilityCodes,
	},
	"psstatus": {
		Type: "psstatus", OIDs: []string{OIDBase + ".8.1.2"}, Kind: KindStatusTable,
		Header: "Power Supply status", Instance: "PS ", Codes: powerSupplyStatusCodes,
	},
	"psredundancy": {
		Type: "psredundancy", OIDs: []string{OIDBase + ".8.1.3"}, Kind: KindStatusTable,
		Header: "Power Supply redundancy", Instance: "PS ", Codes: powerSupplyRedundancyCodes,
	},
	"temperature": {
		Type: "temperature", OIDs: []string{OIDBase + ".9.1.2.1"}, Kind: KindCount,
		Header: "Temperature", Detail: "Temperature is %s °C", PerfLabels: []string{"temperature"},
	},
	"fan": {
		Type: "fan", OIDs: []string{OIDBase + ".10.1.2"}, Kind: KindValueTable,
		Header: "Fan status", Detail: "%s RPM", Instance: "Fan",
	},
	"workqueue": {
		Type: "workqueue", OIDs: []string{OIDBase + ".11.0"}, Kind: KindCount,
		Header: "Work queue", Detail: "%s messages in work queue", PerfLabels: []string{"workqueue"},
	},
	"dns": {
		Type: "dns", OIDs: []string{OIDBase + ".16.0", OIDBase + ".15.0"}, Kind: KindDualCount,
		Header: "DNS requests", PerfLabels: []string{"pending", "outstanding"},
	},
	"raid": {
		Type: "raid", OIDs: []string{OIDBase + ".18.1.2"}, Kind: KindStatusTable,
		Header: "RAID status", Instance: "Drive", Codes: raidStatusCodes,
	},
	"openfiles": {
		Type: "openfiles", OIDs: []string{OIDBase + ".19.0"}, Kind: KindCount,
		Header: "Open files", Detail: "%s open files or sockets", PerfLabels: []string{"openfiles"},
	},
	"mailtransferthreads": {
		Type: "mailtransferthreads", OIDs: []string{OIDBase + ".20.0"}, Kind: KindCount,
		Header: "Mail transfer threads", Detail: "%s mail transfer threads", PerfLabels: []string{"mailtransferthreads"},
	},
}

// Resolve returns a copy of the MetricSpec for given check type.
func Resolve(checkType string) (*MetricSpec, error) {
	spec, ok := catalog[checkType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, checkType)
	}

	return spec.clone(), nil
}

// clone returns a deep copy, so callers cannot change catalog entries.
func (m *MetricSpec) clone() *MetricSpec {
	spec := *m
	spec.OIDs = append([]string(nil), m.OIDs...)
	if m.PerfLabels != nil {
		spec.PerfLabels = append([]string(nil), m.PerfLabels...)
	}
	if m.Codes != nil {
		spec.Codes = make(StatusTable, len(m.Codes))
		for code, status := range m.Codes {
			spec.Codes[code] = status
		}
	}

	return &spec
}

// Types returns all available check types, sorted by name.
func Types() []string {
	types := make([]string, 0, len(catalog))
	for name := range catalog {
		types = append(types, name)
	}
	sort.Strings(types)

	return types
}

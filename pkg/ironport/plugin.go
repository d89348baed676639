package ironport

import (
	"context"
	"fmt"
)

const (
	// NAME contains the plugin name.
	NAME = "check_ironport"

	// VERSION contains the actual plugin version.
	VERSION = "1.0"

	// ExitCodeOK is used for normal exits.
	ExitCodeOK = 0

	// ExitCodeUnknown is used for usage and configuration errors.
	ExitCodeUnknown = 3
)

// Plugin runs checks against a single appliance.
type Plugin struct {
	// NewClient creates the snmp client, it is not called for invalid configurations.
	NewClient func(conf *SNMPConfig) (Client, error)
}

// NewPlugin returns a plugin using gosnmp.
func NewPlugin() *Plugin {
	return &Plugin{
		NewClient: func(conf *SNMPConfig) (Client, error) {
			return NewSNMPClient(conf)
		},
	}
}

// Run validates the flags and runs the check. It always returns a result,
// failures are reported as unknown.
func (p *Plugin) Run(ctx context.Context, flags *PluginFlags) *CheckResult {
	conf, err := BuildCheckConfig(flags)
	if err != nil {
		log.Debugf("configuration error: %s", err.Error())

		return UnknownResult("", err)
	}

	return p.RunCheck(ctx, conf)
}

// RunCheck fetches and evaluates the values for a validated configuration.
func (p *Plugin) RunCheck(ctx context.Context, conf *CheckConfig) *CheckResult {
	spec := conf.Spec

	client, err := p.NewClient(&conf.SNMP)
	if err != nil {
		return UnknownResult(spec.Header, err)
	}
	defer func() {
		LogDebug(client.Close())
	}()

	ctx, cancel := context.WithTimeout(ctx, conf.SNMP.Deadline())
	defer cancel()

	values, err := Fetch(ctx, client, spec)
	if err != nil {
		log.Debugf("fetching %s failed: %s", spec.Type, err.Error())

		return UnknownResult(spec.Header, err)
	}

	result, err := Evaluate(spec, values, conf.Threshold)
	if err != nil {
		log.Debugf("evaluating %s failed: %s", spec.Type, err.Error())

		return UnknownResult(spec.Header, err)
	}
	log.Debugf("%s: %s", spec.Type, result.Output)

	return result
}

// Fetch requests all values required by given spec: one get for scalar kinds,
// one walk for tables.
func Fetch(ctx context.Context, client Client, spec *MetricSpec) ([]interface{}, error) {
	if spec.Kind.IsTable() {
		values, err := client.Walk(ctx, spec.OIDs[0])
		if err != nil {
			return nil, err //nolint:wrapcheck // transport errors are reported verbatim
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w below %s", ErrNoInstances, spec.OIDs[0])
		}

		return values, nil
	}

	values, err := client.Get(ctx, spec.OIDs...)
	if err != nil {
		return nil, err //nolint:wrapcheck // transport errors are reported verbatim
	}

	return values, nil
}

package ironport

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consol-monitoring/check_ironport/pkg/threshold"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCommunity    = "public"
	DefaultSNMPVersion  = "2c"
	DefaultPort         = uint16(161)
	DefaultTimeout      = 10
	DefaultRetries      = 1
	DefaultAuthProtocol = "SHA"
	DefaultPrivProtocol = "none"
)

var (
	// ErrMissingType is returned if no check type has been set.
	ErrMissingType = errors.New("check type (-t) is required")

	// ErrMissingHost is returned if no host has been set.
	ErrMissingHost = errors.New("host (-H) is required")
)

// ConfigError marks errors in the plugin configuration, they are reported
// before any snmp request is sent.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PluginFlags contains the raw command line arguments.
type PluginFlags struct {
	Help    bool
	Version bool

	ConfigFile string
	LogLevel   string
	LogFile    string
	LogFormat  string

	Type     string
	Warning  string
	Critical string

	Host           string
	Port           uint16
	Community      string
	SNMPVersion    string
	User           string
	Passphrase     string
	AuthProtocol   string
	PrivProtocol   string
	PrivPassphrase string
	ContextName    string
	Timeout        int
	Retries        int
}

// CheckConfig is the validated configuration of a single check run.
type CheckConfig struct {
	Spec      *MetricSpec
	Threshold *threshold.Threshold // nil if the check type does not use thresholds
	SNMP      SNMPConfig
}

// BuildCheckConfig validates the flags, merges them with the optional
// connection profile and resolves the check type.
func BuildCheckConfig(flags *PluginFlags) (*CheckConfig, error) {
	if flags.Type == "" {
		return nil, &ConfigError{Err: ErrMissingType}
	}
	spec, err := Resolve(flags.Type)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("%w (available types: %s)", err, strings.Join(Types(), ", "))}
	}

	conf := &CheckConfig{Spec: spec, SNMP: SNMPConfig{Retries: -1}}
	if flags.ConfigFile != "" {
		profile, err := ReadSNMPConfig(flags.ConfigFile)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		conf.SNMP = *profile
	}
	conf.SNMP.merge(flags)
	conf.SNMP.applyDefaults()

	if err := conf.SNMP.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	if spec.RequiresThresholds() {
		thresh, err := threshold.NewThreshold(flags.Warning, flags.Critical)
		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("check type %s: %w", spec.Type, err)}
		}
		conf.Threshold = thresh
	} else if flags.Warning != "" || flags.Critical != "" {
		log.Debugf("check type %s does not use thresholds, ignoring -w/-c", spec.Type)
	}

	return conf, nil
}

// ReadSNMPConfig reads a yaml connection profile.
func ReadSNMPConfig(path string) (*SNMPConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %s", err.Error())
	}

	// negative retries mark the value as unset
	conf := &SNMPConfig{Retries: -1}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %s", path, err.Error())
	}
	log.Debugf("read connection profile from %s", path)

	return conf, nil
}

// merge overrides profile values with values set on the command line.
func (c *SNMPConfig) merge(flags *PluginFlags) {
	mergeString(&c.IPAddress, flags.Host)
	mergeString(&c.CommunityString, flags.Community)
	mergeString(&c.Version, flags.SNMPVersion)
	mergeString(&c.Username, flags.User)
	mergeString(&c.AuthKey, flags.Passphrase)
	mergeString(&c.AuthProtocol, flags.AuthProtocol)
	mergeString(&c.PrivProtocol, flags.PrivProtocol)
	mergeString(&c.PrivKey, flags.PrivPassphrase)
	mergeString(&c.Context, flags.ContextName)
	if flags.Port != 0 {
		c.Port = flags.Port
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.Retries >= 0 {
		c.Retries = flags.Retries
	}
}

func (c *SNMPConfig) applyDefaults() {
	if c.CommunityString == "" {
		c.CommunityString = DefaultCommunity
	}
	if c.Version == "" {
		c.Version = DefaultSNMPVersion
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = DefaultRetries
	}
	if c.AuthProtocol == "" {
		c.AuthProtocol = DefaultAuthProtocol
	}
	if c.PrivProtocol == "" {
		c.PrivProtocol = DefaultPrivProtocol
	}
}

func mergeString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

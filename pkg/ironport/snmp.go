package ironport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

var (
	// ErrMissingUser is returned for snmp v3 without user name.
	ErrMissingUser = errors.New("user (-U) is required for snmp version 3")

	// ErrMissingPassphrase is returned for snmp v3 without passphrase.
	ErrMissingPassphrase = errors.New("passphrase (-P) is required for snmp version 3")

	// ErrMissingPrivPassphrase is returned if a privacy protocol is set without passphrase.
	ErrMissingPrivPassphrase = errors.New("privacy passphrase (-X) is required if a privacy protocol is set")
)

// Client fetches values from the appliance.
type Client interface {
	// Get returns one value per oid, in the same order.
	Get(ctx context.Context, oids ...string) ([]interface{}, error)
	// Walk returns all values below rootOid in walk order.
	Walk(ctx context.Context, rootOid string) ([]interface{}, error)
	Close() error
}

// SNMPConfig contains the connection settings for a single appliance.
// YAML field tags are used to read connection profiles.
type SNMPConfig struct {
	// General
	IPAddress string `yaml:"ip_address"`
	Port      uint16 `yaml:"port"`
	Version   string `yaml:"snmp_version"`
	Timeout   int    `yaml:"timeout"`
	Retries   int    `yaml:"retries"`
	// v1 & 2c
	CommunityString string `yaml:"community_string"`
	// v3
	Username     string `yaml:"user"`
	AuthProtocol string `yaml:"authProtocol"`
	AuthKey      string `yaml:"authKey"`
	PrivProtocol string `yaml:"privProtocol"`
	PrivKey      string `yaml:"privKey"`
	Context      string `yaml:"context_name"`
}

// Validate checks the connection settings without contacting the device.
func (c *SNMPConfig) Validate() error {
	if c.IPAddress == "" {
		return ErrMissingHost
	}

	version, err := BuildVersion(c.Version)
	if err != nil {
		return err
	}
	if version != gosnmp.Version3 {
		return nil
	}

	if c.Username == "" {
		return ErrMissingUser
	}
	if c.AuthKey == "" {
		return ErrMissingPassphrase
	}
	if _, err := BuildAuthProtocol(c.AuthProtocol); err != nil {
		return err
	}
	priv, err := BuildPrivProtocol(c.PrivProtocol)
	if err != nil {
		return err
	}
	if priv != gosnmp.NoPriv && c.PrivKey == "" {
		return ErrMissingPrivPassphrase
	}

	return nil
}

// Deadline returns the maximum time all requests including retries may take.
func (c *SNMPConfig) Deadline() time.Duration {
	return time.Duration(c.Timeout*(c.Retries+1)+1) * time.Second
}

// BuildVersion returns a GoSNMP version value from a string value.
func BuildVersion(value string) (gosnmp.SnmpVersion, error) {
	switch value {
	case "1":
		return gosnmp.Version1, nil
	case "2", "2c":
		return gosnmp.Version2c, nil
	case "3":
		return gosnmp.Version3, nil
	default:
		return 0, fmt.Errorf("unsupported snmp version: '%s' (possible values are '1', '2c' and '3')", value)
	}
}

// BuildAuthProtocol returns the GoSNMP authentication protocol from a string value.
func BuildAuthProtocol(value string) (gosnmp.SnmpV3AuthProtocol, error) {
	switch strings.ToUpper(value) {
	case "MD5":
		return gosnmp.MD5, nil
	case "SHA", "SHA1":
		return gosnmp.SHA, nil
	case "SHA224":
		return gosnmp.SHA224, nil
	case "SHA256":
		return gosnmp.SHA256, nil
	case "SHA384":
		return gosnmp.SHA384, nil
	case "SHA512":
		return gosnmp.SHA512, nil
	default:
		return gosnmp.NoAuth, fmt.Errorf("unsupported authentication protocol: '%s' (possible values are MD5, SHA, SHA224, SHA256, SHA384, SHA512)", value)
	}
}

// BuildPrivProtocol returns the GoSNMP privacy protocol from a string value.
func BuildPrivProtocol(value string) (gosnmp.SnmpV3PrivProtocol, error) {
	switch strings.ToUpper(value) {
	case "", "NONE":
		return gosnmp.NoPriv, nil
	case "DES":
		return gosnmp.DES, nil
	case "AES", "AES128":
		return gosnmp.AES, nil
	case "AES192":
		return gosnmp.AES192, nil
	case "AES256":
		return gosnmp.AES256, nil
	default:
		return gosnmp.NoPriv, fmt.Errorf("unsupported privacy protocol: '%s' (possible values are none, DES, AES, AES192, AES256)", value)
	}
}

// BuildParams returns a valid GoSNMP params structure from the connection settings.
func (c *SNMPConfig) BuildParams() (*gosnmp.GoSNMP, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	version, err := BuildVersion(c.Version)
	if err != nil {
		return nil, err
	}

	params := &gosnmp.GoSNMP{
		Target:    c.IPAddress,
		Port:      c.Port,
		Transport: "udp",
		Version:   version,
		Community: c.CommunityString,
		Timeout:   time.Duration(c.Timeout) * time.Second,
		Retries:   c.Retries,
		MaxOids:   gosnmp.MaxOids,
		Logger:    gosnmp.NewLogger(&snmpLogger{}),
	}

	if version != gosnmp.Version3 {
		return params, nil
	}

	authProtocol, _ := BuildAuthProtocol(c.AuthProtocol)
	privProtocol, _ := BuildPrivProtocol(c.PrivProtocol)
	params.SecurityModel = gosnmp.UserSecurityModel
	params.ContextName = c.Context
	params.MsgFlags = gosnmp.AuthNoPriv
	usm := &gosnmp.UsmSecurityParameters{
		UserName:                 c.Username,
		AuthenticationProtocol:   authProtocol,
		AuthenticationPassphrase: c.AuthKey,
		PrivacyProtocol:          gosnmp.NoPriv,
	}
	if privProtocol != gosnmp.NoPriv {
		params.MsgFlags = gosnmp.AuthPriv
		usm.PrivacyProtocol = privProtocol
		usm.PrivacyPassphrase = c.PrivKey
	}
	params.SecurityParameters = usm

	return params, nil
}

// SNMPClient implements the Client interface with gosnmp.
type SNMPClient struct {
	session   *gosnmp.GoSNMP
	connected bool
}

// NewSNMPClient returns a client for given connection, the connection is
// opened with the first request.
func NewSNMPClient(conf *SNMPConfig) (*SNMPClient, error) {
	session, err := conf.BuildParams()
	if err != nil {
		return nil, err
	}

	return &SNMPClient{session: session}, nil
}

func (c *SNMPClient) connect(ctx context.Context) error {
	c.session.Context = ctx
	if c.connected {
		return nil
	}
	log.Debugf("connecting to %s:%d (version %v)", c.session.Target, c.session.Port, c.session.Version)
	if err := c.session.Connect(); err != nil {
		return err //nolint:wrapcheck // transport errors are reported verbatim
	}
	c.connected = true

	return nil
}

// Get fetches scalar values.
func (c *SNMPClient) Get(ctx context.Context, oids ...string) ([]interface{}, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	log.Debugf("snmp get: %s", strings.Join(oids, " "))
	packet, err := c.session.Get(oids)
	if err != nil {
		return nil, err //nolint:wrapcheck // transport errors are reported verbatim
	}
	if packet.Error != gosnmp.NoError {
		return nil, fmt.Errorf("snmp get failed: %v (index %d)", packet.Error, packet.ErrorIndex)
	}

	return pduValues(packet.Variables)
}

// Walk fetches a table column, bulk requests are used unless version 1 is configured.
func (c *SNMPClient) Walk(ctx context.Context, rootOid string) ([]interface{}, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	log.Debugf("snmp walk: %s", rootOid)
	var pdus []gosnmp.SnmpPDU
	var err error
	if c.session.Version == gosnmp.Version1 {
		pdus, err = c.session.WalkAll(rootOid)
	} else {
		pdus, err = c.session.BulkWalkAll(rootOid)
	}
	if err != nil {
		return nil, err //nolint:wrapcheck // transport errors are reported verbatim
	}

	return pduValues(pdus)
}

// Close closes the connection.
func (c *SNMPClient) Close() error {
	if !c.connected || c.session.Conn == nil {
		return nil
	}
	c.connected = false

	return c.session.Conn.Close() //nolint:wrapcheck // just closing
}

// pduValues extracts the values, missing objects are errors.
func pduValues(pdus []gosnmp.SnmpPDU) ([]interface{}, error) {
	values := make([]interface{}, 0, len(pdus))
	for _, pdu := range pdus {
		log.Tracef("%s (%v): %v", pdu.Name, pdu.Type, pdu.Value)
		switch pdu.Type {
		case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
			return nil, fmt.Errorf("no value for %s: %v", pdu.Name, pdu.Type)
		default:
			values = append(values, pdu.Value)
		}
	}

	return values, nil
}

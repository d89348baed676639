package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consol-monitoring/check_ironport/pkg/ironport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, int) {
	t.Helper()

	out := &bytes.Buffer{}
	exitCode := Execute("test", "abcdef", args, out)

	return strings.TrimSpace(out.String()), exitCode
}

func withMock(t *testing.T, mock *ironport.MockClient) {
	t.Helper()

	orig := newPlugin
	newPlugin = func() *ironport.Plugin {
		return &ironport.Plugin{
			NewClient: func(_ *ironport.SNMPConfig) (ironport.Client, error) {
				return mock, nil
			},
		}
	}
	t.Cleanup(func() {
		newPlugin = orig
	})
}

func TestCmdHelp(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"--help"}} {
		output, exitCode := runCmd(t, args...)
		assert.Containsf(t, output, "Usage:", "help for %v", args)
		assert.Containsf(t, output, "psredundancy", "type list for %v", args)
		assert.Equalf(t, ironport.ExitCodeUnknown, exitCode, "exit code for %v", args)
	}
}

func TestCmdVersion(t *testing.T) {
	output, exitCode := runCmd(t, "-V")
	assert.Equal(t, "check_ironport v1.0.abcdef (Build: test)", output)
	assert.Equal(t, ironport.ExitCodeOK, exitCode)
}

func TestCmdErrors(t *testing.T) {
	output, exitCode := runCmd(t, "-H", "mail1", "-t", "cpu")
	assert.Equal(t, "UNKNOWN - check type cpu: warning and critical thresholds are required", output)
	assert.Equal(t, ironport.ExitCodeUnknown, exitCode)

	output, exitCode = runCmd(t, "-H", "mail1", "-t", "cpu", "--nosuchflag")
	assert.Equal(t, "UNKNOWN - unknown flag: --nosuchflag", output)
	assert.Equal(t, ironport.ExitCodeUnknown, exitCode)

	output, exitCode = runCmd(t, "-H", "mail1", "-t", "raid", "extra")
	assert.Contains(t, output, "UNKNOWN - unknown command")
	assert.Equal(t, ironport.ExitCodeUnknown, exitCode)

	output, exitCode = runCmd(t, "-H", "mail1", "-t", "raid", "--loglevel", "chatty")
	assert.Contains(t, output, "UNKNOWN - ")
	assert.Contains(t, output, "chatty")
	assert.Equal(t, ironport.ExitCodeUnknown, exitCode)
}

func TestCmdCheck(t *testing.T) {
	mock := &ironport.MockClient{Values: map[string]interface{}{ironport.OIDBase + ".1.0": 95}}
	withMock(t, mock)

	output, exitCode := runCmd(t, "-H", "mail1", "-C", "public", "-t", "mem", "-w", "90", "-c", "98")
	assert.Equal(t, "Memory WARNING - Memory utilization is 95% | 'mem'=95%;90;98", output)
	assert.Equal(t, 1, exitCode)
	assert.Equal(t, 1, mock.Calls)

	output, exitCode = runCmd(t, "-H", "mail1", "-t", "mem", "-w", "96", "-c", "98", "-timeout", "5")
	assert.Equal(t, "Memory OK - Memory utilization is 95% | 'mem'=95%;96;98", output)
	assert.Equal(t, 0, exitCode)
}

func TestCmdLogFile(t *testing.T) {
	withMock(t, &ironport.MockClient{Values: map[string]interface{}{ironport.OIDBase + ".1.0": 95}})
	logFile := filepath.Join(t.TempDir(), "check_ironport.log")

	output, exitCode := runCmd(t, "-H", "mail1", "-t", "mem", "-w", "90", "-c", "98", "--loglevel", "debug", "--logfile", logFile)
	assert.Equal(t, "Memory WARNING - Memory utilization is 95% | 'mem'=95%;90;98", output)
	assert.Equal(t, 1, exitCode)

	// the file is closed after the run
	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mem: Memory WARNING")
	require.NoError(t, os.Remove(logFile))

	_, exitCode = runCmd(t, "-H", "mail1", "-t", "mem", "-w", "90", "-c", "98", "--loglevel", "off")
	assert.Equal(t, 1, exitCode)
}

func TestCmdHelpLogLevels(t *testing.T) {
	output, _ := runCmd(t, "-h")
	assert.Contains(t, output, "off, error, warn, info, debug, trace")
}

func TestCmdTableCheck(t *testing.T) {
	withMock(t, &ironport.MockClient{Values: ironport.NewMockTable(ironport.OIDBase+".8.1.2", 2, 4)})

	output, exitCode := runCmd(t, "-H", "mail1", "-t", "psstatus")
	assert.Equal(t, "Power Supply status CRITICAL - PS 1=Healthy (OK) PS 2=Faulty (CRITICAL)", output)
	assert.Equal(t, 2, exitCode)
}

func TestSanitizeArgs(t *testing.T) {
	rootCmd := newRootCmd("", "", &ironport.PluginFlags{}, new(int))

	tests := []struct {
		args   []string
		expect []string
	}{
		{[]string{"-H", "mail1"}, []string{"-H", "mail1"}},
		{[]string{"-hostname", "mail1"}, []string{"--hostname", "mail1"}},
		{[]string{"-timeout=5", "-t", "mem"}, []string{"--timeout=5", "-t", "mem"}},
		{[]string{"--retries", "2"}, []string{"--retries", "2"}},
	}

	for _, tst := range tests {
		assert.Equalf(t, tst.expect, sanitizeArgs(rootCmd, tst.args), "sanitize %v", tst.args)
	}
}

package ironport

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kdar/factorlog"
)

// define all available log level.
const (
	// LogVerbosityNone disables logging.
	LogVerbosityNone = 0

	// LogVerbosityDefault sets the default log level.
	LogVerbosityDefault = 1

	// LogVerbosityDebug sets the debug log level.
	LogVerbosityDebug = 2

	// LogVerbosityTrace sets trace log level.
	LogVerbosityTrace = 3

	// DefaultLogLevel keeps the plugin silent, stdout is reserved for the plugin output.
	DefaultLogLevel = "off"
)

var (
	DateTimeLogFormat = `[%{Date} %{Time "15:04:05.000"}]`
	LogFormat         = `[%{Severity}][pid:%{Pid}][%{ShortFile}:%{Line}] %{Message}`
	log               = factorlog.New(os.Stderr, BuildFormatter(DateTimeLogFormat+LogFormat))
	targetWriter      io.Writer = os.Stderr
	targetFile        *os.File
)

func init() {
	setLogLevel(DefaultLogLevel)
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "off":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("PANIC"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityNone)
	case "error", "warn", "info":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDefault)
	case "debug":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDebug)
	case "trace":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityTrace)
	case "":
	default:
		log.Errorf("unknown log level: %s", level)
	}
}

// setLogFile sets the log target, one of stderr, stdout or a file name.
func setLogFile(file string) error {
	if err := CloseLogFile(); err != nil {
		return err
	}

	switch file {
	case "stderr", "":
		targetWriter = os.Stderr
	case "stdout":
		targetWriter = os.Stdout
	default:
		fHandle, err := os.OpenFile(file, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open logfile %s: %s", file, err.Error())
		}
		targetWriter = fHandle
		targetFile = fHandle
	}

	log.SetOutput(targetWriter)

	return nil
}

// CloseLogFile closes the log file opened by --logfile and switches logging
// back to stderr.
func CloseLogFile() error {
	if targetFile == nil {
		return nil
	}
	fHandle := targetFile
	targetFile = nil
	targetWriter = os.Stderr
	log.SetOutput(targetWriter)

	if err := fHandle.Close(); err != nil {
		return fmt.Errorf("failed to close logfile %s: %s", fHandle.Name(), err.Error())
	}

	return nil
}

// ConfigureLogging applies log level, format and target from the command line.
func ConfigureLogging(flags *PluginFlags) error {
	if flags.LogFormat != "" {
		log.SetFormatter(BuildFormatter(flags.LogFormat))
	}
	if err := setLogFile(flags.LogFile); err != nil {
		return err
	}
	level := strings.ToLower(flags.LogLevel)
	switch level {
	case "", "off", "error", "warn", "info", "debug", "trace":
	default:
		return &ConfigError{Err: fmt.Errorf("unknown log level: %s", flags.LogLevel)}
	}
	setLogLevel(level)

	return nil
}

func BuildFormatter(format string) *factorlog.StdFormatter {
	format = strings.ReplaceAll(format, "%{Pid}", fmt.Sprintf("%d", os.Getpid()))

	return (factorlog.NewStdFormatter(format))
}

func LogDebug(err error) {
	if err != nil {
		logErr := log.Output(factorlog.DEBUG, 2, err.Error())
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "failed to log: %s (%s)\n", err.Error(), logErr.Error())
		}
	}
}

// snmpLogger forwards gosnmp debug output into the trace log.
type snmpLogger struct{}

func (l *snmpLogger) Print(v ...interface{}) {
	log.Tracef("gosnmp: %s", strings.TrimSpace(fmt.Sprint(v...)))
}

func (l *snmpLogger) Printf(format string, v ...interface{}) {
	log.Tracef("gosnmp: "+strings.TrimSpace(format), v...)
}

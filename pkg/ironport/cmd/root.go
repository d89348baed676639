package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consol-monitoring/check_ironport/pkg/ironport"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Don't make it a method, to be overridden in tests
var newPlugin = ironport.NewPlugin

// Execute runs the plugin with given arguments, writes the result to out and
// returns the exit code.
func Execute(build, revision string, args []string, out io.Writer) int {
	flags := &ironport.PluginFlags{}
	exitCode := ironport.ExitCodeUnknown
	rootCmd := newRootCmd(build, revision, flags, &exitCode)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	// usage is not a successful check result
	if len(args) == 0 {
		rootCmd.SetArgs([]string{"--help"})
	} else {
		rootCmd.SetArgs(sanitizeArgs(rootCmd, args))
	}

	defer func() {
		if err := ironport.CloseLogFile(); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		}
	}()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(out, "UNKNOWN - %s\n", err.Error())

		return ironport.ExitCodeUnknown
	}

	return exitCode
}

func newRootCmd(build, revision string, flags *ironport.PluginFlags, exitCode *int) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   ironport.NAME + " -H <host> -t <type> [-w <warning> -c <critical>] [flags]",
		Short: "Monitoring plugin for Cisco IronPort mail appliances.",
		Long: `check_ironport queries a Cisco IronPort / AsyncOS mail appliance over SNMP
and reports the state of a single metric in monitoring plugin format.

Available types:
` + typeList() + `

Thresholds (-w/-c) are required for all numeric types, a value must be
greater than the threshold to raise the state. Critical must be greater
than warning.

Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN (also used for this help).`,
		Example: `  check_ironport -H mail1 -C public -t mem -w 90 -c 98
  check_ironport -H mail1 -t fan -w 3000 -c 5000
  check_ironport -H mail1 -v 3 -U monitor -P secret -t psstatus`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			if flags.Version {
				fmt.Fprintf(cmd.OutOrStdout(), "%s v%s.%s (Build: %s)\n", ironport.NAME, ironport.VERSION, revision, build)
				*exitCode = ironport.ExitCodeOK

				return
			}

			result := runCheck(cmd.Context(), flags)
			line, code := result.Render()
			fmt.Fprintln(cmd.OutOrStdout(), line)
			*exitCode = code
		},
	}

	rootCmd.Flags().BoolVarP(&flags.Help, "help", "h", false, "print help and exit")
	rootCmd.Flags().BoolVarP(&flags.Version, "version", "V", false, "print version and exit")
	rootCmd.Flags().StringVarP(&flags.Host, "hostname", "H", "", "host name or address of the appliance")
	rootCmd.Flags().StringVarP(&flags.Community, "community", "C", "", "snmp community (default "+ironport.DefaultCommunity+")")
	rootCmd.Flags().StringVarP(&flags.SNMPVersion, "snmp-version", "v", "", "snmp version, one of: 1, 2c, 3 (default "+ironport.DefaultSNMPVersion+")")
	rootCmd.Flags().StringVarP(&flags.Type, "type", "t", "", "check type, see list above")
	rootCmd.Flags().StringVarP(&flags.Warning, "warning", "w", "", "warning threshold")
	rootCmd.Flags().StringVarP(&flags.Critical, "critical", "c", "", "critical threshold")
	rootCmd.Flags().Uint16VarP(&flags.Port, "port", "p", 0, fmt.Sprintf("snmp port (default %d)", ironport.DefaultPort))
	rootCmd.Flags().IntVarP(&flags.Timeout, "timeout", "", 0, fmt.Sprintf("timeout in seconds per request (default %d)", ironport.DefaultTimeout))
	rootCmd.Flags().IntVarP(&flags.Retries, "retries", "", -1, fmt.Sprintf("number of retries (default %d)", ironport.DefaultRetries))
	rootCmd.Flags().StringVarP(&flags.User, "user", "U", "", "snmp v3 user name")
	rootCmd.Flags().StringVarP(&flags.Passphrase, "passphrase", "P", "", "snmp v3 authentication passphrase")
	rootCmd.Flags().StringVarP(&flags.AuthProtocol, "authproto", "a", "", "snmp v3 authentication protocol: MD5, SHA, SHA224, SHA256, SHA384, SHA512 (default "+ironport.DefaultAuthProtocol+")")
	rootCmd.Flags().StringVarP(&flags.PrivProtocol, "privproto", "x", "", "snmp v3 privacy protocol: none, DES, AES, AES192, AES256 (default "+ironport.DefaultPrivProtocol+")")
	rootCmd.Flags().StringVarP(&flags.PrivPassphrase, "privpass", "X", "", "snmp v3 privacy passphrase")
	rootCmd.Flags().StringVarP(&flags.ContextName, "context", "", "", "snmp v3 context name")
	rootCmd.Flags().StringVarP(&flags.ConfigFile, "config", "", "", "path to yaml connection profile, command line flags take precedence")
	rootCmd.Flags().StringVarP(&flags.LogLevel, "loglevel", "", ironport.DefaultLogLevel, "set loglevel to one of: off, error, warn, info, debug, trace")
	rootCmd.Flags().StringVarP(&flags.LogFile, "logfile", "", "stderr", "path to log file or stdout/stderr")
	rootCmd.Flags().StringVarP(&flags.LogFormat, "logformat", "", "", "override logformat, see https://pkg.go.dev/github.com/kdar/factorlog")

	rootCmd.DisableAutoGenTag = true
	rootCmd.DisableSuggestions = true
	rootCmd.Flags().SortFlags = false
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetUsageTemplate(usageTemplate)

	_ = rootCmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return ironport.Types(), cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

func runCheck(ctx context.Context, flags *ironport.PluginFlags) *ironport.CheckResult {
	if err := ironport.ConfigureLogging(flags); err != nil {
		return ironport.UnknownResult("", err)
	}

	return newPlugin().Run(ctx, flags)
}

func typeList() string {
	lines := []string{}
	for _, name := range ironport.Types() {
		spec, _ := ironport.Resolve(name)
		thresholds := ""
		if spec.RequiresThresholds() {
			thresholds = " (requires -w/-c)"
		}
		lines = append(lines, fmt.Sprintf("  %-22s %s%s", name, spec.Header, thresholds))
	}

	return strings.Join(lines, "\n")
}

// sanitizeArgs replaces single dash long options, ex.: -timeout
func sanitizeArgs(rootCmd *cobra.Command, args []string) []string {
	replace := map[string]string{}
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if len(f.Name) > 1 {
			replace["-"+f.Name] = "--" + f.Name
		}
	})

	sanitized := make([]string, 0, len(args))
	for _, a := range args {
		if r, ok := replace[a]; ok {
			a = r
		}
		for n, r := range replace {
			if strings.HasPrefix(a, n+"=") {
				a = r + "=" + strings.TrimPrefix(a, n+"=")
			}
		}
		sanitized = append(sanitized, a)
	}

	return sanitized
}

var usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`

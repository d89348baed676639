package main

import (
	"os"

	"github.com/consol-monitoring/check_ironport/pkg/ironport/cmd"
)

// Build contains the current git commit id
// compile passing -ldflags "-X main.Build <build sha1>" to set the id.
var Build string

// Revision contains the minor version number (number of commits)
// compile passing -ldflags "-X main.Revision <commits>" to set the revsion number.
var Revision string

func main() {
	if Revision == "" {
		Revision = "0"
	}
	if Build == "" {
		Build = "unknown"
	}

	os.Exit(cmd.Execute(Build, Revision, os.Args[1:], os.Stdout))
}

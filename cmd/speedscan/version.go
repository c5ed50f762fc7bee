package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at release time via -ldflags. When built with plain `go build`
// or `go install` they stay empty and the VCS build info fills in.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildDetails is the resolved build metadata shown by the version command.
type buildDetails struct {
	Version string
	Commit  string
	Date    string
	Go      string
}

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// vcsSetting reads a single key from the build info settings embedded
// by the toolchain. Empty string when the binary carries no VCS stamp.
func vcsSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func resolveBuildDetails() buildDetails {
	d := buildDetails{
		Version: getVersion(),
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
	if d.Commit == "" {
		d.Commit = vcsSetting("vcs.revision")
		if len(d.Commit) > 7 {
			d.Commit = d.Commit[:7]
		}
	}
	if d.Commit == "" {
		d.Commit = "unknown"
	}
	if d.Date == "" {
		d.Date = vcsSetting("vcs.time")
	}
	if d.Date == "" {
		d.Date = "unknown"
	}
	return d
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of speedscan.`,
		Run: func(cmd *cobra.Command, _ []string) {
			d := resolveBuildDetails()
			fmt.Fprintf(cmd.OutOrStdout(), "speedscan %s (commit %s, built %s, %s)\n",
				d.Version, d.Commit, d.Date, d.Go)
		},
	}
}

// Package cli holds helpers shared by the command line tools.
package cli

import "fmt"

// Version is the toolkit release identifier reported by --version.
const Version = "1.0.0"

// VersionString formats the --version output for a tool.
func VersionString(prog string) string {
	return fmt.Sprintf("%s (ipm_parser %s)", prog, Version)
}

// cmd/abax/main.go
package main

import (
	cmd "github.com/abaxtools/abax/internal/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the abax CLI application by delegating to the cobra root
// command defined in the commands package.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}

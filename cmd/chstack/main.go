package main

import (
	"fmt"
	"os"

	"chstack/internal/cmd"
	"chstack/internal/errors"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	err := cmd.Execute()
	if err != nil && errors.IsUserFacing(err) {
		// Compose pass-through failures are not reprinted: the
		// subprocess already wrote its diagnostics to stderr.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(errors.ExitCode(err))
}

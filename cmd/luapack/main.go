// Package main is the entry point for the luapack CLI.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/luapack/luapack/internal/cmd"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	rootCmd := cmd.NewRootCmd()

	// fang styles help and errors and prints the error itself.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Get().Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	code := lperrors.ExitCodeFromError(err)
	if err != nil {
		output.Debug("exiting", "code", code, "reason", cmd.ExitCodeName(code))
	}
	return code
}

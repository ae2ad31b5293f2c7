package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/0x5457/vecquery/cmd/cmdsfx"
	"github.com/0x5457/vecquery/cmd/vecquery/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	rootCmd.AddCommand(commands.NewMCPServeCommand())

	err := rootCmd.ExecuteContext(context.Background())
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return cmdsfx.ExitOK
	}
	var exitErr *cmdsfx.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return cmdsfx.ExitFailure
}

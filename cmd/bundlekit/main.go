// Command bundlekit migrates, verifies, and repairs unbundled sources.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rshade/bundlekit/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Set by the linker.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCmd(version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cli.ShouldPrint(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}

// Command swiftcheck verifies the swifttranslator.com Singlish to Sinhala
// converter through a real browser.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/swiftcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

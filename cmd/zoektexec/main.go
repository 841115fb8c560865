package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudshipai/zoektexec/internal/logging"
	"github.com/cloudshipai/zoektexec/internal/version"
)

var (
	debugMode bool
	rootCmd   = &cobra.Command{
		Use:     "zoektexec",
		Short:   "Execution Subsystem broker for zoekt-backed code search workflows",
		Long:    `zoektexec brokers capability-backed code search workflows between an LLM client and zoekt, running each invocation in a sandboxed subprocess.`,
		Version: version.GetVersionString(),
	}
)

func init() {
	cobra.OnInitialize(func() { logging.Initialize(debugMode) })
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(capabilitiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

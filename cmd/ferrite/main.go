package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ferrite/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ferrite",
	Short: "Ferrite region-inference toolchain",
	Long:  `Ferrite runs non-lexical region inference over function bodies and explains every lifetime error it finds`,
}

func main() {
	rootCmd.Version = version.Full()

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to a ferrite.toml config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferrite/internal/diagfmt"
	"ferrite/internal/driver"
	"ferrite/internal/testkit"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [fixture]",
	Short: "Run region inference over the built-in showcase bodies",
	Long:  `Check runs the full inference pipeline (constraints, liveness, solving, blame) over the built-in bodies and prints the diagnostics. With a fixture name it checks only that body`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("no-cache", false, "skip the on-disk result cache")
	checkCmd.Flags().Int("jobs", 0, "number of bodies checked in parallel (0 = GOMAXPROCS)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if jobs, err := cmd.Flags().GetInt("jobs"); err == nil && jobs > 0 {
		opts.Jobs = jobs
	}

	fixtures, err := selectFixtures(args)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache && opts.CacheApp != "" {
		// A cache that fails to open just means rechecking everything.
		cache, _ = driver.OpenDiskCache(opts.CacheApp)
	}

	inputs := make([]driver.BodyInput, len(fixtures))
	for i, fx := range fixtures {
		inputs[i] = driver.BodyInput{Body: fx.Body, Types: fx.Types, Table: fx.Table}
	}

	results, err := driver.CheckAll(cmd.Context(), inputs, opts, cache)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	pretty := diagfmt.PrettyOpts{
		Color:     useColor(cmd),
		ShowNotes: true,
	}
	failed := false
	for i, res := range results {
		origin := ""
		if res.FromCache {
			origin = " (cached)"
		}
		fmt.Fprintf(os.Stdout, "== %s: %d constraints, %d errors%s\n", res.Name, res.Constraints, res.ErrorCount, origin)
		diagfmt.Pretty(os.Stdout, res.Bag, fixtures[i].Files, pretty)
		if res.Bag.HasErrors() {
			failed = true
		}
		if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
			for _, p := range res.Timing.Phases {
				fmt.Fprintf(os.Stderr, "  %-10s %7.2f ms\n", p.Name, p.DurationMS)
			}
		}
	}
	if failed {
		return fmt.Errorf("region errors found")
	}
	return nil
}

func loadOptions(cmd *cobra.Command) (driver.Options, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	opts, err := driver.LoadOptions(path)
	if err != nil {
		return opts, fmt.Errorf("failed to load config: %w", err)
	}
	if maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err == nil && maxDiags > 0 {
		opts.MaxDiags = maxDiags
	}
	return opts, nil
}

func useColor(cmd *cobra.Command) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
}

func selectFixtures(args []string) ([]*testkit.Fixture, error) {
	all := testkit.AllFixtures()
	if len(args) == 0 {
		return all, nil
	}
	for _, fx := range all {
		if fx.Name == args[0] {
			return []*testkit.Fixture{fx}, nil
		}
	}
	names := make([]string, len(all))
	for i, fx := range all {
		names[i] = fx.Name
	}
	return nil, fmt.Errorf("unknown fixture %q (have %v)", args[0], names)
}

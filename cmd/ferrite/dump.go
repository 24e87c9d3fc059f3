package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferrite/internal/constraints"
	"ferrite/internal/mir"
	"ferrite/internal/regionck"
	"ferrite/internal/regions"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [fixture]",
	Short: "Dump the MIR and constraint graph of the showcase bodies",
	Long:  `Dump prints each body in its stable textual form together with the outlives constraints and region liveness the check derived from it`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("liveness", false, "also dump per-region live point counts")
}

func runDump(cmd *cobra.Command, args []string) error {
	fixtures, err := selectFixtures(args)
	if err != nil {
		return err
	}
	showLiveness, _ := cmd.Flags().GetBool("liveness")

	for _, fx := range fixtures {
		fmt.Fprintf(os.Stdout, "== %s\n", fx.Name)
		fmt.Fprint(os.Stdout, mir.Print(fx.Body))

		res := regionck.Check(regionck.Config{
			Body:  fx.Body,
			Types: fx.Types,
			Table: fx.Table,
		})

		fmt.Fprintf(os.Stdout, "constraints (%d):\n", res.Set.Len())
		res.Set.Each(func(ci constraints.ConstraintIndex, c *constraints.OutlivesConstraint) {
			origin := "all"
			if !c.Locations.All {
				origin = c.Locations.From.String()
			}
			fmt.Fprintf(os.Stdout, "  #%d %s @ %s\n", ci, c, origin)
		})
		selfLoops, dups := res.Set.Discarded()
		if selfLoops+dups > 0 {
			fmt.Fprintf(os.Stdout, "  (discarded: %d self-loops, %d duplicates)\n", selfLoops, dups)
		}

		if showLiveness {
			fmt.Fprintln(os.Stdout, "liveness:")
			for v := 0; v < fx.Table.Count(); v++ {
				vid := regions.Vid(v) //nolint:gosec // table vids are int32-bounded
				if n := res.Values.PointCount(vid); n > 0 {
					fmt.Fprintf(os.Stdout, "  '%d live at %d points\n", v, n)
				}
			}
		}

		for _, re := range res.Errors {
			fmt.Fprintf(os.Stdout, "error: '%d must outlive '%d\n", re.Fr, re.OutlivedFr)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/csim/mem/cache"
	"github.com/sarchlab/csim/simulation"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <recording.sqlite3>",
		Short: "Print the run summaries stored in a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := simulation.ReadSummaries(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			for _, s := range summaries {
				fmt.Fprintf(out, "Run %s: %d sets, %d ways, %d bytes, %s\n",
					s.ID, s.NumSets, s.NumWays, s.BlockSize, describe(s))

				err = simulation.WriteReport(out, cache.Statistics{
					TotalLoads:  s.TotalLoads,
					TotalStores: s.TotalStores,
					LoadHits:    s.LoadHits,
					LoadMisses:  s.LoadMisses,
					StoreHits:   s.StoreHits,
					StoreMisses: s.StoreMisses,
					TotalCycles: s.TotalCycles,
				})
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func describe(s simulation.Summary) string {
	allocate := "no-write-allocate"
	if s.WriteAllocate {
		allocate = "write-allocate"
	}

	write := "write-back"
	if s.WriteThrough {
		write = "write-through"
	}

	return allocate + ", " + write + ", " + s.Policy
}

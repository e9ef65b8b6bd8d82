package simulation

import (
	"fmt"
	"io"

	"github.com/sarchlab/csim/mem/cache"
)

// WriteReport prints the final statistics, one counter per line.
func WriteReport(w io.Writer, stats cache.Statistics) error {
	_, err := fmt.Fprintf(w,
		"Total loads: %d\n"+
			"Total stores: %d\n"+
			"Load hits: %d\n"+
			"Load misses: %d\n"+
			"Store hits: %d\n"+
			"Store misses: %d\n"+
			"Total cycles: %d\n",
		stats.TotalLoads,
		stats.TotalStores,
		stats.LoadHits,
		stats.LoadMisses,
		stats.StoreHits,
		stats.StoreMisses,
		stats.TotalCycles,
	)

	return err
}

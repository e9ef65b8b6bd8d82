package simulation

import (
	"context"

	"github.com/sarchlab/csim/datarecording"
)

// ReadSummaries loads the run summaries stored in a recording file.
func ReadSummaries(ctx context.Context, filename string) ([]Summary, error) {
	reader, err := datarecording.NewReader(filename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	reader.MapTable(SummaryTableName, Summary{})

	results, _, err := reader.Query(ctx, SummaryTableName,
		datarecording.QueryParams{OrderBy: "ID"})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, *r.(*Summary))
	}

	return summaries, nil
}

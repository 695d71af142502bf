package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/podium/pkg/logger"
)

// verifyResults checks the final ranking for structural soundness and
// confirms no awarded points were lost.
func verifyResults(ctx context.Context, ranking []rankedParticipant, awarded map[string]int, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results", logger.Int("entries", len(ranking)))

	// Ranks must be dense 1..N in response order.
	for i, entry := range ranking {
		if entry.Rank != i+1 {
			return fmt.Errorf("rank gap at position %d: got rank %d", i, entry.Rank)
		}
	}

	// Points must be non-increasing down the board.
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Points > ranking[i-1].Points {
			return fmt.Errorf("ordering violation: rank %d has %d points, rank %d has %d",
				ranking[i].Rank, ranking[i].Points, ranking[i-1].Rank, ranking[i-1].Points)
		}
	}

	// Every participant we awarded points to must hold at least that many.
	// Other load generators may have added more, never less.
	byID := make(map[string]rankedParticipant, len(ranking))
	for _, entry := range ranking {
		byID[entry.ID] = entry
	}
	for id, points := range awarded {
		entry, ok := byID[id]
		if !ok {
			return fmt.Errorf("participant %s missing from final ranking", id)
		}
		if entry.Points < points {
			return fmt.Errorf("lost points for %s: awarded %d, holds %d", id, points, entry.Points)
		}
	}

	logger.Get().Info(ctx, "verification passed",
		logger.Int("entries", len(ranking)),
		logger.Int("claimants", len(awarded)),
	)
	return nil
}

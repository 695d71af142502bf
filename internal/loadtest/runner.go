// Package loadtest drives concurrent claims against a running instance and
// verifies that the resulting ranking is consistent with the awards granted.
package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/podium/pkg/logger"
)

// Run executes the complete claim load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting podium load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("claims", config.Claims),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
	)

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Collect the roster, registering extras if requested
	ids, err := collectParticipants(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("participant collection failed: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no participants available to claim for")
	}

	// Step 3: Submit claims concurrently and tally awarded points
	awarded, err := submitClaims(ctx, client, config, ids, stats)
	if err != nil {
		return fmt.Errorf("claim submission failed: %w", err)
	}

	// Step 4: Fetch the final ranking
	var ranking []rankedParticipant
	status, err := client.get(ctx, config.BaseURL+"/api/participants", &ranking)
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("ranking retrieval failed (status %d): %w", status, err)
	}

	// Step 5: Verify ranking shape and point conservation
	if err := verifyResults(ctx, ranking, awarded, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	status, err := client.get(ctx, config.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// collectParticipants reads the current roster and registers additional
// load-test participants when configured to do so.
func collectParticipants(ctx context.Context, client *httpClient, config *Config, stats *Stats) ([]string, error) {
	for i := 0; i < config.Participants; i++ {
		name := fmt.Sprintf("loadtest-%d-%d", time.Now().UnixNano(), i)
		var created registeredParticipant
		status, err := client.post(ctx, config.BaseURL+"/api/participants",
			map[string]string{"name": name}, &created)
		if err != nil {
			return nil, err
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("registration failed with status: %d", status)
		}
	}

	var roster []rankedParticipant
	status, err := client.get(ctx, config.BaseURL+"/api/participants", &roster)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("roster fetch failed with status: %d", status)
	}

	ids := make([]string, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	stats.ParticipantsSeen = len(ids)

	logger.Get().Info(ctx, "roster collected", logger.Int("participants", len(ids)))
	return ids, nil
}

// submitClaims fires claims round-robin across the roster using a worker
// pool, returning the total points awarded per participant.
func submitClaims(ctx context.Context, client *httpClient, config *Config, ids []string, stats *Stats) (map[string]int, error) {
	logger.Get().Info(ctx, "submitting claims",
		logger.Int("claims", config.Claims),
		logger.Int("workers", config.Workers),
	)

	var (
		submitted  int64
		successful int64
		failed     int64
	)

	awarded := make(map[string]int)
	var awardedMu sync.Mutex

	claimChan := make(chan string, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for id := range claimChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				var result claimResponse
				status, err := client.post(ctx, config.BaseURL+"/api/claim/"+id, nil, &result)

				atomic.AddInt64(&submitted, 1)
				if err != nil || status != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "claim failed",
							logger.String("participantID", id),
							logger.Int("status", status),
						)
					}
					continue
				}

				atomic.AddInt64(&successful, 1)
				awardedMu.Lock()
				awarded[id] += result.PointsGained
				awardedMu.Unlock()
			}
		}()
	}

	go func() {
		defer close(claimChan)
		for i := 0; i < config.Claims; i++ {
			select {
			case <-ctx.Done():
				return
			case claimChan <- ids[i%len(ids)]:
			}
		}
	}()

	wg.Wait()

	stats.ClaimsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ClaimsSuccessful = int(atomic.LoadInt64(&successful))
	stats.ClaimsFailed = int(atomic.LoadInt64(&failed))
	for _, points := range awarded {
		stats.PointsAwarded += points
	}

	logger.Get().Info(ctx, "claim submission completed",
		logger.Int("successful", stats.ClaimsSuccessful),
		logger.Int("failed", stats.ClaimsFailed),
		logger.Int("pointsAwarded", stats.PointsAwarded),
	)
	return awarded, nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, claimsPerSecond float64

	if stats.ClaimsSubmitted > 0 {
		successRate = float64(stats.ClaimsSuccessful) / float64(stats.ClaimsSubmitted) * 100
	}
	if stats.Duration > 0 {
		claimsPerSecond = float64(stats.ClaimsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("participants", stats.ParticipantsSeen),
		logger.Int("claimsSubmitted", stats.ClaimsSubmitted),
		logger.Int("claimsSuccessful", stats.ClaimsSuccessful),
		logger.Int("claimsFailed", stats.ClaimsFailed),
		logger.Int("pointsAwarded", stats.PointsAwarded),
		logger.String("duration", stats.Duration.String()),
		logger.Any("successRate", successRate),
		logger.Any("claimsPerSecond", claimsPerSecond),
	)
}

package loadtest

import "time"

// Config holds configuration for a claim load test run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Claims       int           // Number of claims to submit
	Participants int           // Extra participants to register before claiming
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Verbose      bool          // Enable verbose logging
}

// claimResponse mirrors the body of POST /api/claim/{id}.
type claimResponse struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	PointsGained  int    `json:"pointsGained"`
	TotalPoints   int    `json:"totalPoints"`
}

// rankedParticipant mirrors one row of GET /api/participants.
type rankedParticipant struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// registeredParticipant mirrors the body returned by POST /api/participants.
type registeredParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats holds load test statistics.
type Stats struct {
	ParticipantsSeen int
	ClaimsSubmitted  int
	ClaimsSuccessful int
	ClaimsFailed     int
	PointsAwarded    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

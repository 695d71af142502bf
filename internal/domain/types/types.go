// Package types contains common wire shapes shared by the API and the hub.
package types

import "time"

// RankedParticipant is one row of a ranking snapshot.
type RankedParticipant struct {
	Rank   int    `json:"rank"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ClaimInfo describes the claim that triggered a ranking update.
type ClaimInfo struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	PointsGained  int    `json:"pointsGained"`
	TotalPoints   int    `json:"totalPoints"`
}

// HistoryEntry is the read shape of a recorded claim.
type HistoryEntry struct {
	ID              string    `json:"id"`
	ParticipantID   string    `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	PointsGained    int       `json:"pointsGained"`
	TotalPoints     int       `json:"totalPoints"`
	Timestamp       time.Time `json:"timestamp"`
}

package models

import "time"

// TrialInfo records when the trial window opened and whether the premium
// upgrade has been applied. It is created exactly once, on the first-ever
// run, and written to the store immediately to fix the trial start.
type TrialInfo struct {
	// StartedAt is the instant of the first-ever run.
	StartedAt time.Time `json:"startedAt"`

	// IsPremium flips true only through license activation and never
	// flips back.
	IsPremium bool `json:"isPremium"`
}

// NewTrialInfo opens a fresh trial window at the given instant.
func NewTrialInfo(at time.Time) TrialInfo {
	return TrialInfo{StartedAt: at, IsPremium: false}
}

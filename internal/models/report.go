package models

import "time"

// Analysis kinds understood by the analyzer. The pool itself never branches
// on these; they group logs, metrics and cache keys.
const (
	AnalysisCharacterThreat     = "character_threat"
	AnalysisCorporationActivity = "corporation_activity"
)

// SubjectStats are the raw aggregates an analysis is computed from.
type SubjectStats struct {
	Kills        int
	Losses       int
	ISKDestroyed float64
	ISKLost      float64
}

// AnalysisReport is the scored outcome of one analysis run for a subject.
type AnalysisReport struct {
	SubjectID    int64     `json:"subject_id"`
	Kind         string    `json:"kind"`
	Score        float64   `json:"score"`
	Kills        int       `json:"kills"`
	Losses       int       `json:"losses"`
	ISKDestroyed float64   `json:"isk_destroyed"`
	ISKLost      float64   `json:"isk_lost"`
	Efficiency   float64   `json:"efficiency"`
	DangerRatio  float64   `json:"danger_ratio"`
	GeneratedAt  time.Time `json:"generated_at"`
}

package models

import "time"

// Killmail is one ingested kill event. Character ids refer to the victim and
// the attacker landing the final blow; per-attacker breakdowns are not kept.
type Killmail struct {
	ID                   int64
	Hash                 string
	VictimCharacterID    int64
	VictimCorporationID  int64
	FinalBlowCharacterID int64
	ShipTypeID           int64
	SolarSystemID        int64
	AttackerCount        int
	Value                float64 // ISK
	OccurredAt           time.Time
}

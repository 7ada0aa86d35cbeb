// Package v1 defines the public API surface of the killboard dashboard.
package v1

import "time"

type Killmail struct {
	Id                   int64     `json:"id"`
	Hash                 string    `json:"hash"`
	VictimCharacterId    int64     `json:"victimCharacterId"`
	VictimCorporationId  int64     `json:"victimCorporationId"`
	FinalBlowCharacterId int64     `json:"finalBlowCharacterId"`
	ShipTypeId           int64     `json:"shipTypeId"`
	SolarSystemId        int64     `json:"solarSystemId"`
	AttackerCount        int       `json:"attackerCount"`
	Value                float64   `json:"value"`
	ValueFormatted       string    `json:"valueFormatted"`
	OccurredAt           time.Time `json:"occurredAt"`
}

type KillmailListResponse struct {
	Page      int        `json:"page"`
	PageCount int        `json:"pageCount"`
	Total     int        `json:"total"`
	Killmails []Killmail `json:"killmails"`
}

type AnalysisReport struct {
	SubjectId    int64     `json:"subjectId"`
	Kind         string    `json:"kind"`
	Score        float64   `json:"score"`
	Kills        int       `json:"kills"`
	Losses       int       `json:"losses"`
	IskDestroyed float64   `json:"iskDestroyed"`
	IskLost      float64   `json:"iskLost"`
	Efficiency   float64   `json:"efficiency"`
	DangerRatio  float64   `json:"dangerRatio"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

type AnalysisRequest struct {
	SubjectId int64  `json:"subjectId" binding:"required"`
	Kind      string `json:"kind"`
	Priority  string `json:"priority"`
}

type PoolStats struct {
	PoolSize       int     `json:"poolSize"`
	TargetSize     int     `json:"targetSize"`
	Idle           int     `json:"idle"`
	Busy           int     `json:"busy"`
	QueueLength    int     `json:"queueLength"`
	TotalProcessed uint64  `json:"totalProcessed"`
	Utilization    float64 `json:"utilization"`
}

type ScaleRequest struct {
	Size int `json:"size" binding:"required"`
}

type ClearQueueResponse struct {
	Dropped int `json:"dropped"`
}

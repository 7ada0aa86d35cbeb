package v1

import (
	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/util"
	"github.com/veldspar/intelboard/pkg/pool"
)

// NewKillmailFromModel converts a models.Killmail to an API Killmail.
func NewKillmailFromModel(km models.Killmail) Killmail {
	return Killmail{
		Id:                   km.ID,
		Hash:                 km.Hash,
		VictimCharacterId:    km.VictimCharacterID,
		VictimCorporationId:  km.VictimCorporationID,
		FinalBlowCharacterId: km.FinalBlowCharacterID,
		ShipTypeId:           km.ShipTypeID,
		SolarSystemId:        km.SolarSystemID,
		AttackerCount:        km.AttackerCount,
		Value:                km.Value,
		ValueFormatted:       util.FormatISK(km.Value),
		OccurredAt:           km.OccurredAt,
	}
}

// NewReportFromModel converts a models.AnalysisReport to an API report.
func NewReportFromModel(r *models.AnalysisReport) AnalysisReport {
	return AnalysisReport{
		SubjectId:    r.SubjectID,
		Kind:         r.Kind,
		Score:        r.Score,
		Kills:        r.Kills,
		Losses:       r.Losses,
		IskDestroyed: r.ISKDestroyed,
		IskLost:      r.ISKLost,
		Efficiency:   r.Efficiency,
		DangerRatio:  r.DangerRatio,
		GeneratedAt:  r.GeneratedAt,
	}
}

// NewPoolStats converts a pool snapshot to the API shape.
func NewPoolStats(s pool.Stats) PoolStats {
	return PoolStats{
		PoolSize:       s.PoolSize,
		TargetSize:     s.TargetSize,
		Idle:           s.Idle,
		Busy:           s.Busy,
		QueueLength:    s.QueueLength,
		TotalProcessed: s.TotalProcessed,
		Utilization:    s.Utilization,
	}
}

// ParsePriority maps the API priority string to a pool priority. Unknown
// values fall back to normal.
func ParsePriority(s string) pool.Priority {
	switch s {
	case "high":
		return pool.PriorityHigh
	case "low":
		return pool.PriorityLow
	default:
		return pool.PriorityNormal
	}
}

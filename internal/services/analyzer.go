package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/util"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
	"github.com/veldspar/intelboard/pkg/pool"
)

// Analyzer computes threat and activity reports on the worker pool.
type Analyzer struct {
	pool  *pool.Pool
	store *store.Store
	log   *zap.SugaredLogger
}

func NewAnalyzer(p *pool.Pool, st *store.Store) *Analyzer {
	return &Analyzer{
		pool:  p,
		store: st,
		log:   zap.S().Named("analyzer"),
	}
}

func cacheKey(kind string, subjectID int64) string {
	return fmt.Sprintf("%s:%d", kind, subjectID)
}

// AnalyzeCharacter scores a character's threat level, blocking until the
// report is ready or the job deadline passes. A cached report is returned
// without occupying a worker.
func (a *Analyzer) AnalyzeCharacter(ctx context.Context, characterID int64, priority pool.Priority) (*models.AnalysisReport, error) {
	return a.analyze(ctx, pool.Request{
		Kind:      models.AnalysisCharacterThreat,
		SubjectID: strconv.FormatInt(characterID, 10),
		Priority:  priority,
		CacheKey:  cacheKey(models.AnalysisCharacterThreat, characterID),
		Work:      a.characterThreatWork(characterID),
	})
}

// AnalyzeCorporation scores a corporation's recent activity.
func (a *Analyzer) AnalyzeCorporation(ctx context.Context, corporationID int64, priority pool.Priority) (*models.AnalysisReport, error) {
	return a.analyze(ctx, pool.Request{
		Kind:      models.AnalysisCorporationActivity,
		SubjectID: strconv.FormatInt(corporationID, 10),
		Priority:  priority,
		CacheKey:  cacheKey(models.AnalysisCorporationActivity, corporationID),
		Work:      a.corporationActivityWork(corporationID),
	})
}

// RefreshCharacter queues a character re-score fire-and-forget. It is used
// by the ingest path after new killmails land; a full queue drops the
// refresh rather than blocking ingestion.
func (a *Analyzer) RefreshCharacter(characterID int64) error {
	return a.pool.SubmitAsync(pool.Request{
		Kind:      models.AnalysisCharacterThreat,
		SubjectID: strconv.FormatInt(characterID, 10),
		Priority:  pool.PriorityLow,
		CacheKey:  cacheKey(models.AnalysisCharacterThreat, characterID),
		Work:      a.characterThreatWork(characterID),
	})
}

// Report returns the last persisted report for a subject without running
// any analysis.
func (a *Analyzer) Report(ctx context.Context, subjectID int64, kind string) (*models.AnalysisReport, error) {
	return a.store.Reports().Get(ctx, subjectID, kind)
}

func (a *Analyzer) analyze(ctx context.Context, req pool.Request) (*models.AnalysisReport, error) {
	v, err := a.pool.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	report, ok := v.(*models.AnalysisReport)
	if !ok {
		return nil, fmt.Errorf("unexpected analysis result type %T", v)
	}
	return report, nil
}

func (a *Analyzer) characterThreatWork(characterID int64) pool.Work {
	return func(ctx context.Context) (any, error) {
		stats, err := a.store.Killmails().SubjectStats(ctx, characterID)
		if err != nil {
			return nil, err
		}
		if stats.Kills+stats.Losses == 0 {
			return nil, &srvErrors.NoActivityError{SubjectID: characterID}
		}
		report := scoreCharacterThreat(characterID, stats)
		a.persist(ctx, report)
		return report, nil
	}
}

func (a *Analyzer) corporationActivityWork(corporationID int64) pool.Work {
	return func(ctx context.Context) (any, error) {
		losses, iskLost, err := a.store.Killmails().CorporationLosses(ctx, corporationID)
		if err != nil {
			return nil, err
		}
		if losses == 0 {
			return nil, &srvErrors.NoActivityError{SubjectID: corporationID}
		}
		report := scoreCorporationActivity(corporationID, losses, iskLost)
		a.persist(ctx, report)
		return report, nil
	}
}

// persist is best-effort: a failed write leaves the caller with a valid
// in-memory report and the next refresh retries the save.
func (a *Analyzer) persist(ctx context.Context, report *models.AnalysisReport) {
	if err := a.store.Reports().Save(ctx, report); err != nil {
		a.log.Warnw("failed to persist report",
			"subject", report.SubjectID, "kind", report.Kind, "error", err)
	}
}

// scoreCharacterThreat maps a character's kill/loss record to a 0-100
// threat score. Danger ratio dominates, ISK efficiency refines it, and a
// log-scaled activity factor keeps two-kill wonders from maxing out.
func scoreCharacterThreat(characterID int64, stats *models.SubjectStats) *models.AnalysisReport {
	total := stats.Kills + stats.Losses
	danger := float64(stats.Kills) / float64(total)

	efficiency := 1.0
	if flow := stats.ISKDestroyed + stats.ISKLost; flow > 0 {
		efficiency = stats.ISKDestroyed / flow
	}

	activity := math.Log10(float64(total)+1) / 2
	if activity > 1 {
		activity = 1
	}

	return &models.AnalysisReport{
		SubjectID:    characterID,
		Kind:         models.AnalysisCharacterThreat,
		Score:        util.Round(100 * (0.7*danger + 0.3*efficiency) * activity),
		Kills:        stats.Kills,
		Losses:       stats.Losses,
		ISKDestroyed: stats.ISKDestroyed,
		ISKLost:      stats.ISKLost,
		Efficiency:   util.Round(efficiency),
		DangerRatio:  util.Round(danger),
		GeneratedAt:  time.Now().UTC(),
	}
}

// scoreCorporationActivity maps loss volume to a 0-100 activity score.
// Kills cannot be attributed to corporations from the feed, so the score
// reflects how much of the corporation is getting blown up.
func scoreCorporationActivity(corporationID int64, losses int, iskLost float64) *models.AnalysisReport {
	score := 25*math.Log10(float64(losses)+1) + 10*math.Log10(util.ISKToMillions(iskLost)+1)
	if score > 100 {
		score = 100
	}
	return &models.AnalysisReport{
		SubjectID:   corporationID,
		Kind:        models.AnalysisCorporationActivity,
		Score:       util.Round(score),
		Losses:      losses,
		ISKLost:     iskLost,
		GeneratedAt: time.Now().UTC(),
	}
}

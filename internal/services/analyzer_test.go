package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veldspar/intelboard/internal/cache"
	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/store/migrations"
	srvErrors "github.com/veldspar/intelboard/pkg/errors"
	"github.com/veldspar/intelboard/pkg/pool"
)

func TestServices(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Services Suite")
}

func poolConfig() pool.Config {
	return pool.Config{
		DefaultSize:            2,
		MinSize:                1,
		MaxSize:                4,
		QueueLimit:             8,
		DefaultDeadline:        5 * time.Second,
		ResultTTL:              time.Minute,
		ScaleUpQueueThreshold:  2,
		ScaleDownIdleThreshold: 2,
		AutoscalePeriod:        time.Hour,
	}
}

func killmail(id, victim, finalBlow int64, value float64) *models.Killmail {
	return &models.Killmail{
		ID:                   id,
		Hash:                 "hash",
		VictimCharacterID:    victim,
		VictimCorporationID:  98000001,
		FinalBlowCharacterID: finalBlow,
		ShipTypeID:           587,
		SolarSystemID:        30000142,
		AttackerCount:        1,
		Value:                value,
		OccurredAt:           time.Now().UTC(),
	}
}

var _ = Describe("Analyzer", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		s        *store.Store
		c        *cache.Cache
		p        *pool.Pool
		analyzer *services.Analyzer
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		s = store.NewStore(db)

		c = cache.New(time.Minute)
		p, err = pool.New(poolConfig(), pool.WithCache(c))
		Expect(err).NotTo(HaveOccurred())

		analyzer = services.NewAnalyzer(p, s)
	})

	AfterEach(func() {
		p.Close()
		c.Close()
		db.Close()
	})

	Context("AnalyzeCharacter", func() {
		BeforeEach(func() {
			Expect(s.Killmails().Insert(ctx, killmail(1, 90000010, 90000042, 100_000_000))).To(Succeed())
			Expect(s.Killmails().Insert(ctx, killmail(2, 90000011, 90000042, 300_000_000))).To(Succeed())
			Expect(s.Killmails().Insert(ctx, killmail(3, 90000042, 90000010, 50_000_000))).To(Succeed())
		})

		// Given a character with two kills and one loss
		// When we run a threat analysis
		// Then the report reflects the record and carries a positive score
		It("should score a character's kill record", func() {
			report, err := analyzer.AnalyzeCharacter(ctx, 90000042, pool.PriorityNormal)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Kind).To(Equal(models.AnalysisCharacterThreat))
			Expect(report.Kills).To(Equal(2))
			Expect(report.Losses).To(Equal(1))
			Expect(report.ISKDestroyed).To(Equal(400_000_000.0))
			Expect(report.ISKLost).To(Equal(50_000_000.0))
			Expect(report.DangerRatio).To(BeNumerically("~", 0.67, 0.01))
			Expect(report.Score).To(BeNumerically(">", 0))
			Expect(report.Score).To(BeNumerically("<=", 100))
		})

		It("should persist the report", func() {
			_, err := analyzer.AnalyzeCharacter(ctx, 90000042, pool.PriorityNormal)
			Expect(err).NotTo(HaveOccurred())

			saved, err := s.Reports().Get(ctx, 90000042, models.AnalysisCharacterThreat)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Kills).To(Equal(2))
		})

		// Given a character that was analyzed moments ago
		// When new killmails land and the character is analyzed again
		// Then the cached report is returned without recomputation
		It("should serve repeated analysis from the cache", func() {
			first, err := analyzer.AnalyzeCharacter(ctx, 90000042, pool.PriorityNormal)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Kills).To(Equal(2))

			Expect(s.Killmails().Insert(ctx, killmail(4, 90000012, 90000042, 10_000_000))).To(Succeed())

			second, err := analyzer.AnalyzeCharacter(ctx, 90000042, pool.PriorityNormal)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Kills).To(Equal(2), "stale by design until the cache entry expires")
		})

		It("should report no activity for an unknown character", func() {
			_, err := analyzer.AnalyzeCharacter(ctx, 123, pool.PriorityNormal)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsNoActivityError(err)).To(BeTrue())
		})
	})

	Context("AnalyzeCorporation", func() {
		It("should score a corporation by its losses", func() {
			Expect(s.Killmails().Insert(ctx, killmail(1, 90000010, 90000042, 100_000_000))).To(Succeed())
			Expect(s.Killmails().Insert(ctx, killmail(2, 90000011, 90000042, 200_000_000))).To(Succeed())

			report, err := analyzer.AnalyzeCorporation(ctx, 98000001, pool.PriorityNormal)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Kind).To(Equal(models.AnalysisCorporationActivity))
			Expect(report.Losses).To(Equal(2))
			Expect(report.ISKLost).To(Equal(300_000_000.0))
			Expect(report.Score).To(BeNumerically(">", 0))
		})

		It("should report no activity for an unknown corporation", func() {
			_, err := analyzer.AnalyzeCorporation(ctx, 999, pool.PriorityNormal)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsNoActivityError(err)).To(BeTrue())
		})
	})

	Context("RefreshCharacter", func() {
		// Given new killmail activity for a character
		// When a fire-and-forget refresh is queued
		// Then the report eventually lands in the store
		It("should recompute the report in the background", func() {
			Expect(s.Killmails().Insert(ctx, killmail(1, 90000010, 90000042, 100_000_000))).To(Succeed())

			Expect(analyzer.RefreshCharacter(90000042)).To(Succeed())

			Eventually(func() error {
				_, err := s.Reports().Get(ctx, 90000042, models.AnalysisCharacterThreat)
				return err
			}, 2*time.Second).Should(Succeed())
		})
	})
})

var _ = Describe("StatsService", func() {
	It("should combine pool occupancy with board totals", func() {
		ctx := context.Background()

		db, err := store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()
		Expect(migrations.Run(ctx, db)).To(Succeed())
		s := store.NewStore(db)

		p, err := pool.New(poolConfig())
		Expect(err).NotTo(HaveOccurred())
		defer p.Close()

		Expect(s.Killmails().Insert(ctx, killmail(1, 90000010, 90000042, 100_000_000))).To(Succeed())
		Expect(s.Killmails().Insert(ctx, killmail(2, 90000011, 90000042, 250_000_000))).To(Succeed())

		stats, err := services.NewStatsService(p, s).Dashboard(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Killmails).To(Equal(2))
		Expect(stats.ISKDestroyed).To(Equal(350_000_000.0))
		Expect(stats.Pool.PoolSize).To(Equal(2))
	})
})

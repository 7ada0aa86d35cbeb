package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/veldspar/intelboard/api/v1"
	"github.com/veldspar/intelboard/internal/handlers"
	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/store/migrations"
	"github.com/veldspar/intelboard/pkg/pool"
)

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterFailHandler(Fail)
	RunSpecs(t, "Handlers Suite")
}

var _ = Describe("Handler", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		s      *store.Store
		p      *pool.Pool
		router *gin.Engine
	)

	doRequest := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		s = store.NewStore(db)

		p, err = pool.New(pool.Config{
			DefaultSize:            2,
			MinSize:                1,
			MaxSize:                4,
			QueueLimit:             8,
			DefaultDeadline:        5 * time.Second,
			ScaleUpQueueThreshold:  2,
			ScaleDownIdleThreshold: 2,
			AutoscalePeriod:        time.Hour,
		})
		Expect(err).NotTo(HaveOccurred())

		analyzer := services.NewAnalyzer(p, s)
		h := handlers.New(
			services.NewKillmailService(s),
			analyzer,
			services.NewStatsService(p, s),
			p,
		)

		router = gin.New()
		h.Register(router.Group("/api/v1"))
	})

	AfterEach(func() {
		p.Close()
		db.Close()
	})

	seedKillmails := func(n int) {
		for i := 1; i <= n; i++ {
			km := &models.Killmail{
				ID:                   int64(i),
				Hash:                 "hash",
				VictimCharacterID:    90000010,
				VictimCorporationID:  98000001,
				FinalBlowCharacterID: 90000042,
				ShipTypeID:           587,
				SolarSystemID:        30000142,
				AttackerCount:        1,
				Value:                float64(i) * 10_000_000,
				OccurredAt:           time.Now().UTC().Add(time.Duration(i) * time.Minute),
			}
			Expect(s.Killmails().Insert(ctx, km)).To(Succeed())
		}
	}

	Context("GET /killmails", func() {
		It("should list killmails newest first with pagination", func() {
			seedKillmails(5)

			rec := doRequest(http.MethodGet, "/api/v1/killmails?page=1&pageSize=2", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.KillmailListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(5))
			Expect(resp.PageCount).To(Equal(3))
			Expect(resp.Killmails).To(HaveLen(2))
			Expect(resp.Killmails[0].Id).To(Equal(int64(5)))
		})

		It("should filter by minimum value", func() {
			seedKillmails(5)

			rec := doRequest(http.MethodGet, "/api/v1/killmails?minValue=40000000", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.KillmailListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
		})

		It("should reject malformed filters", func() {
			rec := doRequest(http.MethodGet, "/api/v1/killmails?character=abc", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("GET /killmails/:id", func() {
		It("should return 404 for an unknown killmail", func() {
			rec := doRequest(http.MethodGet, "/api/v1/killmails/999", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return the killmail with a formatted value", func() {
			seedKillmails(1)

			rec := doRequest(http.MethodGet, "/api/v1/killmails/1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var km v1.Killmail
			Expect(json.Unmarshal(rec.Body.Bytes(), &km)).To(Succeed())
			Expect(km.Id).To(Equal(int64(1)))
			Expect(km.ValueFormatted).To(Equal("10.0m"))
		})
	})

	Context("POST /analysis", func() {
		It("should run a character analysis and return the report", func() {
			seedKillmails(3)

			rec := doRequest(http.MethodPost, "/api/v1/analysis",
				`{"subjectId": 90000042, "priority": "high"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var report v1.AnalysisReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &report)).To(Succeed())
			Expect(report.SubjectId).To(Equal(int64(90000042)))
			Expect(report.Kills).To(Equal(3))
		})

		It("should return 404 when the subject has no activity", func() {
			rec := doRequest(http.MethodPost, "/api/v1/analysis", `{"subjectId": 123}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject an unknown analysis kind", func() {
			rec := doRequest(http.MethodPost, "/api/v1/analysis",
				`{"subjectId": 1, "kind": "fleet_doctrine"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a missing subject", func() {
			rec := doRequest(http.MethodPost, "/api/v1/analysis", `{}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("POST /analysis/refresh", func() {
		It("should accept the refresh and return 202", func() {
			seedKillmails(1)

			rec := doRequest(http.MethodPost, "/api/v1/analysis/refresh", `{"subjectId": 90000042}`)
			Expect(rec.Code).To(Equal(http.StatusAccepted))

			Eventually(func() error {
				_, err := s.Reports().Get(ctx, 90000042, models.AnalysisCharacterThreat)
				return err
			}, 2*time.Second).Should(Succeed())
		})
	})

	Context("GET /analysis/:kind/:subjectId", func() {
		It("should return 404 before any analysis ran", func() {
			rec := doRequest(http.MethodGet, "/api/v1/analysis/character_threat/90000042", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("pool administration", func() {
		It("should expose pool stats", func() {
			rec := doRequest(http.MethodGet, "/api/v1/pool/stats", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats v1.PoolStats
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.PoolSize).To(Equal(2))
			Expect(stats.Idle).To(Equal(2))
		})

		It("should resize the pool", func() {
			rec := doRequest(http.MethodPut, "/api/v1/pool/size", `{"size": 3}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats v1.PoolStats
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.TargetSize).To(Equal(3))
		})

		It("should reject a size outside the configured bounds", func() {
			rec := doRequest(http.MethodPut, "/api/v1/pool/size", `{"size": 10}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should clear the queue and report the drop count", func() {
			rec := doRequest(http.MethodDelete, "/api/v1/pool/queue", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp v1.ClearQueueResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Dropped).To(BeZero())
		})
	})

	It("should report healthy", func() {
		rec := doRequest(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

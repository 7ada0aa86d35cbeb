package ingest_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veldspar/intelboard/internal/ingest"
	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/store/migrations"
	"github.com/veldspar/intelboard/pkg/pool"
)

func TestIngest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ingest Suite")
}

const feedPayload = `{
	"package": {
		"killID": 131313,
		"killmail": {
			"solar_system_id": 30000142,
			"killmail_time": "2025-06-01T12:00:00Z",
			"victim": {
				"character_id": 90000010,
				"corporation_id": 98000001,
				"ship_type_id": 587
			},
			"attackers": [
				{"character_id": 90000042, "final_blow": true},
				{"character_id": 90000043, "final_blow": false}
			]
		},
		"zkb": {
			"hash": "abc123",
			"totalValue": 12000000.5
		}
	}
}`

var _ = Describe("Poller", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		db     *sql.DB
		s      *store.Store
		p      *pool.Pool
		served atomic.Int64
		feed   *httptest.Server
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())

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

		served.Store(0)
		feed = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("queueID")).NotTo(BeEmpty())
			if served.Add(1) == 1 {
				fmt.Fprint(w, feedPayload)
				return
			}
			fmt.Fprint(w, `{"package": null}`)
		}))
	})

	AfterEach(func() {
		cancel()
		feed.Close()
		p.Close()
		db.Close()
	})

	// Given a feed serving one killmail followed by empty poll windows
	// When the poller runs
	// Then the killmail is stored and both pilots get background reports
	It("should store polled killmails and queue pilot re-analysis", func() {
		analyzer := services.NewAnalyzer(p, s)
		poller := ingest.New(feed.URL, 10*time.Millisecond, s, analyzer)
		go poller.Run(ctx)

		Eventually(func() (int, error) {
			return s.Killmails().Count(ctx)
		}, 2*time.Second).Should(Equal(1))

		km, err := s.Killmails().Get(ctx, 131313)
		Expect(err).NotTo(HaveOccurred())
		Expect(km.Hash).To(Equal("abc123"))
		Expect(km.VictimCharacterID).To(Equal(int64(90000010)))
		Expect(km.FinalBlowCharacterID).To(Equal(int64(90000042)))
		Expect(km.AttackerCount).To(Equal(2))
		Expect(km.Value).To(Equal(12_000_000.5))

		Eventually(func() error {
			_, err := s.Reports().Get(ctx, 90000042, models.AnalysisCharacterThreat)
			return err
		}, 2*time.Second).Should(Succeed())
	})

	It("should invoke the notify callback for each stored killmail", func() {
		var notified atomic.Int64
		analyzer := services.NewAnalyzer(p, s)
		poller := ingest.New(feed.URL, 10*time.Millisecond, s, analyzer,
			ingest.WithNotify(func() { notified.Add(1) }))
		go poller.Run(ctx)

		Eventually(notified.Load, 2*time.Second).Should(Equal(int64(1)))
		Consistently(notified.Load, 200*time.Millisecond).Should(Equal(int64(1)))
	})
})

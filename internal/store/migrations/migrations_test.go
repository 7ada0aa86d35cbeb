package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veldspar/intelboard/internal/store"
	"github.com/veldspar/intelboard/internal/store/migrations"
)

func TestMigrations(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Migrations Suite")
}

var _ = Describe("Migrations", func() {
	var (
		ctx context.Context
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("Run", func() {
		It("should run all migrations successfully", func() {
			err := migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should create the killmails table", func() {
			err := migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())

			_, err = db.ExecContext(ctx, `
				INSERT INTO killmails (
					id, hash, victim_character_id, victim_corporation_id,
					final_blow_character_id, ship_type_id, solar_system_id,
					attacker_count, value, occurred_at
				) VALUES (1, 'abc', 90000001, 98000001, 90000002, 587, 30000142, 3, 12000000.0, CURRENT_TIMESTAMP)
			`)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should create the reports table", func() {
			err := migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())

			_, err = db.ExecContext(ctx, `
				INSERT INTO reports (
					subject_id, kind, score, kills, losses,
					isk_destroyed, isk_lost, efficiency, danger_ratio, generated_at
				) VALUES (90000001, 'character_threat', 42.0, 10, 2, 1.0, 0.2, 0.83, 0.83, CURRENT_TIMESTAMP)
			`)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be idempotent", func() {
			err := migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())

			err = migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should track applied migrations in schema_migrations table", func() {
			err := migrations.Run(ctx, db)
			Expect(err).NotTo(HaveOccurred())

			rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
			Expect(err).NotTo(HaveOccurred())
			defer rows.Close()

			var versions []int
			for rows.Next() {
				var v int
				err := rows.Scan(&v)
				Expect(err).NotTo(HaveOccurred())
				versions = append(versions, v)
			}
			Expect(rows.Err()).NotTo(HaveOccurred())

			Expect(versions).To(ContainElements(1, 2))
		})
	})
})

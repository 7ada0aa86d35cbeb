package store

// Killmail queries
const (
	queryInsertKillmail = `
		INSERT INTO killmails (
			id, hash, victim_character_id, victim_corporation_id,
			final_blow_character_id, ship_type_id, solar_system_id,
			attacker_count, value, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	queryGetKillmail = `
		SELECT id, hash, victim_character_id, victim_corporation_id,
			final_blow_character_id, ship_type_id, solar_system_id,
			attacker_count, value, occurred_at
		FROM killmails WHERE id = ?`

	queryKillboardTotals = `
		SELECT COUNT(*), COALESCE(SUM(value), 0) FROM killmails`

	queryCorporationLosses = `
		SELECT COUNT(*), COALESCE(SUM(value), 0)
		FROM killmails WHERE victim_corporation_id = ?`

	querySubjectStats = `
		SELECT
			COUNT(CASE WHEN final_blow_character_id = ?1 THEN 1 END),
			COUNT(CASE WHEN victim_character_id = ?1 THEN 1 END),
			COALESCE(SUM(CASE WHEN final_blow_character_id = ?1 THEN value END), 0),
			COALESCE(SUM(CASE WHEN victim_character_id = ?1 THEN value END), 0)
		FROM killmails
		WHERE final_blow_character_id = ?1 OR victim_character_id = ?1`
)

// Report queries
const (
	queryUpsertReport = `
		INSERT INTO reports (
			subject_id, kind, score, kills, losses,
			isk_destroyed, isk_lost, efficiency, danger_ratio, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (subject_id, kind) DO UPDATE SET
			score = EXCLUDED.score,
			kills = EXCLUDED.kills,
			losses = EXCLUDED.losses,
			isk_destroyed = EXCLUDED.isk_destroyed,
			isk_lost = EXCLUDED.isk_lost,
			efficiency = EXCLUDED.efficiency,
			danger_ratio = EXCLUDED.danger_ratio,
			generated_at = EXCLUDED.generated_at`

	queryGetReport = `
		SELECT subject_id, kind, score, kills, losses,
			isk_destroyed, isk_lost, efficiency, danger_ratio, generated_at
		FROM reports WHERE subject_id = ? AND kind = ?`
)

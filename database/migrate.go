package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies the idempotent migrations AutoMigrate cannot express:
// - coordinate column types (NUMERIC(9,6))
// - composite index for cooldown recency lookups
// - unique indexes backing the at-most-once claim and idempotency replay
// - CHECK constraints on coordinate ranges
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		alters := []string{
			`ALTER TABLE places ALTER COLUMN lat TYPE numeric(9,6)`,
			`ALTER TABLE places ALTER COLUMN lng TYPE numeric(9,6)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("coordinate type migration failed on: %s - %w", stmt, err)
			}
		}

		indexes := []string{
			// The gate_records primary key already enforces claim uniqueness;
			// this one serves LatestByOwner (cooldown recency).
			`CREATE INDEX IF NOT EXISTS idx_gate_records_owner_claimed ON gate_records (owner_identity, claimed_at DESC)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_places_fingerprint ON places (fingerprint)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
			`CREATE INDEX IF NOT EXISTS idx_ads_kind_expires ON ads (kind, expires_at)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'places'::regclass
					  AND conname  = 'chk_places_lat_range'
				) THEN
					ALTER TABLE places
					ADD CONSTRAINT chk_places_lat_range
					CHECK (lat >= -90 AND lat <= 90);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'places'::regclass
					  AND conname  = 'chk_places_lng_range'
				) THEN
					ALTER TABLE places
					ADD CONSTRAINT chk_places_lng_range
					CHECK (lng >= -180 AND lng <= 180);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}

package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the configuration database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRateCardsQuery := `
	CREATE TABLE IF NOT EXISTS rate_cards (
		id TEXT PRIMARY KEY,
		vehicle_type TEXT NOT NULL UNIQUE,
		base_fee REAL NOT NULL,
		per_mile_rate REAL NOT NULL,
		per_stop_rate REAL NOT NULL
	);
	`

	createDensityTiersQuery := `
	CREATE TABLE IF NOT EXISTS density_tiers (
		sort_order INTEGER PRIMARY KEY,
		min_miles REAL NOT NULL,
		max_miles REAL,
		discount_pct REAL NOT NULL,
		label TEXT NOT NULL
	);
	`

	statements := []string{
		createRateCardsQuery,
		createDensityTiersQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RateCardSeed struct {
	ID          string  `json:"id"`
	VehicleType string  `json:"vehicle_type"`
	BaseFee     float64 `json:"base_fee"`
	PerMileRate float64 `json:"per_mile_rate"`
	PerStopRate float64 `json:"per_stop_rate"`
}

type DensityTierSeed struct {
	SortOrder   int      `json:"sort_order"`
	MinMiles    float64  `json:"min_miles"`
	MaxMiles    *float64 `json:"max_miles"`
	DiscountPct float64  `json:"discount_pct"`
	Label       string   `json:"label"`
}

type ConfigSeed struct {
	RateCards    []RateCardSeed    `json:"rate_cards"`
	DensityTiers []DensityTierSeed `json:"density_tiers"`
}

// Populate the configuration tables from a JSON file. Every item is
// validated before anything is written; the whole seed is one
// transaction.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed config: read %q: %w", jsonPath, err)
	}

	var seed ConfigSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed config: parse json: %w", err)
	}

	for i, card := range seed.RateCards {
		if strings.TrimSpace(card.ID) == "" {
			return fmt.Errorf("seed config: rate card at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(card.VehicleType) == "" {
			return fmt.Errorf("seed config: rate card at index %d: vehicle_type cannot be empty", i+1)
		}
		if card.BaseFee < 0 || card.PerMileRate < 0 || card.PerStopRate < 0 {
			return fmt.Errorf("seed config: rate card at index %d: rates must be >= 0", i+1)
		}
	}

	for i, tier := range seed.DensityTiers {
		if strings.TrimSpace(tier.Label) == "" {
			return fmt.Errorf("seed config: density tier at index %d: label cannot be empty", i+1)
		}
		if tier.MinMiles < 0 {
			return fmt.Errorf("seed config: density tier at index %d: min_miles must be >= 0", i+1)
		}
		if tier.MaxMiles != nil && *tier.MaxMiles <= tier.MinMiles {
			return fmt.Errorf("seed config: density tier at index %d: max_miles must be > min_miles", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed config: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cardStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO rate_cards (
		id,
		vehicle_type,
		base_fee,
		per_mile_rate,
		per_stop_rate
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed config: prepare rate card insert: %w", err)
	}
	defer cardStmt.Close()

	for _, card := range seed.RateCards {
		if _, err := cardStmt.Exec(card.ID, card.VehicleType, card.BaseFee, card.PerMileRate, card.PerStopRate); err != nil {
			return fmt.Errorf("seed config: insert rate card id=%q: %w", card.ID, err)
		}
	}

	tierStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO density_tiers (
		sort_order,
		min_miles,
		max_miles,
		discount_pct,
		label
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed config: prepare density tier insert: %w", err)
	}
	defer tierStmt.Close()

	for _, tier := range seed.DensityTiers {
		if _, err := tierStmt.Exec(tier.SortOrder, tier.MinMiles, tier.MaxMiles, tier.DiscountPct, tier.Label); err != nil {
			return fmt.Errorf("seed config: insert density tier sort_order=%d: %w", tier.SortOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed config: commit tx: %w", err)
	}

	return nil
}

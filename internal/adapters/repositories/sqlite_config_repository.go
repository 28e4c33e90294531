package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-economics-service/internal/domain"
)

// SQLite-backed implementation of the ConfigSource port.
type SqliteConfigRepository struct{ DB *sql.DB }

func NewSqliteConfigRepository(db *sql.DB) *SqliteConfigRepository {
	return &SqliteConfigRepository{DB: db}
}

// Return the stored rate card for one vehicle type.
func (s *SqliteConfigRepository) RateCard(ctx context.Context, vehicleType domain.VehicleType) (domain.RateCard, error) {
	if s.DB == nil {
		return domain.RateCard{}, errors.New("sqlite config repository: DB is nil")
	}

	query := `
	SELECT
		id,
		vehicle_type,
		base_fee,
		per_mile_rate,
		per_stop_rate
	FROM rate_cards
	WHERE vehicle_type = ?;
	`
	var card domain.RateCard
	var vt string
	err := s.DB.QueryRowContext(ctx, query, string(vehicleType)).Scan(
		&card.ID, &vt, &card.BaseFee, &card.PerMileRate, &card.PerStopRate,
	)
	if err != nil {
		return domain.RateCard{}, fmt.Errorf("rate card: query vehicle_type=%q: %w", vehicleType, err)
	}
	card.VehicleType = domain.VehicleType(vt)

	return card, nil
}

// Return all stored density tiers ordered by sort_order.
func (s *SqliteConfigRepository) DensityTiers(ctx context.Context) ([]domain.DensityTier, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite config repository: DB is nil")
	}

	query := `
	SELECT
		sort_order,
		min_miles,
		max_miles,
		discount_pct,
		label
	FROM density_tiers
	ORDER BY sort_order;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("density tiers: query density_tiers table: %w", err)
	}
	defer rows.Close()

	table := make([]domain.DensityTier, 0, 8)
	for rows.Next() {
		var t domain.DensityTier
		var maxMiles sql.NullFloat64
		if err := rows.Scan(&t.SortOrder, &t.MinMiles, &maxMiles, &t.DiscountPct, &t.Label); err != nil {
			return nil, fmt.Errorf("density tiers: scan row: %w", err)
		}
		if maxMiles.Valid {
			v := maxMiles.Float64
			t.MaxMiles = &v
		}
		table = append(table, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("density tiers: row iteration: %w", err)
	}

	return table, nil
}

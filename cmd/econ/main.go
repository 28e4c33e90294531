package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"route-economics-service/internal/adapters/cache"
	"route-economics-service/internal/adapters/repositories"
	"route-economics-service/internal/config"
	"route-economics-service/internal/domain"
	"route-economics-service/internal/economics"
	"route-economics-service/internal/impact"
	"route-economics-service/internal/platform/obs"
	"route-economics-service/internal/ports"
	"route-economics-service/internal/tabular"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the CLI composition root: it fetches configuration through
// the TTL cache, feeds a stops file through the parser and the
// economics engine, and prints the results. The engine itself never
// touches the environment, the database, or the filesystem.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	anchorID := flag.String("anchor", "", "anchor id to run the satellite impact analysis for")
	vehicle := flag.String("vehicle", config.Get("VEHICLE_TYPE", string(domain.VehicleCargoVan)), "vehicle type for rate card and capacity")
	miles := flag.Float64("miles", envFloat("MILES_TO_HUB", 10), "distance from anchor to hub or spoke, miles")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: econ [flags] <stops-file.csv>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	parsed := parseStops(string(raw))
	for _, e := range parsed.Errors {
		if e.Field != "" {
			log.Printf("row=%d field=%s msg=%q", e.Row, e.Field, e.Message)
			continue
		}
		log.Printf("row=%d msg=%q", e.Row, e.Message)
	}
	if len(parsed.Stops) == 0 {
		log.Fatal("no computable stops in input")
	}

	ctx := context.Background()
	configCache := cache.NewConfigCache(openConfigSource(), cache.DefaultTTL, nil)

	vehicleType := domain.VehicleType(*vehicle)
	card := configCache.RateCard(ctx, vehicleType)
	tierTable := configCache.DensityTiers(ctx)

	inputs := economics.DefaultInputs()
	inputs.MilesToHubOrSpoke = *miles

	results := computeEconomics(inputs, parsed, card, tierTable)
	for _, r := range results {
		feasible := "yes"
		if !r.WindowFeasible {
			feasible = "no"
		}
		fmt.Printf("anchor=%s stops=%d packages=%.1f discount=%.1f%% blended=$%.2f cpp=$%.4f drivers=%d feasible=%s\n",
			r.AnchorID, r.TotalStops, r.TotalPackages, r.DensityDiscountPct*100, r.BlendedCost, r.BlendedCPP, r.DriversRequired, feasible)
		for _, issue := range r.Issues {
			log.Printf("anchor=%s issue=%q", r.AnchorID, issue)
		}
	}

	if *anchorID != "" {
		analysis := impact.ComputeSatelliteImpacts(inputs, *anchorID, parsed.Stops, card, tierTable)
		fmt.Println()
		fmt.Print(impact.RenderSummary(analysis))
	}
}

func parseStops(text string) tabular.ParseResult {
	defer obs.Time("parse_stops")(nil)
	return tabular.ParseStopRows(text, tabular.ParseOptions{})
}

func computeEconomics(
	inputs economics.Inputs,
	parsed tabular.ParseResult,
	card domain.RateCard,
	tierTable []domain.DensityTier,
) []domain.AnchorResult {
	defer obs.Time("compute_economics")(nil)
	return economics.ComputeAnchorEconomics(inputs, parsed.Stops, card, economics.Options{Tiers: tierTable})
}

// openConfigSource opens the local sqlite config store when present. A
// missing or unreadable store is the documented fallback path: the
// cache then serves built-in defaults.
func openConfigSource() ports.ConfigSource {
	dbPath := config.Get("DB_PATH", "data/config.db")
	if _, err := os.Stat(dbPath); err != nil {
		log.Printf("config store %q not found, using built-in defaults", dbPath)
		return nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Printf("config store %q unreadable (%v), using built-in defaults", dbPath, err)
		return nil
	}

	return repositories.NewSqliteConfigRepository(db)
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

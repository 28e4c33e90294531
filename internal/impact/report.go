package impact

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// RenderSummary formats an analysis as a plain-text report for CLI and
// log output. Presentation only; all numbers come straight from the
// analysis.
func RenderSummary(a Analysis) string {
	var b strings.Builder
	full := a.FullResult
	s := a.Summary

	fmt.Fprintf(&b, "anchor %s: %d stops, %.1f packages (%.1f anchor / %.1f satellite)\n",
		full.AnchorID, full.TotalStops, full.TotalPackages, full.AnchorPackages, full.SatellitePackages)
	for _, issue := range full.Issues {
		fmt.Fprintf(&b, "issue: %s\n", issue)
	}

	fmt.Fprintf(&b, "regular blended cost:    $%.2f (cpp $%.4f)\n", s.RegularBlendedCost, s.RegularBlendedCPP)
	fmt.Fprintf(&b, "discounted blended cost: $%.2f (cpp $%.4f)\n", s.DiscountedBlendedCost, s.DiscountedBlendedCPP)
	fmt.Fprintf(&b, "density savings:         $%.2f (%.1f%%)\n", s.SavingsDollars, s.SavingsPct*100)
	fmt.Fprintf(&b, "weighted discount:       %.1f%% (cap %.1f%%)\n", s.WeightedDiscountPct*100, full.DiscountCapPct*100)

	feasible := "yes"
	if !full.WindowFeasible {
		feasible = "no"
	}
	fmt.Fprintf(&b, "feasibility: window overlap %.0f min vs %.0f min required (feasible: %s), vehicles %d, drivers %d\n",
		full.WindowOverlapMinutes, full.PickupMinutesRequired, feasible, full.VehiclesByCube, full.DriversRequired)

	b.WriteString("\ntier distribution:\n")
	w := tabwriter.NewWriter(&b, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "tier\tdiscount\tpackages\tshare\tstores\tcontribution")
	for _, row := range s.TierDistribution {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f\t%.1f%%\t%d\t%.2f pts\n",
			row.Label, row.DiscountPct*100, row.SatellitePackages, row.SatelliteShare*100, row.StoreCount, row.ContributionPctPoints)
	}
	w.Flush()

	if len(s.Impacts) > 0 {
		b.WriteString("\nsatellite impacts:\n")
		w = tabwriter.NewWriter(&b, 2, 0, 2, ' ', 0)
		fmt.Fprintln(w, "store\tdistance\ttier\tpackages\tsavings\tclassification")
		for _, imp := range s.Impacts {
			fmt.Fprintf(w, "%s\t%.1f mi\t%s\t%.1f\t$%.2f\t%s\n",
				imp.StoreName, imp.DistanceMiles, imp.TierLabel, imp.Packages, imp.IncrementalSavings, imp.Classification)
		}
		w.Flush()
	}

	return b.String()
}

// Package tabular turns raw delimited stop data into validated rows and
// typed Stop records. Parsing is a pure function of the input text:
// structural problems fail the whole call with a single error, field
// problems accumulate per row, and dataset-level invariants are checked
// after all rows are read.
package tabular

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"route-economics-service/internal/domain"
)

// Columns that must be present (after header normalization) before any
// row parsing proceeds.
var requiredHeaders = []string{
	"route_id",
	"anchor_id",
	"stop_type",
	"store_name",
	"packages",
	"pickup_window_start_time",
	"pickup_window_end_time",
}

type ParseOptions struct {
	// Delimiter overrides auto-detection when non-zero.
	Delimiter byte
}

// ParseResult is the full outcome of one parse call. Rows retains every
// parsed record including the header (for error reporting and export);
// Stops contains only rows that passed every field-level check.
type ParseResult struct {
	Header           []string
	Rows             [][]string
	Stops            []domain.Stop
	Errors           []domain.UploadError
	HasDistanceMiles bool
}

// ParseStopRows parses delimited stop data into typed records.
func ParseStopRows(text string, opts ParseOptions) ParseResult {
	var result ParseResult

	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		result.Errors = append(result.Errors, domain.UploadError{Row: 1, Message: "input is empty"})
		return result
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = detectDelimiter(text)
	}

	records := splitRecords(text, delim)
	records = dropBlankTrailingRows(records)
	if len(records) == 0 {
		result.Errors = append(result.Errors, domain.UploadError{Row: 1, Message: "input is empty"})
		return result
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := col[h]; !ok {
			col[h] = i
		}
	}

	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := col[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, domain.UploadError{
			Row:     1,
			Message: "missing required headers: " + strings.Join(missing, ", "),
		})
		return result
	}

	result.Header = header
	result.Rows = records

	_, hasDistanceCol := col["distance_miles"]

	anchorRows := map[string]int{}
	var anchorIDs []string

	for i := 1; i < len(records); i++ {
		rowNum := i + 1
		rec := records[i]

		get := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		var rowErrs []domain.UploadError
		fail := func(field, msg string) {
			rowErrs = append(rowErrs, domain.UploadError{Row: rowNum, Field: field, Message: msg})
		}

		routeID := get("route_id")
		if routeID == "" {
			fail("route_id", "route_id is required")
		}
		anchorID := get("anchor_id")
		if anchorID == "" {
			fail("anchor_id", "anchor_id is required")
		}
		storeName := get("store_name")
		if storeName == "" {
			fail("store_name", "store_name is required")
		}

		var stopType domain.StopType
		switch strings.ToLower(get("stop_type")) {
		case "anchor":
			stopType = domain.StopTypeAnchor
		case "satellite":
			stopType = domain.StopTypeSatellite
		default:
			fail("stop_type", `stop_type must be "Anchor" or "Satellite"`)
		}

		packages, err := strconv.ParseFloat(get("packages"), 64)
		if err != nil || math.IsNaN(packages) || math.IsInf(packages, 0) || packages < 0 {
			fail("packages", "packages must be a finite number >= 0")
		}

		startMinutes, okStart := parseClockMinutes(get("pickup_window_start_time"))
		if !okStart {
			fail("pickup_window_start_time", "pickup_window_start_time must be HH:MM or HH:MM:SS")
		}
		endMinutes, okEnd := parseClockMinutes(get("pickup_window_end_time"))
		if !okEnd {
			fail("pickup_window_end_time", "pickup_window_end_time must be HH:MM or HH:MM:SS")
		}
		if okStart && okEnd && endMinutes < startMinutes {
			fail("pickup_window_end_time", "pickup window end must not be before its start")
		}

		distance := parseOptionalFloat(get("distance_miles"))
		if hasDistanceCol && distance != nil {
			result.HasDistanceMiles = true
		}

		// Track anchor-row counts for the dataset invariant even when
		// other fields on the row failed.
		if anchorID != "" {
			if _, seen := anchorRows[anchorID]; !seen {
				anchorIDs = append(anchorIDs, anchorID)
				anchorRows[anchorID] = 0
			}
			if stopType == domain.StopTypeAnchor {
				anchorRows[anchorID]++
			}
		}

		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}

		result.Stops = append(result.Stops, domain.Stop{
			RouteID:                  routeID,
			AnchorID:                 anchorID,
			Type:                     stopType,
			StoreName:                storeName,
			StoreID:                  get("store_id"),
			Packages:                 packages,
			PickupWindowStartMinutes: startMinutes,
			PickupWindowEndMinutes:   endMinutes,
			AvgCubicInchesPerPackage: parseOptionalFloat(get("avg_cubic_inches_per_package")),
			ServiceTimeMinutes:       parseOptionalFloat(get("service_time_minutes")),
			DistanceMiles:            distance,
		})
	}

	sort.Strings(anchorIDs)
	for _, id := range anchorIDs {
		if n := anchorRows[id]; n != 1 {
			result.Errors = append(result.Errors, domain.UploadError{
				Row:     1,
				Message: fmt.Sprintf("anchor group %q has %d Anchor rows, expected exactly 1", id, n),
			})
		}
	}

	return result
}

// detectDelimiter compares comma and tab counts in the first line; tab
// wins only when it is strictly more frequent.
func detectDelimiter(text string) byte {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		return '\t'
	}
	return ','
}

// splitRecords is a quote-aware record splitter: quoted fields may hold
// the delimiter and newlines, and a doubled quote inside a quoted field
// escapes one literal quote. Both \r\n and \n terminate records.
func splitRecords(text string, delim byte) [][]string {
	var (
		records  [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		records = append(records, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case delim:
			flushField()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				// consumed with the following \n
				continue
			}
			field.WriteByte(c)
		case '\n':
			flushRow()
		default:
			field.WriteByte(c)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}

	return records
}

func dropBlankTrailingRows(records [][]string) [][]string {
	for len(records) > 0 {
		last := records[len(records)-1]
		blank := true
		for _, f := range last {
			if strings.TrimSpace(f) != "" {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		records = records[:len(records)-1]
	}
	return records
}

// parseClockMinutes converts HH:MM or HH:MM:SS to minutes since
// midnight. Seconds are validated but dropped.
func parseClockMinutes(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		ss, err := strconv.Atoi(parts[2])
		if err != nil || ss < 0 || ss > 59 {
			return 0, false
		}
	}

	return hh*60 + mm, true
}

// parseOptionalFloat is deliberately lenient: absent or unparseable
// values become nil, never an error.
func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

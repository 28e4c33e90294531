package tabular

import (
	"strings"
	"testing"

	"route-economics-service/internal/domain"
)

const header = "route_id,anchor_id,stop_type,store_name,packages,pickup_window_start_time,pickup_window_end_time"

func TestParseStopRowsEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "\uFEFF"} {
		got := ParseStopRows(text, ParseOptions{})
		if len(got.Errors) != 1 || got.Errors[0].Row != 1 {
			t.Errorf("ParseStopRows(%q) errors = %+v, want one row-1 error", text, got.Errors)
		}
		if len(got.Stops) != 0 || len(got.Rows) != 0 {
			t.Errorf("ParseStopRows(%q) produced rows for empty input", text)
		}
	}
}

func TestParseStopRowsMissingHeadersFailFast(t *testing.T) {
	text := "route_id,store_name\nR1,Store A\n"

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly one", got.Errors)
	}
	msg := got.Errors[0].Message
	for _, missing := range []string{"anchor_id", "stop_type", "packages", "pickup_window_start_time", "pickup_window_end_time"} {
		if !strings.Contains(msg, missing) {
			t.Errorf("error %q does not name missing header %q", msg, missing)
		}
	}
	if len(got.Stops) != 0 || len(got.Rows) != 0 {
		t.Error("missing headers must not produce partial rows")
	}
}

func TestParseStopRowsHappyPath(t *testing.T) {
	text := "\uFEFF" + header + ",store_id,distance_miles,service_time_minutes\r\n" +
		"R1,A1,Anchor,Main St,40,08:00,12:00:30,S-1,,7.5\r\n" +
		"R1,A1,satellite,Side St,10,08:30,11:00,S-2,4.2,\r\n" +
		"\r\n"

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", got.Errors)
	}
	if len(got.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(got.Stops))
	}

	anchor := got.Stops[0]
	if anchor.Type != domain.StopTypeAnchor || anchor.Packages != 40 {
		t.Errorf("anchor stop = %+v", anchor)
	}
	if anchor.PickupWindowStartMinutes != 480 || anchor.PickupWindowEndMinutes != 720 {
		t.Errorf("anchor window = %d..%d, want 480..720", anchor.PickupWindowStartMinutes, anchor.PickupWindowEndMinutes)
	}
	if anchor.DistanceMiles != nil {
		t.Errorf("blank distance should be nil, got %v", *anchor.DistanceMiles)
	}
	if anchor.ServiceTimeMinutes == nil || *anchor.ServiceTimeMinutes != 7.5 {
		t.Errorf("anchor service time = %v, want 7.5", anchor.ServiceTimeMinutes)
	}

	sat := got.Stops[1]
	if sat.Type != domain.StopTypeSatellite {
		t.Errorf("stop_type should match case-insensitively, got %q", sat.Type)
	}
	if sat.DistanceMiles == nil || *sat.DistanceMiles != 4.2 {
		t.Errorf("satellite distance = %v, want 4.2", sat.DistanceMiles)
	}
	if !got.HasDistanceMiles {
		t.Error("HasDistanceMiles should be true")
	}
}

func TestParseStopRowsQuotedFields(t *testing.T) {
	text := header + "\n" +
		`R1,A1,Anchor,"Smith, Jones ""and"" Co` + "\nAnnex" + `",5,08:00,10:00` + "\n" +
		"R1,A1,Satellite,Plain,5,08:00,10:00\n"

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", got.Errors)
	}
	want := "Smith, Jones \"and\" Co\nAnnex"
	if got.Stops[0].StoreName != want {
		t.Errorf("store name = %q, want %q", got.Stops[0].StoreName, want)
	}
}

func TestParseStopRowsDetectsTabDelimiter(t *testing.T) {
	text := strings.ReplaceAll(header, ",", "\t") + "\n" +
		"R1\tA1\tAnchor\tMain St\t5\t08:00\t10:00\n"

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", got.Errors)
	}
	if len(got.Stops) != 1 || got.Stops[0].StoreName != "Main St" {
		t.Errorf("stops = %+v", got.Stops)
	}
}

func TestParseStopRowsFieldErrorsAccumulate(t *testing.T) {
	text := header + "\n" +
		"R1,A1,Anchor,Main St,5,08:00,10:00\n" +
		",A1,Depot,Side St,-3,25:00,09:00\n" + // four bad fields on row 3
		"R1,A1,Satellite,Other St,2,09:00,08:00\n" // end before start, row 4

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Stops) != 1 {
		t.Fatalf("stops = %d, want only the clean anchor row", len(got.Stops))
	}
	if len(got.Rows) != 4 {
		t.Fatalf("rows = %d, want all 4 retained", len(got.Rows))
	}

	byRow := map[int][]string{}
	for _, e := range got.Errors {
		byRow[e.Row] = append(byRow[e.Row], e.Field)
	}
	if len(byRow[3]) != 4 {
		t.Errorf("row 3 errors = %v, want route_id, stop_type, packages and start time", byRow[3])
	}
	if len(byRow[4]) != 1 || byRow[4][0] != "pickup_window_end_time" {
		t.Errorf("row 4 errors = %v, want one end-time error", byRow[4])
	}
}

func TestParseStopRowsOptionalFieldsAreLenient(t *testing.T) {
	text := header + ",distance_miles,avg_cubic_inches_per_package\n" +
		"R1,A1,Anchor,Main St,5,08:00,10:00,not-a-number,NaN\n"

	got := ParseStopRows(text, ParseOptions{})

	if len(got.Errors) != 0 {
		t.Fatalf("lenient fields must not error, got %+v", got.Errors)
	}
	s := got.Stops[0]
	if s.DistanceMiles != nil || s.AvgCubicInchesPerPackage != nil {
		t.Errorf("unparseable optionals should be nil, got %+v", s)
	}
	if got.HasDistanceMiles {
		t.Error("HasDistanceMiles should be false with no parseable distances")
	}
}

func TestParseStopRowsAnchorCountInvariant(t *testing.T) {
	// A1 has no Anchor row; A2 has two.
	text := header + "\n" +
		"R1,A1,Satellite,One,5,08:00,10:00\n" +
		"R1,A1,Satellite,Two,5,08:00,10:00\n" +
		"R2,A2,Anchor,Three,5,08:00,10:00\n" +
		"R2,A2,Anchor,Four,5,08:00,10:00\n"

	got := ParseStopRows(text, ParseOptions{})

	var datasetErrs []domain.UploadError
	for _, e := range got.Errors {
		if e.Field == "" {
			datasetErrs = append(datasetErrs, e)
		}
	}
	if len(datasetErrs) != 2 {
		t.Fatalf("dataset errors = %+v, want 2", datasetErrs)
	}
	if datasetErrs[0].Row != 1 || !strings.Contains(datasetErrs[0].Message, `"A1"`) || !strings.Contains(datasetErrs[0].Message, "0 Anchor rows") {
		t.Errorf("A1 error = %+v, want row 1 naming A1 with count 0", datasetErrs[0])
	}
	if !strings.Contains(datasetErrs[1].Message, `"A2"`) || !strings.Contains(datasetErrs[1].Message, "2 Anchor rows") {
		t.Errorf("A2 error = %+v, want count 2", datasetErrs[1])
	}

	// Non-blocking: the parsed stops are still returned.
	if len(got.Stops) != 4 {
		t.Errorf("stops = %d, want 4", len(got.Stops))
	}
}

func TestParseStopRowsAnchorCountInvariantSurvivesBadRows(t *testing.T) {
	// A3 only ever appears on a row whose stop_type fails validation;
	// its missing Anchor row must still be reported.
	text := header + "\n" +
		"R1,A3,Depot,One,5,08:00,10:00\n"

	got := ParseStopRows(text, ParseOptions{})

	var datasetErrs []domain.UploadError
	for _, e := range got.Errors {
		if e.Field == "" {
			datasetErrs = append(datasetErrs, e)
		}
	}
	if len(datasetErrs) != 1 {
		t.Fatalf("dataset errors = %+v, want one for A3", datasetErrs)
	}
	if !strings.Contains(datasetErrs[0].Message, `"A3"`) || !strings.Contains(datasetErrs[0].Message, "0 Anchor rows") {
		t.Errorf("A3 error = %+v, want count 0", datasetErrs[0])
	}
}

func TestParseStopRowsDelimiterOverride(t *testing.T) {
	// One comma in the first line would win auto-detection; the caller
	// override forces tabs.
	text := "route_id\tanchor_id\tstop_type\tstore_name\tpackages\tpickup_window_start_time\tpickup_window_end_time\textra,note\n" +
		"R1\tA1\tAnchor\tMain St\t5\t08:00\t10:00\tx,y\n"

	got := ParseStopRows(text, ParseOptions{Delimiter: '\t'})

	if len(got.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", got.Errors)
	}
	if got.Stops[0].StoreName != "Main St" {
		t.Errorf("store name = %q", got.Stops[0].StoreName)
	}
}

package analysis

import (
	"os"
	"path/filepath"
	"testing"
)

const sessionCSV = `Formatted Date,Summary,Temperature (C),Apparent Temperature (C),Humidity
2021-01-04 00:00:00.000 +0000,Clear,1.0,0.5,0.9
2021-01-04 06:00:00.000 +0000,Clear,2.0,1.5,0.85
2021-01-04 12:00:00.000 +0000,Cloudy,8.0,7.5,0.6
2021-07-10 12:00:00.000 +0000,Clear,25.0,26.0,0.4
2021-07-10 18:00:00.000 +0000,Clear,22.0,23.0,0.5
`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSessionCachesByContent(t *testing.T) {
	s := NewSession()
	path := writeSource(t, "obs.csv", sessionCSV)

	first, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged source should be served from cache")
	}

	// Same bytes under a different name hit the same entry.
	copyPath := writeSource(t, "copy.csv", sessionCSV)
	third, err := s.Load(copyPath)
	if err != nil {
		t.Fatal(err)
	}
	if third != first {
		t.Error("identical content should share a cache entry")
	}
}

func TestSessionInvalidatesOnEdit(t *testing.T) {
	s := NewSession()
	path := writeSource(t, "obs.csv", sessionCSV)

	first, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	edited := sessionCSV + "2021-07-11 00:00:00.000 +0000,Clear,20.0,21.0,0.55\n"
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("edited source should bypass the cache")
	}
	if second.Fingerprint == first.Fingerprint {
		t.Error("fingerprint did not change with the content")
	}
	if second.Table.NumRows() != first.Table.NumRows()+1 {
		t.Errorf("rows = %d, want %d", second.Table.NumRows(), first.Table.NumRows()+1)
	}
}

func TestSessionLoadMissingFile(t *testing.T) {
	s := NewSession()
	if _, err := s.Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildReport(t *testing.T) {
	s := NewSession()
	path := writeSource(t, "obs.csv", sessionCSV)
	res, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	sum, err := BuildReport(res)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Dataset.Records != 5 {
		t.Errorf("Records = %d, want 5", sum.Dataset.Records)
	}
	if sum.Dataset.StartDate != "2021-01-04" || sum.Dataset.EndDate != "2021-07-10" {
		t.Errorf("dates = %q..%q", sum.Dataset.StartDate, sum.Dataset.EndDate)
	}
	if sum.Conditions.MostCommonSummary != "Clear" {
		t.Errorf("MostCommonSummary = %q", sum.Conditions.MostCommonSummary)
	}
	if sum.Conditions.MostCommonSharePct != 80 {
		t.Errorf("MostCommonSharePct = %v, want 80", sum.Conditions.MostCommonSharePct)
	}
	if sum.Temperature.Mean == nil || *sum.Temperature.Mean != 11.6 {
		t.Errorf("Temperature.Mean = %v, want 11.6", sum.Temperature.Mean)
	}
	if len(sum.Temperature.SeasonalMeans) != 2 {
		t.Errorf("SeasonalMeans = %+v", sum.Temperature.SeasonalMeans)
	}
	if sum.DailyCycle.WarmestHour == nil || sum.DailyCycle.WarmestHour.Hour != 18 {
		t.Errorf("WarmestHour = %+v", sum.DailyCycle.WarmestHour)
	}
	if sum.DailyCycle.CoolestHour == nil || sum.DailyCycle.CoolestHour.Hour != 0 {
		t.Errorf("CoolestHour = %+v", sum.DailyCycle.CoolestHour)
	}
	if len(sum.Relationships) == 0 {
		t.Error("expected relationship entries")
	}
	if sum.RunID == "" || sum.GeneratedAt.IsZero() {
		t.Error("report identity not stamped")
	}
}

func TestBuildReportMarksUndefinedRelationships(t *testing.T) {
	csv := `Formatted Date,Summary,Temperature (C),Humidity
2021-01-04 00:00:00.000 +0000,Clear,1.0,0.5
2021-01-04 06:00:00.000 +0000,Clear,2.0,0.5
2021-01-04 12:00:00.000 +0000,Cloudy,8.0,0.5
`
	s := NewSession()
	res, err := s.Load(writeSource(t, "obs.csv", csv))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := BuildReport(res)
	if err != nil {
		t.Fatal(err)
	}
	// Humidity is constant, so its pair with temperature cannot be
	// computed. It must still appear, marked undefined.
	if len(sum.Relationships) != 1 {
		t.Fatalf("got %d relationships, want 1", len(sum.Relationships))
	}
	rel := sum.Relationships[0]
	if rel.Coefficient != nil {
		t.Errorf("Coefficient = %v, want nil", rel.Coefficient)
	}
	if rel.Label != "undefined" {
		t.Errorf("Label = %q, want undefined", rel.Label)
	}
}

func TestNumericColumns(t *testing.T) {
	s := NewSession()
	path := writeSource(t, "obs.csv", sessionCSV)
	res, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cols := NumericColumns(res.Table)
	want := map[string]bool{"temperature": true, "apparent_temperature": true, "humidity": true}
	if len(cols) != len(want) {
		t.Fatalf("cols = %v", cols)
	}
	for _, c := range cols {
		if !want[c] {
			t.Errorf("unexpected column %q", c)
		}
	}
}

// Package report assembles the outputs of the statistics, aggregation and
// correlation stages into one structured summary. It performs no numeric
// work beyond simple ratios and threshold labels; rendering the summary is
// an external concern.
package report

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lox/weatherscope/internal/aggregate"
	"github.com/lox/weatherscope/internal/dataset"
	"github.com/lox/weatherscope/internal/stats"
)

// Facts are the dataset-level inputs computed upstream of assembly.
type Facts struct {
	Start           time.Time
	End             time.Time
	Records         int
	Variables       []string
	TopSummary      string
	TopSummaryCount int
}

// Input carries everything Assemble combines. RunID and GeneratedAt are
// stamped automatically when left empty.
type Input struct {
	RunID       string
	GeneratedAt time.Time

	Facts      Facts
	Statistics []stats.Record
	Pairs      []stats.Pair
	Seasonal   aggregate.Series
	Monthly    aggregate.Series
	Hourly     aggregate.Series
}

// Summary is the assembled report. Optional values are nil pointers when
// the underlying measure is undefined; they are encoded explicitly rather
// than omitted.
type Summary struct {
	RunID         string             `json:"run_id" yaml:"run_id"`
	GeneratedAt   time.Time          `json:"generated_at" yaml:"generated_at"`
	Dataset       DatasetSection     `json:"dataset" yaml:"dataset"`
	Temperature   TemperatureSection `json:"temperature" yaml:"temperature"`
	Conditions    ConditionsSection  `json:"conditions" yaml:"conditions"`
	Relationships []Relationship     `json:"relationships" yaml:"relationships"`
	DailyCycle    DailyCycleSection  `json:"daily_cycle" yaml:"daily_cycle"`
	Columns       []ColumnStats      `json:"columns" yaml:"columns"`
}

type DatasetSection struct {
	StartDate string   `json:"start_date" yaml:"start_date"`
	EndDate   string   `json:"end_date" yaml:"end_date"`
	Days      int      `json:"days" yaml:"days"`
	Records   int      `json:"records" yaml:"records"`
	Variables []string `json:"variables" yaml:"variables"`
}

type TemperatureSection struct {
	Mean          *float64       `json:"mean" yaml:"mean"`
	Min           *float64       `json:"min" yaml:"min"`
	Max           *float64       `json:"max" yaml:"max"`
	SeasonalMeans []LabeledValue `json:"seasonal_means" yaml:"seasonal_means"`
	WarmestMonth  *MonthMean     `json:"warmest_month" yaml:"warmest_month"`
	CoolestMonth  *MonthMean     `json:"coolest_month" yaml:"coolest_month"`
}

type ConditionsSection struct {
	MeanHumidityPct    *float64 `json:"mean_humidity_pct" yaml:"mean_humidity_pct"`
	MostCommonSummary  string   `json:"most_common_summary" yaml:"most_common_summary"`
	MostCommonSharePct float64  `json:"most_common_share_pct" yaml:"most_common_share_pct"`
}

type Relationship struct {
	A           string   `json:"a" yaml:"a"`
	B           string   `json:"b" yaml:"b"`
	Coefficient *float64 `json:"coefficient" yaml:"coefficient"`
	Label       string   `json:"label" yaml:"label"`
}

type DailyCycleSection struct {
	WarmestHour *HourMean `json:"warmest_hour" yaml:"warmest_hour"`
	CoolestHour *HourMean `json:"coolest_hour" yaml:"coolest_hour"`
}

type LabeledValue struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

type MonthMean struct {
	Month int     `json:"month" yaml:"month"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

type HourMean struct {
	Hour int     `json:"hour" yaml:"hour"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// ColumnStats is a Record flattened for encoding.
type ColumnStats struct {
	Column      string            `json:"column" yaml:"column"`
	Count       int               `json:"count" yaml:"count"`
	Missing     int               `json:"missing" yaml:"missing"`
	Mean        *float64          `json:"mean" yaml:"mean"`
	Median      *float64          `json:"median" yaml:"median"`
	Mode        *float64          `json:"mode" yaml:"mode"`
	StdDev      *float64          `json:"std_dev" yaml:"std_dev"`
	Variance    *float64          `json:"variance" yaml:"variance"`
	Min         *float64          `json:"min" yaml:"min"`
	Max         *float64          `json:"max" yaml:"max"`
	Range       *float64          `json:"range" yaml:"range"`
	IQR         *float64          `json:"iqr" yaml:"iqr"`
	Skewness    *float64          `json:"skewness" yaml:"skewness"`
	Kurtosis    *float64          `json:"kurtosis" yaml:"kurtosis"`
	Percentiles []PercentileValue `json:"percentiles" yaml:"percentiles"`
}

type PercentileValue struct {
	P     float64  `json:"p" yaml:"p"`
	Value *float64 `json:"value" yaml:"value"`
}

// Assemble combines the precomputed pieces into a Summary. It is a pure
// mapping apart from stamping RunID and GeneratedAt when unset.
func Assemble(in Input) Summary {
	s := Summary{
		RunID:       in.RunID,
		GeneratedAt: in.GeneratedAt,
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now().UTC()
	}

	s.Dataset = DatasetSection{
		StartDate: in.Facts.Start.Format("2006-01-02"),
		EndDate:   in.Facts.End.Format("2006-01-02"),
		Days:      int(in.Facts.End.Sub(in.Facts.Start).Hours() / 24),
		Records:   in.Facts.Records,
		Variables: in.Facts.Variables,
	}

	if rec, ok := findRecord(in.Statistics, string(dataset.ColTemperature)); ok {
		s.Temperature.Mean = fromNull(rec.Mean)
		s.Temperature.Min = fromNull(rec.Min)
		s.Temperature.Max = fromNull(rec.Max)
	}
	for _, p := range in.Seasonal.Points {
		s.Temperature.SeasonalMeans = append(s.Temperature.SeasonalMeans, LabeledValue{Label: p.Label, Value: p.Mean})
	}
	s.Temperature.WarmestMonth, s.Temperature.CoolestMonth = monthExtremes(in.Monthly)

	if rec, ok := findRecord(in.Statistics, string(dataset.ColHumidity)); ok && rec.Mean.Valid {
		pct := rec.Mean.Float64 * 100
		s.Conditions.MeanHumidityPct = &pct
	}
	s.Conditions.MostCommonSummary = in.Facts.TopSummary
	if in.Facts.Records > 0 && in.Facts.TopSummaryCount > 0 {
		s.Conditions.MostCommonSharePct = float64(in.Facts.TopSummaryCount) / float64(in.Facts.Records) * 100
	}

	for _, p := range in.Pairs {
		rel := Relationship{A: p.A, B: p.B, Coefficient: fromNull(p.R), Label: LabelUndefined}
		if p.R.Valid {
			rel.Label = StrengthLabel(p.R.Float64)
		}
		s.Relationships = append(s.Relationships, rel)
	}

	s.DailyCycle.WarmestHour, s.DailyCycle.CoolestHour = hourExtremes(in.Hourly)

	for _, rec := range in.Statistics {
		s.Columns = append(s.Columns, flattenRecord(rec))
	}
	return s
}

func findRecord(records []stats.Record, col string) (stats.Record, bool) {
	for _, r := range records {
		if r.Column == col {
			return r, true
		}
	}
	return stats.Record{}, false
}

func monthExtremes(monthly aggregate.Series) (warmest, coolest *MonthMean) {
	for _, p := range monthly.Points {
		m, err := strconv.Atoi(p.Label)
		if err != nil {
			continue
		}
		if warmest == nil || p.Mean > warmest.Mean {
			warmest = &MonthMean{Month: m, Mean: p.Mean}
		}
		if coolest == nil || p.Mean < coolest.Mean {
			coolest = &MonthMean{Month: m, Mean: p.Mean}
		}
	}
	return warmest, coolest
}

func hourExtremes(hourly aggregate.Series) (warmest, coolest *HourMean) {
	for _, p := range hourly.Points {
		h, err := strconv.Atoi(p.Label)
		if err != nil {
			continue
		}
		if warmest == nil || p.Mean > warmest.Mean {
			warmest = &HourMean{Hour: h, Mean: p.Mean}
		}
		if coolest == nil || p.Mean < coolest.Mean {
			coolest = &HourMean{Hour: h, Mean: p.Mean}
		}
	}
	return warmest, coolest
}

func flattenRecord(rec stats.Record) ColumnStats {
	cs := ColumnStats{
		Column:   rec.Column,
		Count:    rec.Count,
		Missing:  rec.Missing,
		Mean:     fromNull(rec.Mean),
		Median:   fromNull(rec.Median),
		Mode:     fromNull(rec.Mode),
		StdDev:   fromNull(rec.StdDev),
		Variance: fromNull(rec.Variance),
		Min:      fromNull(rec.Min),
		Max:      fromNull(rec.Max),
		Range:    fromNull(rec.Range),
		IQR:      fromNull(rec.IQR),
		Skewness: fromNull(rec.Skewness),
		Kurtosis: fromNull(rec.Kurtosis),
	}
	for _, p := range rec.Percentiles {
		cs.Percentiles = append(cs.Percentiles, PercentileValue{P: p.P, Value: fromNull(p.Value)})
	}
	return cs
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

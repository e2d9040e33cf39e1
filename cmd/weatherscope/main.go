// Command weatherscope cleans a weather observation export and reports
// descriptive statistics, correlations, aggregation series and a combined
// analysis summary.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/weatherscope/internal/aggregate"
	"github.com/lox/weatherscope/internal/analysis"
	"github.com/lox/weatherscope/internal/ingest"
	"github.com/lox/weatherscope/internal/report"
	"github.com/lox/weatherscope/internal/stats"
)

type CLI struct {
	Quiet bool `help:"Suppress progress logging." short:"q"`

	Report ReportCmd `cmd:"" help:"Assemble the full analysis report."`
	Stats  StatsCmd  `cmd:"" help:"Descriptive statistics for each numeric column."`
	Corr   CorrCmd   `cmd:"" help:"Pearson correlation matrix and ranked pairs."`
	Series SeriesCmd `cmd:"" help:"Mean of a column aggregated by time bucket."`
	Bins   BinsCmd   `cmd:"" help:"Mean of a column across equal-width ranges of another."`
	Export ExportCmd `cmd:"" help:"Clean the source and write the result to a new file."`
}

type ReportCmd struct {
	Input  string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
	Format string `help:"Output format." enum:"text,json,yaml" default:"text"`
}

func (c *ReportCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	sum, err := analysis.BuildReport(res)
	if err != nil {
		return err
	}
	switch c.Format {
	case "json":
		return report.EncodeJSON(os.Stdout, sum)
	case "yaml":
		return report.EncodeYAML(os.Stdout, sum)
	}
	renderText(os.Stdout, sum)
	return nil
}

type StatsCmd struct {
	Input string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
}

func (c *StatsCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	records := stats.Describe(res.Table, analysis.NumericColumns(res.Table), nil)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tcount\tmissing\tmean\tmedian\tstd\tmin\tmax\tskew\tkurtosis")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Column, r.Count, r.Missing,
			fmtNull(r.Mean), fmtNull(r.Median), fmtNull(r.StdDev),
			fmtNull(r.Min), fmtNull(r.Max), fmtNull(r.Skewness), fmtNull(r.Kurtosis))
	}
	return w.Flush()
}

type CorrCmd struct {
	Input string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
}

func (c *CorrCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	m, pairs, err := stats.Correlate(res.Table, analysis.NumericColumns(res.Table))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\n", strings.Join(m.Columns, "\t"))
	for i, col := range m.Columns {
		cells := make([]string, len(m.Columns))
		for j := range m.Columns {
			cells[j] = fmtNull(m.Coeffs[i][j])
		}
		fmt.Fprintf(w, "%s\t%s\n", col, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, p := range pairs {
		label := report.LabelUndefined
		if p.R.Valid {
			label = report.StrengthLabel(p.R.Float64)
		}
		fmt.Printf("%s / %s: %s (%s)\n", p.A, p.B, fmtNull(p.R), label)
	}
	return nil
}

type SeriesCmd struct {
	Input    string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
	Column   string `arg:"" help:"Numeric column to aggregate."`
	By       string `help:"Bucket size." enum:"day,week,month,year,hour,season" default:"month"`
	Category string `help:"Group by this categorical column instead of time."`
}

func (c *SeriesCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	var series aggregate.Series
	switch {
	case c.Category != "":
		series, err = aggregate.ByCategory(res.Table, c.Category, c.Column)
	case c.By == "hour":
		series, err = aggregate.HourlyProfile(res.Table, c.Column)
	case c.By == "season":
		series, err = aggregate.BySeason(res.Table, c.Column)
	default:
		g, gerr := aggregate.ParseGranularity(c.By)
		if gerr != nil {
			return gerr
		}
		series, err = aggregate.ByGranularity(res.Table, c.Column, g)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "bucket\tmean\tcount")
	for _, p := range series.Points {
		fmt.Fprintf(w, "%s\t%.4f\t%d\n", p.Label, p.Mean, p.Count)
	}
	return w.Flush()
}

type BinsCmd struct {
	Input  string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
	BinBy  string `arg:"" help:"Numeric column whose range defines the bins."`
	Column string `arg:"" help:"Numeric column to average per bin."`
	N      int    `help:"Number of bins." default:"5"`
}

func (c *BinsCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	bins, err := aggregate.EqualWidthBins(res.Table, c.BinBy, c.Column, c.N)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "range\tmean\tcount")
	for _, b := range bins {
		fmt.Fprintf(w, "%.2f-%.2f\t%.4f\t%d\n", b.Low, b.High, b.Mean, b.Count)
	}
	return w.Flush()
}

type ExportCmd struct {
	Input  string `arg:"" help:"Observation file (.csv, .tsv or .xlsx)." type:"existingfile"`
	Output string `arg:"" help:"Destination (.csv or .xlsx)."`
}

func (c *ExportCmd) Run(s *analysis.Session) error {
	res, err := s.Load(c.Input)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(c.Output), ".xlsx") {
		return ingest.WriteXLSX(res.Table, c.Output)
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Output, err)
	}
	if err := res.Table.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	return f.Close()
}

func renderText(w io.Writer, s report.Summary) {
	fmt.Fprintf(w, "Report %s (generated %s)\n\n", s.RunID, s.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "Dataset: %d records, %s to %s (%d days), %d variables\n",
		s.Dataset.Records, s.Dataset.StartDate, s.Dataset.EndDate, s.Dataset.Days, len(s.Dataset.Variables))

	fmt.Fprintf(w, "\nTemperature: mean %s, min %s, max %s\n",
		fmtPtr(s.Temperature.Mean), fmtPtr(s.Temperature.Min), fmtPtr(s.Temperature.Max))
	for _, sm := range s.Temperature.SeasonalMeans {
		fmt.Fprintf(w, "  %s: %.2f\n", sm.Label, sm.Value)
	}
	if s.Temperature.WarmestMonth != nil {
		fmt.Fprintf(w, "  warmest month: %d (%.2f)\n", s.Temperature.WarmestMonth.Month, s.Temperature.WarmestMonth.Mean)
	}
	if s.Temperature.CoolestMonth != nil {
		fmt.Fprintf(w, "  coolest month: %d (%.2f)\n", s.Temperature.CoolestMonth.Month, s.Temperature.CoolestMonth.Mean)
	}

	fmt.Fprintf(w, "\nConditions: mean humidity %s%%", fmtPtr(s.Conditions.MeanHumidityPct))
	if s.Conditions.MostCommonSummary != "" {
		fmt.Fprintf(w, ", most common %q (%.1f%%)", s.Conditions.MostCommonSummary, s.Conditions.MostCommonSharePct)
	}
	fmt.Fprintln(w)

	if len(s.Relationships) > 0 {
		fmt.Fprintln(w, "\nKey relationships:")
		for _, r := range s.Relationships {
			fmt.Fprintf(w, "  %s / %s: %s (%s)\n", r.A, r.B, fmtPtr(r.Coefficient), r.Label)
		}
	}

	if s.DailyCycle.WarmestHour != nil && s.DailyCycle.CoolestHour != nil {
		fmt.Fprintf(w, "\nDaily cycle: warmest hour %d (%.2f), coolest hour %d (%.2f)\n",
			s.DailyCycle.WarmestHour.Hour, s.DailyCycle.WarmestHour.Mean,
			s.DailyCycle.CoolestHour.Hour, s.DailyCycle.CoolestHour.Mean)
	}
}

func fmtNull(v sql.NullFloat64) string {
	if !v.Valid {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", *v)
}

func main() {
	log.SetFlags(0)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("weatherscope"),
		kong.Description("Weather observation cleaning and statistical analysis."),
		kong.UsageOnError(),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)
	if cli.Quiet {
		log.SetOutput(io.Discard)
	}
	err := ctx.Run(analysis.NewSession())
	ctx.FatalIfErrorf(err)
}

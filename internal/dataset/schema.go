package dataset

// Kind classifies how a column participates in cleaning and analysis.
type Kind int

const (
	Continuous Kind = iota
	Categorical
	Timestamp
	Derived
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Categorical:
		return "categorical"
	case Timestamp:
		return "timestamp"
	case Derived:
		return "derived"
	}
	return "unknown"
}

// Column is a canonical column identifier. Raw source headers are remapped
// to these names once, at ingest; everything downstream uses only canonical
// names.
type Column string

const (
	ColDate                Column = "date"
	ColSummary             Column = "summary"
	ColPrecipType          Column = "precip_type"
	ColTemperature         Column = "temperature"
	ColApparentTemperature Column = "apparent_temperature"
	ColHumidity            Column = "humidity"
	ColWindSpeed           Column = "wind_speed"
	ColWindBearing         Column = "wind_bearing"
	ColVisibility          Column = "visibility"
	ColCloudCover          Column = "cloud_cover"
	ColPressure            Column = "pressure"
	ColDailySummary        Column = "daily_summary"

	ColYear       Column = "year"
	ColMonth      Column = "month"
	ColDay        Column = "day"
	ColHour       Column = "hour"
	ColDayOfWeek  Column = "day_of_week"
	ColWeekOfYear Column = "week_of_year"
	ColSeason     Column = "season"
)

// rawHeaders maps the source dataset's header text to canonical columns.
// Unrecognized headers pass through under their original names.
var rawHeaders = map[string]Column{
	"Formatted Date":           ColDate,
	"Summary":                  ColSummary,
	"Precip Type":              ColPrecipType,
	"Temperature (C)":          ColTemperature,
	"Apparent Temperature (C)": ColApparentTemperature,
	"Humidity":                 ColHumidity,
	"Wind Speed (km/h)":        ColWindSpeed,
	"Wind Bearing (degrees)":   ColWindBearing,
	"Visibility (km)":          ColVisibility,
	"Loud Cover":               ColCloudCover,
	"Pressure (millibars)":     ColPressure,
	"Daily Summary":            ColDailySummary,
}

var kinds = map[Column]Kind{
	ColDate:                Timestamp,
	ColSummary:             Categorical,
	ColPrecipType:          Categorical,
	ColTemperature:         Continuous,
	ColApparentTemperature: Continuous,
	ColHumidity:            Continuous,
	ColWindSpeed:           Continuous,
	ColWindBearing:         Continuous,
	ColVisibility:          Continuous,
	ColCloudCover:          Continuous,
	ColPressure:            Continuous,
	ColDailySummary:        Categorical,

	ColYear:       Derived,
	ColMonth:      Derived,
	ColDay:        Derived,
	ColHour:       Derived,
	ColDayOfWeek:  Derived,
	ColWeekOfYear: Derived,
	ColSeason:     Derived,
}

// Canonical returns the canonical column for a raw header. It also accepts
// names that are already canonical, so remapping is idempotent.
func Canonical(raw string) (Column, bool) {
	if c, ok := rawHeaders[raw]; ok {
		return c, true
	}
	if _, ok := kinds[Column(raw)]; ok {
		return Column(raw), true
	}
	return "", false
}

// KindOf returns the declared semantic type of a canonical column.
func KindOf(c Column) (Kind, bool) {
	k, ok := kinds[c]
	return k, ok
}

// ContinuousColumns lists the declared continuous columns in schema order.
func ContinuousColumns() []Column {
	return []Column{
		ColTemperature,
		ColApparentTemperature,
		ColHumidity,
		ColWindSpeed,
		ColWindBearing,
		ColVisibility,
		ColCloudCover,
		ColPressure,
	}
}

// CategoricalColumns lists the declared categorical columns in schema order.
func CategoricalColumns() []Column {
	return []Column{ColSummary, ColPrecipType, ColDailySummary}
}

// CalendarColumns lists the fields derived from the timestamp. They are
// recomputed whenever the timestamp is established and are excluded from
// imputation and outlier handling.
func CalendarColumns() []Column {
	return []Column{ColYear, ColMonth, ColDay, ColHour, ColDayOfWeek, ColWeekOfYear, ColSeason}
}

// IsCalendar reports whether name is one of the derived calendar columns.
func IsCalendar(name string) bool {
	k, ok := kinds[Column(name)]
	return ok && k == Derived
}

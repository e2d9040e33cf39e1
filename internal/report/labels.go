package report

import "math"

// LabelUndefined marks a relationship whose coefficient could not be
// computed. It is reported rather than dropping the pair.
const LabelUndefined = "undefined"

// StrengthLabel classifies a Pearson coefficient by magnitude and sign:
// |r| >= 0.5 is strong, |r| >= 0.3 is moderate, anything below is weak.
func StrengthLabel(r float64) string {
	strength := "weak"
	switch abs := math.Abs(r); {
	case abs >= 0.5:
		strength = "strong"
	case abs >= 0.3:
		strength = "moderate"
	}
	sign := "positive"
	if r < 0 {
		sign = "negative"
	}
	return strength + " " + sign
}

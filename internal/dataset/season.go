package dataset

import "time"

// Season is a meteorological season index, northern-hemisphere convention.
type Season int

const (
	Winter Season = iota + 1
	Spring
	Summer
	Fall
)

func (s Season) String() string {
	switch s {
	case Winter:
		return "Winter"
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	}
	return "unknown"
}

// SeasonOf maps a month to its season: Dec-Feb Winter, Mar-May Spring,
// Jun-Aug Summer, Sep-Nov Fall.
func SeasonOf(m time.Month) Season {
	return Season(((int(m) % 12) + 3) / 3)
}

// Seasons lists the four seasons in index order.
func Seasons() []Season {
	return []Season{Winter, Spring, Summer, Fall}
}

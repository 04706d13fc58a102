package utils

import (
	"fmt"
	"time"
)

// HijriDate is a date in the arithmetical Islamic calendar
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

// julianDayNumber returns the Julian Day Number of a proleptic Gregorian date.
func julianDayNumber(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// ToHijri converts a Gregorian date to the tabular Islamic calendar
// (civil epoch, 30-year cycle with leap years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26, 29).
// offsetDays shifts the result to follow a local moon-sighting authority.
func ToHijri(t time.Time, offsetDays int) HijriDate {
	jdn := julianDayNumber(t.Year(), t.Month(), t.Day()) + offsetDays

	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30

	return HijriDate{Year: year, Month: month, Day: day}
}

var hijriMonths = [...]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani", "Jumada al-Ula", "Jumada al-Thani",
	"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// MonthName returns the transliterated month name, or "" when out of range.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > len(hijriMonths) {
		return ""
	}
	return hijriMonths[h.Month-1]
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName(), h.Year)
}

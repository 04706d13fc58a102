package utils

import (
	"testing"
	"time"
)

func TestToHijri(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		offset int
		want   HijriDate
	}{
		{name: "1 Ramadan 1445", date: "2024-03-11", want: HijriDate{Year: 1445, Month: 9, Day: 1}},
		{name: "last day of Shaban 1445", date: "2024-03-10", want: HijriDate{Year: 1445, Month: 8, Day: 29}},
		{name: "1 Shawwal 1445", date: "2024-04-10", want: HijriDate{Year: 1445, Month: 10, Day: 1}},
		{name: "30 Ramadan 1446", date: "2025-03-30", want: HijriDate{Year: 1446, Month: 9, Day: 30}},
		{name: "new year 2024", date: "2024-01-01", want: HijriDate{Year: 1445, Month: 6, Day: 19}},
		{name: "offset forward", date: "2024-03-10", offset: 1, want: HijriDate{Year: 1445, Month: 9, Day: 1}},
		{name: "offset back", date: "2024-03-11", offset: -1, want: HijriDate{Year: 1445, Month: 8, Day: 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := ToHijri(d, tt.offset); got != tt.want {
				t.Errorf("ToHijri(%s, %d) = %+v, want %+v", tt.date, tt.offset, got, tt.want)
			}
		})
	}
}

func TestHijriDate_String(t *testing.T) {
	d := ToHijri(time.Date(2024, 3, 23, 0, 0, 0, 0, time.UTC), 0)
	if got := d.String(); got != "13 Ramadan 1445 AH" {
		t.Errorf("String() = %q", got)
	}
	if got := (HijriDate{Month: 13}).MonthName(); got != "" {
		t.Errorf("MonthName() for month 13 = %q, want empty", got)
	}
}

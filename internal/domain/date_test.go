package domain

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-13")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2024, time.March, 13) {
		t.Fatalf("parsed %v", d)
	}
	if d.Weekday() != time.Wednesday {
		t.Fatalf("2024-03-13 weekday = %s, want Wednesday", d.Weekday())
	}

	if _, err := ParseDate("13/03/2024"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.March, 13)
	b := NewDate(2024, time.March, 14)
	c := NewDate(2024, time.April, 1)
	d := NewDate(2025, time.January, 1)

	for _, pair := range [][2]Date{{a, b}, {b, c}, {c, d}} {
		if !pair[0].Before(pair[1]) {
			t.Errorf("%s should sort before %s", pair[0], pair[1])
		}
		if pair[0].Compare(pair[1]) != -1 || pair[1].Compare(pair[0]) != 1 {
			t.Errorf("Compare inconsistent for %s / %s", pair[0], pair[1])
		}
	}
	if a.Compare(a) != 0 {
		t.Error("Compare with self should be 0")
	}
}

func TestDateRangeDays(t *testing.T) {
	r := DateRange{
		Start: NewDate(2024, time.February, 27),
		End:   NewDate(2024, time.March, 2),
	}

	var days []Date
	for d := range r.Days() {
		days = append(days, d)
	}

	// 2024 is a leap year, so the walk crosses Feb 29.
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if days[2] != NewDate(2024, time.February, 29) {
		t.Errorf("third day = %s, want 2024-02-29", days[2])
	}

	empty := DateRange{Start: NewDate(2024, time.March, 2), End: NewDate(2024, time.March, 1)}
	for d := range empty.Days() {
		t.Fatalf("inverted range yielded %s", d)
	}
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour() != 9 || tod.Minute() != 5 {
		t.Fatalf("parsed %d:%d", tod.Hour(), tod.Minute())
	}
	if tod.String() != "09:05" {
		t.Fatalf("String() = %q", tod.String())
	}

	at := NewDate(2024, time.March, 13).At(tod, time.UTC)
	want := time.Date(2024, 3, 13, 9, 5, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Fatalf("At() = %v, want %v", at, want)
	}
}

func TestWeekdaySet(t *testing.T) {
	s := NewWeekdaySet(time.Wednesday, time.Saturday)

	if !s.Has(time.Wednesday) || !s.Has(time.Saturday) {
		t.Fatal("set missing its own members")
	}
	if s.Has(time.Monday) {
		t.Fatal("set contains Monday")
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	if NewWeekdaySet().Count() != 0 {
		t.Fatal("empty set should count 0")
	}
}

package compliance

import "testing"

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"2025-06-02":               "2025-06-02",
		" 2025-06-02 ":             "2025-06-02",
		"2025-06-02T23:59:59.000Z": "2025-06-02",
		"06/02/2025":               "2025-06-02",
		"1748822400000":            "2025-06-02",
	}
	for raw, want := range cases {
		got, ok := ParseDate(raw)
		if !ok {
			t.Fatalf("%q: not parsed", raw)
		}
		if FormatDate(got) != want {
			t.Fatalf("%q: expected %s, got %s", raw, want, FormatDate(got))
		}
	}

	for _, raw := range []string{"", "   ", "tomorrow", "2025-13-40"} {
		if _, ok := ParseDate(raw); ok {
			t.Fatalf("%q: expected failure", raw)
		}
	}
}

func TestSameDate(t *testing.T) {
	if !SameDate("2025-01-01", "2025-01-01T00:00:00Z") {
		t.Fatalf("expected equal dates")
	}
	if SameDate("2025-01-01", "2025-02-01") {
		t.Fatalf("expected different dates")
	}
	if !SameDate("n/a", "n/a") || SameDate("n/a", "") {
		t.Fatalf("unparseable values compare verbatim")
	}
}

func TestHolidaySet(t *testing.T) {
	set, err := NewHolidaySet(map[int][]string{2025: {"2025-07-04"}, 2026: {"2026-07-03"}})
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	d, _ := ParseDate("2025-07-04")
	if !set.Contains(d) {
		t.Fatalf("expected holiday")
	}
	if got := set.Years(); len(got) != 2 || got[0] != 2025 || got[1] != 2026 {
		t.Fatalf("unexpected years %v", got)
	}

	if _, err := NewHolidaySet(map[int][]string{2025: {"2026-01-01"}}); err == nil {
		t.Fatalf("expected year mismatch error")
	}
	if _, err := NewHolidaySet(map[int][]string{2025: {"July 4"}}); err == nil {
		t.Fatalf("expected parse error")
	}

	var empty HolidaySet
	if empty.Contains(d) {
		t.Fatalf("zero set contains nothing")
	}
}

package compliance

import (
	"reflect"
	"testing"
	"time"

	"rldguard/internal/models"
)

const expansionsID = "782785325"

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	holidays, err := NewHolidaySet(map[int][]string{
		2025: {"2025-01-01", "2025-01-20", "2025-02-17", "2025-05-26", "2025-06-19", "2025-07-04", "2025-09-01", "2025-10-13", "2025-11-11", "2025-11-27", "2025-12-25"},
		2026: {"2026-01-01", "2026-01-19", "2026-02-16", "2026-05-25"},
	})
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	now := func() time.Time { return time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC) }
	return NewEvaluator(Rules{Holidays: holidays, ExpansionsPipeline: expansionsID}, now)
}

func types(vs []models.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Type)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	e := testEvaluator(t)

	cases := []struct {
		name string
		in   Input
		want []string
	}{
		{"compliant", Input{CloseDate: "2025-06-02", RLD: "2025-06-30"}, []string{"compliant"}},
		{"timestamp close date", Input{CloseDate: "2025-06-02T17:04:00.000Z", RLD: "2025-06-30"}, []string{"compliant"}},
		{"before close on wednesday", Input{CloseDate: "2025-06-02", RLD: "2025-05-28"}, []string{"rld_before_close", "rld_wrong_day"}},
		{"too soon", Input{CloseDate: "2025-06-02", RLD: "2025-06-09"}, []string{"rld_too_soon"}},
		{"holiday monday", Input{CloseDate: "2025-08-04", RLD: "2025-09-01"}, []string{"rld_holiday"}},
		{"tuesday after holiday", Input{CloseDate: "2025-08-04", RLD: "2025-09-02"}, []string{"compliant"}},
		{"plain tuesday", Input{CloseDate: "2025-06-02", RLD: "2025-07-01"}, []string{"rld_wrong_day"}},
		{"close overdue", Input{CloseDate: "2025-04-28", RLD: "2025-06-02"}, []string{"close_date_past"}},
		{"close overdue but closed", Input{CloseDate: "2025-04-28", RLD: "2025-06-02", IsClosed: true}, []string{"compliant"}},
		{"missing rld", Input{CloseDate: "2025-06-02"}, []string{"missing_data"}},
		{"missing both", Input{}, []string{"missing_data"}},
		{"unparseable rld", Input{CloseDate: "2025-06-02", RLD: "soon"}, []string{"missing_data"}},
		{"everything wrong", Input{CloseDate: "2025-04-28", RLD: "2025-04-23"}, []string{"close_date_past", "rld_past", "rld_before_close", "rld_wrong_day"}},
		{"expansions ignores timing", Input{CloseDate: "2025-06-02", RLD: "2025-05-28", Pipeline: expansionsID}, []string{"compliant"}},
		{"expansions still checks past", Input{CloseDate: "2025-06-02", RLD: "2025-04-30", Pipeline: expansionsID}, []string{"rld_past"}},
		{"expansions missing data", Input{RLD: "2025-05-28", Pipeline: expansionsID}, []string{"missing_data"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := types(e.Evaluate(tc.in))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluateCompliantMessages(t *testing.T) {
	e := testEvaluator(t)

	vs := e.Evaluate(Input{CloseDate: "2025-06-02", RLD: "2025-06-30"})
	if vs[0].Priority != 0 || vs[0].Severity != models.SeveritySuccess || vs[0].Message != "All rules compliant" {
		t.Fatalf("unexpected marker: %+v", vs[0])
	}

	vs = e.Evaluate(Input{CloseDate: "2025-06-02", RLD: "2025-06-04", Pipeline: expansionsID})
	if vs[0].Message != "Expansions pipeline - flexible timing" {
		t.Fatalf("unexpected message: %q", vs[0].Message)
	}
}

func TestEvaluateShape(t *testing.T) {
	e := testEvaluator(t)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	for c := 0; c < 90; c += 3 {
		closeDate := FormatDate(start.AddDate(0, 0, c))
		for r := -10; r < 60; r++ {
			rld := FormatDate(start.AddDate(0, 0, c+r))
			for _, pipeline := range []string{"default", expansionsID} {
				vs := e.Evaluate(Input{CloseDate: closeDate, RLD: rld, Pipeline: pipeline})
				if len(vs) == 0 {
					t.Fatalf("empty result for %s/%s", closeDate, rld)
				}
				for i, v := range vs {
					if v.Type == models.ViolationCompliant && len(vs) != 1 {
						t.Fatalf("compliant mixed with violations: %v", types(vs))
					}
					if i > 0 && vs[i-1].Priority > v.Priority {
						t.Fatalf("not sorted: %+v", vs)
					}
				}
				if pipeline == expansionsID {
					for _, v := range vs {
						if v.Priority >= 3 && v.Priority <= 5 {
							t.Fatalf("expansions pipeline got %s", v.Type)
						}
					}
				}
			}
		}
	}
}

func TestSuggest(t *testing.T) {
	e := testEvaluator(t)

	cases := []struct {
		name, close, current, want string
	}{
		{"four weeks lands on monday", "2025-06-02", "", "2025-06-30"},
		{"holiday monday becomes tuesday", "2025-08-04", "", "2025-09-02"},
		{"rolls to next monday", "2025-06-03", "", "2025-07-07"},
		{"sunday rolls one day", "2025-06-01", "", "2025-06-30"},
		{"current too early is replaced", "2025-06-02", "2025-06-09", "2025-06-30"},
		{"current monday kept", "2025-06-02", "2025-07-14", "2025-07-14"},
		{"current tuesday snaps back", "2025-06-02", "2025-07-08", "2025-07-07"},
		{"current wednesday snaps back", "2025-06-02", "2025-07-02", "2025-06-30"},
		{"current friday snaps forward", "2025-06-02", "2025-07-11", "2025-07-14"},
		{"snap back never breaks minimum", "2025-06-03", "2025-07-02", "2025-07-07"},
		{"tuesday after holiday kept", "2025-08-04", "2025-09-02", "2025-09-02"},
		{"holiday monday current", "2025-09-01", "2025-10-13", "2025-10-14"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := e.Suggest(tc.close, tc.current)
			if !ok {
				t.Fatalf("expected suggestion")
			}
			if FormatDate(got) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, FormatDate(got))
			}
		})
	}

	if _, ok := e.Suggest("", "2025-07-07"); ok {
		t.Fatalf("expected no suggestion without close date")
	}
}

func TestSuggestAlwaysValid(t *testing.T) {
	e := testEvaluator(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for c := 0; c < 365; c++ {
		closeDate := start.AddDate(0, 0, c)
		minimum := closeDate.AddDate(0, 0, DefaultMinLeadDays)
		for _, offset := range []int{-1, 0, 20, 27, 28, 29, 30, 31, 32, 33, 34, 45} {
			current := ""
			if offset >= 0 {
				current = FormatDate(closeDate.AddDate(0, 0, offset))
			}
			got, ok := e.Suggest(FormatDate(closeDate), current)
			if !ok {
				t.Fatalf("no suggestion for %s", FormatDate(closeDate))
			}
			if got.Before(minimum) {
				t.Fatalf("suggestion %s earlier than %s", FormatDate(got), FormatDate(minimum))
			}
			switch got.Weekday() {
			case time.Monday:
				if e.rules.Holidays.Contains(got) {
					t.Fatalf("suggested holiday monday %s", FormatDate(got))
				}
			case time.Tuesday:
				if !e.rules.Holidays.Contains(got.AddDate(0, 0, -1)) {
					t.Fatalf("suggested plain tuesday %s", FormatDate(got))
				}
			default:
				t.Fatalf("suggested %s (%s)", FormatDate(got), got.Weekday())
			}
		}
	}
}

func TestTodayUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := func() time.Time { return time.Date(2025, 5, 2, 2, 0, 0, 0, time.UTC) }
	e := NewEvaluator(Rules{Location: ny}, now)
	if got := FormatDate(e.Today()); got != "2025-05-01" {
		t.Fatalf("expected 2025-05-01, got %s", got)
	}
}

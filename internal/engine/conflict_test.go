package engine

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func testOffering(code, section string, credits float64, slots ...Slot) Offering {
	return Offering{
		ID:         uuid.New(),
		CourseID:   uuid.New(),
		CourseCode: code,
		Term:       "fall",
		Year:       2026,
		Section:    section,
		Credits:    CreditsFromFloat(credits),
		Slots:      slots,
	}
}

func slot(day string, start, end string) Slot {
	s, err := ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseClock(end)
	if err != nil {
		panic(err)
	}
	return Slot{Day: day, Start: s, End: e}
}

func TestBackToBackSlotsDoNotConflict(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0, slot("monday", "09:00", "10:00"))
	b := testOffering("MATH 100", "001", 1.0, slot("monday", "10:00", "11:00"))

	conflicts := DetectConflicts([]Offering{a, b})
	if len(conflicts) != 0 {
		t.Fatalf("half-open intervals meeting at 10:00 should not conflict, got %#v", conflicts)
	}
}

func TestOverlapReportsSharedWindow(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0, slot("monday", "09:00", "10:30"))
	b := testOffering("MATH 100", "001", 1.0, slot("monday", "10:00", "11:00"))

	conflicts := DetectConflicts([]Offering{a, b})
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %#v", conflicts)
	}
	c := conflicts[0]
	if c.Type != ConflictTime {
		t.Fatalf("unexpected conflict type %q", c.Type)
	}
	if FormatMinutes(c.Start) != "10:00" || FormatMinutes(c.End) != "10:30" {
		t.Fatalf("conflict window should be the intersection, got %s-%s",
			FormatMinutes(c.Start), FormatMinutes(c.End))
	}
}

func TestDetectConflictsIsOrderIndependent(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0, slot("tuesday", "13:00", "14:30"))
	b := testOffering("MATH 200", "002", 1.0, slot("tuesday", "14:00", "15:00"))

	forward := DetectConflicts([]Offering{a, b})
	backward := DetectConflicts([]Offering{b, a})
	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("conflict output depends on input order:\n%#v\n%#v", forward, backward)
	}
	if len(forward) != 1 || forward[0].Courses[0] != "CS 100" {
		t.Fatalf("courses should come out in canonical order, got %#v", forward)
	}
}

func TestDifferentDaysNeverConflict(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0, slot("monday", "09:00", "10:00"))
	b := testOffering("MATH 100", "001", 1.0, slot("tuesday", "09:00", "10:00"))

	if conflicts := DetectConflicts([]Offering{a, b}); len(conflicts) != 0 {
		t.Fatalf("slots on different days should not conflict, got %#v", conflicts)
	}
}

func TestDuplicateSlotReportsLocationAndInstructor(t *testing.T) {
	s := slot("wednesday", "09:00", "10:00")
	s.Location = "MC 2065"
	a := testOffering("CS 100", "001", 1.0, s)
	a.Instructor = "Moreno"
	b := testOffering("MATH 100", "001", 1.0, s)
	b.Instructor = "Moreno"

	conflicts := DetectConflicts([]Offering{a, b})
	types := map[ConflictType]bool{}
	for _, c := range conflicts {
		types[c.Type] = true
	}
	if !types[ConflictTime] || !types[ConflictLocation] || !types[ConflictInstructor] {
		t.Fatalf("duplicate slot should report time, location and instructor conflicts, got %#v", conflicts)
	}
}

func TestCanAddIgnoresExistingConflicts(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0, slot("monday", "09:00", "10:30"))
	b := testOffering("MATH 100", "001", 1.0, slot("monday", "10:00", "11:00"))
	candidate := testOffering("STAT 230", "001", 1.0, slot("monday", "13:00", "14:00"))

	ok, conflicts := CanAdd([]Offering{a, b}, candidate)
	if !ok || len(conflicts) != 0 {
		t.Fatalf("candidate clear of the selection should be addable, got %#v", conflicts)
	}

	clashing := testOffering("STAT 230", "002", 1.0, slot("monday", "10:15", "11:15"))
	ok, conflicts = CanAdd([]Offering{a, b}, clashing)
	if ok {
		t.Fatalf("overlapping candidate should be rejected")
	}
	// Only candidate-vs-selection conflicts, never the pre-existing a-vs-b one.
	if len(conflicts) != 2 {
		t.Fatalf("expected conflicts against both existing offerings, got %#v", conflicts)
	}
}

func TestFindGapsHourOrMore(t *testing.T) {
	a := testOffering("CS 100", "001", 1.0,
		slot("monday", "09:00", "10:00"),
		slot("tuesday", "09:00", "10:00"))
	b := testOffering("MATH 100", "001", 1.0,
		slot("monday", "11:30", "12:30"),
		slot("tuesday", "10:30", "11:30"))

	gaps := FindGaps([]Offering{a, b})
	if len(gaps) != 1 {
		t.Fatalf("only the monday 90 minute gap should be reported, got %#v", gaps)
	}
	g := gaps[0]
	if g.Day != "monday" || g.Minutes != 90 ||
		FormatMinutes(g.Start) != "10:00" || FormatMinutes(g.End) != "11:30" {
		t.Fatalf("unexpected gap %#v", g)
	}
}

func TestAnalyzeWorkload(t *testing.T) {
	a := testOffering("CS 100", "001", 0.5,
		slot("monday", "09:00", "10:20"),
		slot("wednesday", "09:00", "10:20"))
	b := testOffering("MATH 100", "001", 0.5,
		slot("monday", "13:00", "14:20"))

	summary := AnalyzeWorkload([]Offering{a, b})
	if summary.TotalCredits != CreditsFromFloat(1.0) {
		t.Fatalf("total credits mismatch: %s", summary.TotalCredits)
	}
	if summary.DailyCredits["monday"] != CreditsFromFloat(1.0) {
		t.Fatalf("monday should carry both offerings' credits, got %s", summary.DailyCredits["monday"])
	}
	if summary.DailyMinutes["monday"] != 160 || summary.DailyMinutes["wednesday"] != 80 {
		t.Fatalf("unexpected contact minutes: %#v", summary.DailyMinutes)
	}
	if summary.TotalMinutes != 240 {
		t.Fatalf("total minutes mismatch: %d", summary.TotalMinutes)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:05")
	if err != nil || m != 545 {
		t.Fatalf("ParseClock(09:05) = %d, %v", m, err)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Fatalf("out of range hour should error")
	}
	if _, err := ParseClock("0900"); err == nil {
		t.Fatalf("missing colon should error")
	}
	if FormatMinutes(545) != "09:05" {
		t.Fatalf("FormatMinutes(545) = %s", FormatMinutes(545))
	}
}

package engine

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTakeWithCompletedPrerequisite(t *testing.T) {
	cs50 := testCourse("CS", "50", 1.0)
	cs100 := testCourse("CS", "100", 1.0)
	cs100.Groups = []PrereqGroup{requireGroup("Intro Programming", cs50)}
	snap := testSnapshot(cs50, cs100)
	graph := mustBuildGraph(snap)
	hist := historyWith(uuid.Nil, completedRecord(cs50))

	result := CanTake(snap, graph, hist, cs100.ID, "fall")
	if !result.CanTake {
		t.Fatalf("expected can_take=true, got %#v", result)
	}
	if len(result.MissingPrerequisites) != 0 {
		t.Fatalf("expected no missing prerequisites, got %#v", result.MissingPrerequisites)
	}
}

func TestCanTakeUnknownCourse(t *testing.T) {
	snap := testSnapshot()
	graph := mustBuildGraph(snap)
	hist := historyWith(uuid.Nil)

	result := CanTake(snap, graph, hist, uuid.New(), "fall")
	if result.CanTake || result.Reason != ReasonUnknownCourse {
		t.Fatalf("unknown course id should yield unknown_course, got %#v", result)
	}

	result = CanTakeByCode(snap, graph, hist, "CS 999", "fall")
	if result.CanTake || result.Reason != ReasonUnknownCourse {
		t.Fatalf("unknown course code should yield unknown_course, got %#v", result)
	}
}

func TestCanTakeDecisionOrder(t *testing.T) {
	old := testCourse("CS", "110", 1.0)
	cs50 := testCourse("CS", "50", 1.0)
	course := testCourse("CS", "115", 1.0)
	course.TermsOffered = []string{"winter"}
	course.Antirequisites = []uuid.UUID{old.ID}
	course.Groups = []PrereqGroup{requireGroup("Intro", cs50)}
	allowedProgram := uuid.New()
	course.RestrictedTo = []uuid.UUID{allowedProgram}
	snap := testSnapshot(old, cs50, course)
	graph := mustBuildGraph(snap)

	// Wrong term wins over every later check.
	hist := historyWith(uuid.New(), completedRecord(old))
	result := CanTake(snap, graph, hist, course.ID, "fall")
	if result.Reason != ReasonNotOffered {
		t.Fatalf("expected not_offered first, got %q", result.Reason)
	}

	// Major restriction comes before antirequisites.
	result = CanTake(snap, graph, hist, course.ID, "winter")
	if result.Reason != ReasonRestrictedToMajors {
		t.Fatalf("expected restricted_to_majors, got %q", result.Reason)
	}

	// Antirequisite before prerequisites.
	hist = historyWith(allowedProgram, completedRecord(old))
	result = CanTake(snap, graph, hist, course.ID, "winter")
	if result.Reason != ReasonAntirequisite {
		t.Fatalf("expected antirequisite_conflict, got %q", result.Reason)
	}
	if len(result.BlockingAntirequisites) != 1 || result.BlockingAntirequisites[0] != "CS 110" {
		t.Fatalf("blocking antirequisites should name CS 110, got %#v", result.BlockingAntirequisites)
	}

	// Missing prerequisites last.
	hist = historyWith(allowedProgram)
	result = CanTake(snap, graph, hist, course.ID, "winter")
	if result.Reason != ReasonMissingPrerequisites {
		t.Fatalf("expected missing_prerequisites, got %q", result.Reason)
	}
	if len(result.MissingPrerequisites) != 1 || result.MissingPrerequisites[0] != "Intro" {
		t.Fatalf("unexpected missing prerequisites %#v", result.MissingPrerequisites)
	}

	// All checks pass.
	hist = historyWith(allowedProgram, completedRecord(cs50))
	result = CanTake(snap, graph, hist, course.ID, "winter")
	if !result.CanTake || result.Reason != "" {
		t.Fatalf("expected eligible, got %#v", result)
	}
}

func TestCanTakeInactiveCourse(t *testing.T) {
	course := testCourse("CS", "100", 1.0)
	course.Active = false
	snap := testSnapshot(course)
	graph := mustBuildGraph(snap)

	result := CanTake(snap, graph, historyWith(uuid.Nil), course.ID, "fall")
	if result.CanTake || result.Reason != ReasonNotOffered {
		t.Fatalf("inactive course should be not_offered, got %#v", result)
	}
}

func TestCanTakeReportsMissingCorequisitesWithoutBlocking(t *testing.T) {
	lab := testCourse("PHYS", "130L", 0.5)
	lecture := testCourse("PHYS", "130", 1.0)
	lecture.Corequisites = []uuid.UUID{lab.ID}
	snap := testSnapshot(lab, lecture)
	graph := mustBuildGraph(snap)

	result := CanTake(snap, graph, historyWith(uuid.Nil), lecture.ID, "fall")
	if !result.CanTake {
		t.Fatalf("missing corequisite should not block, got %#v", result)
	}
	if len(result.MissingCorequisites) != 1 || result.MissingCorequisites[0] != "PHYS 130L" {
		t.Fatalf("expected PHYS 130L listed as missing corequisite, got %#v", result.MissingCorequisites)
	}
}

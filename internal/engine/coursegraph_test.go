package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestPrerequisitesSatisfiedWithNoGroups(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100)
	graph := mustBuildGraph(snap)

	if !graph.PrerequisitesSatisfied(cs100.ID, nil) {
		t.Fatalf("course with no prerequisite groups should be vacuously satisfied")
	}
	if !graph.PrerequisitesSatisfied(cs100.ID, map[uuid.UUID]bool{uuid.New(): true}) {
		t.Fatalf("completed set contents should not matter without groups")
	}
}

func TestMissingPrerequisitesListsUnsatisfiedRequiredGroups(t *testing.T) {
	cs50 := testCourse("CS", "50", 1.0)
	math100 := testCourse("MATH", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs200.Groups = []PrereqGroup{
		requireGroup("Intro Programming", cs50),
		requireGroup("Calculus", math100),
	}
	snap := testSnapshot(cs50, math100, cs200)
	graph := mustBuildGraph(snap)

	missing := graph.MissingPrerequisites(cs200.ID, map[uuid.UUID]bool{cs50.ID: true})
	if len(missing) != 1 || missing[0] != "Calculus" {
		t.Fatalf("unexpected missing groups: %#v", missing)
	}

	missing = graph.MissingPrerequisites(cs200.ID, map[uuid.UUID]bool{cs50.ID: true, math100.ID: true})
	if len(missing) != 0 {
		t.Fatalf("expected no missing groups, got %#v", missing)
	}
}

func TestOptionalGroupsNeverBlock(t *testing.T) {
	cs50 := testCourse("CS", "50", 1.0)
	cs100 := testCourse("CS", "100", 1.0)
	cs100.Groups = []PrereqGroup{optionalGroup("Suggested Background", cs50)}
	snap := testSnapshot(cs50, cs100)
	graph := mustBuildGraph(snap)

	if !graph.PrerequisitesSatisfied(cs100.ID, nil) {
		t.Fatalf("optional group should not block eligibility")
	}
	if missing := graph.MissingPrerequisites(cs100.ID, nil); len(missing) != 0 {
		t.Fatalf("optional group should not be reported missing, got %#v", missing)
	}
}

func TestGroupSatisfiedByAnyMember(t *testing.T) {
	stat100 := testCourse("STAT", "100", 1.0)
	stat101 := testCourse("STAT", "101", 1.0)
	econ200 := testCourse("ECON", "200", 1.0)
	econ200.Groups = []PrereqGroup{requireGroup("Statistics Requirement", stat100, stat101)}
	snap := testSnapshot(stat100, stat101, econ200)
	graph := mustBuildGraph(snap)

	if !graph.PrerequisitesSatisfied(econ200.ID, map[uuid.UUID]bool{stat101.ID: true}) {
		t.Fatalf("any single group member should satisfy the group")
	}
}

func TestBuildCourseGraphDetectsCycle(t *testing.T) {
	a := testCourse("CS", "100", 1.0)
	b := testCourse("CS", "200", 1.0)
	c := testCourse("CS", "300", 1.0)
	a.Groups = []PrereqGroup{requireGroup("g1", b)}
	b.Groups = []PrereqGroup{requireGroup("g2", c)}
	c.Groups = []PrereqGroup{requireGroup("g3", a)}
	snap := testSnapshot(a, b, c)

	_, err := BuildCourseGraph(snap)
	if err == nil {
		t.Fatalf("expected a configuration error for a cyclic prerequisite graph")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if cfgErr.Kind != ConfigPrerequisiteCycle {
		t.Fatalf("unexpected error kind %q", cfgErr.Kind)
	}
	msg := cfgErr.Error()
	for _, code := range []string{"CS 100", "CS 200", "CS 300"} {
		if !strings.Contains(msg, code) {
			t.Fatalf("cycle error should name %s, got %q", code, msg)
		}
	}
}

func TestCorequisiteSatisfiedByPlannedSameTerm(t *testing.T) {
	lab := testCourse("CHEM", "120L", 0.5)
	lecture := testCourse("CHEM", "120", 1.0)
	lecture.Corequisites = []uuid.UUID{lab.ID}
	snap := testSnapshot(lab, lecture)
	graph := mustBuildGraph(snap)

	hist := historyWith(uuid.Nil, CourseRecord{CourseID: lab.ID, Status: StatusPlanned, Term: "fall"})
	if ok, _ := graph.CorequisitesSatisfied(lecture.ID, hist, "fall"); !ok {
		t.Fatalf("corequisite planned in the same term should satisfy")
	}
	if ok, missing := graph.CorequisitesSatisfied(lecture.ID, hist, "winter"); ok || len(missing) != 1 {
		t.Fatalf("corequisite planned in another term should not satisfy, missing=%#v", missing)
	}
}

func TestAntirequisiteViolatedByCompletedOrInProgress(t *testing.T) {
	old := testCourse("CS", "110", 1.0)
	replacement := testCourse("CS", "115", 1.0)
	replacement.Antirequisites = []uuid.UUID{old.ID}
	snap := testSnapshot(old, replacement)
	graph := mustBuildGraph(snap)

	hist := historyWith(uuid.Nil, inProgressRecord(old))
	violated, blocking := graph.AntirequisiteViolated(replacement.ID, hist)
	if !violated || len(blocking) != 1 || blocking[0] != old.ID {
		t.Fatalf("in-progress antirequisite should block, got violated=%v blocking=%#v", violated, blocking)
	}

	if violated, _ := graph.AntirequisiteViolated(replacement.ID, historyWith(uuid.Nil)); violated {
		t.Fatalf("no history should mean no antirequisite violation")
	}
}

func TestTopologicalOrderPutsPrerequisitesFirst(t *testing.T) {
	cs50 := testCourse("CS", "50", 1.0)
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs100.Groups = []PrereqGroup{requireGroup("intro", cs50)}
	cs200.Groups = []PrereqGroup{requireGroup("core", cs100)}
	snap := testSnapshot(cs200, cs100, cs50)
	graph := mustBuildGraph(snap)

	order := graph.TopologicalOrder()
	pos := map[string]int{}
	for i, code := range order {
		pos[code] = i
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 courses in order, got %#v", order)
	}
	if pos["CS 50"] > pos["CS 100"] || pos["CS 100"] > pos["CS 200"] {
		t.Fatalf("prerequisites should come first: %#v", order)
	}
}

func TestPrerequisiteChainAndUnlockCount(t *testing.T) {
	cs50 := testCourse("CS", "50", 1.0)
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs100.Groups = []PrereqGroup{requireGroup("intro", cs50)}
	cs200.Groups = []PrereqGroup{requireGroup("core", cs100)}
	snap := testSnapshot(cs50, cs100, cs200)
	graph := mustBuildGraph(snap)

	chain := graph.PrerequisiteChain(cs200.ID)
	if got := chain["CS 200"]; len(got) != 1 || got[0] != "CS 100" {
		t.Fatalf("unexpected chain for CS 200: %#v", chain)
	}
	if got := chain["CS 100"]; len(got) != 1 || got[0] != "CS 50" {
		t.Fatalf("unexpected chain for CS 100: %#v", chain)
	}

	if n := graph.UnlockCount(cs50.ID); n != 1 {
		t.Fatalf("CS 50 should unlock exactly one course, got %d", n)
	}
	if n := graph.UnlockCount(cs200.ID); n != 0 {
		t.Fatalf("CS 200 unlocks nothing, got %d", n)
	}
}

package engine

import "testing"

func TestRecommendRanksRequiredNodesHigher(t *testing.T) {
	cs200 := testCourse("CS", "200", 1.0)
	phil110 := testCourse("PHIL", "110", 1.0)
	snap := testSnapshot(cs200, phil110)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Core CS",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Order:           1,
		Members:         memberIDs(cs200),
	})
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Humanities Elective",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        false,
		Order:           2,
		Members:         memberIDs(phil110),
	})

	graph := mustBuildGraph(snap)
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID)
	audit := tree.Evaluate(hist)

	recs := Recommend(snap, graph, audit, hist, "fall", 0)
	if len(recs) != 2 {
		t.Fatalf("expected both eligible courses recommended, got %#v", recs)
	}
	if recs[0].CourseCode != "CS 200" || recs[0].ImpactScore != 2 {
		t.Fatalf("required-node course should rank first with doubled score, got %#v", recs[0])
	}
	if recs[0].Reason != "Counts toward Core CS" {
		t.Fatalf("unexpected reason %q", recs[0].Reason)
	}
	if recs[1].CourseCode != "PHIL 110" || recs[1].ImpactScore != 1 {
		t.Fatalf("elective should rank second with base score, got %#v", recs[1])
	}
}

func TestRecommendSkipsTakenAndIneligible(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs300 := testCourse("CS", "300", 1.0)
	cs300.Groups = []PrereqGroup{requireGroup("CS 200 prereq", cs200)}
	snap := testSnapshot(cs100, cs200, cs300)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Core",
		Type:            RequirementCourseGroup,
		CoursesRequired: 3,
		Required:        true,
		Members:         memberIDs(cs100, cs200, cs300),
	})

	graph := mustBuildGraph(snap)
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID, completedRecord(cs100), inProgressRecord(cs200))
	audit := tree.Evaluate(hist)

	recs := Recommend(snap, graph, audit, hist, "fall", 0)
	for _, r := range recs {
		if r.CourseCode == "CS 100" || r.CourseCode == "CS 200" {
			t.Fatalf("taken courses must never be recommended, got %#v", recs)
		}
		if r.CourseCode == "CS 300" {
			t.Fatalf("course with unmet prerequisites must not be recommended, got %#v", recs)
		}
	}
}

func TestRecommendFallbackReasons(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs200.Groups = []PrereqGroup{requireGroup("Intro", cs100)}
	phil110 := testCourse("PHIL", "110", 1.0)
	snap := testSnapshot(cs100, cs200, phil110)
	program := testProgram(snap, "BCS", 10.0)
	// No requirement nodes mention any course, so every score is zero.

	graph := mustBuildGraph(snap)
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID)
	audit := tree.Evaluate(hist)

	recs := Recommend(snap, graph, audit, hist, "fall", 0)
	byCode := map[string]Recommendation{}
	for _, r := range recs {
		byCode[r.CourseCode] = r
	}
	if r := byCode["CS 100"]; r.Reason != "Unlocks 1 other courses" {
		t.Fatalf("prerequisite course should cite its unlocks, got %q", r.Reason)
	}
	if r := byCode["PHIL 110"]; r.Reason != "Eligible this term" {
		t.Fatalf("course with no downstream value gets the default reason, got %q", r.Reason)
	}
}

func TestRecommendTieBreaksOnCreditsThenCode(t *testing.T) {
	stat230 := testCourse("STAT", "230", 0.5)
	econ101 := testCourse("ECON", "101", 1.0)
	actsc231 := testCourse("ACTSC", "231", 0.5)
	snap := testSnapshot(stat230, econ101, actsc231)
	program := testProgram(snap, "BMATH", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Quantitative Elective",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        false,
		Members:         memberIDs(stat230, econ101, actsc231),
	})

	graph := mustBuildGraph(snap)
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID)
	audit := tree.Evaluate(hist)

	recs := Recommend(snap, graph, audit, hist, "winter", 0)
	got := []string{recs[0].CourseCode, recs[1].CourseCode, recs[2].CourseCode}
	want := []string{"ACTSC 231", "STAT 230", "ECON 101"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie-break order mismatch: got %v want %v", got, want)
		}
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	var courses []*Course
	for _, number := range []string{"101", "102", "103", "104", "105", "106", "107"} {
		courses = append(courses, testCourse("GEN", number, 0.5))
	}
	snap := testSnapshot(courses...)
	program := testProgram(snap, "BA", 10.0)

	graph := mustBuildGraph(snap)
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID)
	audit := tree.Evaluate(hist)

	if recs := Recommend(snap, graph, audit, hist, "fall", 0); len(recs) != DefaultRecommendationLimit {
		t.Fatalf("zero limit should fall back to the default of %d, got %d", DefaultRecommendationLimit, len(recs))
	}
	if recs := Recommend(snap, graph, audit, hist, "fall", 2); len(recs) != 2 {
		t.Fatalf("explicit limit should cap output, got %d", len(recs))
	}
}

package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func testProgram(snap *CatalogSnapshot, code string, totalCredits float64) *Program {
	p := &Program{
		ID:                   uuid.New(),
		Code:                 code,
		Name:                 code,
		TotalCreditsRequired: CreditsFromFloat(totalCredits),
	}
	snap.AddProgram(p)
	return p
}

func addNode(snap *CatalogSnapshot, node *RequirementNode) *RequirementNode {
	if node.ID == uuid.Nil {
		node.ID = uuid.New()
	}
	snap.Requirements[node.ProgramID] = append(snap.Requirements[node.ProgramID], node)
	return node
}

func memberIDs(courses ...*Course) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func mustBuildTree(t *testing.T, snap *CatalogSnapshot, programID uuid.UUID) *RequirementTree {
	t.Helper()
	tree, err := BuildRequirementTree(snap, programID)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return tree
}

func TestCreditRequirementCountsInProgressForDisplayOnly(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	cs300 := testCourse("CS", "300", 1.0)
	snap := testSnapshot(cs100, cs200, cs300)
	program := testProgram(snap, "BCS", 20.0)
	node := addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Core Credits",
		Type:            RequirementCredit,
		CreditsRequired: CreditsFromFloat(3.0),
		Required:        true,
		Members:         memberIDs(cs100, cs200, cs300),
	})

	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID, completedRecord(cs100), inProgressRecord(cs200))
	result := tree.Evaluate(hist)

	if len(result.Requirements) != 1 {
		t.Fatalf("expected one requirement status, got %d", len(result.Requirements))
	}
	st := result.Requirements[0]
	if st.NodeID != node.ID {
		t.Fatalf("unexpected node id %s", st.NodeID)
	}
	if st.CreditsEarned != CreditsFromFloat(2.0) {
		t.Fatalf("expected 2.0 displayed credits, got %s", st.CreditsEarned)
	}
	if st.IsSatisfied {
		t.Fatalf("only 1.0 completed credit should not satisfy a 3.0 threshold")
	}
}

func TestCourseGroupSatisfiedByCompletedOnly(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	snap := testSnapshot(cs100, cs200)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Intro Group",
		Type:            RequirementCourseGroup,
		CoursesRequired: 2,
		Required:        true,
		Members:         memberIDs(cs100, cs200),
	})
	tree := mustBuildTree(t, snap, program.ID)

	hist := historyWith(program.ID, completedRecord(cs100), inProgressRecord(cs200))
	st := tree.Evaluate(hist).Requirements[0]
	if st.IsSatisfied {
		t.Fatalf("one completed of two required should not satisfy")
	}
	if st.CreditsEarned != CreditsFromFloat(2.0) {
		t.Fatalf("in-progress credits should still display, got %s", st.CreditsEarned)
	}

	hist = historyWith(program.ID, completedRecord(cs100), completedRecord(cs200))
	st = tree.Evaluate(hist).Requirements[0]
	if !st.IsSatisfied {
		t.Fatalf("two completed of two required should satisfy")
	}
}

func TestParentAggregation(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	math100 := testCourse("MATH", "100", 1.0)
	snap := testSnapshot(cs100, math100)
	program := testProgram(snap, "BCS", 10.0)
	parent := addNode(snap, &RequirementNode{
		ProgramID: program.ID,
		Name:      "Year One",
		Type:      RequirementCourseGroup,
		Required:  true,
	})
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		ParentID:        &parent.ID,
		Name:            "CS Intro",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Order:           1,
		Members:         memberIDs(cs100),
	})
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		ParentID:        &parent.ID,
		Name:            "Math Intro",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Order:           2,
		Members:         memberIDs(math100),
	})
	tree := mustBuildTree(t, snap, program.ID)

	hist := historyWith(program.ID, completedRecord(cs100), completedRecord(math100))
	result := tree.Evaluate(hist)
	root := result.Requirements[0]
	if root.Name != "Year One" || !root.IsSatisfied {
		t.Fatalf("parent with both children satisfied should be satisfied, got %#v", root)
	}
	if root.CreditsEarned != CreditsFromFloat(2.0) {
		t.Fatalf("parent credits should sum children, got %s", root.CreditsEarned)
	}

	// One child missing fails the AND parent.
	hist = historyWith(program.ID, completedRecord(cs100))
	root = tree.Evaluate(hist).Requirements[0]
	if root.IsSatisfied {
		t.Fatalf("parent should fail when a required child is unsatisfied")
	}
}

func TestParentWithThresholdUsesOrOfN(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	math100 := testCourse("MATH", "100", 1.0)
	snap := testSnapshot(cs100, math100)
	program := testProgram(snap, "BCS", 10.0)
	parent := addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Breadth",
		Type:            RequirementCourseGroup,
		MinimumSubjects: 1,
		Required:        true,
	})
	for i, c := range []*Course{cs100, math100} {
		addNode(snap, &RequirementNode{
			ProgramID:       program.ID,
			ParentID:        &parent.ID,
			Name:            c.Subject,
			Type:            RequirementCourseGroup,
			CoursesRequired: 1,
			Required:        true,
			Order:           i,
			Members:         memberIDs(c),
		})
	}
	tree := mustBuildTree(t, snap, program.ID)

	hist := historyWith(program.ID, completedRecord(cs100))
	root := tree.Evaluate(hist).Requirements[0]
	if !root.IsSatisfied {
		t.Fatalf("parent with minimum_subjects=1 should satisfy on one satisfied child")
	}
}

func TestUnresolvedReferenceIsInBand(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Ghost Group",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Order:           1,
		Members:         append(memberIDs(cs100), uuid.New()),
	})
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Real Group",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Order:           2,
		Members:         memberIDs(cs100),
	})
	tree := mustBuildTree(t, snap, program.ID)

	hist := historyWith(program.ID, completedRecord(cs100))
	result := tree.Evaluate(hist)
	ghost, real := result.Requirements[0], result.Requirements[1]
	if ghost.DataIssue != DataIssueUnresolvedReference || ghost.IsSatisfied {
		t.Fatalf("node with unresolved member should carry data issue and stay unsatisfied, got %#v", ghost)
	}
	if !real.IsSatisfied {
		t.Fatalf("the rest of the tree should still evaluate, got %#v", real)
	}
}

func TestAverageRequirement(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	snap := testSnapshot(cs100, cs200)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:    program.ID,
		Name:         "Major Average",
		Type:         RequirementAverage,
		MinimumLevel: 70,
		Required:     true,
		Members:      memberIDs(cs100, cs200),
	})
	tree := mustBuildTree(t, snap, program.ID)

	// No graded course at all.
	st := tree.Evaluate(historyWith(program.ID, completedRecord(cs100))).Requirements[0]
	if st.DataIssue != DataIssueInsufficientData || st.IsSatisfied {
		t.Fatalf("ungraded history should flag insufficient_data, got %#v", st)
	}

	st = tree.Evaluate(historyWith(program.ID, gradedRecord(cs100, 80), gradedRecord(cs200, 64))).Requirements[0]
	if !st.IsSatisfied {
		t.Fatalf("mean 72 should satisfy threshold 70, got %#v", st)
	}

	st = tree.Evaluate(historyWith(program.ID, gradedRecord(cs100, 60), gradedRecord(cs200, 64))).Requirements[0]
	if st.IsSatisfied {
		t.Fatalf("mean 62 should not satisfy threshold 70")
	}
}

func TestEvaluateUnknownProgram(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Core",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Members:         memberIDs(cs100),
	})

	known := mustBuildTree(t, snap, program.ID)
	if result := known.Evaluate(historyWith(program.ID)); result.Status != AuditStatusOK {
		t.Fatalf("catalog program should audit with status ok, got %q", result.Status)
	}

	ghost := uuid.New()
	tree := mustBuildTree(t, snap, ghost)
	result := tree.Evaluate(historyWith(ghost))
	if result.Status != AuditStatusUnknownProgram {
		t.Fatalf("program id absent from the catalog should report unknown_program, got %q", result.Status)
	}
	if len(result.Requirements) != 0 || result.Progress.TotalCreditsRequired != 0 {
		t.Fatalf("unknown program should carry no requirements or totals, got %#v", result)
	}
}

func TestAverageRequirementKeepsUnresolvedMarker(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:    program.ID,
		Name:         "Major Average",
		Type:         RequirementAverage,
		MinimumLevel: 70,
		Required:     true,
		Members:      append(memberIDs(cs100), uuid.New()),
	})
	tree := mustBuildTree(t, snap, program.ID)

	// No graded course in the pool and one member outside the catalog.
	st := tree.Evaluate(historyWith(program.ID, completedRecord(cs100))).Requirements[0]
	if st.DataIssue != DataIssueUnresolvedReference {
		t.Fatalf("gradeless pool should not hide the unresolved member, got %q", st.DataIssue)
	}
	if st.IsSatisfied {
		t.Fatalf("node with a data issue should stay unsatisfied")
	}
}

func TestLevelRequirement(t *testing.T) {
	cs300 := testCourse("CS", "300", 1.0)
	cs340 := testCourse("CS", "341W", 1.0)
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100, cs300, cs340)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Upper Year",
		Type:            RequirementLevel,
		MinimumLevel:    300,
		CoursesRequired: 2,
		Required:        true,
	})
	tree := mustBuildTree(t, snap, program.ID)

	hist := historyWith(program.ID, completedRecord(cs100), completedRecord(cs300))
	if st := tree.Evaluate(hist).Requirements[0]; st.IsSatisfied {
		t.Fatalf("one 300-level course should not meet a count of 2")
	}

	hist = historyWith(program.ID, completedRecord(cs100), completedRecord(cs300), completedRecord(cs340))
	if st := tree.Evaluate(hist).Requirements[0]; !st.IsSatisfied {
		t.Fatalf("two 300-level courses should satisfy")
	}
}

func TestSubjectRequirementSpansDistinctSubjects(t *testing.T) {
	phil200 := testCourse("PHIL", "200", 1.0)
	hist200 := testCourse("HIST", "200", 1.0)
	phil210 := testCourse("PHIL", "210", 1.0)
	snap := testSnapshot(phil200, hist200, phil210)
	program := testProgram(snap, "BA", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:                program.ID,
		Name:                     "Humanities Breadth",
		Type:                     RequirementSubject,
		SubjectCodes:             []string{"PHIL", "HIST"},
		CoursesRequired:          2,
		MinimumSubjects:          2,
		RequireDifferentSubjects: true,
		Required:                 true,
	})
	tree := mustBuildTree(t, snap, program.ID)

	// Two courses in one subject do not span two subjects.
	st := tree.Evaluate(historyWith(program.ID, completedRecord(phil200), completedRecord(phil210))).Requirements[0]
	if st.IsSatisfied {
		t.Fatalf("two PHIL courses should not span two subjects, got %#v", st)
	}
	if len(st.SatisfiedCourses) != 1 {
		t.Fatalf("require_different_subjects should keep one course per subject, got %#v", st.SatisfiedCourses)
	}

	st = tree.Evaluate(historyWith(program.ID, completedRecord(phil200), completedRecord(hist200))).Requirements[0]
	if !st.IsSatisfied {
		t.Fatalf("PHIL+HIST should satisfy, got %#v", st)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	cs200 := testCourse("CS", "200", 1.0)
	snap := testSnapshot(cs100, cs200)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Core",
		Type:            RequirementCourseGroup,
		CoursesRequired: 2,
		Required:        true,
		Members:         memberIDs(cs100, cs200),
	})
	tree := mustBuildTree(t, snap, program.ID)
	hist := historyWith(program.ID, completedRecord(cs100), inProgressRecord(cs200))

	first, err := json.Marshal(tree.Evaluate(hist))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(tree.Evaluate(hist))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("evaluate is not deterministic:\n%s\n%s", first, second)
	}
}

func TestProgressPercentageClamped(t *testing.T) {
	cs100 := testCourse("CS", "100", 9.0)
	snap := testSnapshot(cs100)
	program := testProgram(snap, "CERT", 2.0)
	addNode(snap, &RequirementNode{
		ProgramID:       program.ID,
		Name:            "Anything",
		Type:            RequirementCourseGroup,
		CoursesRequired: 1,
		Required:        true,
		Members:         memberIDs(cs100),
	})
	tree := mustBuildTree(t, snap, program.ID)

	result := tree.Evaluate(historyWith(program.ID, completedRecord(cs100)))
	if result.Progress.PercentageComplete != 100 {
		t.Fatalf("percentage should clamp to 100, got %v", result.Progress.PercentageComplete)
	}
	if result.Progress.CreditsRemaining != 0 {
		t.Fatalf("credits remaining should floor at zero, got %s", result.Progress.CreditsRemaining)
	}
}

func TestBuildRequirementTreeRejectsCycle(t *testing.T) {
	snap := testSnapshot()
	program := testProgram(snap, "BCS", 10.0)
	a := &RequirementNode{ID: uuid.New(), ProgramID: program.ID, Name: "A", Type: RequirementCourseGroup, Required: true}
	b := &RequirementNode{ID: uuid.New(), ProgramID: program.ID, Name: "B", Type: RequirementCourseGroup, Required: true}
	a.ParentID = &b.ID
	b.ParentID = &a.ID
	addNode(snap, a)
	addNode(snap, b)

	_, err := BuildRequirementTree(snap, program.ID)
	var cfgErr *ConfigurationError
	if err == nil || !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error for a parent cycle, got %v", err)
	}
	if cfgErr.Kind != ConfigRequirementCycle {
		t.Fatalf("unexpected kind %q", cfgErr.Kind)
	}
}

func TestBuildRequirementTreeRejectsForeignParent(t *testing.T) {
	snap := testSnapshot()
	program := testProgram(snap, "BCS", 10.0)
	other := testProgram(snap, "BA", 10.0)
	foreign := addNode(snap, &RequirementNode{ProgramID: other.ID, Name: "Foreign", Type: RequirementCourseGroup})
	addNode(snap, &RequirementNode{ProgramID: program.ID, ParentID: &foreign.ID, Name: "Child", Type: RequirementCourseGroup})

	_, err := BuildRequirementTree(snap, program.ID)
	var cfgErr *ConfigurationError
	if err == nil || !errors.As(err, &cfgErr) || cfgErr.Kind != ConfigBadParent {
		t.Fatalf("expected invalid_parent configuration error, got %v", err)
	}
}

func TestDuplicateSiblingOrderWarnsOnly(t *testing.T) {
	cs100 := testCourse("CS", "100", 1.0)
	snap := testSnapshot(cs100)
	program := testProgram(snap, "BCS", 10.0)
	addNode(snap, &RequirementNode{ProgramID: program.ID, Name: "First", Type: RequirementCourseGroup, Order: 1, Members: memberIDs(cs100)})
	addNode(snap, &RequirementNode{ProgramID: program.ID, Name: "Second", Type: RequirementCourseGroup, Order: 1, Members: memberIDs(cs100)})

	tree := mustBuildTree(t, snap, program.ID)
	if len(tree.Warnings) == 0 {
		t.Fatalf("duplicate sibling order should produce a warning")
	}
	result := tree.Evaluate(historyWith(program.ID))
	if result.Requirements[0].Name != "First" || result.Requirements[1].Name != "Second" {
		t.Fatalf("ties should keep insertion order, got %#v", result.Requirements)
	}
}

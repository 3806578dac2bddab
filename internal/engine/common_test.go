package engine

import (
	"github.com/google/uuid"
)

func testCourse(subject, number string, credits float64) *Course {
	return &Course{
		ID:           uuid.New(),
		Subject:      subject,
		Number:       number,
		Title:        subject + " " + number,
		Credits:      CreditsFromFloat(credits),
		Active:       true,
		TermsOffered: []string{"fall", "winter", "spring"},
	}
}

func testSnapshot(courses ...*Course) *CatalogSnapshot {
	snap := NewCatalogSnapshot("test-v1")
	for _, c := range courses {
		snap.AddCourse(c)
	}
	return snap
}

func requireGroup(name string, members ...*Course) PrereqGroup {
	g := PrereqGroup{ID: uuid.New(), Name: name, Required: true}
	for _, m := range members {
		g.Members = append(g.Members, m.ID)
	}
	return g
}

func optionalGroup(name string, members ...*Course) PrereqGroup {
	g := requireGroup(name, members...)
	g.Required = false
	return g
}

func historyWith(programID uuid.UUID, records ...CourseRecord) *StudentHistory {
	return NewStudentHistory(uuid.New(), programID, records)
}

func completedRecord(c *Course) CourseRecord {
	return CourseRecord{CourseID: c.ID, Status: StatusCompleted, Term: "winter"}
}

func inProgressRecord(c *Course) CourseRecord {
	return CourseRecord{CourseID: c.ID, Status: StatusInProgress, Term: "fall"}
}

func gradedRecord(c *Course, grade float64) CourseRecord {
	r := completedRecord(c)
	r.Grade = &grade
	return r
}

func mustBuildGraph(snap *CatalogSnapshot) *CourseGraph {
	g, err := BuildCourseGraph(snap)
	if err != nil {
		panic(err)
	}
	return g
}

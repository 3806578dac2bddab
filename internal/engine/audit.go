package engine

import (
	"sort"

	"github.com/google/uuid"
)

// countInProgressTowardSatisfied is the audit policy for in-progress
// courses: they count toward displayed credits_earned but not toward final
// is_satisfied, so partial progress is visible without certifying
// completion. Flip this if product intent changes.
const countInProgressTowardSatisfied = false

type CourseRef struct {
	ID      uuid.UUID    `json:"id"`
	Code    string       `json:"code"`
	Title   string       `json:"title"`
	Credits Credits      `json:"credits"`
	Status  CourseStatus `json:"status"`
}

type RequirementStatus struct {
	NodeID           uuid.UUID       `json:"node_id"`
	Name             string          `json:"name"`
	Type             RequirementType `json:"type"`
	Required         bool            `json:"required"`
	Depth            int             `json:"depth"`
	CreditsRequired  Credits         `json:"credits_required"`
	CreditsEarned    Credits         `json:"credits_earned"`
	CoursesRequired  int             `json:"courses_required"`
	SatisfiedCourses []CourseRef     `json:"satisfied_courses"`
	IsSatisfied      bool            `json:"is_satisfied"`
	DataIssue        string          `json:"data_issue,omitempty"`
}

// AuditStatus is the in-band disposition of a whole audit. An id that
// resolves to no catalog program is reported here, never as an error.
type AuditStatus string

const (
	AuditStatusOK             AuditStatus = "ok"
	AuditStatusUnknownProgram AuditStatus = "unknown_program"
)

type Progress struct {
	CreditsEarned        Credits `json:"credits_earned"`
	TotalCreditsRequired Credits `json:"total_credits_required"`
	CreditsRemaining     Credits `json:"credits_remaining"`
	PercentageComplete   float64 `json:"percentage_complete"`
}

type DegreeAuditResult struct {
	ProgramID      uuid.UUID           `json:"program_id"`
	ProgramCode    string              `json:"program_code"`
	Status         AuditStatus         `json:"status"`
	CatalogVersion string              `json:"catalog_version"`
	Requirements   []RequirementStatus `json:"requirements"`
	Progress       Progress            `json:"progress"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// Evaluate walks the tree children-before-parents and aggregates upward.
// Identical inputs always produce an identical result: siblings come out
// in tree order and course lists are sorted.
func (t *RequirementTree) Evaluate(hist *StudentHistory) DegreeAuditResult {
	statuses := map[uuid.UUID]*RequirementStatus{}
	for _, root := range t.roots {
		t.evaluateNode(root, hist, statuses)
	}

	result := DegreeAuditResult{
		CatalogVersion: t.snap.Version,
		ProgramID:      t.ProgramID,
		Requirements:   []RequirementStatus{},
		Warnings:       t.Warnings,
	}
	if program := t.snap.Programs[t.ProgramID]; program != nil {
		result.Status = AuditStatusOK
		result.ProgramCode = program.Code
		result.Progress.TotalCreditsRequired = program.TotalCreditsRequired
	} else {
		result.Status = AuditStatusUnknownProgram
	}

	// Pre-order flatten for display.
	var flatten func(id uuid.UUID, depth int)
	flatten = func(id uuid.UUID, depth int) {
		st := statuses[id]
		st.Depth = depth
		result.Requirements = append(result.Requirements, *st)
		for _, child := range t.children[id] {
			flatten(child, depth+1)
		}
	}
	for _, root := range t.roots {
		flatten(root, 0)
		result.Progress.CreditsEarned += statuses[root].CreditsEarned
	}

	total := result.Progress.TotalCreditsRequired
	earned := result.Progress.CreditsEarned
	if remaining := total - earned; remaining > 0 {
		result.Progress.CreditsRemaining = remaining
	}
	if total > 0 {
		pct := earned.Float() / total.Float() * 100
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		result.Progress.PercentageComplete = pct
	}
	return result
}

func (t *RequirementTree) evaluateNode(id uuid.UUID, hist *StudentHistory, statuses map[uuid.UUID]*RequirementStatus) *RequirementStatus {
	node := t.nodes[id]
	children := t.children[id]

	for _, child := range children {
		t.evaluateNode(child, hist, statuses)
	}

	var st *RequirementStatus
	if len(children) > 0 {
		st = t.evaluateParent(node, children, statuses)
	} else {
		st = t.evaluateLeaf(node, hist)
	}
	statuses[id] = st
	return st
}

func (t *RequirementTree) evaluateParent(node *RequirementNode, children []uuid.UUID, statuses map[uuid.UUID]*RequirementStatus) *RequirementStatus {
	st := newStatus(node)

	satisfiedChildren := 0
	allRequiredSatisfied := true
	for _, childID := range children {
		child := statuses[childID]
		st.CreditsEarned += child.CreditsEarned
		if child.IsSatisfied {
			satisfiedChildren++
		} else if t.nodes[childID].Required {
			allRequiredSatisfied = false
		}
	}

	// A parent that declares its own threshold wants "at least N children
	// satisfied" rather than "all required children satisfied".
	threshold := node.CoursesRequired
	if threshold == 0 {
		threshold = node.MinimumSubjects
	}
	if threshold > 0 {
		st.IsSatisfied = satisfiedChildren >= threshold
	} else {
		st.IsSatisfied = allRequiredSatisfied
	}
	return st
}

func (t *RequirementTree) evaluateLeaf(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	switch node.Type {
	case RequirementCourseGroup:
		return t.evaluateCourseGroup(node, hist)
	case RequirementSubject:
		return t.evaluateSubject(node, hist)
	case RequirementCredit:
		return t.evaluateCredit(node, hist)
	case RequirementAverage:
		return t.evaluateAverage(node, hist)
	case RequirementLevel:
		return t.evaluateLevel(node, hist)
	}
	// Unreachable after build-time validation.
	return newStatus(node)
}

type candidate struct {
	course *Course
	status CourseStatus
}

func (t *RequirementTree) evaluateCourseGroup(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	st := newStatus(node)
	pool, unresolved := t.resolveMembers(node.Members)
	if unresolved {
		st.DataIssue = DataIssueUnresolvedReference
	}

	candidates := takenCandidates(pool, hist)
	if node.RequireDifferentSubjects {
		candidates = onePerSubject(candidates)
	}
	selected := selectCandidates(candidates, requiredCount(node))
	fillSelection(st, selected)

	completed := completedCount(selected)
	st.IsSatisfied = completed >= requiredCount(node) && st.DataIssue == ""
	if countInProgressTowardSatisfied {
		st.IsSatisfied = len(selected) >= requiredCount(node) && st.DataIssue == ""
	}
	return st
}

func (t *RequirementTree) evaluateSubject(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	st := newStatus(node)

	// The member pool is every catalog course in the allowed subjects,
	// not a fixed list.
	allowed := map[string]bool{}
	for _, code := range node.SubjectCodes {
		allowed[code] = true
	}
	var pool []*Course
	for _, id := range t.snap.sortedCourseIDs() {
		course := t.snap.Courses[id]
		if allowed[course.Subject] {
			pool = append(pool, course)
		}
	}

	candidates := takenCandidates(pool, hist)
	if node.RequireDifferentSubjects {
		candidates = onePerSubject(candidates)
	} else if node.MaximumCourses > 0 {
		candidates = capPerSubject(candidates, node.MaximumCourses)
	}
	selected := selectCandidates(candidates, requiredCount(node))
	fillSelection(st, selected)

	completedSubjects := map[string]bool{}
	completed := 0
	for _, c := range selected {
		if c.status == StatusCompleted {
			completed++
			completedSubjects[c.course.Subject] = true
		}
	}
	st.IsSatisfied = completed >= requiredCount(node)
	if node.MinimumSubjects > 0 && len(completedSubjects) < node.MinimumSubjects {
		st.IsSatisfied = false
	}
	return st
}

func (t *RequirementTree) evaluateCredit(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	st := newStatus(node)
	pool, unresolved := t.resolveMembers(node.Members)
	if unresolved {
		st.DataIssue = DataIssueUnresolvedReference
	}

	// The threshold is a credit count for this node type.
	threshold := node.CreditsRequired
	if threshold == 0 {
		threshold = Credits(node.CoursesRequired * 4)
	}
	st.CreditsRequired = threshold

	candidates := takenCandidates(pool, hist)
	sortCandidates(candidates)
	if node.MaximumCourses > 0 && len(candidates) > node.MaximumCourses {
		candidates = candidates[:node.MaximumCourses]
	}

	var completedCredits Credits
	for _, c := range candidates {
		st.CreditsEarned += c.course.Credits
		if c.status == StatusCompleted {
			completedCredits += c.course.Credits
		}
		st.SatisfiedCourses = append(st.SatisfiedCourses, courseRef(c))
	}
	satisfiedCredits := completedCredits
	if countInProgressTowardSatisfied {
		satisfiedCredits = st.CreditsEarned
	}
	st.IsSatisfied = satisfiedCredits >= threshold && st.DataIssue == ""
	return st
}

func (t *RequirementTree) evaluateAverage(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	st := newStatus(node)
	pool, unresolved := t.resolveMembers(node.Members)
	if unresolved {
		st.DataIssue = DataIssueUnresolvedReference
	}

	var sum float64
	graded := 0
	for _, course := range pool {
		record, ok := hist.Record(course.ID)
		if !ok || record.Status != StatusCompleted || record.Grade == nil {
			continue
		}
		sum += *record.Grade
		graded++
		st.SatisfiedCourses = append(st.SatisfiedCourses, CourseRef{
			ID:      course.ID,
			Code:    course.Code(),
			Title:   course.Title,
			Credits: course.Credits,
			Status:  StatusCompleted,
		})
	}
	if graded < 1 {
		// An unresolved member already explains the empty pool; keep it.
		if st.DataIssue == "" {
			st.DataIssue = DataIssueInsufficientData
		}
		return st
	}
	mean := sum / float64(graded)
	st.IsSatisfied = mean >= float64(node.MinimumLevel) && st.DataIssue == ""
	return st
}

func (t *RequirementTree) evaluateLevel(node *RequirementNode, hist *StudentHistory) *RequirementStatus {
	st := newStatus(node)

	var pool []*Course
	if len(node.Members) > 0 {
		var unresolved bool
		pool, unresolved = t.resolveMembers(node.Members)
		if unresolved {
			st.DataIssue = DataIssueUnresolvedReference
		}
	} else {
		for _, record := range hist.Records() {
			if course := t.snap.Course(record.CourseID); course != nil {
				pool = append(pool, course)
			}
		}
	}

	var counted []candidate
	for _, course := range pool {
		if course.Level() < node.MinimumLevel {
			continue
		}
		if hist.Completed(course.ID) {
			counted = append(counted, candidate{course: course, status: StatusCompleted})
		}
	}
	sortCandidates(counted)
	selected := counted
	if required := requiredCount(node); len(selected) > required {
		selected = selected[:required]
	}
	fillSelection(st, selected)
	st.IsSatisfied = len(counted) >= requiredCount(node) && st.DataIssue == ""
	return st
}

func newStatus(node *RequirementNode) *RequirementStatus {
	return &RequirementStatus{
		NodeID:           node.ID,
		Name:             node.Name,
		Type:             node.Type,
		Required:         node.Required,
		CreditsRequired:  node.CreditsRequired,
		CoursesRequired:  node.CoursesRequired,
		SatisfiedCourses: []CourseRef{},
	}
}

// requiredCount treats an unset courses_required as 1, matching the
// catalog editor's default.
func requiredCount(node *RequirementNode) int {
	if node.CoursesRequired > 0 {
		return node.CoursesRequired
	}
	return 1
}

// resolveMembers maps member ids to catalog courses, reporting whether any
// id fell outside the snapshot.
func (t *RequirementTree) resolveMembers(members []uuid.UUID) ([]*Course, bool) {
	var pool []*Course
	unresolved := false
	for _, id := range members {
		course := t.snap.Course(id)
		if course == nil {
			unresolved = true
			continue
		}
		pool = append(pool, course)
	}
	return pool, unresolved
}

func takenCandidates(pool []*Course, hist *StudentHistory) []candidate {
	var out []candidate
	for _, course := range pool {
		status, ok := hist.StatusOf(course.ID)
		if !ok || (status != StatusCompleted && status != StatusInProgress) {
			continue
		}
		out = append(out, candidate{course: course, status: status})
	}
	return out
}

// sortCandidates orders completed before in-progress, then by course code,
// which both stabilizes output and makes credit caps bite the right rows.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := StatusRank(candidates[i].status), StatusRank(candidates[j].status)
		if ri != rj {
			return ri > rj
		}
		return candidates[i].course.Code() < candidates[j].course.Code()
	})
}

// onePerSubject keeps at most one course per subject code, preferring
// completed over in-progress, then the lowest course number.
func onePerSubject(candidates []candidate) []candidate {
	bySubject := map[string]candidate{}
	var subjects []string
	for _, c := range candidates {
		current, ok := bySubject[c.course.Subject]
		if !ok {
			bySubject[c.course.Subject] = c
			subjects = append(subjects, c.course.Subject)
			continue
		}
		if betterSubjectPick(c, current) {
			bySubject[c.course.Subject] = c
		}
	}
	sort.Strings(subjects)
	out := make([]candidate, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, bySubject[s])
	}
	return out
}

func betterSubjectPick(a, b candidate) bool {
	if StatusRank(a.status) != StatusRank(b.status) {
		return StatusRank(a.status) > StatusRank(b.status)
	}
	if a.course.Level() != b.course.Level() {
		return a.course.Level() < b.course.Level()
	}
	return a.course.Number < b.course.Number
}

func capPerSubject(candidates []candidate, max int) []candidate {
	sortCandidates(candidates)
	seen := map[string]int{}
	var out []candidate
	for _, c := range candidates {
		if seen[c.course.Subject] >= max {
			continue
		}
		seen[c.course.Subject]++
		out = append(out, c)
	}
	return out
}

func selectCandidates(candidates []candidate, max int) []candidate {
	sortCandidates(candidates)
	if max > 0 && len(candidates) > max {
		return candidates[:max]
	}
	return candidates
}

func fillSelection(st *RequirementStatus, selected []candidate) {
	for _, c := range selected {
		st.CreditsEarned += c.course.Credits
		st.SatisfiedCourses = append(st.SatisfiedCourses, courseRef(c))
	}
}

func completedCount(selected []candidate) int {
	n := 0
	for _, c := range selected {
		if c.status == StatusCompleted {
			n++
		}
	}
	return n
}

func courseRef(c candidate) CourseRef {
	return CourseRef{
		ID:      c.course.ID,
		Code:    c.course.Code(),
		Title:   c.course.Title,
		Credits: c.course.Credits,
		Status:  c.status,
	}
}

package engine

import (
	"sort"

	"github.com/google/uuid"
)

// CourseGraph holds the prerequisite/corequisite/antirequisite relations of
// one catalog snapshot. Construction flattens every prerequisite group into
// course -> member edges and rejects the snapshot when those edges contain
// a cycle, so traversal after load never has to defend against one.
type CourseGraph struct {
	snap    *CatalogSnapshot
	prereqs map[uuid.UUID][]uuid.UUID
	unlocks map[uuid.UUID][]uuid.UUID
}

const (
	colorUnvisited = 0
	colorInStack   = 1
	colorDone      = 2
)

func BuildCourseGraph(snap *CatalogSnapshot) (*CourseGraph, error) {
	g := &CourseGraph{
		snap:    snap,
		prereqs: map[uuid.UUID][]uuid.UUID{},
		unlocks: map[uuid.UUID][]uuid.UUID{},
	}
	for _, id := range snap.sortedCourseIDs() {
		course := snap.Courses[id]
		for _, group := range course.Groups {
			for _, member := range group.Members {
				g.prereqs[id] = append(g.prereqs[id], member)
				g.unlocks[member] = append(g.unlocks[member], id)
			}
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &ConfigurationError{Kind: ConfigPrerequisiteCycle, Cycle: cycle}
	}
	return g, nil
}

// findCycle runs a three-color DFS over the flattened prerequisite edges
// and returns the offending course-code sequence, or nil.
func (g *CourseGraph) findCycle() []string {
	color := make(map[uuid.UUID]int, len(g.snap.Courses))
	var cycle []string

	var visit func(id uuid.UUID, path []uuid.UUID) bool
	visit = func(id uuid.UUID, path []uuid.UUID) bool {
		color[id] = colorInStack
		path = append(path, id)
		for _, next := range g.prereqs[id] {
			switch color[next] {
			case colorInStack:
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				for _, p := range path[start:] {
					cycle = append(cycle, g.codeOf(p))
				}
				cycle = append(cycle, g.codeOf(next))
				return true
			case colorUnvisited:
				if visit(next, path) {
					return true
				}
			}
		}
		color[id] = colorDone
		return false
	}

	for _, id := range g.snap.sortedCourseIDs() {
		if color[id] == colorUnvisited {
			if visit(id, nil) {
				return cycle
			}
		}
	}
	return nil
}

func (g *CourseGraph) codeOf(id uuid.UUID) string {
	if c := g.snap.Course(id); c != nil {
		return c.Code()
	}
	return id.String()
}

// MissingPrerequisites lists the names of required groups not yet satisfied
// by the completed set. A group is satisfied when the set intersects its
// members.
func (g *CourseGraph) MissingPrerequisites(courseID uuid.UUID, completed map[uuid.UUID]bool) []string {
	course := g.snap.Course(courseID)
	if course == nil {
		return nil
	}
	missing := []string{}
	for _, group := range course.Groups {
		if !group.Required {
			continue
		}
		if !groupSatisfied(group, completed) {
			missing = append(missing, group.Name)
		}
	}
	return missing
}

// PrerequisitesSatisfied is vacuously true for a course with no required
// groups.
func (g *CourseGraph) PrerequisitesSatisfied(courseID uuid.UUID, completed map[uuid.UUID]bool) bool {
	course := g.snap.Course(courseID)
	if course == nil {
		return false
	}
	for _, group := range course.Groups {
		if group.Required && !groupSatisfied(group, completed) {
			return false
		}
	}
	return true
}

func groupSatisfied(group PrereqGroup, completed map[uuid.UUID]bool) bool {
	for _, member := range group.Members {
		if completed[member] {
			return true
		}
	}
	return false
}

// CorequisitesSatisfied reports whether every corequisite is completed, in
// progress, or planned in the same term, along with the ids that are not.
func (g *CourseGraph) CorequisitesSatisfied(courseID uuid.UUID, hist *StudentHistory, term string) (bool, []uuid.UUID) {
	course := g.snap.Course(courseID)
	if course == nil {
		return true, nil
	}
	var missing []uuid.UUID
	for _, coreq := range course.Corequisites {
		if hist.CompletedOrInProgress(coreq) || hist.PlannedInTerm(coreq, term) {
			continue
		}
		missing = append(missing, coreq)
	}
	return len(missing) == 0, missing
}

// AntirequisiteViolated reports whether any antirequisite is completed or
// in progress, along with the offending course ids.
func (g *CourseGraph) AntirequisiteViolated(courseID uuid.UUID, hist *StudentHistory) (bool, []uuid.UUID) {
	course := g.snap.Course(courseID)
	if course == nil {
		return false, nil
	}
	var blocking []uuid.UUID
	for _, anti := range course.Antirequisites {
		if hist.CompletedOrInProgress(anti) {
			blocking = append(blocking, anti)
		}
	}
	return len(blocking) > 0, blocking
}

// PrerequisiteChain walks the prerequisite relation breadth-first from the
// given course and maps each reached course code to its direct
// prerequisite codes.
func (g *CourseGraph) PrerequisiteChain(courseID uuid.UUID) map[string][]string {
	chain := map[string][]string{}
	visited := map[uuid.UUID]bool{}
	queue := []uuid.UUID{courseID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		prereqs := g.prereqs[current]
		if len(prereqs) == 0 {
			continue
		}
		code := g.codeOf(current)
		for _, p := range prereqs {
			chain[code] = append(chain[code], g.codeOf(p))
			if !visited[p] {
				queue = append(queue, p)
			}
		}
		sort.Strings(chain[code])
	}
	return chain
}

// TopologicalOrder returns active course codes prerequisites-first using
// Kahn's algorithm. The graph is already known acyclic, so every active
// course appears exactly once.
func (g *CourseGraph) TopologicalOrder() []string {
	inDegree := map[uuid.UUID]int{}
	dependents := map[uuid.UUID][]uuid.UUID{}
	active := []uuid.UUID{}
	for _, id := range g.snap.sortedCourseIDs() {
		if !g.snap.Courses[id].Active {
			continue
		}
		active = append(active, id)
		inDegree[id] = 0
	}
	for _, id := range active {
		for _, p := range g.prereqs[id] {
			if _, ok := inDegree[p]; !ok {
				continue
			}
			dependents[p] = append(dependents[p], id)
			inDegree[id]++
		}
	}

	var queue []uuid.UUID
	for _, id := range active {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var order []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, g.codeOf(current))
		next := append([]uuid.UUID(nil), dependents[current]...)
		sort.Slice(next, func(i, j int) bool { return g.codeOf(next[i]) < g.codeOf(next[j]) })
		for _, d := range next {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	return order
}

// UnlockCount is how many courses list the given course as a prerequisite
// group member.
func (g *CourseGraph) UnlockCount(courseID uuid.UUID) int {
	seen := map[uuid.UUID]bool{}
	for _, dependent := range g.unlocks[courseID] {
		seen[dependent] = true
	}
	return len(seen)
}

package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const DefaultRecommendationLimit = 5

type Recommendation struct {
	CourseID    uuid.UUID `json:"course_id"`
	CourseCode  string    `json:"course_code"`
	Title       string    `json:"title"`
	Credits     Credits   `json:"credits"`
	ImpactScore int       `json:"impact_score"`
	Reason      string    `json:"reason"`
}

// Recommend orders currently-eligible, not-yet-taken courses by how much
// unmet-requirement value they provide. A course scores one point per
// unsatisfied requirement node it can serve, doubled when the node is
// required; ties break by ascending credits then course code.
func Recommend(snap *CatalogSnapshot, graph *CourseGraph, audit DegreeAuditResult, hist *StudentHistory, term string, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	unmet := unmetNodes(snap, audit, hist.ProgramID)

	recommendations := []Recommendation{}
	for _, id := range snap.sortedCourseIDs() {
		course := snap.Courses[id]
		if _, taken := hist.StatusOf(id); taken {
			continue
		}
		eligibility := CanTake(snap, graph, hist, id, term)
		if !eligibility.CanTake {
			continue
		}

		score := 0
		reason := ""
		for _, node := range unmet {
			if !nodeWants(node, course) {
				continue
			}
			points := 1
			if node.Required {
				points = 2
			}
			score += points
			if reason == "" || node.Required {
				reason = fmt.Sprintf("Counts toward %s", node.Name)
			}
		}
		if score == 0 {
			if unlocks := graph.UnlockCount(id); unlocks > 0 {
				reason = fmt.Sprintf("Unlocks %d other courses", unlocks)
			} else {
				reason = "Eligible this term"
			}
		}
		recommendations = append(recommendations, Recommendation{
			CourseID:    id,
			CourseCode:  course.Code(),
			Title:       course.Title,
			Credits:     course.Credits,
			ImpactScore: score,
			Reason:      reason,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].ImpactScore != recommendations[j].ImpactScore {
			return recommendations[i].ImpactScore > recommendations[j].ImpactScore
		}
		if recommendations[i].Credits != recommendations[j].Credits {
			return recommendations[i].Credits < recommendations[j].Credits
		}
		return recommendations[i].CourseCode < recommendations[j].CourseCode
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

// unmetNodes pairs each unsatisfied audit row back with its defining node
// so membership checks can see member lists and subject codes.
func unmetNodes(snap *CatalogSnapshot, audit DegreeAuditResult, programID uuid.UUID) []*RequirementNode {
	byID := map[uuid.UUID]*RequirementNode{}
	for _, node := range snap.Requirements[programID] {
		byID[node.ID] = node
	}
	var out []*RequirementNode
	for _, status := range audit.Requirements {
		if status.IsSatisfied {
			continue
		}
		if node := byID[status.NodeID]; node != nil {
			out = append(out, node)
		}
	}
	return out
}

func nodeWants(node *RequirementNode, course *Course) bool {
	if node.Type == RequirementSubject {
		for _, subject := range node.SubjectCodes {
			if subject == course.Subject {
				return true
			}
		}
		return false
	}
	for _, member := range node.Members {
		if member == course.ID {
			return true
		}
	}
	return false
}

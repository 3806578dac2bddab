package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Slot is one weekly meeting of an offering; times are minutes from
// midnight and the interval is half-open, so a slot ending exactly when
// another starts does not overlap it.
type Slot struct {
	Day      string `json:"day"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Location string `json:"location,omitempty"`
}

type Offering struct {
	ID         uuid.UUID `json:"id"`
	CourseID   uuid.UUID `json:"course_id"`
	CourseCode string    `json:"course_code"`
	Term       string    `json:"term"`
	Year       int       `json:"year"`
	Section    string    `json:"section"`
	Instructor string    `json:"instructor,omitempty"`
	Credits    Credits   `json:"credits"`
	Slots      []Slot    `json:"slots"`
}

type ConflictType string

const (
	ConflictTime       ConflictType = "time_conflict"
	ConflictLocation   ConflictType = "location_conflict"
	ConflictInstructor ConflictType = "instructor_conflict"
)

type ScheduleConflict struct {
	Type        ConflictType `json:"type"`
	OfferingIDs []uuid.UUID  `json:"offering_ids"`
	Courses     []string     `json:"courses"`
	Day         string       `json:"day"`
	Start       int          `json:"start"`
	End         int          `json:"end"`
	Description string       `json:"description"`
}

// DetectConflicts runs the pairwise overlap check across every unordered
// offering pair. O(n^2 * s^2) in offerings and slots per offering; inputs
// are a handful of offerings per term, so no indexing.
func DetectConflicts(offerings []Offering) []ScheduleConflict {
	ordered := canonicalOrder(offerings)
	conflicts := []ScheduleConflict{}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			conflicts = append(conflicts, pairConflicts(ordered[i], ordered[j])...)
		}
	}
	return conflicts
}

// CanAdd checks a candidate offering against an existing selection without
// re-reporting conflicts already inside the selection.
func CanAdd(existing []Offering, candidate Offering) (bool, []ScheduleConflict) {
	conflicts := []ScheduleConflict{}
	for _, offering := range canonicalOrder(existing) {
		conflicts = append(conflicts, pairConflicts(offering, candidate)...)
	}
	return len(conflicts) == 0, conflicts
}

func pairConflicts(a, b Offering) []ScheduleConflict {
	var out []ScheduleConflict
	for _, s1 := range a.Slots {
		for _, s2 := range b.Slots {
			if s1.Day != s2.Day {
				continue
			}
			if s1.Start < s2.End && s2.Start < s1.End {
				start := maxInt(s1.Start, s2.Start)
				end := minInt(s1.End, s2.End)
				out = append(out, ScheduleConflict{
					Type:        ConflictTime,
					OfferingIDs: []uuid.UUID{a.ID, b.ID},
					Courses:     []string{a.CourseCode, b.CourseCode},
					Day:         s1.Day,
					Start:       start,
					End:         end,
					Description: fmt.Sprintf("Time conflict between %s and %s on %s %s-%s",
						a.CourseCode, b.CourseCode, s1.Day, FormatMinutes(start), FormatMinutes(end)),
				})
			}
			// Exact-duplicate slots additionally clash on room and
			// instructor; an import tends to produce those.
			if s1.Start == s2.Start && s1.End == s2.End {
				if s1.Location != "" && s1.Location == s2.Location {
					out = append(out, ScheduleConflict{
						Type:        ConflictLocation,
						OfferingIDs: []uuid.UUID{a.ID, b.ID},
						Courses:     []string{a.CourseCode, b.CourseCode},
						Day:         s1.Day,
						Start:       s1.Start,
						End:         s1.End,
						Description: fmt.Sprintf("Location conflict: %s and %s both scheduled in %s",
							a.CourseCode, b.CourseCode, s1.Location),
					})
				}
				if a.Instructor != "" && a.Instructor == b.Instructor {
					out = append(out, ScheduleConflict{
						Type:        ConflictInstructor,
						OfferingIDs: []uuid.UUID{a.ID, b.ID},
						Courses:     []string{a.CourseCode, b.CourseCode},
						Day:         s1.Day,
						Start:       s1.Start,
						End:         s1.End,
						Description: fmt.Sprintf("Instructor conflict: %s scheduled for both %s and %s",
							a.Instructor, a.CourseCode, b.CourseCode),
					})
				}
			}
		}
	}
	return out
}

type ScheduleGap struct {
	Day     string `json:"day"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Minutes int    `json:"minutes"`
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// FindGaps reports weekday gaps of an hour or more between consecutive
// meetings.
func FindGaps(offerings []Offering) []ScheduleGap {
	gaps := []ScheduleGap{}
	for _, day := range weekdays {
		var slots []Slot
		for _, offering := range offerings {
			for _, slot := range offering.Slots {
				if slot.Day == day {
					slots = append(slots, slot)
				}
			}
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
		for i := 0; i+1 < len(slots); i++ {
			gap := slots[i+1].Start - slots[i].End
			if gap >= 60 {
				gaps = append(gaps, ScheduleGap{
					Day:     day,
					Start:   slots[i].End,
					End:     slots[i+1].Start,
					Minutes: gap,
				})
			}
		}
	}
	return gaps
}

type WorkloadSummary struct {
	DailyCredits map[string]Credits `json:"daily_credits"`
	DailyMinutes map[string]int     `json:"daily_minutes"`
	TotalCredits Credits            `json:"total_credits"`
	TotalMinutes int                `json:"total_minutes"`
}

// AnalyzeWorkload distributes each offering's credits over the days it
// meets and sums contact minutes per day.
func AnalyzeWorkload(offerings []Offering) WorkloadSummary {
	summary := WorkloadSummary{
		DailyCredits: map[string]Credits{},
		DailyMinutes: map[string]int{},
	}
	for _, offering := range offerings {
		summary.TotalCredits += offering.Credits
		for _, slot := range offering.Slots {
			summary.DailyCredits[slot.Day] += offering.Credits
			minutes := slot.End - slot.Start
			summary.DailyMinutes[slot.Day] += minutes
			summary.TotalMinutes += minutes
		}
	}
	return summary
}

// canonicalOrder sorts a copy of the input so detection output does not
// depend on caller ordering.
func canonicalOrder(offerings []Offering) []Offering {
	ordered := append([]Offering(nil), offerings...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CourseCode != ordered[j].CourseCode {
			return ordered[i].CourseCode < ordered[j].CourseCode
		}
		if ordered[i].Section != ordered[j].Section {
			return ordered[i].Section < ordered[j].Section
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})
	return ordered
}

// FormatMinutes renders minutes from midnight as "09:00".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseClock parses "09:00" into minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

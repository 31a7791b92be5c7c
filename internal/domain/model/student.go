// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Derived tags assigned by the save pipeline. The dashboard filters on these.
const (
	TagNeedsAttention = "Needs Attention"
	TagPlacementReady = "Placement Ready"
	TagTopPerformer   = "Top Performer"
)

// Risk and placement policy constants. Fixed policy, not tunables: every
// consumer of the record set must agree on what "at risk" means.
const (
	riskAttendance      = 70.0
	riskGPA             = 2.5
	placementGPA        = 3.5
	placementAttendance = 85.0
	topPerformerScore   = 85.0
)

// Student represents a student record.
// PerformanceHistory holds the most recent composite scores, oldest first,
// and is mutated only by the save pipeline.
type Student struct {
	ID                 string    `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Department         string    `json:"department"`
	Year               int       `json:"year"`
	Gender             string    `json:"gender"`
	GPA                float64   `json:"gpa"`
	Attendance         float64   `json:"attendance"`
	AssignmentScore    float64   `json:"assignment_score"`
	Tags               []string  `json:"tags"`
	PerformanceHistory []float64 `json:"performance_history"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewID returns a fresh student record id.
func NewID() string {
	return uuid.NewString()
}

// FullName returns the display name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// AtRisk reports whether the student needs attention: low attendance or low GPA.
func (s Student) AtRisk() bool {
	return s.Attendance < riskAttendance || s.GPA < riskGPA
}

// PlacementReady reports whether the student is ready for placement, either
// by an explicit tag or by clearing the GPA and attendance bar.
func (s Student) PlacementReady() bool {
	return s.HasTag(TagPlacementReady) ||
		(s.GPA >= placementGPA && s.Attendance >= placementAttendance)
}

// HasTag reports whether tag is present on the record.
func (s Student) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LatestScore returns the most recent composite score, if any.
func (s Student) LatestScore() (float64, bool) {
	if len(s.PerformanceHistory) == 0 {
		return 0, false
	}
	return s.PerformanceHistory[len(s.PerformanceHistory)-1], true
}

// DeriveTags recomputes the derived tag set from the current metrics.
// Called after the performance history has been updated so the top-performer
// check sees the latest score.
func (s Student) DeriveTags() []string {
	var tags []string
	if s.AtRisk() {
		tags = append(tags, TagNeedsAttention)
	}
	if s.GPA >= placementGPA && s.Attendance >= placementAttendance {
		tags = append(tags, TagPlacementReady)
	}
	if score, ok := s.LatestScore(); ok && score >= topPerformerScore {
		tags = append(tags, TagTopPerformer)
	}
	return tags
}

// Clone returns a deep copy safe to hand across layers.
func (s Student) Clone() Student {
	out := s
	if s.Tags != nil {
		out.Tags = make([]string, len(s.Tags))
		copy(out.Tags, s.Tags)
	}
	if s.PerformanceHistory != nil {
		out.PerformanceHistory = make([]float64, len(s.PerformanceHistory))
		copy(out.PerformanceHistory, s.PerformanceHistory)
	}
	return out
}

// Package assistant maps free-text dashboard queries to a closed set of
// intents and renders each intent into a textual response plus an optional
// UI action. Both halves are pure: they never fail, and absence of data is a
// valid informational response.
package assistant

// IntentKind enumerates the recognized query categories.
type IntentKind string

// Recognized intents.
const (
	IntentSummary              IntentKind = "summary"
	IntentAtRisk               IntentKind = "at_risk"
	IntentDepartment           IntentKind = "department"
	IntentHighestGPA           IntentKind = "highest_gpa"
	IntentLowAttendance        IntentKind = "low_attendance"
	IntentPlacementReady       IntentKind = "placement_ready"
	IntentStudentTrend         IntentKind = "student_trend"
	IntentDepartmentComparison IntentKind = "department_comparison"
	IntentAlerts               IntentKind = "alerts"
	IntentUnknown              IntentKind = "unknown"
)

// Intent is a recognized query with its extracted parameters. Only the
// fields relevant to Kind are populated.
type Intent struct {
	Kind       IntentKind `json:"kind"`
	Department string     `json:"department,omitempty"` // department
	Threshold  int        `json:"threshold,omitempty"`  // low_attendance
	Student    string     `json:"student,omitempty"`    // student_trend
}

// ActionType enumerates the filter directives the UI controller understands.
type ActionType string

// Action types.
const (
	ActionFilterDepartment ActionType = "filter_department"
	ActionFilterAtRisk     ActionType = "filter_at_risk"
	ActionFilterTag        ActionType = "filter_tag"
)

// Action tells the UI layer to apply a filter after showing the response.
type Action struct {
	Type    ActionType `json:"type"`
	Payload string     `json:"payload"`
}

// Response is the rendered reply for one intent. Text uses **bold** emphasis
// and newlines; escaping and rendering are the presentation layer's job.
type Response struct {
	Text   string  `json:"text"`
	Action *Action `json:"action,omitempty"`
}

package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edash/edash/internal/domain/model"
	"github.com/edash/edash/internal/domain/scoring"
)

// Display caps keep responses readable; longer result sets are truncated
// with a "... and N more" suffix.
const (
	atRiskDisplayLimit  = 10
	defaultDisplayLimit = 8
)

// Provider supplies the record snapshot and aggregates a response is
// rendered from. The record store implements it; tests use fakes. Respond
// holds no state of its own, so the same intent against the same snapshot
// always renders the same Response.
type Provider interface {
	// Records returns every student snapshot.
	Records() []model.Student
	// Statistics returns the aggregate view of the record set.
	Statistics() model.Statistics
	// AtRisk returns students with low attendance or low GPA.
	AtRisk() []model.Student
	// HighestGPA returns every student tied at the maximum GPA.
	HighestGPA() []model.Student
	// LowAttendance returns students below the given attendance threshold.
	LowAttendance(threshold float64) []model.Student
	// PlacementReady returns students tagged or qualifying as placement ready.
	PlacementReady() []model.Student
	// FindByName returns the first student whose first or last name contains
	// the query, case-insensitively.
	FindByName(query string) (model.Student, bool)
}

const helpText = "I didn't catch that. Here's what you can ask me:\n" +
	"• **/summary**: overall statistics\n" +
	"• **/risk**: students who need attention\n" +
	"• **/top**: highest GPA students\n" +
	"• **/alerts**: current alerts\n" +
	"• \"Show Engineering students\"\n" +
	"• \"Students with attendance below 70\"\n" +
	"• \"How is Aliya doing?\"\n" +
	"• \"Compare departments\""

const emptyStoreText = "There are no students in the system yet. Add some records and ask me again."

// Respond renders intent against p. It never fails: empty data produces an
// informational message, and an unknown intent produces the help text.
func Respond(intent Intent, p Provider) Response {
	switch intent.Kind {
	case IntentSummary:
		return respondSummary(p)
	case IntentAtRisk:
		return respondAtRisk(p)
	case IntentDepartment:
		return respondDepartment(intent.Department, p)
	case IntentHighestGPA:
		return respondHighestGPA(p)
	case IntentLowAttendance:
		return respondLowAttendance(intent.Threshold, p)
	case IntentPlacementReady:
		return respondPlacementReady(p)
	case IntentStudentTrend:
		return respondStudentTrend(intent.Student, p)
	case IntentDepartmentComparison:
		return respondDepartmentComparison(p)
	case IntentAlerts:
		return respondAlerts(p)
	default:
		return Response{Text: helpText}
	}
}

func respondSummary(p Provider) Response {
	stats := p.Statistics()
	if stats.Total == 0 {
		return Response{Text: emptyStoreText}
	}
	atRisk := len(p.AtRisk())
	text := fmt.Sprintf(
		"**Dashboard summary**\n"+
			"• Students: **%d** across **%d** departments\n"+
			"• Average GPA: **%.2f**\n"+
			"• Average attendance: **%.1f%%**\n"+
			"• Students at risk: **%d**",
		stats.Total, stats.DepartmentCount, stats.AverageGPA, stats.AverageAttendance, atRisk,
	)
	return Response{Text: text}
}

func respondAtRisk(p Provider) Response {
	students := p.AtRisk()
	if len(students) == 0 {
		return Response{Text: "Good news: no students are currently at risk."}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** student(s) need attention:\n", len(students))
	writeList(&b, students, atRiskDisplayLimit, func(s model.Student) string {
		return fmt.Sprintf("%s: GPA %.2f, attendance %.0f%%", s.FullName(), s.GPA, s.Attendance)
	})
	return Response{
		Text:   strings.TrimRight(b.String(), "\n"),
		Action: &Action{Type: ActionFilterAtRisk, Payload: model.TagNeedsAttention},
	}
}

func respondDepartment(department string, p Provider) Response {
	var students []model.Student
	for _, s := range p.Records() {
		if strings.EqualFold(s.Department, department) {
			students = append(students, s)
		}
	}
	if len(students) == 0 {
		return Response{Text: fmt.Sprintf("No students found in **%s**.", department)}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** student(s) in **%s**:\n", len(students), department)
	writeList(&b, students, defaultDisplayLimit, func(s model.Student) string {
		return fmt.Sprintf("%s: GPA %.2f", s.FullName(), s.GPA)
	})
	return Response{
		Text:   strings.TrimRight(b.String(), "\n"),
		Action: &Action{Type: ActionFilterDepartment, Payload: department},
	}
}

func respondHighestGPA(p Provider) Response {
	students := p.HighestGPA()
	if len(students) == 0 {
		return Response{Text: emptyStoreText}
	}
	if len(students) == 1 {
		s := students[0]
		return Response{Text: fmt.Sprintf("**%s** has the highest GPA: **%.2f** (%s).", s.FullName(), s.GPA, s.Department)}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** students share the highest GPA of **%.2f**:\n", len(students), students[0].GPA)
	writeList(&b, students, defaultDisplayLimit, func(s model.Student) string {
		return fmt.Sprintf("%s (%s)", s.FullName(), s.Department)
	})
	return Response{Text: strings.TrimRight(b.String(), "\n")}
}

func respondLowAttendance(threshold int, p Provider) Response {
	if threshold <= 0 {
		threshold = defaultAttendanceThreshold
	}
	students := p.LowAttendance(float64(threshold))
	if len(students) == 0 {
		return Response{Text: fmt.Sprintf("No students found with attendance below **%d%%**.", threshold)}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** student(s) below **%d%%** attendance:\n", len(students), threshold)
	writeList(&b, students, defaultDisplayLimit, func(s model.Student) string {
		return fmt.Sprintf("%s: %.0f%%", s.FullName(), s.Attendance)
	})
	return Response{Text: strings.TrimRight(b.String(), "\n")}
}

func respondPlacementReady(p Provider) Response {
	students := p.PlacementReady()
	if len(students) == 0 {
		return Response{Text: "No students currently meet the placement bar (GPA 3.5+ and attendance 85%+)."}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%d** student(s) are placement ready:\n", len(students))
	writeList(&b, students, defaultDisplayLimit, func(s model.Student) string {
		return fmt.Sprintf("%s: GPA %.2f, attendance %.0f%%", s.FullName(), s.GPA, s.Attendance)
	})
	return Response{
		Text:   strings.TrimRight(b.String(), "\n"),
		Action: &Action{Type: ActionFilterTag, Payload: model.TagPlacementReady},
	}
}

func respondStudentTrend(name string, p Provider) Response {
	if name == "" {
		return Response{Text: "Tell me whose trend to look up, e.g. \"How is Aliya doing?\""}
	}
	s, ok := p.FindByName(name)
	if !ok {
		return Response{Text: fmt.Sprintf("No students found matching **%s**.", name)}
	}
	history := s.PerformanceHistory
	trend := scoring.ClassifyTrend(history)
	consistency := scoring.ClassifyConsistency(history)
	text := fmt.Sprintf(
		"**%s** (%s)\n"+
			"• Trend: %s\n"+
			"• Consistency: **%s** over the last %d score(s)",
		s.FullName(), s.Department,
		scoring.DescribeTrend(trend, len(history)),
		consistency, len(history),
	)
	if score, ok := s.LatestScore(); ok {
		text += fmt.Sprintf("\n• Latest performance score: **%.2f**", score)
	}
	return Response{Text: text}
}

func respondDepartmentComparison(p Provider) Response {
	stats := p.Statistics()
	if stats.Total == 0 {
		return Response{Text: emptyStoreText}
	}
	// Sorted by average GPA descending, names break ties deterministically.
	names := make([]string, 0, len(stats.DepartmentAvgGPA))
	for name := range stats.DepartmentAvgGPA {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		gi, gj := stats.DepartmentAvgGPA[names[i]], stats.DepartmentAvgGPA[names[j]]
		if gi != gj {
			return gi > gj
		}
		return names[i] < names[j]
	})
	var b strings.Builder
	b.WriteString("**Department comparison** (by average GPA):\n")
	for _, name := range names {
		fmt.Fprintf(&b, "• %s: avg GPA **%.2f**, %d student(s)\n",
			name, stats.DepartmentAvgGPA[name], stats.ByDepartment[name])
	}
	return Response{Text: strings.TrimRight(b.String(), "\n")}
}

func respondAlerts(p Provider) Response {
	records := p.Records()
	if len(records) == 0 {
		return Response{Text: emptyStoreText}
	}
	atRisk := len(p.AtRisk())
	declining := 0
	for _, s := range records {
		if scoring.ClassifyTrend(s.PerformanceHistory) == scoring.TrendDown {
			declining++
		}
	}
	var alerts []string
	if atRisk > 0 {
		alerts = append(alerts, fmt.Sprintf("• **%d** student(s) are at risk", atRisk))
	}
	if declining > 0 {
		alerts = append(alerts, fmt.Sprintf("• **%d** student(s) have a declining score trend", declining))
	}
	if stats := p.Statistics(); stats.AverageAttendance > 0 && stats.AverageAttendance < defaultAttendanceThreshold {
		alerts = append(alerts, fmt.Sprintf("• Average attendance is low: **%.1f%%**", stats.AverageAttendance))
	}
	if len(alerts) == 0 {
		return Response{Text: "No active alerts. Everything looks healthy."}
	}
	return Response{Text: "**Active alerts**\n" + strings.Join(alerts, "\n")}
}

// writeList renders up to limit entries as bullet lines, appending a
// "... and N more" suffix when truncated.
func writeList(b *strings.Builder, students []model.Student, limit int, line func(model.Student) string) {
	n := len(students)
	if n > limit {
		n = limit
	}
	for i := 0; i < n; i++ {
		b.WriteString("• " + line(students[i]) + "\n")
	}
	if rest := len(students) - n; rest > 0 {
		fmt.Fprintf(b, "... and %d more\n", rest)
	}
}

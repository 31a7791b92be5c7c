package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultAttendanceThreshold applies when a query mentions low attendance
// without a usable number.
const defaultAttendanceThreshold = 70

// defaultDepartment is the fallback when a "show ... students" query names
// no known department. Intentional, not an error: the dashboard always has
// somewhere sensible to land.
const defaultDepartment = "Engineering"

// slashCommands map exact commands to intents. Checked before any rule, by
// string equality on the lowercased input.
var slashCommands = map[string]IntentKind{
	"/summary": IntentSummary,
	"/risk":    IntentAtRisk,
	"/top":     IntentHighestGPA,
	"/alerts":  IntentAlerts,
}

// rule pairs a pattern with an intent constructor. Rules run in order and
// the first match wins; several phrasings overlap, so the order is part of
// the contract, not an implementation accident.
type rule struct {
	pattern *regexp.Regexp
	build   func(text string, groups []string) Intent
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`\bat[\s-]?risk\b|\bstruggling\b|\bfailing\b|\bneeds? attention\b`),
		build: func(string, []string) Intent {
			return Intent{Kind: IntentAtRisk}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:show|list|display|view)\b.*\bstudents?\b`),
		build: func(text string, _ []string) Intent {
			return Intent{Kind: IntentDepartment, Department: extractDepartment(text)}
		},
	},
	{
		pattern: regexp.MustCompile(`\b(?:highest|top|best)\b.*\b(?:gpa|grades?|performers?)\b`),
		build: func(string, []string) Intent {
			return Intent{Kind: IntentHighestGPA}
		},
	},
	{
		pattern: regexp.MustCompile(`\battendance\b.*\b(?:below|under|less than|lower than)\b|\b(?:low|poor)\s+attendance\b`),
		build: func(text string, _ []string) Intent {
			return Intent{Kind: IntentLowAttendance, Threshold: extractThreshold(text)}
		},
	},
	{
		pattern: regexp.MustCompile(`\bplacements?\b|\bjob[\s-]?ready\b|\bemployab|\bhireable\b`),
		build: func(string, []string) Intent {
			return Intent{Kind: IntentPlacementReady}
		},
	},
	{
		// The name token may land in any of the capture groups depending on
		// phrasing; the first non-empty one wins.
		pattern: regexp.MustCompile(`\b(?:trend|progress|performance)\s+(?:of|for)\s+([a-z]+)\b|\bhow\s+is\s+([a-z]+)\s+doing\b|\b([a-z]+)'s\s+(?:trend|progress|performance)\b`),
		build: func(_ string, groups []string) Intent {
			return Intent{Kind: IntentStudentTrend, Student: firstGroup(groups)}
		},
	},
	{
		pattern: regexp.MustCompile(`\bcompare\b.*\bdepartments?\b|\bdepartments?\b.*\b(?:comparison|compared?)\b|\bwhich\s+department\b`),
		build: func(string, []string) Intent {
			return Intent{Kind: IntentDepartmentComparison}
		},
	},
	{
		pattern: regexp.MustCompile(`\balerts?\b|\bwarnings?\b|\bnotifications?\b`),
		build: func(string, []string) Intent {
			return Intent{Kind: IntentAlerts}
		},
	},
}

// departmentKeywords maps query phrasings to canonical department names.
// Ordered so "computer science" wins before the bare "science"; "cs" only
// matches as a whole word so "physics" stays untouched.
var departmentKeywords = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\bengineering\b`), "Engineering"},
	{regexp.MustCompile(`\bcomputer\s+science\b`), "Computer Science"},
	{regexp.MustCompile(`\bcs\b`), "Computer Science"},
	{regexp.MustCompile(`\bbusiness\b`), "Business"},
	{regexp.MustCompile(`\barts\b`), "Arts"},
	{regexp.MustCompile(`\bscience\b`), "Science"},
}

// digitRun extracts the first run of digits anywhere in the text.
var digitRun = regexp.MustCompile(`\d+`)

// Interpret maps free text to exactly one Intent. Slash commands are matched
// first by equality, then the regex rules in order; anything else is
// IntentUnknown. It never fails: unrecognized input is a valid outcome.
func Interpret(text string) Intent {
	q := strings.ToLower(strings.TrimSpace(text))
	if kind, ok := slashCommands[q]; ok {
		return Intent{Kind: kind}
	}
	for _, r := range rules {
		if groups := r.pattern.FindStringSubmatch(q); groups != nil {
			return r.build(q, groups)
		}
	}
	return Intent{Kind: IntentUnknown}
}

func extractDepartment(text string) string {
	for _, kw := range departmentKeywords {
		if kw.pattern.MatchString(text) {
			return kw.canonical
		}
	}
	return defaultDepartment
}

func extractThreshold(text string) int {
	if m := digitRun.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return defaultAttendanceThreshold
}

func firstGroup(groups []string) string {
	// groups[0] is the whole match.
	for _, g := range groups[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

package assistant_test

import (
	"strings"
	"testing"

	assistant "github.com/edash/edash/internal/domain/assistant"
	"github.com/edash/edash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeProvider serves a fixed snapshot with the same derived-query semantics
// as the record store.
type fakeProvider struct {
	students []model.Student
}

func (f *fakeProvider) Records() []model.Student { return f.students }

func (f *fakeProvider) Statistics() model.Statistics {
	stats := model.Statistics{
		ByDepartment:      map[string]int{},
		ByYear:            map[string]int{},
		ByGender:          map[string]int{},
		GPABuckets:        map[string]int{},
		AttendanceBuckets: map[string]int{},
		DepartmentAvgGPA:  map[string]float64{},
	}
	stats.Total = len(f.students)
	gpaSums := map[string]float64{}
	var attendanceSum, gpaSum float64
	for _, s := range f.students {
		stats.ByDepartment[s.Department]++
		gpaSums[s.Department] += s.GPA
		attendanceSum += s.Attendance
		gpaSum += s.GPA
	}
	stats.DepartmentCount = len(stats.ByDepartment)
	for dep, sum := range gpaSums {
		stats.DepartmentAvgGPA[dep] = sum / float64(stats.ByDepartment[dep])
	}
	if stats.Total > 0 {
		stats.AverageAttendance = attendanceSum / float64(stats.Total)
		stats.AverageGPA = gpaSum / float64(stats.Total)
	}
	return stats
}

func (f *fakeProvider) AtRisk() []model.Student {
	var out []model.Student
	for _, s := range f.students {
		if s.AtRisk() {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeProvider) HighestGPA() []model.Student {
	var out []model.Student
	max := -1.0
	for _, s := range f.students {
		if s.GPA > max {
			max = s.GPA
		}
	}
	for _, s := range f.students {
		if s.GPA == max {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeProvider) LowAttendance(threshold float64) []model.Student {
	var out []model.Student
	for _, s := range f.students {
		if s.Attendance < threshold {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeProvider) PlacementReady() []model.Student {
	var out []model.Student
	for _, s := range f.students {
		if s.PlacementReady() {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeProvider) FindByName(query string) (model.Student, bool) {
	q := strings.ToLower(query)
	for _, s := range f.students {
		if strings.Contains(strings.ToLower(s.FirstName), q) ||
			strings.Contains(strings.ToLower(s.LastName), q) {
			return s, true
		}
	}
	return model.Student{}, false
}

func sampleStudents() []model.Student {
	return []model.Student{
		{
			ID: "1", FirstName: "Aliya", LastName: "Bekova",
			Department: "Engineering", GPA: 3.8, Attendance: 95,
			PerformanceHistory: []float64{60, 65, 72},
		},
		{
			ID: "2", FirstName: "Marat", LastName: "Ospanov",
			Department: "Business", GPA: 2.0, Attendance: 60,
			PerformanceHistory: []float64{50, 45, 40},
		},
		{
			ID: "3", FirstName: "Dana", LastName: "Seitova",
			Department: "Engineering", GPA: 3.1, Attendance: 82,
			PerformanceHistory: []float64{55, 55},
		},
	}
}

func TestRespondAtRisk(t *testing.T) {
	Convey("Given a snapshot with one at-risk student", t, func() {
		p := &fakeProvider{students: sampleStudents()}
		intent := assistant.Interpret("How many students are at risk?")

		Convey("Then the query resolves to the at-risk intent", func() {
			So(intent.Kind, ShouldEqual, assistant.IntentAtRisk)
		})

		Convey("When rendering the response", func() {
			resp := assistant.Respond(intent, p)

			Convey("Then the text names the count and the student", func() {
				So(resp.Text, ShouldContainSubstring, "**1**")
				So(resp.Text, ShouldContainSubstring, "Marat Ospanov")
			})

			Convey("And it carries the at-risk filter action", func() {
				So(resp.Action, ShouldNotBeNil)
				So(resp.Action.Type, ShouldEqual, assistant.ActionFilterAtRisk)
				So(resp.Action.Payload, ShouldEqual, model.TagNeedsAttention)
			})
		})

		Convey("When no one is at risk", func() {
			resp := assistant.Respond(intent, &fakeProvider{students: []model.Student{
				{FirstName: "Solid", LastName: "Student", GPA: 3.5, Attendance: 90},
			}})

			Convey("Then the reply is informational, not an error", func() {
				So(resp.Text, ShouldContainSubstring, "no students")
				So(resp.Action, ShouldBeNil)
			})
		})
	})
}

func TestRespondDepartment(t *testing.T) {
	Convey("Given a department query", t, func() {
		p := &fakeProvider{students: sampleStudents()}
		resp := assistant.Respond(assistant.Intent{
			Kind: assistant.IntentDepartment, Department: "Engineering",
		}, p)

		Convey("Then both Engineering students are listed", func() {
			So(resp.Text, ShouldContainSubstring, "**2**")
			So(resp.Text, ShouldContainSubstring, "Aliya Bekova")
			So(resp.Text, ShouldContainSubstring, "Dana Seitova")
		})

		Convey("And the action filters the dashboard by department", func() {
			So(resp.Action, ShouldNotBeNil)
			So(resp.Action.Type, ShouldEqual, assistant.ActionFilterDepartment)
			So(resp.Action.Payload, ShouldEqual, "Engineering")
		})

		Convey("When the department is empty", func() {
			resp := assistant.Respond(assistant.Intent{
				Kind: assistant.IntentDepartment, Department: "Arts",
			}, p)

			So(resp.Text, ShouldContainSubstring, "No students found")
			So(resp.Action, ShouldBeNil)
		})
	})
}

func TestRespondListTruncation(t *testing.T) {
	Convey("Given more matches than the display cap", t, func() {
		var students []model.Student
		for i := 0; i < 12; i++ {
			students = append(students, model.Student{
				FirstName: "Student", LastName: string(rune('A' + i)),
				Department: "Engineering", GPA: 2.0, Attendance: 50,
			})
		}
		p := &fakeProvider{students: students}

		Convey("When rendering the at-risk list", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentAtRisk}, p)

			Convey("Then it truncates at ten and counts the rest", func() {
				So(resp.Text, ShouldContainSubstring, "... and 2 more")
			})
		})

		Convey("When rendering a department list", func() {
			resp := assistant.Respond(assistant.Intent{
				Kind: assistant.IntentDepartment, Department: "Engineering",
			}, p)

			Convey("Then it truncates at eight", func() {
				So(resp.Text, ShouldContainSubstring, "... and 4 more")
			})
		})
	})
}

func TestRespondStudentTrend(t *testing.T) {
	Convey("Given a student trend query", t, func() {
		p := &fakeProvider{students: sampleStudents()}

		Convey("When the student is improving", func() {
			resp := assistant.Respond(assistant.Intent{
				Kind: assistant.IntentStudentTrend, Student: "aliya",
			}, p)

			So(resp.Text, ShouldContainSubstring, "Aliya Bekova")
			So(resp.Text, ShouldContainSubstring, "improving")
			So(resp.Action, ShouldBeNil)
		})

		Convey("When the student is declining", func() {
			resp := assistant.Respond(assistant.Intent{
				Kind: assistant.IntentStudentTrend, Student: "marat",
			}, p)

			So(resp.Text, ShouldContainSubstring, "decline")
		})

		Convey("When no student matches", func() {
			resp := assistant.Respond(assistant.Intent{
				Kind: assistant.IntentStudentTrend, Student: "zzz",
			}, p)

			So(resp.Text, ShouldContainSubstring, "No students found")
		})
	})
}

func TestRespondOtherIntents(t *testing.T) {
	Convey("Given the remaining intents", t, func() {
		p := &fakeProvider{students: sampleStudents()}

		Convey("When asking for a summary", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentSummary}, p)
			So(resp.Text, ShouldContainSubstring, "**3**")
			So(resp.Action, ShouldBeNil)
		})

		Convey("When asking for the highest GPA", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentHighestGPA}, p)
			So(resp.Text, ShouldContainSubstring, "Aliya Bekova")
			So(resp.Text, ShouldContainSubstring, "3.80")
		})

		Convey("When asking for placement-ready students", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentPlacementReady}, p)
			So(resp.Text, ShouldContainSubstring, "Aliya Bekova")
			So(resp.Action, ShouldNotBeNil)
			So(resp.Action.Type, ShouldEqual, assistant.ActionFilterTag)
			So(resp.Action.Payload, ShouldEqual, model.TagPlacementReady)
		})

		Convey("When comparing departments", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentDepartmentComparison}, p)
			So(resp.Text, ShouldContainSubstring, "Engineering")
			So(resp.Text, ShouldContainSubstring, "Business")
		})

		Convey("When asking for alerts", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentAlerts}, p)
			So(resp.Text, ShouldContainSubstring, "at risk")
			So(resp.Text, ShouldContainSubstring, "declining")
		})

		Convey("When the intent is unknown", func() {
			resp := assistant.Respond(assistant.Intent{Kind: assistant.IntentUnknown}, p)
			So(resp.Text, ShouldContainSubstring, "/summary")
			So(resp.Action, ShouldBeNil)
		})
	})
}

func TestRespondIdempotence(t *testing.T) {
	Convey("Given a fixed snapshot", t, func() {
		p := &fakeProvider{students: sampleStudents()}

		Convey("When responding twice with the same intent", func() {
			for _, kind := range []assistant.IntentKind{
				assistant.IntentSummary, assistant.IntentAtRisk,
				assistant.IntentHighestGPA, assistant.IntentDepartmentComparison,
			} {
				first := assistant.Respond(assistant.Intent{Kind: kind}, p)
				second := assistant.Respond(assistant.Intent{Kind: kind}, p)

				So(second.Text, ShouldEqual, first.Text)
				So(second.Action, ShouldResemble, first.Action)
			}
		})
	})
}

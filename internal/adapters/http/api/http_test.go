package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edash/edash/internal/adapters/http/api"
	repository "github.com/edash/edash/internal/adapters/repository"
	"github.com/edash/edash/internal/domain/activity"
	"github.com/edash/edash/internal/domain/assistant"
	"github.com/edash/edash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies implements api.Dependencies for handler tests.
type mockDependencies struct {
	students map[string]model.Student
	nextID   int
	askResp  assistant.Response
	entries  []activity.Entry
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{students: make(map[string]model.Student)}
}

func (m *mockDependencies) SaveStudent(_ context.Context, in model.Student) (model.Student, error) {
	if in.ID == "" {
		m.nextID++
		in.ID = fmt.Sprintf("s%d", m.nextID)
	}
	m.students[in.ID] = in
	return in, nil
}

func (m *mockDependencies) DeleteStudent(_ context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *mockDependencies) Student(_ context.Context, id string) (model.Student, error) {
	rec, ok := m.students[id]
	if !ok {
		return model.Student{}, repository.ErrNotFound
	}
	return rec, nil
}

func (m *mockDependencies) Students(_ context.Context) []model.Student {
	out := make([]model.Student, 0, len(m.students))
	for _, rec := range m.students {
		out = append(out, rec)
	}
	return out
}

func (m *mockDependencies) Ask(_ context.Context, _ string) assistant.Response {
	return m.askResp
}

func (m *mockDependencies) Stats(_ context.Context) model.Statistics {
	return model.Statistics{Total: len(m.students)}
}

func (m *mockDependencies) Activity(_ context.Context, limit int) []activity.Entry {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit]
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServerRegister(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("Then the health endpoint responds", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint responds with JSON", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats model.Statistics
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats.Total, ShouldEqual, 0)
		})
	})
}

func TestStudentsEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When creating a student with clean numeric fields", func() {
			body := `{"first_name":"Aliya","last_name":"Bekova","department":"Engineering","gpa":3.8,"attendance":92,"assignment_score":85,"year":2}`
			req := httptest.NewRequest("POST", "/students", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 201 with the saved record", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var rec model.Student
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.ID, ShouldNotBeEmpty)
				So(rec.GPA, ShouldEqual, 3.8)
				So(rec.Year, ShouldEqual, 2)
			})
		})

		Convey("When creating a student with messy numeric fields", func() {
			body := `{"first_name":"Marat","last_name":"Ospanov","department":"Business","gpa":"3.2","attendance":"87%","assignment_score":null,"year":"junk"}`
			req := httptest.NewRequest("POST", "/students", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the values coerce instead of failing", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var rec model.Student
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.GPA, ShouldEqual, 3.2)
				So(rec.Attendance, ShouldEqual, 87.0)
				So(rec.AssignmentScore, ShouldEqual, 0.0)
				So(rec.Year, ShouldEqual, 0)
			})
		})

		Convey("When creating a student without a first name", func() {
			body := `{"last_name":"Bekova","department":"Engineering"}`
			req := httptest.NewRequest("POST", "/students", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "first_name")
			})
		})

		Convey("When fetching an unknown student", func() {
			req := httptest.NewRequest("GET", "/students/missing", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When updating an existing student", func() {
			deps.students["s9"] = model.Student{ID: "s9", FirstName: "Dana", LastName: "Seitova", Department: "Engineering"}
			body := `{"first_name":"Dana","last_name":"Seitova","department":"Engineering","gpa":3.5}`
			req := httptest.NewRequest("PUT", "/students/s9", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it responds 200 and keeps the id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var rec model.Student
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.ID, ShouldEqual, "s9")
				So(rec.GPA, ShouldEqual, 3.5)
			})
		})

		Convey("When deleting students", func() {
			deps.students["s5"] = model.Student{ID: "s5"}

			req := httptest.NewRequest("DELETE", "/students/s5", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			req = httptest.NewRequest("DELETE", "/students/s5", nil)
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using an unsupported method on the collection", func() {
			req := httptest.NewRequest("PATCH", "/students", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAssistantEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDependencies()
		deps.askResp = assistant.Response{
			Text:   "1 student needs attention",
			Action: &assistant.Action{Type: assistant.ActionFilterAtRisk, Payload: "Needs Attention"},
		}
		mux := newTestMux(deps)

		Convey("When posting a query", func() {
			req := httptest.NewRequest("POST", "/assistant", strings.NewReader(`{"text":"who is at risk?"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the response carries text and action", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp assistant.Response
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Text, ShouldContainSubstring, "needs attention")
				So(resp.Action, ShouldNotBeNil)
				So(resp.Action.Type, ShouldEqual, assistant.ActionFilterAtRisk)
			})
		})

		Convey("When posting an empty query", func() {
			req := httptest.NewRequest("POST", "/assistant", strings.NewReader(`{"text":"  "}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest("POST", "/assistant", strings.NewReader(`{`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using GET on the assistant", func() {
			req := httptest.NewRequest("GET", "/assistant", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestActivityEndpoint(t *testing.T) {
	Convey("Given a server with some activity", t, func() {
		deps := newMockDependencies()
		deps.entries = []activity.Entry{
			{Kind: activity.KindQueryAsked, Message: "Assistant answered a summary query"},
			{Kind: activity.KindStudentCreated, Message: "Registered Aliya Bekova (score 63.60)", StudentID: "s1"},
		}
		mux := newTestMux(deps)

		Convey("When fetching with a valid limit", func() {
			req := httptest.NewRequest("GET", "/activity?limit=1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then only that many entries return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var entries []activity.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Kind, ShouldEqual, activity.KindQueryAsked)
			})
		})

		Convey("When fetching without a limit", func() {
			req := httptest.NewRequest("GET", "/activity", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then all entries return", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var entries []activity.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"limit=0", "limit=-3", "limit=abc", "limit=101"} {
				req := httptest.NewRequest("GET", "/activity?"+q, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}
